package common

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Warn("encode JSON response", zap.Error(err))
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// WriteError writes an ErrorResponse.
func WriteError(logger *zap.Logger, w http.ResponseWriter, status int, message string) {
	WriteJSON(logger, w, status, ErrorResponse{Error: message})
}
