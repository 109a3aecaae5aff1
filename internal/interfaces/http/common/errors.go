package common

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

const internalErrorMessage = "internal server error"

type errorHandler func(w http.ResponseWriter, err error) bool

// ErrorWriter maps domain errors onto HTTP responses.
type ErrorWriter struct {
	logger         *zap.Logger
	exposeInternal bool
	handlers       []errorHandler
}

// NewErrorWriter creates an ErrorWriter. Unless exposeInternal is set, 500
// responses carry a generic message.
func NewErrorWriter(logger *zap.Logger, exposeInternal bool) *ErrorWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &ErrorWriter{logger: logger, exposeInternal: exposeInternal}
	e.handlers = []errorHandler{
		e.validationHandler,
		e.sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		e.sentinelHandler(domain.ErrDuplicateReview, http.StatusConflict),
		e.sentinelHandler(domain.ErrInvalidTransition, http.StatusBadRequest),
	}
	return e
}

// Write responds with the status matching err.
func (e *ErrorWriter) Write(w http.ResponseWriter, err error) {
	for _, h := range e.handlers {
		if h(w, err) {
			return
		}
	}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		e.logger.Error("upstream failure", zap.String("op", upstream.Op), zap.Error(upstream.Err))
	} else {
		e.logger.Error("internal error", zap.Error(err))
	}

	msg := internalErrorMessage
	if e.exposeInternal {
		msg = err.Error()
	}
	WriteError(e.logger, w, http.StatusInternalServerError, msg)
}

func (e *ErrorWriter) validationHandler(w http.ResponseWriter, err error) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	WriteJSON(e.logger, w, http.StatusBadRequest, ErrorResponse{Error: ve.Error(), Field: ve.Field})
	return true
}

func (e *ErrorWriter) sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if status == http.StatusBadRequest {
			msg = err.Error()
		}
		WriteError(e.logger, w, status, msg)
		return true
	}
}
