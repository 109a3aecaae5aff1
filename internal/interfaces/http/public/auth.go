package public

import (
	"net/http"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/common"
)

func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusUnauthorized, "authentication required")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   user,
		})
	}
}
