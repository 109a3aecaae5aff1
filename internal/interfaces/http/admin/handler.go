package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminapp "github.com/Rhey-Ranido/service-hub-sub001/internal/admin/application"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/common"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger     *zap.Logger
	moderation adminapp.ModerationService
	errors     *common.ErrorWriter
}

// Config provides dependencies for Handler.
type Config struct {
	Logger     *zap.Logger
	Moderation adminapp.ModerationService
	Errors     *common.ErrorWriter
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	errs := cfg.Errors
	if errs == nil {
		errs = common.NewErrorWriter(logger, false)
	}
	return &Handler{logger: logger, moderation: cfg.Moderation, errors: errs}
}

// Register mounts admin routes onto router. Callers must guard the router with
// RequireAdmin after authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/providers", h.listHandler(domain.KindProvider))
	r.Get("/services", h.listHandler(domain.KindService))
	r.Patch("/providers/{id}/status", h.statusHandler(domain.KindProvider))
	r.Patch("/services/{id}/status", h.statusHandler(domain.KindService))
}

// RequireAdmin rejects requests whose authenticated user lacks the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(nil, w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsAdmin() {
			common.WriteError(nil, w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
