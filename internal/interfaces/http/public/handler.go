package public

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/common"
	publicapp "github.com/Rhey-Ranido/service-hub-sub001/internal/public/application"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

const defaultRequestTimeout = 5 * time.Second

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger       *zap.Logger
	discovery    publicapp.DiscoveryQueries
	reviews      publicapp.ReviewCommands
	errors       *common.ErrorWriter
	mediaBaseURL string
	timeout      time.Duration
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         *zap.Logger
	Discovery      publicapp.DiscoveryQueries
	Reviews        publicapp.ReviewCommands
	Errors         *common.ErrorWriter
	MediaBaseURL   string
	RequestTimeout time.Duration
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	errs := cfg.Errors
	if errs == nil {
		errs = common.NewErrorWriter(logger, false)
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Handler{
		logger:       logger,
		discovery:    cfg.Discovery,
		reviews:      cfg.Reviews,
		errors:       errs,
		mediaBaseURL: cfg.MediaBaseURL,
		timeout:      timeout,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	for _, kind := range []domain.ListingKind{domain.KindService, domain.KindProvider} {
		base := "/" + collectionKey(kind)
		r.Get(base, h.listHandler(kind))
		r.Get(base+"/top-rated", h.topRatedHandler(kind))
		r.Get(base+"/{id}", h.detailHandler(kind))
		r.Get(base+"/{id}/reviews", h.reviewListHandler(kind))
		r.With(authMiddleware).Post(base+"/{id}/reviews", h.reviewCreateHandler(kind))
	}
	r.With(authMiddleware).Get("/auth/verify", h.authVerifyHandler())
}

// collectionKey is both the route prefix and the list payload key of kind.
func collectionKey(kind domain.ListingKind) string {
	return string(kind) + "s"
}
