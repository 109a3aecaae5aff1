package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	adminapp "github.com/Rhey-Ranido/service-hub-sub001/internal/admin/application"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/config"
	mongodoc "github.com/Rhey-Ranido/service-hub-sub001/internal/infrastructure/mongo"
	adminhttp "github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/admin"
	commonhttp "github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/common"
	publichttp "github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/public"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/metrics"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/notify"
	publicapp "github.com/Rhey-Ranido/service-hub-sub001/internal/public/application"
)

const (
	shutdownTimeout = 10 * time.Second
	indexTimeout    = 30 * time.Second
)

var (
	_ publicapp.ListingRepository   = (*mongodoc.ListingRepository)(nil)
	_ publicapp.ReviewRepository    = (*mongodoc.ReviewRepository)(nil)
	_ adminapp.ModerationRepository = (*mongodoc.ModerationRepository)(nil)
	_ notify.FailureStore           = (*mongodoc.FailedNotificationRepository)(nil)
)

// Server is the composition root: it owns the HTTP lifecycle and wires
// repositories, application services and handlers together.
type Server struct {
	logger         *zap.Logger
	client         *mongo.Client
	database       *mongo.Database
	collections    mongodoc.Collections
	pinger         pinger
	location       *time.Location
	auth           *authenticator
	public         *publichttp.Handler
	admin          *adminhttp.Handler
	notifier       *notify.Notifier
	addr           string
	allowedOrigins []string
}

// New builds a Server from cfg and a connected Mongo client.
func New(cfg config.Config, client *mongo.Client, logger *zap.Logger) (*Server, error) {
	if client == nil {
		return nil, errors.New("mongo client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("load timezone, falling back to UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}

	database := client.Database(cfg.MongoDatabase)
	collections := mongodoc.Collections{
		Providers:           cfg.Collections.Providers,
		Services:            cfg.Collections.Services,
		Reviews:             cfg.Collections.Reviews,
		FailedNotifications: cfg.Collections.FailedNotifications,
	}

	listingRepo := mongodoc.NewListingRepository(database, collections.Providers, collections.Services)
	reviewRepo := mongodoc.NewReviewRepository(database, collections.Reviews)
	moderationRepo := mongodoc.NewModerationRepository(database, collections.Providers, collections.Services)
	failedRepo := mongodoc.NewFailedNotificationRepository(database, collections.FailedNotifications)

	notifier := notify.New(notify.Config{
		Endpoint:    cfg.MessengerEndpoint,
		Destination: cfg.MessengerDestination,
		Timeout:     cfg.MessengerTimeout,
	}, nil, failedRepo, logger)
	if !notifier.Enabled() {
		logger.Info("messenger gateway not configured, review notifications disabled")
	}

	discovery := publicapp.NewDiscoveryService(listingRepo, reviewRepo, logger.Named("discovery"), publicapp.DiscoveryConfig{
		MaxPageSize:            cfg.DiscoveryMaxPageSize,
		AggregationConcurrency: cfg.AggregationConcurrency,
	})
	reviews := publicapp.NewReviewService(listingRepo, reviewRepo, notifier)
	moderation := adminapp.NewModerationService(moderationRepo, logger.Named("moderation"))

	errs := commonhttp.NewErrorWriter(logger, !cfg.Production())

	return &Server{
		logger:      logger,
		client:      client,
		database:    database,
		collections: collections,
		pinger:      client,
		location:    loc,
		auth:        newAuthenticator(cfg.JWTConfigs, cfg.JWTAudience, logger),
		public: publichttp.NewHandler(publichttp.Config{
			Logger:         logger.Named("public"),
			Discovery:      discovery,
			Reviews:        reviews,
			Errors:         errs,
			MediaBaseURL:   cfg.MediaBaseURL,
			RequestTimeout: cfg.RequestTimeout,
		}),
		admin: adminhttp.NewHandler(adminhttp.Config{
			Logger:     logger.Named("admin"),
			Moderation: moderation,
			Errors:     errs,
		}),
		notifier:       notifier,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}, nil
}

// Run ensures indexes, serves HTTP and blocks until the listener fails or the
// process receives SIGINT/SIGTERM.
func (s *Server) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	err := mongodoc.EnsureIndexes(ctx, s.database, s.collections)
	cancel()
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return s.waitForShutdown(httpServer, errChan)
}

// routes assembles the router with middleware, public and admin handlers.
func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware())
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", s.healthHandler())
	router.Handle("/metrics", promhttp.Handler())

	s.public.Register(router, s.auth.middleware)
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.auth.middleware)
		r.Use(adminhttp.RequireAdmin)
		s.admin.Register(r)
	})

	return router
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// shutdown drains pending notifications and disconnects MongoDB.
func (s *Server) shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.notifier.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("pending review notifications abandoned at shutdown")
	}

	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Error("disconnect mongo", zap.Error(err))
	}
}

// waitForShutdown watches ListenAndServe and OS signals for a graceful stop.
func (s *Server) waitForShutdown(httpServer *http.Server, errChan <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigChan:
		s.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("http server shutdown", zap.Error(err))
		}
		cancel()
	}

	s.shutdown(context.Background())
	return runErr
}
