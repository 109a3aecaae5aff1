package server

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	commonhttp "github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/common"
)

type pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.pinger.Ping(ctx, readpref.Primary()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().In(s.location).Format(time.RFC3339),
		})
	}
}
