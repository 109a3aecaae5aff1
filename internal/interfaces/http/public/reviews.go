package public

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/common"
	publicapp "github.com/Rhey-Ranido/service-hub-sub001/internal/public/application"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

func (h *Handler) reviewListHandler(kind domain.ListingKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		values := r.URL.Query()
		query, err := domain.NewSearchQuery(domain.SearchParams{Page: values.Get("page"), Limit: values.Get("limit")})
		if err != nil {
			h.errors.Write(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		page, err := h.discovery.Reviews(ctx, kind, id, query.Page, query.PageSize)
		if err != nil {
			h.errors.Write(w, err)
			return
		}

		items := make([]reviewResponse, 0, len(page.Items))
		for _, review := range page.Items {
			items = append(items, buildReviewResponse(review))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, reviewListResponse{
			Reviews:    items,
			Pagination: buildPaginationResponse(page.CurrentPage, page.TotalPages, page.TotalItems, page.HasNextPage, page.HasPrevPage),
		})
	}
}

func (h *Handler) reviewCreateHandler(kind domain.ListingKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req createReviewRequest
		r.Body = http.MaxBytesReader(w, r.Body, common.MaxRequestBody)
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.WriteError(h.logger, w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			common.WriteError(h.logger, w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Rating == nil {
			h.errors.Write(w, domain.Invalid("rating", "is required"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		review, err := h.reviews.Submit(ctx, publicapp.SubmitReviewCommand{
			Subject:      domain.Subject{Kind: kind, ID: strings.TrimSpace(chi.URLParam(r, "id"))},
			ReviewerID:   user.ID,
			ReviewerName: user.DisplayName(),
			Rating:       *req.Rating,
			Comment:      req.Comment,
		})
		if err != nil {
			h.errors.Write(w, err)
			return
		}

		h.logger.Info("review created",
			zap.String("review_id", review.ID),
			zap.String("kind", string(kind)),
			zap.String("subject_id", review.Subject.ID),
			zap.Int("rating", review.Rating),
		)
		common.WriteJSON(h.logger, w, http.StatusCreated, buildReviewResponse(*review))
	}
}
