package admin

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	admindomain "github.com/Rhey-Ranido/service-hub-sub001/internal/admin/domain"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/common"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

type moderationListingResponse struct {
	ID                 string   `json:"id"`
	Kind               string   `json:"kind"`
	Title              string   `json:"title"`
	ProviderID         string   `json:"providerId,omitempty"`
	OwnerID            string   `json:"ownerId,omitempty"`
	Status             string   `json:"status"`
	AllowedTransitions []string `json:"allowedTransitions"`
	CreatedAt          string   `json:"createdAt,omitempty"`
	UpdatedAt          string   `json:"updatedAt,omitempty"`
}

type moderationListResponse struct {
	Items       []moderationListingResponse `json:"items"`
	CurrentPage int                         `json:"currentPage"`
	TotalPages  int                         `json:"totalPages"`
	TotalItems  int                         `json:"totalItems"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) listHandler(kind domain.ListingKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 0)

		result, err := h.moderation.List(r.Context(), kind, query.Get("status"), page, limit)
		if err != nil {
			h.errors.Write(w, err)
			return
		}

		items := make([]moderationListingResponse, 0, len(result.Items))
		for _, l := range result.Items {
			items = append(items, toModerationResponse(l))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, moderationListResponse{
			Items:       items,
			CurrentPage: result.CurrentPage,
			TotalPages:  result.TotalPages,
			TotalItems:  result.TotalItems,
		})
	}
}

func (h *Handler) statusHandler(kind domain.ListingKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		r.Body = http.MaxBytesReader(w, r.Body, common.MaxRequestBody)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "invalid request body")
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		listing, err := h.moderation.ChangeStatus(r.Context(), kind, id, req.Status)
		if err != nil {
			h.errors.Write(w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toModerationResponse(*listing))
	}
}

func toModerationResponse(l admindomain.Listing) moderationListingResponse {
	next := admindomain.AllowedTransitions(l.Status)
	allowed := make([]string, 0, len(next))
	for _, s := range next {
		allowed = append(allowed, string(s))
	}
	return moderationListingResponse{
		ID:                 l.ID,
		Kind:               string(l.Kind),
		Title:              l.Title,
		ProviderID:         l.ProviderID,
		OwnerID:            l.OwnerID,
		Status:             string(l.Status),
		AllowedTransitions: allowed,
		CreatedAt:          formatTime(l.CreatedAt),
		UpdatedAt:          formatTime(l.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
