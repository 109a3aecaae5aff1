package public

import (
	"time"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/geo"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/common"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

type locationResponse struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Geohash   string  `json:"geohash"`
}

type priceResponse struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit,omitempty"`
}

type ratingResponse struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type providerSummaryResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Location   *locationResponse `json:"location"`
	Rating     ratingResponse    `json:"rating"`
	IsVerified bool              `json:"isVerified"`
}

type listingResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
	Category    string                   `json:"category,omitempty"`
	Tags        []string                 `json:"tags,omitempty"`
	Price       *priceResponse           `json:"price,omitempty"`
	Location    *locationResponse        `json:"location,omitempty"`
	Address     string                   `json:"address,omitempty"`
	Images      []string                 `json:"images,omitempty"`
	Rating      ratingResponse           `json:"rating"`
	Distance    *float64                 `json:"distance,omitempty"`
	IsVerified  *bool                    `json:"isVerified,omitempty"`
	Views       int64                    `json:"views"`
	Provider    *providerSummaryResponse `json:"provider,omitempty"`
	CreatedAt   string                   `json:"createdAt,omitempty"`
}

type paginationResponse struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type reviewResponse struct {
	ID           string `json:"id"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	ReviewerName string `json:"reviewerName,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

type reviewListResponse struct {
	Reviews    []reviewResponse   `json:"reviews"`
	Pagination paginationResponse `json:"pagination"`
}

type createReviewRequest struct {
	Rating  *float64 `json:"rating"`
	Comment string   `json:"comment"`
}

func (h *Handler) buildListingResponse(result domain.RankedResult) listingResponse {
	l := result.Listing
	resp := listingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Category:    l.Category,
		Tags:        l.Tags,
		Location:    buildLocationResponse(l.Location),
		Address:     l.Address,
		Images:      common.ResolveMediaURLs(h.mediaBaseURL, l.ImageURLs),
		Rating:      buildRatingResponse(result.Rating),
		Distance:    result.DistanceKm,
		Views:       l.Views,
		CreatedAt:   formatTime(l.CreatedAt),
	}
	if len(resp.Images) == 0 {
		resp.Images = nil
	}
	switch l.Kind {
	case domain.KindService:
		resp.Price = &priceResponse{Amount: l.Price.Amount, Unit: l.Price.Unit}
	case domain.KindProvider:
		verified := l.IsVerified
		resp.IsVerified = &verified
	}
	if p := result.Provider; p != nil {
		resp.Provider = &providerSummaryResponse{
			ID:         p.ID,
			Name:       p.Name,
			Location:   buildLocationResponse(p.Location),
			Rating:     buildRatingResponse(p.Rating),
			IsVerified: p.IsVerified,
		}
	}
	return resp
}

func buildLocationResponse(loc *domain.Location) *locationResponse {
	if loc == nil {
		return nil
	}
	return &locationResponse{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Geohash:   geo.Cell(loc.Latitude, loc.Longitude),
	}
}

func buildRatingResponse(r domain.Rating) ratingResponse {
	return ratingResponse{Average: common.Round1(r.Average), Count: r.Count}
}

func buildPaginationResponse(current, totalPages, totalItems int, hasNext, hasPrev bool) paginationResponse {
	return paginationResponse{
		CurrentPage: current,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNextPage: hasNext,
		HasPrevPage: hasPrev,
	}
}

func buildReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:           r.ID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		ReviewerName: r.ReviewerName,
		CreatedAt:    formatTime(r.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
