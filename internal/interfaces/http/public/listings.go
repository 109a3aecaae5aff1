package public

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/interfaces/http/common"
	publicapp "github.com/Rhey-Ranido/service-hub-sub001/internal/public/application"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

func (h *Handler) listHandler(kind domain.ListingKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := domain.NewSearchQuery(searchParamsFromRequest(r))
		if err != nil {
			h.errors.Write(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		page, err := h.discovery.Discover(ctx, kind, query)
		if err != nil {
			h.errors.Write(w, err)
			return
		}

		items := make([]listingResponse, 0, len(page.Items))
		for _, result := range page.Items {
			items = append(items, h.buildListingResponse(result))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			collectionKey(kind): items,
			"pagination":        buildPaginationResponse(page.CurrentPage, page.TotalPages, page.TotalItems, page.HasNextPage, page.HasPrevPage),
		})
	}
}

func (h *Handler) topRatedHandler(kind domain.ListingKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		results, err := h.discovery.TopRated(ctx, kind, publicapp.TopRatedLimit)
		if err != nil {
			h.errors.Write(w, err)
			return
		}

		items := make([]listingResponse, 0, len(results))
		for _, result := range results {
			items = append(items, h.buildListingResponse(result))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{collectionKey(kind): items})
	}
}

func (h *Handler) detailHandler(kind domain.ListingKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		values := r.URL.Query()
		// only the origin is read from the query; other discovery parameters are ignored
		query, err := domain.NewSearchQuery(domain.SearchParams{Lat: values.Get("lat"), Lng: values.Get("lng")})
		if err != nil {
			h.errors.Write(w, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		result, err := h.discovery.Detail(ctx, kind, id, query.Origin)
		if err != nil {
			h.errors.Write(w, err)
			return
		}
		h.logger.Debug("listing detail", zap.String("kind", string(kind)), zap.String("id", id))
		common.WriteJSON(h.logger, w, http.StatusOK, h.buildListingResponse(result))
	}
}

func searchParamsFromRequest(r *http.Request) domain.SearchParams {
	q := r.URL.Query()
	text := q.Get("search")
	if text == "" {
		text = q.Get("q")
	}
	return domain.SearchParams{
		Text:      text,
		Category:  q.Get("category"),
		MinPrice:  q.Get("minPrice"),
		MaxPrice:  q.Get("maxPrice"),
		Lat:       q.Get("lat"),
		Lng:       q.Get("lng"),
		Radius:    q.Get("radius"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      q.Get("page"),
		Limit:     q.Get("limit"),
	}
}
