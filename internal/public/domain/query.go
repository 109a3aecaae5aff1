package domain

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/geo"
)

const (
	// DefaultPageSize applies when the request omits a page size.
	DefaultPageSize = 10
	// MaxPageSize bounds every page returned by discovery.
	MaxPageSize = 100
	// AllCategories is the category sentinel that disables category filtering.
	AllCategories = "all"
)

// SortKey selects the primary ranking criterion.
type SortKey string

const (
	SortRating        SortKey = "rating.average"
	SortDistance      SortKey = "distance"
	SortCreatedAt     SortKey = "createdAt"
	SortWeightedScore SortKey = "weightedScore"
)

// SortOrder is the direction of the primary sort key.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// DefaultOrder returns the natural direction of the key.
func (k SortKey) DefaultOrder() SortOrder {
	if k == SortDistance {
		return OrderAsc
	}
	return OrderDesc
}

func parseSortKey(raw string) (SortKey, bool) {
	switch raw {
	case "":
		return SortRating, true
	case string(SortRating), "rating":
		return SortRating, true
	case string(SortDistance):
		return SortDistance, true
	case string(SortCreatedAt), "newest":
		return SortCreatedAt, true
	case string(SortWeightedScore), "topRated":
		return SortWeightedScore, true
	}
	return "", false
}

// SearchParams carries raw, untrusted discovery parameters.
type SearchParams struct {
	Text      string
	Category  string
	MinPrice  string
	MaxPrice  string
	Lat       string
	Lng       string
	Radius    string
	SortBy    string
	SortOrder string
	Page      string
	Limit     string
}

// SearchQuery is a validated discovery request.
type SearchQuery struct {
	Text     string
	Category string
	PriceMin *float64
	PriceMax *float64
	Origin   *Location
	RadiusKm *float64
	Sort     SortKey
	Order    SortOrder
	Page     int
	PageSize int
}

// NewSearchQuery validates p and builds a SearchQuery.
// It returns a *ValidationError for the first offending field.
func NewSearchQuery(p SearchParams) (SearchQuery, error) {
	q := SearchQuery{
		Text:     strings.TrimSpace(p.Text),
		Category: strings.TrimSpace(p.Category),
		Page:     1,
		PageSize: DefaultPageSize,
	}
	if strings.EqualFold(q.Category, AllCategories) {
		q.Category = ""
	}

	var err error
	if q.PriceMin, err = parseOptionalFloat("minPrice", p.MinPrice); err != nil {
		return SearchQuery{}, err
	}
	if q.PriceMax, err = parseOptionalFloat("maxPrice", p.MaxPrice); err != nil {
		return SearchQuery{}, err
	}
	if q.PriceMin != nil && *q.PriceMin < 0 {
		return SearchQuery{}, Invalid("minPrice", "must not be negative")
	}
	if q.PriceMax != nil && *q.PriceMax < 0 {
		return SearchQuery{}, Invalid("maxPrice", "must not be negative")
	}
	if q.PriceMin != nil && q.PriceMax != nil && *q.PriceMin > *q.PriceMax {
		return SearchQuery{}, Invalid("minPrice", "must not exceed maxPrice")
	}

	lat, err := parseOptionalFloat("lat", p.Lat)
	if err != nil {
		return SearchQuery{}, err
	}
	lng, err := parseOptionalFloat("lng", p.Lng)
	if err != nil {
		return SearchQuery{}, err
	}
	switch {
	case lat != nil && lng != nil:
		if !geo.ValidCoordinates(*lat, *lng) {
			return SearchQuery{}, Invalid("lat", "coordinates out of range")
		}
		q.Origin = &Location{Latitude: *lat, Longitude: *lng}
	case lat != nil || lng != nil:
		return SearchQuery{}, Invalid("lat", "lat and lng must be provided together")
	}

	if q.RadiusKm, err = parseOptionalFloat("radius", p.Radius); err != nil {
		return SearchQuery{}, err
	}
	if q.RadiusKm != nil && *q.RadiusKm <= 0 {
		return SearchQuery{}, Invalid("radius", "must be greater than zero")
	}

	key, ok := parseSortKey(strings.TrimSpace(p.SortBy))
	if !ok {
		return SearchQuery{}, Invalid("sortBy", "unsupported sort key %q", p.SortBy)
	}
	q.Sort = key
	if key == SortDistance && q.Origin == nil {
		return SearchQuery{}, Invalid("sortBy", "distance sort requires lat and lng")
	}

	switch order := SortOrder(strings.ToLower(strings.TrimSpace(p.SortOrder))); order {
	case "":
		q.Order = key.DefaultOrder()
	case OrderAsc, OrderDesc:
		q.Order = order
	default:
		return SearchQuery{}, Invalid("sortOrder", "must be asc or desc")
	}
	if key == SortWeightedScore && q.Order != OrderDesc {
		return SearchQuery{}, Invalid("sortOrder", "weightedScore supports only desc")
	}

	if q.Page, err = parsePositiveInt("page", p.Page, 1); err != nil {
		return SearchQuery{}, err
	}
	if q.PageSize, err = parsePositiveInt("limit", p.Limit, DefaultPageSize); err != nil {
		return SearchQuery{}, err
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}

	return q, nil
}

// RadiusFilter reports whether results are restricted to a circle around Origin.
func (q SearchQuery) RadiusFilter() bool {
	return q.Origin != nil && q.RadiusKm != nil
}

func parseOptionalFloat(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, Invalid(field, "must be a number")
	}
	return &v, nil
}

func parsePositiveInt(field, raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, Invalid(field, "must be an integer")
	}
	if v <= 0 {
		return 0, Invalid(field, "must be greater than zero")
	}
	return v, nil
}
