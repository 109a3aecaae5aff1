package domain

// RankedResult is a listing enriched for one discovery request.
type RankedResult struct {
	Listing    Listing
	Rating     Rating
	DistanceKm *float64
	Score      float64
	Provider   *ProviderSummary
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	TotalItems  int
	HasNextPage bool
	HasPrevPage bool
}
