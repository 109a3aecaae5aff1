package application

import (
	"math"
	"sort"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// WeightedScore damps the average by the log-scaled review count so that a single
// 5-star review does not outrank dozens of 4.8-star reviews.
func WeightedScore(r domain.Rating) float64 {
	return r.Average * math.Log10(float64(r.Count)+1)
}

// Rank orders enriched candidates by the query's sort key. The returned slice is a
// sorted copy; every key falls back to id ascending so the order is total.
func Rank(candidates []domain.RankedResult, query domain.SearchQuery) []domain.RankedResult {
	ranked := make([]domain.RankedResult, len(candidates))
	copy(ranked, candidates)

	key := query.Sort
	if key == "" {
		key = domain.SortRating
	}
	order := query.Order
	if order == "" || key == domain.SortWeightedScore {
		order = key.DefaultOrder()
	}

	for i := range ranked {
		ranked[i].Score = score(ranked[i], key)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j], key, order)
	})
	return ranked
}

func score(r domain.RankedResult, key domain.SortKey) float64 {
	switch key {
	case domain.SortDistance:
		if r.DistanceKm == nil {
			return math.Inf(1)
		}
		return *r.DistanceKm
	case domain.SortCreatedAt:
		return float64(r.Listing.CreatedAt.Unix())
	case domain.SortWeightedScore:
		return WeightedScore(r.Rating)
	default:
		return r.Rating.Average
	}
}

func less(a, b domain.RankedResult, key domain.SortKey, order domain.SortOrder) bool {
	switch key {
	case domain.SortDistance:
		// listings without a location sort last in either direction
		if (a.DistanceKm == nil) != (b.DistanceKm == nil) {
			return b.DistanceKm == nil
		}
		if a.DistanceKm != nil && *a.DistanceKm != *b.DistanceKm {
			return directed(*a.DistanceKm < *b.DistanceKm, order)
		}
	case domain.SortCreatedAt:
		if !a.Listing.CreatedAt.Equal(b.Listing.CreatedAt) {
			return directed(a.Listing.CreatedAt.Before(b.Listing.CreatedAt), order)
		}
	case domain.SortWeightedScore:
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Rating.Count != b.Rating.Count {
			return a.Rating.Count > b.Rating.Count
		}
		if !a.Listing.CreatedAt.Equal(b.Listing.CreatedAt) {
			return a.Listing.CreatedAt.After(b.Listing.CreatedAt)
		}
	default:
		if a.Rating.Average != b.Rating.Average {
			return directed(a.Rating.Average < b.Rating.Average, order)
		}
	}
	return a.Listing.ID < b.Listing.ID
}

// directed turns an ascending comparison into the requested direction.
func directed(ascLess bool, order domain.SortOrder) bool {
	if order == domain.OrderDesc {
		return !ascLess
	}
	return ascLess
}
