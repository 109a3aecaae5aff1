package domain

import "time"

// Subject is the target of a review. Provider subjects aggregate every review
// whose ProviderID matches, including reviews left on the provider's services.
type Subject struct {
	Kind ListingKind
	ID   string
}

// Review is a single client rating of a service or provider.
type Review struct {
	ID           string
	Subject      Subject
	ProviderID   string
	ReviewerID   string
	ReviewerName string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

// MinRating and MaxRating bound Review.Rating.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is the read-time aggregate of a subject's reviews.
// A subject without reviews has Average 0 and Count 0.
type Rating struct {
	Average float64
	Count   int
}
