package application

import (
	"context"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// ListingRepository is the store collaborator for services and providers.
type ListingRepository interface {
	// FindApproved returns listings of kind that satisfy the non-geo part of filter.
	FindApproved(ctx context.Context, kind domain.ListingKind, filter domain.Filter) ([]domain.Listing, error)
	// FindByID returns domain.ErrNotFound when the listing does not exist.
	FindByID(ctx context.Context, kind domain.ListingKind, id string) (*domain.Listing, error)
	FindByIDs(ctx context.Context, kind domain.ListingKind, ids []string) ([]domain.Listing, error)
	IncrementView(ctx context.Context, kind domain.ListingKind, id string) error
}

// ReviewRepository is the review store collaborator.
type ReviewRepository interface {
	FindBySubject(ctx context.Context, subject domain.Subject) ([]domain.Review, error)
	// Create returns domain.ErrDuplicateReview when the reviewer already reviewed the subject.
	Create(ctx context.Context, review *domain.Review) error
}

// ReviewHook runs after a review has been stored. Implementations must not fail
// the write; they handle their own errors.
type ReviewHook interface {
	ReviewCreated(ctx context.Context, event ReviewCreatedEvent)
}

// ReviewCreatedEvent describes a stored review. Provider equals Listing for
// provider reviews.
type ReviewCreatedEvent struct {
	Listing  domain.Listing
	Provider domain.Listing
	Review   domain.Review
}

// DiscoveryQueries describes the read use-cases of the discovery engine.
type DiscoveryQueries interface {
	Discover(ctx context.Context, kind domain.ListingKind, query domain.SearchQuery) (domain.Page[domain.RankedResult], error)
	Detail(ctx context.Context, kind domain.ListingKind, id string, origin *domain.Location) (domain.RankedResult, error)
	TopRated(ctx context.Context, kind domain.ListingKind, limit int) ([]domain.RankedResult, error)
	Reviews(ctx context.Context, kind domain.ListingKind, id string, page, pageSize int) (domain.Page[domain.Review], error)
}

// ReviewCommands describes review write use-cases.
type ReviewCommands interface {
	Submit(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error)
}

// SubmitReviewCommand captures an authenticated review submission.
type SubmitReviewCommand struct {
	Subject      domain.Subject
	ReviewerID   string
	ReviewerName string
	Rating       float64
	Comment      string
}
