package application

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// MaxReviewCommentRunes bounds review comments.
const MaxReviewCommentRunes = 2000

// reviewService implements ReviewCommands.
type reviewService struct {
	listings ListingRepository
	reviews  ReviewRepository
	hook     ReviewHook
	now      func() time.Time
}

// NewReviewService creates the review command service. hook may be nil.
func NewReviewService(listings ListingRepository, reviews ReviewRepository, hook ReviewHook) ReviewCommands {
	return &reviewService{
		listings: listings,
		reviews:  reviews,
		hook:     hook,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates and stores a review, then calls the post-write hook.
func (s *reviewService) Submit(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error) {
	rating, comment, err := normalizeReview(cmd)
	if err != nil {
		return nil, err
	}

	listing, err := s.approved(ctx, cmd.Subject.Kind, cmd.Subject.ID)
	if err != nil {
		return nil, err
	}

	owner := listing
	if listing.Kind == domain.KindService {
		if owner, err = s.approved(ctx, domain.KindProvider, listing.ProviderID); err != nil {
			return nil, err
		}
	}
	if owner.OwnerID != "" && owner.OwnerID == cmd.ReviewerID {
		return nil, domain.Invalid("reviewer", "providers cannot review their own listings")
	}

	review := &domain.Review{
		Subject:      listing.Subject(),
		ProviderID:   owner.ID,
		ReviewerID:   cmd.ReviewerID,
		ReviewerName: strings.TrimSpace(cmd.ReviewerName),
		Rating:       rating,
		Comment:      comment,
		CreatedAt:    s.now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, domain.Upstream("create review", err)
	}

	if s.hook != nil {
		s.hook.ReviewCreated(ctx, ReviewCreatedEvent{Listing: *listing, Provider: *owner, Review: *review})
	}
	return review, nil
}

// approved loads a listing and hides it unless it is approved.
func (s *reviewService) approved(ctx context.Context, kind domain.ListingKind, id string) (*domain.Listing, error) {
	listing, err := s.listings.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.Upstream("find "+string(kind)+" "+id, err)
	}
	if listing.Status != domain.StatusApproved {
		return nil, domain.ErrNotFound
	}
	return listing, nil
}

func normalizeReview(cmd SubmitReviewCommand) (int, string, error) {
	if !cmd.Subject.Kind.Valid() {
		return 0, "", domain.Invalid("kind", "unknown listing kind %q", cmd.Subject.Kind)
	}
	if strings.TrimSpace(cmd.Subject.ID) == "" {
		return 0, "", domain.Invalid("id", "is required")
	}
	if strings.TrimSpace(cmd.ReviewerID) == "" {
		return 0, "", domain.Invalid("reviewer", "is required")
	}
	if math.IsNaN(cmd.Rating) || cmd.Rating < domain.MinRating || cmd.Rating > domain.MaxRating {
		return 0, "", domain.Invalid("rating", "must be between %d and %d", domain.MinRating, domain.MaxRating)
	}
	comment := strings.TrimSpace(cmd.Comment)
	if utf8.RuneCountInString(comment) > MaxReviewCommentRunes {
		return 0, "", domain.Invalid("comment", "must be at most %d characters", MaxReviewCommentRunes)
	}
	return int(math.Round(cmd.Rating)), comment, nil
}
