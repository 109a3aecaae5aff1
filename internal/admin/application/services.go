package application

import (
	"context"
	"time"

	admindomain "github.com/Rhey-Ranido/service-hub-sub001/internal/admin/domain"
	publicdomain "github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// ModerationRepository exposes admin access to listings regardless of status.
type ModerationRepository interface {
	// List returns one page of listings, newest first, and the total match count.
	List(ctx context.Context, kind publicdomain.ListingKind, status *publicdomain.Status, page, limit int) ([]admindomain.Listing, int, error)
	FindByID(ctx context.Context, kind publicdomain.ListingKind, id string) (*admindomain.Listing, error)
	// UpdateStatus applies to only when the stored status still equals from.
	UpdateStatus(ctx context.Context, kind publicdomain.ListingKind, id string, from, to publicdomain.Status, at time.Time) error
}

// ModerationService describes admin moderation use-cases.
type ModerationService interface {
	List(ctx context.Context, kind publicdomain.ListingKind, status string, page, limit int) (publicdomain.Page[admindomain.Listing], error)
	ChangeStatus(ctx context.Context, kind publicdomain.ListingKind, id, status string) (*admindomain.Listing, error)
}
