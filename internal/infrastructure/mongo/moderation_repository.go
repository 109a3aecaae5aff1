package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	admindomain "github.com/Rhey-Ranido/service-hub-sub001/internal/admin/domain"
	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// ModerationRepository gives admins status-agnostic access to listings.
type ModerationRepository struct {
	listings *ListingRepository
}

// NewModerationRepository binds the provider and service collections.
func NewModerationRepository(db *mongo.Database, providerCollection, serviceCollection string) *ModerationRepository {
	return &ModerationRepository{listings: NewListingRepository(db, providerCollection, serviceCollection)}
}

// List returns listings newest first. A nil status lists every status.
func (r *ModerationRepository) List(ctx context.Context, kind domain.ListingKind, status *domain.Status, page, limit int) ([]admindomain.Listing, int, error) {
	coll, err := r.listings.collection(kind)
	if err != nil {
		return nil, 0, err
	}
	filter := bson.M{}
	if status != nil {
		filter["status"] = string(*status)
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	listings, err := decodeListings(ctx, kind, cursor)
	if err != nil {
		return nil, 0, err
	}

	items := make([]admindomain.Listing, 0, len(listings))
	for _, l := range listings {
		items = append(items, toModerationListing(l))
	}
	return items, int(total), nil
}

// FindByID returns domain.ErrNotFound when the listing does not exist.
func (r *ModerationRepository) FindByID(ctx context.Context, kind domain.ListingKind, id string) (*admindomain.Listing, error) {
	listing, err := r.listings.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	item := toModerationListing(*listing)
	return &item, nil
}

// UpdateStatus is a compare-and-set on the status field. A listing whose status
// changed since it was read yields domain.ErrInvalidTransition.
func (r *ModerationRepository) UpdateStatus(ctx context.Context, kind domain.ListingKind, id string, from, to domain.Status, at time.Time) error {
	coll, err := r.listings.collection(kind)
	if err != nil {
		return err
	}
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrNotFound
	}

	result, err := coll.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updatedAt": at}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	if err := coll.FindOne(ctx, bson.M{"_id": objectID}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrNotFound
		}
		return err
	}
	return domain.ErrInvalidTransition
}

func toModerationListing(l domain.Listing) admindomain.Listing {
	return admindomain.Listing{
		ID:         l.ID,
		Kind:       l.Kind,
		Title:      l.Title,
		ProviderID: l.ProviderID,
		OwnerID:    l.OwnerID,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}
