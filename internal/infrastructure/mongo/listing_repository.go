package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// ListingRepository implements application.ListingRepository for providers and
// services stored in separate collections.
type ListingRepository struct {
	providers *mongo.Collection
	services  *mongo.Collection
}

// NewListingRepository creates a Mongo-backed listing repository.
func NewListingRepository(db *mongo.Database, providerCollection, serviceCollection string) *ListingRepository {
	return &ListingRepository{
		providers: db.Collection(providerCollection),
		services:  db.Collection(serviceCollection),
	}
}

func (r *ListingRepository) collection(kind domain.ListingKind) (*mongo.Collection, error) {
	switch kind {
	case domain.KindProvider:
		return r.providers, nil
	case domain.KindService:
		return r.services, nil
	}
	return nil, fmt.Errorf("unknown listing kind %q", kind)
}

// FindApproved pushes the non-geo predicate down to MongoDB. Services are further
// restricted to providers that share the filter's status.
func (r *ListingRepository) FindApproved(ctx context.Context, kind domain.ListingKind, filter domain.Filter) ([]domain.Listing, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	mongoFilter := buildListingFilter(kind, filter)

	if kind == domain.KindService {
		providerIDs, err := r.lookupProviderIDs(ctx, filter.Status())
		if err != nil {
			return nil, err
		}
		if len(providerIDs) == 0 {
			return []domain.Listing{}, nil
		}
		mongoFilter["providerId"] = bson.M{"$in": providerIDs}
	}

	cursor, err := coll.Find(ctx, mongoFilter)
	if err != nil {
		return nil, err
	}
	return decodeListings(ctx, kind, cursor)
}

// FindByID returns domain.ErrNotFound for unknown or malformed ids.
func (r *ListingRepository) FindByID(ctx context.Context, kind domain.ListingKind, id string) (*domain.Listing, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotFound
	}

	result := coll.FindOne(ctx, bson.M{"_id": objectID})
	var listing domain.Listing
	if kind == domain.KindProvider {
		var doc ProviderDocument
		err = result.Decode(&doc)
		listing = mapProviderDocument(doc)
	} else {
		var doc ServiceDocument
		err = result.Decode(&doc)
		listing = mapServiceDocument(doc)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// FindByIDs loads listings in one round trip. Malformed and unknown ids are skipped.
func (r *ListingRepository) FindByIDs(ctx context.Context, kind domain.ListingKind, ids []string) ([]domain.Listing, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}
	if len(objectIDs) == 0 {
		return []domain.Listing{}, nil
	}

	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, err
	}
	return decodeListings(ctx, kind, cursor)
}

// IncrementView atomically bumps the listing's view counter.
func (r *ListingRepository) IncrementView(ctx context.Context, kind domain.ListingKind, id string) error {
	coll, err := r.collection(kind)
	if err != nil {
		return err
	}
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrNotFound
	}
	result, err := coll.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// lookupProviderIDs resolves the providers whose services may be listed.
func (r *ListingRepository) lookupProviderIDs(ctx context.Context, status domain.Status) ([]primitive.ObjectID, error) {
	cursor, err := r.providers.Find(ctx, bson.M{"status": string(status)}, optionsFindIDProjection())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ids := make([]primitive.ObjectID, 0)
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}

// buildListingFilter translates the status, category, price and text predicates.
func buildListingFilter(kind domain.ListingKind, filter domain.Filter) bson.M {
	mongoFilter := bson.M{"status": string(filter.Status())}

	if filter.Category != "" {
		mongoFilter["category"] = filter.Category
	}

	price := bson.M{}
	if filter.PriceMin != nil {
		price["$gte"] = *filter.PriceMin
	}
	if filter.PriceMax != nil {
		price["$lte"] = *filter.PriceMax
	}
	if len(price) > 0 {
		mongoFilter["price.amount"] = price
	}

	if filter.Text != "" {
		titleField := "title"
		if kind == domain.KindProvider {
			titleField = "name"
		}
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Text), Options: "i"}
		mongoFilter["$or"] = bson.A{
			bson.M{titleField: pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}
	return mongoFilter
}

func decodeListings(ctx context.Context, kind domain.ListingKind, cursor *mongo.Cursor) ([]domain.Listing, error) {
	defer cursor.Close(ctx)

	listings := make([]domain.Listing, 0)
	for cursor.Next(ctx) {
		if kind == domain.KindProvider {
			var doc ProviderDocument
			if err := cursor.Decode(&doc); err != nil {
				return nil, err
			}
			listings = append(listings, mapProviderDocument(doc))
			continue
		}
		var doc ServiceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		listings = append(listings, mapServiceDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

func optionsFindIDProjection() *options.FindOptions {
	return options.Find().SetProjection(bson.M{"_id": 1})
}
