package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/public/domain"
)

// ReviewRepository implements application.ReviewRepository using MongoDB.
type ReviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository creates a Mongo-backed review repository.
func NewReviewRepository(db *mongo.Database, collectionName string) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(collectionName)}
}

// FindBySubject returns every review of a service, or every review carrying a
// provider's id when the subject is a provider.
func (r *ReviewRepository) FindBySubject(ctx context.Context, subject domain.Subject) ([]domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(subject.ID))
	if err != nil {
		return []domain.Review{}, nil
	}

	filter := bson.M{"subjectType": string(subject.Kind), "subjectId": objectID}
	if subject.Kind == domain.KindProvider {
		filter = bson.M{"providerId": objectID}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reviews = append(reviews, mapReviewDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Create inserts the review only if the reviewer has not reviewed the subject yet.
// On success review.ID is set.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	subjectID, err := primitive.ObjectIDFromHex(review.Subject.ID)
	if err != nil {
		return fmt.Errorf("invalid subject id %q: %w", review.Subject.ID, err)
	}
	providerID, err := primitive.ObjectIDFromHex(review.ProviderID)
	if err != nil {
		return fmt.Errorf("invalid provider id %q: %w", review.ProviderID, err)
	}

	filter := bson.M{
		"subjectType": string(review.Subject.Kind),
		"subjectId":   subjectID,
		"reviewerId":  review.ReviewerID,
	}
	update := bson.M{
		"$setOnInsert": bson.M{
			"providerId":   providerID,
			"reviewerName": review.ReviewerName,
			"rating":       review.Rating,
			"comment":      review.Comment,
			"createdAt":    review.CreatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// two concurrent upserts can both miss; the unique index rejects the loser
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateReview
		}
		return err
	}
	if result.UpsertedCount == 0 {
		return domain.ErrDuplicateReview
	}
	if id, ok := result.UpsertedID.(primitive.ObjectID); ok {
		review.ID = id.Hex()
	}
	return nil
}
