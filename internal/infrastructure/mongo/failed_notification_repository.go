package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Rhey-Ranido/service-hub-sub001/internal/notify"
)

const failedNotificationPending = "pending"

// FailedNotificationRepository stores undelivered notifications for replay.
type FailedNotificationRepository struct {
	collection *mongo.Collection
}

// NewFailedNotificationRepository binds the failed notification collection.
func NewFailedNotificationRepository(db *mongo.Database, collectionName string) *FailedNotificationRepository {
	return &FailedNotificationRepository{collection: db.Collection(collectionName)}
}

// Save implements notify.FailureStore.
func (r *FailedNotificationRepository) Save(ctx context.Context, failure notify.Failure) error {
	doc := FailedNotificationDocument{
		Target:      failure.Target,
		Key:         failure.Key,
		Payload:     failure.Payload,
		Error:       failure.Err,
		Attempts:    failure.Attempts,
		Status:      failedNotificationPending,
		CreatedAt:   failure.At,
		LastTriedAt: failure.At,
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}
