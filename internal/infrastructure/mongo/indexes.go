package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections names the collections used by the repositories.
type Collections struct {
	Providers           string
	Services            string
	Reviews             string
	FailedNotifications string
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, c Collections) error {
	specs := map[string][]mongo.IndexModel{
		c.Providers: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		},
		c.Services: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "providerId", Value: 1}}},
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		},
		c.Reviews: {
			{
				Keys:    bson.D{{Key: "subjectType", Value: 1}, {Key: "subjectId", Value: 1}, {Key: "reviewerId", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("one_review_per_reviewer"),
			},
			{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		c.FailedNotifications: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for name, models := range specs {
		if name == "" {
			continue
		}
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
