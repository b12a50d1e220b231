package mongodb

import (
	"context"

	"marketplace/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// usersEmailIndex is the unique index that makes email uniqueness hold under concurrent registration.
const usersEmailIndex = "users_email_key"

var collectionIndexes = map[string][]mongo.IndexModel{
	usersCollection: {
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(usersEmailIndex).SetUnique(true),
		},
	},
	productsCollection: {
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
	},
	ordersCollection: {
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
}

// EnsureIndexes creates the indexes every repository relies on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range collectionIndexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "failed to create %s indexes", collection)
		}
	}

	return nil
}
