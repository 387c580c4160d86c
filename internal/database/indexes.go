package database

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSpec describes one index on one collection.
type IndexSpec struct {
	Collection string
	Keys       bson.D
	Unique     bool
}

// Indexes lists every index the service relies on.
var Indexes = []IndexSpec{
	{Collection: UsersCollection, Keys: bson.D{{Key: "email", Value: 1}}, Unique: true},
	{Collection: UsersCollection, Keys: bson.D{{Key: "googleId", Value: 1}}},

	// Public search always filters on status and sorts by createdAt or rent.
	{Collection: ListingsCollection, Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	{Collection: ListingsCollection, Keys: bson.D{{Key: "status", Value: 1}, {Key: "economicInformation.grossRent", Value: 1}}},
	{Collection: ListingsCollection, Keys: bson.D{{Key: "owner", Value: 1}, {Key: "status", Value: 1}, {Key: "updatedAt", Value: -1}}},

	{Collection: FavoritesCollection, Keys: bson.D{{Key: "userId", Value: 1}}, Unique: true},
	{Collection: FavoritesCollection, Keys: bson.D{{Key: "propertyIds", Value: 1}}},
}

// EnsureIndexes creates all indexes. Failures are logged and counted rather than
// aborting, so a partially indexed database still comes up.
func EnsureIndexes(ctx context.Context, db *mongo.Database) int {
	failed := 0
	for _, spec := range Indexes {
		model := mongo.IndexModel{Keys: spec.Keys}
		if spec.Unique {
			model.Options = options.Index().SetUnique(true)
		}

		name, err := db.Collection(spec.Collection).Indexes().CreateOne(ctx, model)
		if err != nil {
			log.Printf("Warning: Failed to create index on %s: %v", spec.Collection, err)
			failed++
			continue
		}
		log.Printf("Created index %s on %s", name, spec.Collection)
	}
	return failed
}
