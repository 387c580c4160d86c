//go:build api

// Package testdb starts the containers backing the API tests.
package testdb

import (
	"context"
	"fmt"
	"time"

	"zeme/internal/database"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContainer wraps a MongoDB testcontainer for API tests.
type MongoContainer struct {
	Container *mongodb.MongoDBContainer
	URI       string
	Client    *mongo.Client
	Database  *mongo.Database
}

// SetupMongoDB starts a MongoDB testcontainer and creates the application indexes.
// Lifecycle is managed by TestMain, not t.Cleanup.
func SetupMongoDB(ctx context.Context, dbName string) (*MongoContainer, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		return nil, err
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		_ = container.Terminate(ctx)
		return nil, err
	}

	db := client.Database(dbName)
	if failed := database.EnsureIndexes(ctx, db); failed > 0 {
		_ = client.Disconnect(ctx)
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("%d indexes could not be created", failed)
	}

	return &MongoContainer{
		Container: container,
		URI:       uri,
		Client:    client,
		Database:  db,
	}, nil
}

// Cleanup terminates the MongoDB container.
func (mc *MongoContainer) Cleanup(ctx context.Context) error {
	if mc.Client != nil {
		_ = mc.Client.Disconnect(ctx)
	}
	if mc.Container != nil {
		return mc.Container.Terminate(ctx)
	}
	return nil
}

// CleanupCollections empties the application collections. Documents are
// deleted rather than collections dropped so the unique indexes survive.
func (mc *MongoContainer) CleanupCollections(ctx context.Context) error {
	for _, name := range []string{
		database.UsersCollection,
		database.ListingsCollection,
		database.FavoritesCollection,
	} {
		if _, err := mc.Database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}
	return nil
}
