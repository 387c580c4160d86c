package repository

import (
	"context"
	"errors"
	"time"

	"zeme/internal/database"
	apperrors "zeme/internal/errors"
	"zeme/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -destination=mocks/mock_favorite_repository.go -package=mocks zeme/internal/repository FavoriteRepository

// FavoriteRepository defines the interface for favorite data operations.
type FavoriteRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Favorite, error)
	Toggle(ctx context.Context, userID, listingID primitive.ObjectID) (*models.Favorite, error)
	Remove(ctx context.Context, userID, listingID primitive.ObjectID) (*models.Favorite, error)
	PullFromAll(ctx context.Context, listingID primitive.ObjectID) (int64, error)
}

// favoriteRepository implements FavoriteRepository using MongoDB.
type favoriteRepository struct {
	collection *mongo.Collection
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db *mongo.Database) FavoriteRepository {
	return &favoriteRepository{
		collection: db.Collection(database.FavoritesCollection),
	}
}

// FindByUser returns the user's favorite record, or an empty one if none exists yet.
func (r *favoriteRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Favorite, error) {
	var fav models.Favorite

	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&fav)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.Favorite{UserID: userID, PropertyIDs: []primitive.ObjectID{}}, nil
		}
		return nil, err
	}

	if fav.PropertyIDs == nil {
		fav.PropertyIDs = []primitive.ObjectID{}
	}
	return &fav, nil
}

// Toggle adds the listing if absent and removes it if present, in a single atomic
// update. The record is created on first use.
func (r *favoriteRepository) Toggle(ctx context.Context, userID, listingID primitive.ObjectID) (*models.Favorite, error) {
	current := bson.M{"$ifNull": bson.A{"$propertyIds", bson.A{}}}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"userId": userID,
			"propertyIds": bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{listingID, current}},
				bson.M{"$filter": bson.M{
					"input": current,
					"cond":  bson.M{"$ne": bson.A{"$$this", listingID}},
				}},
				bson.M{"$concatArrays": bson.A{current, bson.A{listingID}}},
			}},
			"updatedAt": time.Now(),
		}}},
	}

	var fav models.Favorite
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		pipeline,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&fav)
	if err != nil {
		return nil, err
	}

	if fav.PropertyIDs == nil {
		fav.PropertyIDs = []primitive.ObjectID{}
	}
	return &fav, nil
}

// Remove takes the listing out of the user's set. It returns ErrListingNotFound
// when the listing was not in the set.
func (r *favoriteRepository) Remove(ctx context.Context, userID, listingID primitive.ObjectID) (*models.Favorite, error) {
	var fav models.Favorite

	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"userId": userID, "propertyIds": listingID},
		bson.M{
			"$pull": bson.M{"propertyIds": listingID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&fav)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, err
	}

	if fav.PropertyIDs == nil {
		fav.PropertyIDs = []primitive.ObjectID{}
	}
	return &fav, nil
}

// PullFromAll removes a listing from every user's set and returns how many sets changed.
func (r *favoriteRepository) PullFromAll(ctx context.Context, listingID primitive.ObjectID) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"propertyIds": listingID},
		bson.M{
			"$pull": bson.M{"propertyIds": listingID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
