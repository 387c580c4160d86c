package repository

import (
	"context"
	"errors"
	"time"

	"zeme/internal/database"
	apperrors "zeme/internal/errors"
	"zeme/internal/listing"
	"zeme/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -destination=mocks/mock_listing_repository.go -package=mocks zeme/internal/repository ListingRepository

// ListingRepository defines the interface for listing data operations.
type ListingRepository interface {
	Create(ctx context.Context, l *models.Listing) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	FindByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Listing, error)
	Search(ctx context.Context, q listing.Query) ([]models.Listing, error)
	FindByOwner(ctx context.Context, owner primitive.ObjectID, status *models.ListingStatus) ([]models.Listing, error)
	FindPublishedByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Listing, error)
	Replace(ctx context.Context, l *models.Listing) error
	UpdateStatus(ctx context.Context, id, owner primitive.ObjectID, status models.ListingStatus) (*models.Listing, error)
	SetCoordinates(ctx context.Context, id primitive.ObjectID, address string, coords models.Coordinates) (bool, error)
	FindPublishedMissingCoordinates(ctx context.Context, limit int64) ([]models.Listing, error)
	Delete(ctx context.Context, id, owner primitive.ObjectID) error
}

// listingRepository implements ListingRepository using MongoDB.
type listingRepository struct {
	collection *mongo.Collection
}

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(db *mongo.Database) ListingRepository {
	return &listingRepository{
		collection: db.Collection(database.ListingsCollection),
	}
}

// Create inserts a new listing.
func (r *listingRepository) Create(ctx context.Context, l *models.Listing) error {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, l)
	if err != nil {
		return err
	}

	l.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a listing by its ID regardless of status.
func (r *listingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByIDAndOwner finds a listing only if it belongs to owner.
func (r *listingRepository) FindByIDAndOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Listing, error) {
	return r.findOne(ctx, bson.M{"_id": id, "owner": owner})
}

func (r *listingRepository) findOne(ctx context.Context, filter bson.M) (*models.Listing, error) {
	var l models.Listing

	err := r.collection.FindOne(ctx, filter).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, err
	}

	return &l, nil
}

// Search runs a prepared query.
func (r *listingRepository) Search(ctx context.Context, q listing.Query) ([]models.Listing, error) {
	return r.find(ctx, q.Filter, options.Find().SetSort(q.Sort))
}

// FindByOwner returns the owner's listings. Drafts come back most recently edited first,
// everything else newest first.
func (r *listingRepository) FindByOwner(ctx context.Context, owner primitive.ObjectID, status *models.ListingStatus) ([]models.Listing, error) {
	filter := bson.D{{Key: "owner", Value: owner}}
	sortField := "createdAt"
	if status != nil {
		filter = append(filter, bson.E{Key: "status", Value: *status})
		if *status == models.StatusDraft {
			sortField = "updatedAt"
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, filter, opts)
}

// FindPublishedByIDs returns the published listings among ids, in the order of ids.
func (r *listingRepository) FindPublishedByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Listing, error) {
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}

	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}, "status": models.StatusPublished})
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Listing, len(found))
	for _, l := range found {
		byID[l.ID] = l
	}

	ordered := make([]models.Listing, 0, len(found))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}

// FindPublishedMissingCoordinates returns published listings that were never geocoded.
func (r *listingRepository) FindPublishedMissingCoordinates(ctx context.Context, limit int64) ([]models.Listing, error) {
	filter := bson.M{
		"status":                       models.StatusPublished,
		"basicInformation.coordinates": bson.M{"$exists": false},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, filter, opts)
}

func (r *listingRepository) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Listing, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}

	// Return empty slice instead of nil
	if listings == nil {
		listings = []models.Listing{}
	}

	return listings, nil
}

// Replace overwrites every mutable field of an owned listing. Owner and createdAt are kept.
func (r *listingRepository) Replace(ctx context.Context, l *models.Listing) error {
	l.UpdatedAt = time.Now()

	set := bson.D{
		{Key: "status", Value: l.Status},
		{Key: "listingType", Value: l.ListingType},
		{Key: "basicInformation", Value: l.BasicInformation},
		{Key: "economicInformation", Value: l.EconomicInformation},
		{Key: "amenities", Value: l.Amenities},
		{Key: "documentRequirements", Value: l.DocumentRequirements},
		{Key: "images", Value: l.Images},
		{Key: "updatedAt", Value: l.UpdatedAt},
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": l.ID, "owner": l.Owner},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrListingNotFound
	}
	return nil
}

// UpdateStatus changes only the status of an owned listing and returns the result.
func (r *listingRepository) UpdateStatus(ctx context.Context, id, owner primitive.ObjectID, status models.ListingStatus) (*models.Listing, error) {
	var l models.Listing

	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner": owner},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, err
	}

	return &l, nil
}

// SetCoordinates stores a geocoding result if the listing still has no coordinates
// and its address has not changed since the lookup. It reports whether a write happened.
func (r *listingRepository) SetCoordinates(ctx context.Context, id primitive.ObjectID, address string, coords models.Coordinates) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":                          id,
			"basicInformation.address":     address,
			"basicInformation.coordinates": bson.M{"$exists": false},
		},
		bson.M{"$set": bson.M{"basicInformation.coordinates": coords}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// Delete removes an owned listing.
func (r *listingRepository) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return apperrors.ErrListingNotFound
	}

	return nil
}
