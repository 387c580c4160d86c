// Package repository provides data access operations for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"zeme/internal/database"
	apperrors "zeme/internal/errors"
	"zeme/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:generate mockgen -destination=mocks/mock_user_repository.go -package=mocks zeme/internal/repository UserRepository

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update *models.UpdateUserRequest) (*models.User, error)
	LinkGoogle(ctx context.Context, id primitive.ObjectID, googleID, profileImage string) (*models.User, error)
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// userRepository implements UserRepository using MongoDB
type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		collection: db.Collection(database.UsersCollection),
	}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	existing, _ := r.FindByEmail(ctx, user.Email)
	if existing != nil {
		return apperrors.ErrUserAlreadyExists
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// The unique index catches a concurrent registration with the same email.
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrUserAlreadyExists
		}
		return err
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail finds a user by their email, case-insensitively.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

// FindByGoogleID finds a user linked to a Google account.
func (r *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	if googleID == "" {
		return nil, apperrors.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"googleId": googleID})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// Update updates a user's profile fields
func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, update *models.UpdateUserRequest) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}

	fields := map[string]*string{
		"firstName":      update.FirstName,
		"lastName":       update.LastName,
		"phone":          update.Phone,
		"profileImage":   update.ProfileImage,
		"companyName":    update.CompanyName,
		"companyAddress": update.CompanyAddress,
		"licenseNumber":  update.LicenseNumber,
		"bio":            update.Bio,
	}
	for key, v := range fields {
		if v != nil {
			set[key] = strings.TrimSpace(*v)
		}
	}

	return r.findOneAndSet(ctx, id, set)
}

// LinkGoogle attaches a Google account to an existing user.
func (r *userRepository) LinkGoogle(ctx context.Context, id primitive.ObjectID, googleID, profileImage string) (*models.User, error) {
	set := bson.M{"googleId": googleID, "updatedAt": time.Now()}
	if profileImage != "" {
		set["profileImage"] = profileImage
	}
	return r.findOneAndSet(ctx, id, set)
}

func (r *userRepository) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	var user models.User

	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// Exists reports whether a user with the id exists.
func (r *userRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
