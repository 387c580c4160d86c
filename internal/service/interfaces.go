// Package service contains business logic for the application.
package service

import (
	"context"
	"io"

	"zeme/internal/listing"
	"zeme/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthServicer defines the interface for authentication operations.
type AuthServicer interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GoogleLogin(ctx context.Context, req *models.GoogleAuthRequest) (*models.AuthResponse, error)
}

// UserServicer defines the interface for user operations.
type UserServicer interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error)
}

// ListingServicer defines the interface for listing operations.
type ListingServicer interface {
	Search(ctx context.Context, filter listing.Filter) ([]models.Listing, error)
	Create(ctx context.Context, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error)
	Get(ctx context.Context, id, caller primitive.ObjectID) (*models.Listing, error)
	Update(ctx context.Context, id, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error)
	UpdateStatus(ctx context.Context, id, owner primitive.ObjectID, status string) (*models.Listing, error)
	ListMine(ctx context.Context, owner primitive.ObjectID, status string) ([]models.Listing, error)
	Delete(ctx context.Context, id, owner primitive.ObjectID) error
}

// FavoriteServicer defines the interface for favorite operations.
type FavoriteServicer interface {
	Toggle(ctx context.Context, userID, listingID primitive.ObjectID) (*models.ToggleFavoriteResponse, error)
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Favorite, error)
	ListListings(ctx context.Context, userID primitive.ObjectID) ([]models.Listing, error)
}

// UploadServicer defines the interface for file uploads.
type UploadServicer interface {
	Upload(ctx context.Context, fileName string, size int64, body io.Reader) (*models.UploadResponse, error)
}

// LocationServicer defines the interface for location lookups.
type LocationServicer interface {
	Search(ctx context.Context, query string) ([]models.Candidate, error)
	NYC(borough string) []models.Location
}

// Ensure concrete types implement interfaces
var (
	_ AuthServicer     = (*AuthService)(nil)
	_ UserServicer     = (*UserService)(nil)
	_ ListingServicer  = (*ListingService)(nil)
	_ FavoriteServicer = (*FavoriteService)(nil)
	_ UploadServicer   = (*UploadService)(nil)
	_ LocationServicer = (*LocationService)(nil)
)
