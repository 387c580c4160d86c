// Package mocks provides mock implementations of service interfaces for testing.
package mocks

import (
	"context"
	"io"

	"zeme/internal/listing"
	"zeme/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockAuthService is a mock implementation of AuthServicer.
type MockAuthService struct {
	RegisterFunc    func(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error)
	LoginFunc       func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GoogleLoginFunc func(ctx context.Context, req *models.GoogleAuthRequest) (*models.AuthResponse, error)
}

func (m *MockAuthService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) GoogleLogin(ctx context.Context, req *models.GoogleAuthRequest) (*models.AuthResponse, error) {
	if m.GoogleLoginFunc != nil {
		return m.GoogleLoginFunc(ctx, req)
	}
	return nil, nil
}

// MockUserService is a mock implementation of UserServicer.
type MockUserService struct {
	GetUserFunc    func(ctx context.Context, id string) (*models.User, error)
	UpdateUserFunc func(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error)
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, id, req)
	}
	return nil, nil
}

// MockListingService is a mock implementation of ListingServicer.
type MockListingService struct {
	SearchFunc       func(ctx context.Context, filter listing.Filter) ([]models.Listing, error)
	CreateFunc       func(ctx context.Context, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error)
	GetFunc          func(ctx context.Context, id, caller primitive.ObjectID) (*models.Listing, error)
	UpdateFunc       func(ctx context.Context, id, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error)
	UpdateStatusFunc func(ctx context.Context, id, owner primitive.ObjectID, status string) (*models.Listing, error)
	ListMineFunc     func(ctx context.Context, owner primitive.ObjectID, status string) ([]models.Listing, error)
	DeleteFunc       func(ctx context.Context, id, owner primitive.ObjectID) error
}

func (m *MockListingService) Search(ctx context.Context, filter listing.Filter) ([]models.Listing, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockListingService) Create(ctx context.Context, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, owner, in)
	}
	return nil, nil
}

func (m *MockListingService) Get(ctx context.Context, id, caller primitive.ObjectID) (*models.Listing, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id, caller)
	}
	return nil, nil
}

func (m *MockListingService) Update(ctx context.Context, id, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, owner, in)
	}
	return nil, nil
}

func (m *MockListingService) UpdateStatus(ctx context.Context, id, owner primitive.ObjectID, status string) (*models.Listing, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, owner, status)
	}
	return nil, nil
}

func (m *MockListingService) ListMine(ctx context.Context, owner primitive.ObjectID, status string) ([]models.Listing, error) {
	if m.ListMineFunc != nil {
		return m.ListMineFunc(ctx, owner, status)
	}
	return nil, nil
}

func (m *MockListingService) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, owner)
	}
	return nil
}

// MockFavoriteService is a mock implementation of FavoriteServicer.
type MockFavoriteService struct {
	ToggleFunc       func(ctx context.Context, userID, listingID primitive.ObjectID) (*models.ToggleFavoriteResponse, error)
	GetFunc          func(ctx context.Context, userID primitive.ObjectID) (*models.Favorite, error)
	ListListingsFunc func(ctx context.Context, userID primitive.ObjectID) ([]models.Listing, error)
}

func (m *MockFavoriteService) Toggle(ctx context.Context, userID, listingID primitive.ObjectID) (*models.ToggleFavoriteResponse, error) {
	if m.ToggleFunc != nil {
		return m.ToggleFunc(ctx, userID, listingID)
	}
	return nil, nil
}

func (m *MockFavoriteService) Get(ctx context.Context, userID primitive.ObjectID) (*models.Favorite, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockFavoriteService) ListListings(ctx context.Context, userID primitive.ObjectID) ([]models.Listing, error) {
	if m.ListListingsFunc != nil {
		return m.ListListingsFunc(ctx, userID)
	}
	return nil, nil
}

// MockUploadService is a mock implementation of UploadServicer.
type MockUploadService struct {
	UploadFunc func(ctx context.Context, fileName string, size int64, body io.Reader) (*models.UploadResponse, error)
}

func (m *MockUploadService) Upload(ctx context.Context, fileName string, size int64, body io.Reader) (*models.UploadResponse, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, fileName, size, body)
	}
	return nil, nil
}

// MockLocationService is a mock implementation of LocationServicer.
type MockLocationService struct {
	SearchFunc func(ctx context.Context, query string) ([]models.Candidate, error)
	NYCFunc    func(borough string) []models.Location
}

func (m *MockLocationService) Search(ctx context.Context, query string) ([]models.Candidate, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (m *MockLocationService) NYC(borough string) []models.Location {
	if m.NYCFunc != nil {
		return m.NYCFunc(borough)
	}
	return nil
}
