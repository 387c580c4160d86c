package service

import (
	"context"
	"strings"

	"zeme/internal/cache"
	apperrors "zeme/internal/errors"
	"zeme/internal/models"
	"zeme/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService handles business logic for user operations.
type UserService struct {
	repo  repository.UserRepository
	cache cache.Cache
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository, cache cache.Cache) *UserService {
	return &UserService{
		repo:  repo,
		cache: cache,
	}
}

// GetUser retrieves a user by ID (with caching).
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	// Try cache first
	cacheKey := cache.UserCacheKey(id)
	var user models.User
	found, err := s.cache.Get(ctx, cacheKey, &user)
	if err == nil && found {
		return &user, nil // Cache hit
	}

	// Cache miss - get from database
	dbUser, err := s.repo.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore errors - cache is best effort)
	_ = s.cache.Set(ctx, cacheKey, dbUser, cache.UserTTL)

	return dbUser, nil
}

// UpdateUser updates the caller's profile. Agents and landlords cannot clear
// their company details.
func (s *UserService) UpdateUser(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	if clearsCompany(req) {
		current, err := s.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		if models.RequiresCompany(current.Role) {
			return nil, apperrors.ErrCompanyRequired
		}
	}

	user, err := s.repo.Update(ctx, objectID, req)
	if err != nil {
		return nil, err
	}

	// Invalidate cache
	_ = s.cache.Delete(ctx, cache.UserCacheKey(id))

	return user, nil
}

func clearsCompany(req *models.UpdateUserRequest) bool {
	for _, v := range []*string{req.CompanyName, req.CompanyAddress, req.LicenseNumber} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return true
		}
	}
	return false
}
