package service

import (
	"context"

	apperrors "zeme/internal/errors"
	"zeme/internal/models"
	"zeme/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavoriteService manages each user's set of saved listings.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	listings  repository.ListingRepository
	users     repository.UserRepository
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(favorites repository.FavoriteRepository, listings repository.ListingRepository, users repository.UserRepository) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		listings:  listings,
		users:     users,
	}
}

// Toggle adds the listing to the user's set or removes it if already present.
// Only published listings can be added.
func (s *FavoriteService) Toggle(ctx context.Context, userID, listingID primitive.ObjectID) (*models.ToggleFavoriteResponse, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	l, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	var fav *models.Favorite
	if l.Status == models.StatusPublished {
		fav, err = s.favorites.Toggle(ctx, userID, listingID)
	} else {
		// Unpublished listings can only leave the set.
		fav, err = s.favorites.Remove(ctx, userID, listingID)
	}
	if err != nil {
		return nil, err
	}

	return &models.ToggleFavoriteResponse{
		Favorited: fav.Contains(listingID),
		Favorite:  *fav,
	}, nil
}

// Get returns the user's favorite record, empty if the user never saved anything.
func (s *FavoriteService) Get(ctx context.Context, userID primitive.ObjectID) (*models.Favorite, error) {
	return s.favorites.FindByUser(ctx, userID)
}

// ListListings resolves the user's favorites to published listings in saved order.
func (s *FavoriteService) ListListings(ctx context.Context, userID primitive.ObjectID) ([]models.Listing, error) {
	fav, err := s.favorites.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.listings.FindPublishedByIDs(ctx, fav.PropertyIDs)
}
