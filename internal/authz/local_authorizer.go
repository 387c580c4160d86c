package authz

import (
	"context"

	"zeme/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingFinder is the interface required by LocalAuthorizer to look up listings.
type ListingFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
}

// LocalAuthorizer implements Authorizer using database lookups.
type LocalAuthorizer struct {
	listings ListingFinder
}

// NewLocalAuthorizer creates a new LocalAuthorizer.
func NewLocalAuthorizer(listings ListingFinder) *LocalAuthorizer {
	return &LocalAuthorizer{
		listings: listings,
	}
}

// ownerActions are reserved to the listing's creator.
var ownerActions = map[string]bool{
	ActionListingUpdate:  true,
	ActionListingPublish: true,
	ActionListingDelete:  true,
}

// CanPerform checks if a user can perform an action on a listing. Anyone may
// view a published listing; everything else needs ownership.
func (a *LocalAuthorizer) CanPerform(ctx context.Context, userID, listingID primitive.ObjectID, action string) (bool, error) {
	l, err := a.listings.FindByID(ctx, listingID)
	if err != nil {
		return false, err
	}

	owner := l.Owner == userID
	switch {
	case action == ActionListingView:
		return owner || l.Status == models.StatusPublished, nil
	case ownerActions[action]:
		return owner, nil
	default:
		return false, nil // Unknown action
	}
}

// Ensure LocalAuthorizer implements Authorizer interface
var _ Authorizer = (*LocalAuthorizer)(nil)
