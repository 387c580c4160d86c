// Package authz provides authorization interfaces and implementations.
package authz

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action constants define the authorization actions on a listing.
const (
	ActionListingView    = "listing:view"
	ActionListingUpdate  = "listing:update"
	ActionListingPublish = "listing:publish"
	ActionListingDelete  = "listing:delete"
)

//go:generate mockgen -destination=mocks/mock_authorizer.go -package=mocks zeme/internal/authz Authorizer

// Authorizer defines the interface for listing authorization checks.
type Authorizer interface {
	// CanPerform checks if a user can perform an action on a listing.
	// Returns ErrListingNotFound when the listing does not exist.
	CanPerform(ctx context.Context, userID, listingID primitive.ObjectID, action string) (bool, error)
}
