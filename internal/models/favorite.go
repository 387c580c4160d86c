package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite is a user's ordered set of saved listings. One document per user.
type Favorite struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	UserID      primitive.ObjectID   `json:"userId" bson:"userId" example:"507f1f77bcf86cd799439012"`
	PropertyIDs []primitive.ObjectID `json:"propertyIds" bson:"propertyIds"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T10:00:00Z"`
}

// Contains reports whether the listing is in the set.
func (f *Favorite) Contains(listingID primitive.ObjectID) bool {
	for _, id := range f.PropertyIDs {
		if id == listingID {
			return true
		}
	}
	return false
}

// ToggleFavoriteRequest is the body of a favorite toggle.
type ToggleFavoriteRequest struct {
	PropertyID string `json:"propertyId" binding:"required,len=24,hexadecimal" example:"507f1f77bcf86cd799439011"`
}

// ToggleFavoriteResponse reports the state after a toggle.
type ToggleFavoriteResponse struct {
	Favorited bool     `json:"favorited" example:"true"`
	Favorite  Favorite `json:"favorite"`
}
