package middleware

import (
	"errors"

	"zeme/internal/authz"
	apperrors "zeme/internal/errors"
	"zeme/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingIDKey is the context key for the authorized listing id.
const ListingIDKey = "listingID"

// ListingAuthz returns a middleware that checks the caller may perform action on
// the listing named by the :id path parameter.
func ListingAuthz(authorizer authz.Authorizer, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get user ID from context (set by Auth middleware)
		userIDStr := GetUserID(c)
		if userIDStr == "" {
			response.Unauthorized(c, "user not authenticated")
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			response.Unauthorized(c, "invalid user id format")
			c.Abort()
			return
		}

		listingID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			response.BadRequest(c, apperrors.ErrInvalidListingID.Error())
			c.Abort()
			return
		}

		allowed, err := authorizer.CanPerform(c.Request.Context(), userID, listingID, action)
		if err != nil {
			if errors.Is(err, apperrors.ErrListingNotFound) {
				response.NotFound(c, err.Error())
			} else {
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		if !allowed {
			// Drafts of other owners stay hidden.
			if action == authz.ActionListingView {
				response.NotFound(c, apperrors.ErrListingNotFound.Error())
				c.Abort()
				return
			}
			response.Forbidden(c, apperrors.ErrListingForbidden.Error())
			c.Abort()
			return
		}

		c.Set(ListingIDKey, listingID)

		c.Next()
	}
}

// GetListingID retrieves the authorized listing id from the context.
func GetListingID(c *gin.Context) (primitive.ObjectID, bool) {
	id, exists := c.Get(ListingIDKey)
	if !exists {
		return primitive.NilObjectID, false
	}
	return id.(primitive.ObjectID), true
}
