package handler

import (
	"errors"
	"log"
	"net/http"

	apperrors "zeme/internal/errors"
	"zeme/internal/middleware"
	"zeme/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// writeError maps service errors onto API responses.
func writeError(c *gin.Context, err error) {
	if ve, ok := apperrors.AsValidation(err); ok {
		response.ValidationFailed(c, ve.Error(), ve.Violations)
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrListingNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, apperrors.ErrListingForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrOAuthExchange),
		errors.Is(err, apperrors.ErrOAuthEmailMissing):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		response.Conflict(c, err.Error())
	case errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, apperrors.ErrCompanyRequired),
		errors.Is(err, apperrors.ErrInvalidStatus),
		errors.Is(err, apperrors.ErrInvalidFilter),
		errors.Is(err, apperrors.ErrInvalidListingID),
		errors.Is(err, apperrors.ErrNoFile),
		errors.Is(err, apperrors.ErrFileTooLarge),
		errors.Is(err, apperrors.ErrUnsupportedFile):
		response.BadRequest(c, err.Error())
	case errors.Is(err, apperrors.ErrOAuthNotEnabled):
		response.Error(c, http.StatusNotImplemented, err.Error())
	case errors.Is(err, apperrors.ErrGeocoderUnavailable):
		response.Error(c, http.StatusBadGateway, err.Error())
	default:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		response.InternalError(c)
	}
}

// callerID returns the authenticated user's id.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		response.Unauthorized(c, apperrors.ErrUnauthorized.Error())
		return primitive.NilObjectID, false
	}
	return id, true
}

// listingID returns the :id listing, preferring the one checked by ListingAuthz.
func listingID(c *gin.Context) (primitive.ObjectID, bool) {
	if id, ok := middleware.GetListingID(c); ok {
		return id, true
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, apperrors.ErrInvalidListingID.Error())
		return primitive.NilObjectID, false
	}
	return id, true
}
