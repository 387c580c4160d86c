package handler

import (
	apperrors "zeme/internal/errors"
	"zeme/internal/models"
	"zeme/internal/service"
	"zeme/pkg/response"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavoriteHandler handles HTTP requests for saved properties.
type FavoriteHandler struct {
	service service.FavoriteServicer
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(service service.FavoriteServicer) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// Toggle godoc
// @Summary      Toggle favorite
// @Description  Add a published property to the caller's favorites, or remove it if present
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Param        request  body      models.ToggleFavoriteRequest  true  "Property"
// @Success      200      {object}  response.Response{data=models.ToggleFavoriteResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /favorites/toggle [post]
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	id, err := primitive.ObjectIDFromHex(req.PropertyID)
	if err != nil {
		response.BadRequest(c, apperrors.ErrInvalidListingID.Error())
		return
	}

	result, err := h.service.Toggle(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// Get godoc
// @Summary      Favorite record
// @Description  Return the caller's saved property ids
// @Tags         favorites
// @Produce      json
// @Success      200  {object}  response.Response{data=models.Favorite}
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /favorites [get]
func (h *FavoriteHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	fav, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, fav)
}

// ListListings godoc
// @Summary      Favorite properties
// @Description  Return the caller's saved properties that are still published
// @Tags         favorites
// @Produce      json
// @Success      200  {object}  response.Response{data=[]models.Listing}
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /favorites/properties [get]
func (h *FavoriteHandler) ListListings(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	listings, err := h.service.ListListings(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, listings)
}
