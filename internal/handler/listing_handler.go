package handler

import (
	"errors"
	"io"

	"zeme/internal/listing"
	"zeme/internal/models"
	"zeme/internal/service"
	"zeme/pkg/response"

	"github.com/gin-gonic/gin"
)

// ListingHandler handles HTTP requests for property listings.
type ListingHandler struct {
	service service.ListingServicer
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(service service.ListingServicer) *ListingHandler {
	return &ListingHandler{service: service}
}

// Search godoc
// @Summary      Search properties
// @Description  Return published properties matching every supplied filter. Bedroom and bathroom labels accept "Studio", exact counts and "N+".
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request  body      listing.SearchRequest  false  "Filters"
// @Success      200      {object}  response.Response{data=[]models.Listing}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /properties/search [post]
func (h *ListingHandler) Search(c *gin.Context) {
	var req listing.SearchRequest
	// An empty body, sized or chunked, means no filters.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	listings, err := h.service.Search(c.Request.Context(), req.Filters)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, listings)
}

// Create godoc
// @Summary      Create property
// @Description  Create a draft (address only) or a complete published property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request  body      models.ListingInput  true  "Property"
// @Success      201      {object}  response.Response{data=models.Listing}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /properties [post]
func (h *ListingHandler) Create(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}

	var in models.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	l, err := h.service.Create(c.Request.Context(), owner, &in)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, l)
}

// ListMine godoc
// @Summary      My properties
// @Description  List the caller's properties, newest first, optionally by status
// @Tags         properties
// @Produce      json
// @Param        status  query     string  false  "draft or published"
// @Success      200     {object}  response.Response{data=[]models.Listing}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Failure      500     {object}  response.Response
// @Security     BearerAuth
// @Router       /properties/mine [get]
func (h *ListingHandler) ListMine(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}

	listings, err := h.service.ListMine(c.Request.Context(), owner, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, listings)
}

// Get godoc
// @Summary      Get property
// @Description  Published properties are visible to everyone, drafts only to their owner
// @Tags         properties
// @Produce      json
// @Param        id   path      string  true  "Property ID"
// @Success      200  {object}  response.Response{data=models.Listing}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /properties/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := listingID(c)
	if !ok {
		return
	}

	l, err := h.service.Get(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, l)
}

// Update godoc
// @Summary      Update property
// @Description  Replace every mutable field. An omitted status keeps the current one.
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Property ID"
// @Param        request  body      models.ListingInput  true  "Property"
// @Success      200      {object}  response.Response{data=models.Listing}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /properties/{id} [put]
func (h *ListingHandler) Update(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := listingID(c)
	if !ok {
		return
	}

	var in models.ListingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	l, err := h.service.Update(c.Request.Context(), id, owner, &in)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, l)
}

// UpdateStatus godoc
// @Summary      Change property status
// @Description  Publish or unpublish. Publishing validates the stored property.
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Property ID"
// @Param        request  body      models.UpdateStatusRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=models.Listing}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Security     BearerAuth
// @Router       /properties/{id}/status [patch]
func (h *ListingHandler) UpdateStatus(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := listingID(c)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	l, err := h.service.UpdateStatus(c.Request.Context(), id, owner, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, l)
}

// Delete godoc
// @Summary      Delete property
// @Description  Delete a property and remove it from every favorite list
// @Tags         properties
// @Produce      json
// @Param        id   path  string  true  "Property ID"
// @Success      204  "No Content"
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Security     BearerAuth
// @Router       /properties/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	owner, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := listingID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, owner); err != nil {
		writeError(c, err)
		return
	}

	response.NoContent(c)
}
