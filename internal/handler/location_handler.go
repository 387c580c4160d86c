package handler

import (
	"zeme/internal/service"
	"zeme/pkg/response"

	"github.com/gin-gonic/gin"
)

// LocationHandler serves address lookups.
type LocationHandler struct {
	service service.LocationServicer
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(service service.LocationServicer) *LocationHandler {
	return &LocationHandler{service: service}
}

// Search godoc
// @Summary      Search locations
// @Description  Geocode a free-text address within New York City
// @Tags         locations
// @Produce      json
// @Param        query  query     string  false  "Address or place"
// @Success      200    {object}  response.Response{data=[]models.Candidate}
// @Failure      502    {object}  response.Response
// @Router       /locations/search [get]
func (h *LocationHandler) Search(c *gin.Context) {
	candidates, err := h.service.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, candidates)
}

// NYC godoc
// @Summary      NYC neighbourhoods
// @Description  Return the static neighbourhood catalogue, optionally for one borough
// @Tags         locations
// @Produce      json
// @Param        borough  query     string  false  "manhattan, brooklyn, queens, bronx, statenIsland or nearbyCities"
// @Success      200      {object}  response.Response{data=[]models.Location}
// @Router       /locations/nyc [get]
func (h *LocationHandler) NYC(c *gin.Context) {
	response.Success(c, h.service.NYC(c.Query("borough")))
}
