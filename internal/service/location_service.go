package service

import (
	"context"

	"zeme/internal/geocode"
	"zeme/internal/models"
)

// LocationService serves address lookups and the NYC neighbourhood catalogue.
type LocationService struct {
	geocoder  geocode.Service
	catalogue *geocode.Catalogue
}

// NewLocationService creates a new LocationService.
func NewLocationService(geocoder geocode.Service, catalogue *geocode.Catalogue) *LocationService {
	return &LocationService{
		geocoder:  geocoder,
		catalogue: catalogue,
	}
}

// Search geocodes a free-text query within New York City.
func (s *LocationService) Search(ctx context.Context, query string) ([]models.Candidate, error) {
	return s.geocoder.Search(ctx, query)
}

// NYC returns catalogue locations, optionally for one borough.
func (s *LocationService) NYC(borough string) []models.Location {
	return s.catalogue.Locations(borough)
}
