// Package geocode resolves free-text addresses to coordinates and serves the
// static NYC neighbourhood catalogue.
package geocode

import (
	"context"

	"zeme/internal/models"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks zeme/internal/geocode Service

// Service defines the interface for address lookups.
type Service interface {
	// Search returns candidate matches for a free-text query, best first.
	Search(ctx context.Context, query string) ([]models.Candidate, error)
}

// Ensure NominatimClient implements Service interface
var _ Service = (*NominatimClient)(nil)
