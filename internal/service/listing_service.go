package service

import (
	"context"
	"errors"
	"log"

	apperrors "zeme/internal/errors"
	"zeme/internal/listing"
	"zeme/internal/models"
	"zeme/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeocodeSubmitter queues background coordinate lookups.
type GeocodeSubmitter interface {
	Submit(listingID primitive.ObjectID, address string)
}

// ListingService handles the listing lifecycle and search.
type ListingService struct {
	repo      repository.ListingRepository
	favorites repository.FavoriteRepository
	geocoder  GeocodeSubmitter
}

// NewListingService creates a new ListingService. geocoder may be nil.
func NewListingService(repo repository.ListingRepository, favorites repository.FavoriteRepository, geocoder GeocodeSubmitter) *ListingService {
	return &ListingService{
		repo:      repo,
		favorites: favorites,
		geocoder:  geocoder,
	}
}

// Search returns published listings matching the filter.
func (s *ListingService) Search(ctx context.Context, filter listing.Filter) ([]models.Listing, error) {
	q, err := listing.BuildQuery(filter)
	if err != nil {
		return nil, err
	}

	listings, err := s.repo.Search(ctx, q)
	if err != nil {
		log.Printf("Listing search failed: %v", err)
		return nil, apperrors.ErrQueryFailed
	}
	return listings, nil
}

// Create stores a new listing owned by owner. Status defaults to draft.
func (s *ListingService) Create(ctx context.Context, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error) {
	status := models.StatusDraft
	if in.Status != "" {
		parsed, err := listing.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	l := &models.Listing{Owner: owner, Status: status}
	in.ApplyTo(l)

	if err := listing.Validate(l, status).OrNil(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.submitGeocode(l)
	return l, nil
}

// Get returns a listing. Drafts are only visible to their owner.
func (s *ListingService) Get(ctx context.Context, id, caller primitive.ObjectID) (*models.Listing, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != models.StatusPublished && l.Owner != caller {
		return nil, apperrors.ErrListingNotFound
	}
	return l, nil
}

// Update replaces the mutable fields of an owned listing. An omitted status keeps
// the current one. Nothing is written unless the merged listing is valid.
func (s *ListingService) Update(ctx context.Context, id, owner primitive.ObjectID, in *models.ListingInput) (*models.Listing, error) {
	existing, err := s.owned(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	status := existing.Status
	if in.Status != "" {
		parsed, err := listing.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	updated := *existing
	updated.Status = status
	in.ApplyTo(&updated)

	// Keep coordinates resolved for the same address.
	if updated.BasicInformation.Coordinates == nil &&
		updated.BasicInformation.Address == existing.BasicInformation.Address {
		updated.BasicInformation.Coordinates = existing.BasicInformation.Coordinates
	}

	if err := listing.Validate(&updated, status).OrNil(); err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, &updated); err != nil {
		return nil, err
	}

	s.submitGeocode(&updated)
	return &updated, nil
}

// UpdateStatus moves an owned listing to status after validating the stored
// document against it.
func (s *ListingService) UpdateStatus(ctx context.Context, id, owner primitive.ObjectID, status string) (*models.Listing, error) {
	target, err := listing.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	existing, err := s.owned(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if err := listing.Validate(existing, target).OrNil(); err != nil {
		return nil, err
	}

	l, err := s.repo.UpdateStatus(ctx, id, owner, target)
	if err != nil {
		return nil, err
	}

	s.submitGeocode(l)
	return l, nil
}

// ListMine returns the owner's listings, optionally narrowed to one status.
func (s *ListingService) ListMine(ctx context.Context, owner primitive.ObjectID, status string) ([]models.Listing, error) {
	var filter *models.ListingStatus
	if status != "" {
		parsed, err := listing.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &parsed
	}
	return s.repo.FindByOwner(ctx, owner, filter)
}

// Delete removes an owned listing and takes it out of every favorite set.
func (s *ListingService) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	if _, err := s.owned(ctx, id, owner); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, owner); err != nil {
		return err
	}

	if n, err := s.favorites.PullFromAll(ctx, id); err != nil {
		log.Printf("Failed to remove listing %s from favorites: %v", id.Hex(), err)
	} else if n > 0 {
		log.Printf("Removed listing %s from %d favorite sets", id.Hex(), n)
	}
	return nil
}

// owned loads a listing created by owner. A listing that exists under another
// owner is ErrListingForbidden rather than ErrListingNotFound.
func (s *ListingService) owned(ctx context.Context, id, owner primitive.ObjectID) (*models.Listing, error) {
	l, err := s.repo.FindByIDAndOwner(ctx, id, owner)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, apperrors.ErrListingNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, apperrors.ErrListingForbidden
}

func (s *ListingService) submitGeocode(l *models.Listing) {
	if s.geocoder == nil || l.Status != models.StatusPublished || l.BasicInformation.Coordinates != nil {
		return
	}
	s.geocoder.Submit(l.ID, l.BasicInformation.Address)
}
