package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "zeme/internal/errors"
	"zeme/internal/listing"
	"zeme/internal/models"
	repomocks "zeme/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

type submittedJob struct {
	id      primitive.ObjectID
	address string
}

// recordingSubmitter collects geocode submissions.
type recordingSubmitter struct {
	jobs []submittedJob
}

func (r *recordingSubmitter) Submit(id primitive.ObjectID, address string) {
	r.jobs = append(r.jobs, submittedJob{id: id, address: address})
}

func ptr(v float64) *float64 { return &v }

func publishableInput() *models.ListingInput {
	available := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	images := make([]string, 5)
	for i := range images {
		images[i] = fmt.Sprintf("https://cdn.example.com/uploads/%d.jpg", i)
	}
	return &models.ListingInput{
		BasicInformation: models.BasicInformation{
			Address:       "350 5th Ave, New York, NY",
			Bedrooms:      ptr(2),
			Bathrooms:     ptr(1),
			DateAvailable: &available,
		},
		EconomicInformation: models.EconomicInformation{
			GrossRent:             ptr(3200),
			SecurityDepositAmount: ptr(3200),
			BrokerFee:             ptr(0),
		},
		Images: images,
	}
}

func TestListingService_Create(t *testing.T) {
	owner := primitive.NewObjectID()

	t.Run("defaults to draft and needs only an address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		submitter := &recordingSubmitter{}

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, l *models.Listing) error {
				l.ID = primitive.NewObjectID()
				return nil
			})

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), submitter)
		l, err := service.Create(context.Background(), owner, &models.ListingInput{
			BasicInformation: models.BasicInformation{Address: "1 Main St"},
		})

		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, l.Status)
		assert.Equal(t, owner, l.Owner)
		assert.Equal(t, models.DefaultListingType, l.ListingType)
		assert.NotNil(t, l.Images)
		assert.Empty(t, submitter.jobs)
	})

	t.Run("draft without address is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewListingService(repomocks.NewMockListingRepository(ctrl), repomocks.NewMockFavoriteRepository(ctrl), nil)
		_, err := service.Create(context.Background(), owner, &models.ListingInput{})

		ve, ok := apperrors.AsValidation(err)
		require.True(t, ok)
		assert.True(t, ve.Has(string(listing.FieldAddress)))
	})

	t.Run("incomplete published listing reports every missing field", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewListingService(repomocks.NewMockListingRepository(ctrl), repomocks.NewMockFavoriteRepository(ctrl), nil)
		_, err := service.Create(context.Background(), owner, &models.ListingInput{
			Status:           "published",
			BasicInformation: models.BasicInformation{Address: "1 Main St"},
		})

		ve, ok := apperrors.AsValidation(err)
		require.True(t, ok)
		assert.True(t, ve.Has(string(listing.FieldBedrooms)))
		assert.True(t, ve.Has(string(listing.FieldGrossRent)))
		assert.True(t, ve.Has(string(listing.FieldImages)))
	})

	t.Run("published listing is queued for geocoding", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		submitter := &recordingSubmitter{}
		id := primitive.NewObjectID()

		mockRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, l *models.Listing) error {
				l.ID = id
				return nil
			})

		in := publishableInput()
		in.Status = "published"

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), submitter)
		l, err := service.Create(context.Background(), owner, in)

		require.NoError(t, err)
		assert.Equal(t, models.StatusPublished, l.Status)
		require.Len(t, submitter.jobs, 1)
		assert.Equal(t, submittedJob{id: id, address: "350 5th Ave, New York, NY"}, submitter.jobs[0])
	})

	t.Run("client coordinates skip geocoding", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		submitter := &recordingSubmitter{}
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		in := publishableInput()
		in.Status = "published"
		in.BasicInformation.Coordinates = &models.Coordinates{Lat: 40.7, Lng: -73.9}

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), submitter)
		_, err := service.Create(context.Background(), owner, in)

		require.NoError(t, err)
		assert.Empty(t, submitter.jobs)
	})

	t.Run("invalid status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewListingService(repomocks.NewMockListingRepository(ctrl), repomocks.NewMockFavoriteRepository(ctrl), nil)
		_, err := service.Create(context.Background(), owner, &models.ListingInput{Status: "archived"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	})
}

func TestListingService_Get(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	id := primitive.NewObjectID()

	tests := []struct {
		name    string
		status  models.ListingStatus
		caller  primitive.ObjectID
		wantErr error
	}{
		{"owner sees draft", models.StatusDraft, owner, nil},
		{"stranger cannot see draft", models.StatusDraft, stranger, apperrors.ErrListingNotFound},
		{"anonymous cannot see draft", models.StatusDraft, primitive.NilObjectID, apperrors.ErrListingNotFound},
		{"stranger sees published", models.StatusPublished, stranger, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := repomocks.NewMockListingRepository(ctrl)
			mockRepo.EXPECT().
				FindByID(gomock.Any(), id).
				Return(&models.Listing{ID: id, Owner: owner, Status: tt.status}, nil)

			service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
			l, err := service.Get(context.Background(), id, tt.caller)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, l.ID)
		})
	}

	t.Run("missing listing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().FindByID(gomock.Any(), id).Return(nil, apperrors.ErrListingNotFound)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		_, err := service.Get(context.Background(), id, owner)

		assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
	})
}

func TestListingService_Update(t *testing.T) {
	owner := primitive.NewObjectID()
	id := primitive.NewObjectID()
	coords := &models.Coordinates{Lat: 40.7484, Lng: -73.9857}

	stored := func() *models.Listing {
		l := &models.Listing{ID: id, Owner: owner, Status: models.StatusPublished}
		publishableInput().ApplyTo(l)
		l.BasicInformation.Coordinates = coords
		return l
	}

	t.Run("keeps status and coordinates for the same address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		submitter := &recordingSubmitter{}

		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, owner).Return(stored(), nil)
		mockRepo.EXPECT().
			Replace(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, l *models.Listing) error {
				assert.Equal(t, models.StatusPublished, l.Status)
				assert.Equal(t, coords, l.BasicInformation.Coordinates)
				assert.Equal(t, 3500.0, *l.EconomicInformation.GrossRent)
				return nil
			})

		in := publishableInput()
		in.EconomicInformation.GrossRent = ptr(3500)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), submitter)
		l, err := service.Update(context.Background(), id, owner, in)

		require.NoError(t, err)
		assert.Equal(t, owner, l.Owner)
		assert.Empty(t, submitter.jobs)
	})

	t.Run("changed address is geocoded again", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		submitter := &recordingSubmitter{}

		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, owner).Return(stored(), nil)
		mockRepo.EXPECT().Replace(gomock.Any(), gomock.Any()).Return(nil)

		in := publishableInput()
		in.BasicInformation.Address = "1 Wall St, New York, NY"

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), submitter)
		l, err := service.Update(context.Background(), id, owner, in)

		require.NoError(t, err)
		assert.Nil(t, l.BasicInformation.Coordinates)
		require.Len(t, submitter.jobs, 1)
		assert.Equal(t, "1 Wall St, New York, NY", submitter.jobs[0].address)
	})

	t.Run("invalid update writes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, owner).Return(stored(), nil)

		in := publishableInput()
		in.Images = in.Images[:2]

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		_, err := service.Update(context.Background(), id, owner, in)

		ve, ok := apperrors.AsValidation(err)
		require.True(t, ok)
		assert.True(t, ve.Has(string(listing.FieldImages)))
	})

	t.Run("other owner is forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, gomock.Not(owner)).Return(nil, apperrors.ErrListingNotFound)
		mockRepo.EXPECT().FindByID(gomock.Any(), id).Return(stored(), nil)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		_, err := service.Update(context.Background(), id, primitive.NewObjectID(), publishableInput())

		assert.ErrorIs(t, err, apperrors.ErrListingForbidden)
	})
}

func TestListingService_UpdateStatus(t *testing.T) {
	owner := primitive.NewObjectID()
	id := primitive.NewObjectID()

	t.Run("publishes a complete draft", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		draft := &models.Listing{ID: id, Owner: owner, Status: models.StatusDraft}
		publishableInput().ApplyTo(draft)
		published := *draft
		published.Status = models.StatusPublished

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		submitter := &recordingSubmitter{}
		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, owner).Return(draft, nil)
		mockRepo.EXPECT().UpdateStatus(gomock.Any(), id, owner, models.StatusPublished).Return(&published, nil)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), submitter)
		l, err := service.UpdateStatus(context.Background(), id, owner, "Published")

		require.NoError(t, err)
		assert.Equal(t, models.StatusPublished, l.Status)
		assert.Len(t, submitter.jobs, 1)
	})

	t.Run("incomplete draft cannot be published", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, owner).Return(&models.Listing{
			ID: id, Owner: owner, Status: models.StatusDraft,
			BasicInformation: models.BasicInformation{Address: "1 Main St"},
		}, nil)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		_, err := service.UpdateStatus(context.Background(), id, owner, "published")

		_, ok := apperrors.AsValidation(err)
		assert.True(t, ok)
	})

	t.Run("unpublishing is always allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		existing := &models.Listing{
			ID: id, Owner: owner, Status: models.StatusPublished,
			BasicInformation: models.BasicInformation{Address: "1 Main St"},
		}
		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, owner).Return(existing, nil)
		mockRepo.EXPECT().
			UpdateStatus(gomock.Any(), id, owner, models.StatusDraft).
			Return(&models.Listing{ID: id, Owner: owner, Status: models.StatusDraft}, nil)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		l, err := service.UpdateStatus(context.Background(), id, owner, "draft")

		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, l.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewListingService(repomocks.NewMockListingRepository(ctrl), repomocks.NewMockFavoriteRepository(ctrl), nil)
		_, err := service.UpdateStatus(context.Background(), id, owner, "sold")

		assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	})
}

func TestListingService_Search(t *testing.T) {
	t.Run("returns published matches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		results := []models.Listing{{ID: primitive.NewObjectID(), Status: models.StatusPublished}}
		mockRepo.EXPECT().Search(gomock.Any(), gomock.Any()).Return(results, nil)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		got, err := service.Search(context.Background(), listing.Filter{Bedrooms: []string{"Studio", "2+"}})

		require.NoError(t, err)
		assert.Equal(t, results, got)
	})

	t.Run("bad room label", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		service := NewListingService(repomocks.NewMockListingRepository(ctrl), repomocks.NewMockFavoriteRepository(ctrl), nil)
		_, err := service.Search(context.Background(), listing.Filter{Bedrooms: []string{"lots"}})

		assert.ErrorIs(t, err, apperrors.ErrInvalidFilter)
	})

	t.Run("storage failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		_, err := service.Search(context.Background(), listing.Filter{})

		assert.ErrorIs(t, err, apperrors.ErrQueryFailed)
	})
}

func TestListingService_ListMine(t *testing.T) {
	owner := primitive.NewObjectID()

	t.Run("all statuses", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().FindByOwner(gomock.Any(), owner, nil).Return([]models.Listing{}, nil)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		got, err := service.ListMine(context.Background(), owner, "")

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("drafts only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().
			FindByOwner(gomock.Any(), owner, gomock.Any()).
			DoAndReturn(func(ctx context.Context, o primitive.ObjectID, status *models.ListingStatus) ([]models.Listing, error) {
				require.NotNil(t, status)
				assert.Equal(t, models.StatusDraft, *status)
				return []models.Listing{{Owner: owner, Status: models.StatusDraft}}, nil
			})

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		got, err := service.ListMine(context.Background(), owner, "draft")

		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestListingService_Delete(t *testing.T) {
	owner := primitive.NewObjectID()
	id := primitive.NewObjectID()

	t.Run("removes listing and favorites", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockFavorites := repomocks.NewMockFavoriteRepository(ctrl)

		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, owner).Return(&models.Listing{ID: id, Owner: owner}, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), id, owner).Return(nil)
		mockFavorites.EXPECT().PullFromAll(gomock.Any(), id).Return(int64(2), nil)

		service := NewListingService(mockRepo, mockFavorites, nil)
		assert.NoError(t, service.Delete(context.Background(), id, owner))
	})

	t.Run("favorite cleanup failure is not fatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockFavorites := repomocks.NewMockFavoriteRepository(ctrl)

		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, owner).Return(&models.Listing{ID: id, Owner: owner}, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), id, owner).Return(nil)
		mockFavorites.EXPECT().PullFromAll(gomock.Any(), id).Return(int64(0), assert.AnError)

		service := NewListingService(mockRepo, mockFavorites, nil)
		assert.NoError(t, service.Delete(context.Background(), id, owner))
	})

	t.Run("other owner is forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, gomock.Not(owner)).Return(nil, apperrors.ErrListingNotFound)
		mockRepo.EXPECT().FindByID(gomock.Any(), id).Return(&models.Listing{ID: id, Owner: owner}, nil)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		err := service.Delete(context.Background(), id, primitive.NewObjectID())

		assert.ErrorIs(t, err, apperrors.ErrListingForbidden)
	})

	t.Run("missing listing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, owner).Return(nil, apperrors.ErrListingNotFound)
		mockRepo.EXPECT().FindByID(gomock.Any(), id).Return(nil, apperrors.ErrListingNotFound)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		err := service.Delete(context.Background(), id, owner)

		assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
	})

	t.Run("storage failure skips the existence check", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := repomocks.NewMockListingRepository(ctrl)
		mockRepo.EXPECT().FindByIDAndOwner(gomock.Any(), id, owner).Return(nil, assert.AnError)

		service := NewListingService(mockRepo, repomocks.NewMockFavoriteRepository(ctrl), nil)
		err := service.Delete(context.Background(), id, owner)

		assert.ErrorIs(t, err, assert.AnError)
	})
}
