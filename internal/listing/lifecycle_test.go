package listing

import (
	"fmt"
	"testing"
	"time"

	apperrors "zeme/internal/errors"
	"zeme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func images(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://cdn.example.com/uploads/%d.jpg", i)
	}
	return out
}

func completeListing() *models.Listing {
	available := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &models.Listing{
		BasicInformation: models.BasicInformation{
			Address:       "350 5th Ave, New York, NY",
			Unit:          "12B",
			Bedrooms:      f64(2),
			Bathrooms:     f64(1.5),
			DateAvailable: &available,
		},
		EconomicInformation: models.EconomicInformation{
			GrossRent:             f64(3200),
			SecurityDepositAmount: f64(3200),
			BrokerFee:             f64(0),
		},
		Images: images(5),
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("draft")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, s)

	s, err = ParseStatus(" Published ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, s)

	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestRequiredFieldsFor(t *testing.T) {
	assert.Equal(t, []Field{FieldAddress}, RequiredFieldsFor(models.StatusDraft))

	published := RequiredFieldsFor(models.StatusPublished)
	assert.ElementsMatch(t, []Field{
		FieldAddress, FieldBedrooms, FieldBathrooms, FieldDateAvailable,
		FieldGrossRent, FieldSecurityDeposit, FieldBrokerFee, FieldImages,
	}, published)

	// Callers get a copy.
	published[0] = "mutated"
	assert.Equal(t, FieldAddress, RequiredFieldsFor(models.StatusPublished)[0])
}

func TestValidate_DraftWithOnlyAddress(t *testing.T) {
	l := &models.Listing{BasicInformation: models.BasicInformation{Address: "1 Main St"}}

	assert.Nil(t, Validate(l, models.StatusDraft))

	ve := Validate(l, models.StatusPublished)
	require.NotNil(t, ve)
	for _, f := range []Field{
		FieldBedrooms, FieldBathrooms, FieldDateAvailable,
		FieldGrossRent, FieldSecurityDeposit, FieldBrokerFee, FieldImages,
	} {
		assert.True(t, ve.Has(string(f)), "expected violation for %s", f)
	}
	assert.False(t, ve.Has(string(FieldAddress)))
}

func TestValidate_DraftWithoutAddress(t *testing.T) {
	ve := Validate(&models.Listing{}, models.StatusDraft)
	require.NotNil(t, ve)
	assert.Equal(t, []apperrors.FieldViolation{{Field: string(FieldAddress), Message: "address is required"}}, ve.Violations)

	whitespace := &models.Listing{BasicInformation: models.BasicInformation{Address: "   "}}
	assert.NotNil(t, Validate(whitespace, models.StatusDraft))
}

func TestValidate_ImageBounds(t *testing.T) {
	tests := []struct {
		count int
		valid bool
	}{
		{0, false},
		{4, false},
		{5, true},
		{25, true},
		{26, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d images", tt.count), func(t *testing.T) {
			l := completeListing()
			l.Images = images(tt.count)

			ve := Validate(l, models.StatusPublished)
			if tt.valid {
				assert.Nil(t, ve)
				return
			}
			require.NotNil(t, ve)
			assert.True(t, ve.Has(string(FieldImages)))
		})
	}

	t.Run("drafts ignore image count", func(t *testing.T) {
		l := completeListing()
		l.Images = images(30)
		assert.Nil(t, Validate(l, models.StatusDraft))
	})

	t.Run("empty image entry rejected on publish", func(t *testing.T) {
		l := completeListing()
		l.Images[2] = " "

		ve := Validate(l, models.StatusPublished)
		require.NotNil(t, ve)
		assert.True(t, ve.Has("images[2]"))
	})
}

func TestValidate_NonNegative(t *testing.T) {
	for _, status := range []models.ListingStatus{models.StatusDraft, models.StatusPublished} {
		t.Run(string(status), func(t *testing.T) {
			l := completeListing()
			l.EconomicInformation.GrossRent = f64(-1)
			l.BasicInformation.SquareFeet = f64(-10)

			ve := Validate(l, status)
			require.NotNil(t, ve)
			assert.True(t, ve.Has(string(FieldGrossRent)))
			assert.True(t, ve.Has(string(FieldSquareFeet)))
		})
	}

	t.Run("zero values are allowed", func(t *testing.T) {
		l := completeListing()
		l.BasicInformation.Bedrooms = f64(0)
		l.EconomicInformation.BrokerFee = f64(0)
		assert.Nil(t, Validate(l, models.StatusPublished))
	})
}

func TestValidate_AnotherFee(t *testing.T) {
	l := completeListing()
	l.EconomicInformation.HasAnotherFee = true
	l.EconomicInformation.AnotherFee = &models.AnotherFee{FeeName: "Amenity", FeeAmount: f64(-5), FeeType: "weekly"}

	ve := Validate(l, models.StatusDraft)
	require.NotNil(t, ve)
	assert.True(t, ve.Has("economicInformation.anotherFee.feeAmount"))
	assert.True(t, ve.Has("economicInformation.anotherFee.feeType"))

	l.EconomicInformation.AnotherFee = &models.AnotherFee{FeeName: "Amenity", FeeAmount: f64(50), FeeType: models.FeeOneTime}
	assert.Nil(t, Validate(l, models.StatusPublished))
}

func TestValidate_CompleteListingPublishes(t *testing.T) {
	assert.Nil(t, Validate(completeListing(), models.StatusPublished))
}
