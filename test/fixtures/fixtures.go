// Package fixtures provides test data builders for unit and API tests.
package fixtures

import (
	"fmt"
	"time"

	"zeme/internal/listing"
	"zeme/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PasswordHash is "password123" hashed with bcrypt.
const PasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// ===== User Fixtures =====

// UserBuilder provides fluent API for building test users.
type UserBuilder struct {
	user models.User
}

// NewUser creates a renter with a unique email.
func NewUser() *UserBuilder {
	now := time.Now()
	return &UserBuilder{
		user: models.User{
			ID:        primitive.NewObjectID(),
			FirstName: "Test",
			LastName:  "User",
			Phone:     "+1 212 555 0100",
			Email:     fmt.Sprintf("test-%s@example.com", primitive.NewObjectID().Hex()[16:]),
			Password:  PasswordHash,
			Role:      models.RoleRenter,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (b *UserBuilder) WithID(id primitive.ObjectID) *UserBuilder {
	b.user.ID = id
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

func (b *UserBuilder) WithPassword(hash string) *UserBuilder {
	b.user.Password = hash
	return b
}

// AsAgent turns the user into an agent with company details.
func (b *UserBuilder) AsAgent() *UserBuilder {
	b.user.Role = models.RoleAgent
	b.user.CompanyName = "Test Realty"
	b.user.CompanyAddress = "1 Test Plaza, New York, NY"
	b.user.LicenseNumber = "NY-00001"
	return b
}

// WithGoogle marks the user as created through Google sign-in.
func (b *UserBuilder) WithGoogle(googleID string) *UserBuilder {
	b.user.GoogleID = googleID
	b.user.Password = ""
	b.user.Phone = ""
	return b
}

func (b *UserBuilder) Build() models.User {
	return b.user
}

func (b *UserBuilder) BuildPtr() *models.User {
	u := b.user
	return &u
}

// CreateRequest returns a registration payload matching the user.
func (b *UserBuilder) CreateRequest(password string) models.CreateUserRequest {
	return models.CreateUserRequest{
		FirstName:      b.user.FirstName,
		LastName:       b.user.LastName,
		Phone:          b.user.Phone,
		Email:          b.user.Email,
		Password:       password,
		Role:           b.user.Role,
		CompanyName:    b.user.CompanyName,
		CompanyAddress: b.user.CompanyAddress,
		LicenseNumber:  b.user.LicenseNumber,
	}
}

// ===== Listing Fixtures =====

// ListingBuilder provides fluent API for building test listings.
type ListingBuilder struct {
	listing models.Listing
}

// NewDraft creates a draft holding only an address.
func NewDraft(owner primitive.ObjectID) *ListingBuilder {
	return &ListingBuilder{
		listing: models.Listing{
			Owner:       owner,
			Status:      models.StatusDraft,
			ListingType: models.DefaultListingType,
			BasicInformation: models.BasicInformation{
				Address: "350 5th Ave, New York, NY",
			},
			Amenities: []string{},
			DocumentRequirements: models.DocumentRequirements{
				RequiredDocuments: []string{},
				OptionalDocuments: []string{},
			},
			Images: []string{},
		},
	}
}

// NewPublished creates a listing that satisfies every publish rule.
func NewPublished(owner primitive.ObjectID) *ListingBuilder {
	return NewDraft(owner).
		Complete().
		WithImages(listing.MinPublishedImages).
		WithStatus(models.StatusPublished)
}

// Complete fills every field required to publish except images.
func (b *ListingBuilder) Complete() *ListingBuilder {
	available := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bi := &b.listing.BasicInformation
	bi.Unit = "12B"
	bi.Bedrooms = f64(2)
	bi.Bathrooms = f64(1)
	bi.DateAvailable = &available
	b.listing.EconomicInformation = models.EconomicInformation{
		GrossRent:             f64(2000),
		SecurityDepositAmount: f64(2000),
		BrokerFee:             f64(0),
	}
	return b
}

func (b *ListingBuilder) WithID(id primitive.ObjectID) *ListingBuilder {
	b.listing.ID = id
	return b
}

func (b *ListingBuilder) WithAddress(address string) *ListingBuilder {
	b.listing.BasicInformation.Address = address
	return b
}

func (b *ListingBuilder) WithBedrooms(n float64) *ListingBuilder {
	b.listing.BasicInformation.Bedrooms = f64(n)
	return b
}

func (b *ListingBuilder) WithBathrooms(n float64) *ListingBuilder {
	b.listing.BasicInformation.Bathrooms = f64(n)
	return b
}

func (b *ListingBuilder) WithRent(rent float64) *ListingBuilder {
	b.listing.EconomicInformation.GrossRent = f64(rent)
	return b
}

func (b *ListingBuilder) WithAmenities(amenities ...string) *ListingBuilder {
	b.listing.Amenities = amenities
	return b
}

func (b *ListingBuilder) WithCoordinates(lat, lng float64) *ListingBuilder {
	b.listing.BasicInformation.Coordinates = &models.Coordinates{Lat: lat, Lng: lng}
	return b
}

// WithImages replaces the images with n distinct URLs.
func (b *ListingBuilder) WithImages(n int) *ListingBuilder {
	imgs := make([]string, n)
	for i := range imgs {
		imgs[i] = fmt.Sprintf("https://cdn.example.com/uploads/%s-%d.jpg", primitive.NewObjectID().Hex(), i)
	}
	b.listing.Images = imgs
	return b
}

func (b *ListingBuilder) WithStatus(status models.ListingStatus) *ListingBuilder {
	b.listing.Status = status
	return b
}

func (b *ListingBuilder) WithCreatedAt(t time.Time) *ListingBuilder {
	b.listing.CreatedAt = t
	b.listing.UpdatedAt = t
	return b
}

func (b *ListingBuilder) Build() models.Listing {
	return b.listing
}

func (b *ListingBuilder) BuildPtr() *models.Listing {
	l := b.listing
	return &l
}

// Input returns the request body that creates this listing.
func (b *ListingBuilder) Input() models.ListingInput {
	return models.ListingInput{
		Status:               string(b.listing.Status),
		ListingType:          b.listing.ListingType,
		BasicInformation:     b.listing.BasicInformation,
		EconomicInformation:  b.listing.EconomicInformation,
		Amenities:            b.listing.Amenities,
		DocumentRequirements: b.listing.DocumentRequirements,
		Images:               b.listing.Images,
	}
}

func f64(v float64) *float64 { return &v }
