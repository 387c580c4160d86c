package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	// StatusDraft listings are visible to their owner only and need just an address.
	StatusDraft ListingStatus = "draft"
	// StatusPublished listings are publicly searchable and must be complete.
	StatusPublished ListingStatus = "published"
)

// Fee types for an additional fee.
const (
	FeeMonthly = "monthly"
	FeeOneTime = "one-time"
)

// DefaultListingType is used when the client does not send one.
const DefaultListingType = "exclusive"

// Coordinates is a geocoded point, stored verbatim from the geocoder.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat" example:"40.7484"`
	Lng float64 `json:"lng" bson:"lng" example:"-73.9857"`
}

// BasicInformation groups location and size details of a listing.
type BasicInformation struct {
	Address       string       `json:"address" bson:"address" example:"350 5th Ave, New York, NY"`
	Unit          string       `json:"unit,omitempty" bson:"unit,omitempty" example:"12B"`
	Floor         *float64     `json:"floor,omitempty" bson:"floor,omitempty" example:"12"`
	Bedrooms      *float64     `json:"bedrooms,omitempty" bson:"bedrooms,omitempty" example:"2"` // 0 = studio
	Bathrooms     *float64     `json:"bathrooms,omitempty" bson:"bathrooms,omitempty" example:"1.5"`
	SquareFeet    *float64     `json:"squareFeet,omitempty" bson:"squareFeet,omitempty" example:"850"`
	DateAvailable *time.Time   `json:"dateAvailable,omitempty" bson:"dateAvailable,omitempty" example:"2024-03-01T00:00:00Z"`
	Coordinates   *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

// AnotherFee describes a fee on top of rent, deposit and broker fee.
type AnotherFee struct {
	FeeName   string   `json:"feeName" bson:"feeName" example:"Amenity fee"`
	FeeAmount *float64 `json:"feeAmount,omitempty" bson:"feeAmount,omitempty" example:"100"`
	FeeType   string   `json:"feeType" bson:"feeType" example:"monthly"`
}

// EconomicInformation groups the monetary terms of a listing.
type EconomicInformation struct {
	GrossRent             *float64    `json:"grossRent,omitempty" bson:"grossRent,omitempty" example:"3200"`
	SecurityDepositAmount *float64    `json:"securityDepositAmount,omitempty" bson:"securityDepositAmount,omitempty" example:"3200"`
	BrokerFee             *float64    `json:"brokerFee,omitempty" bson:"brokerFee,omitempty" example:"0"`
	HasConcession         bool        `json:"hasConcession" bson:"hasConcession" example:"false"`
	HasAnotherFee         bool        `json:"hasAnotherFee" bson:"hasAnotherFee" example:"false"`
	AnotherFee            *AnotherFee `json:"anotherFee,omitempty" bson:"anotherFee,omitempty"`
}

// DocumentRequirements lists the documents an applicant must or may provide.
type DocumentRequirements struct {
	RequiredDocuments []string `json:"requiredDocuments" bson:"requiredDocuments" example:"photoId,creditCheck"`
	OptionalDocuments []string `json:"optionalDocuments" bson:"optionalDocuments" example:"bankStatements"`
}

// Listing is a rental property advertisement.
type Listing struct {
	ID                   primitive.ObjectID   `json:"id" bson:"_id,omitempty" example:"507f1f77bcf86cd799439011"`
	Owner                primitive.ObjectID   `json:"owner" bson:"owner" example:"507f1f77bcf86cd799439012"`
	Status               ListingStatus        `json:"status" bson:"status" example:"draft"`
	ListingType          string               `json:"listingType" bson:"listingType" example:"exclusive"`
	BasicInformation     BasicInformation     `json:"basicInformation" bson:"basicInformation"`
	EconomicInformation  EconomicInformation  `json:"economicInformation" bson:"economicInformation"`
	Amenities            []string             `json:"amenities" bson:"amenities" example:"doorman,gym"`
	DocumentRequirements DocumentRequirements `json:"documentRequirements" bson:"documentRequirements"`
	Images               []string             `json:"images" bson:"images" example:"https://cdn.example.com/uploads/a.jpg"`
	CreatedAt            time.Time            `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt            time.Time            `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T10:00:00Z"`
}

// ListingInput is the body of create and full-update requests.
// Owner, timestamps and identity are never taken from the client.
type ListingInput struct {
	Status               string               `json:"status" binding:"omitempty,listingstatus" example:"draft"`
	ListingType          string               `json:"listingType" binding:"max=50" example:"exclusive"`
	BasicInformation     BasicInformation     `json:"basicInformation"`
	EconomicInformation  EconomicInformation  `json:"economicInformation"`
	Amenities            []string             `json:"amenities" binding:"max=50,dive,max=50"`
	DocumentRequirements DocumentRequirements `json:"documentRequirements"`
	Images               []string             `json:"images" binding:"max=100"`
}

// ApplyTo overwrites the mutable fields of l with the input. Status is left alone.
func (in *ListingInput) ApplyTo(l *Listing) {
	l.ListingType = in.ListingType
	if l.ListingType == "" {
		l.ListingType = DefaultListingType
	}
	l.BasicInformation = in.BasicInformation
	l.EconomicInformation = in.EconomicInformation
	l.Amenities = nonNil(in.Amenities)
	l.DocumentRequirements = DocumentRequirements{
		RequiredDocuments: nonNil(in.DocumentRequirements.RequiredDocuments),
		OptionalDocuments: nonNil(in.DocumentRequirements.OptionalDocuments),
	}
	l.Images = nonNil(in.Images)
}

// UpdateStatusRequest is the body of a status-only change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,listingstatus" example:"published"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
