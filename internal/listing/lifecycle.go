// Package listing holds the listing rules shared by the API and the client wizard:
// status-dependent field requirements and the search query builder.
package listing

import (
	"fmt"
	"strings"

	apperrors "zeme/internal/errors"
	"zeme/internal/models"
)

// Image bounds for published listings.
const (
	MinPublishedImages = 5
	MaxPublishedImages = 25
)

// Field is the dotted document path of a validated listing field.
type Field string

// Validated fields.
const (
	FieldAddress         Field = "basicInformation.address"
	FieldUnit            Field = "basicInformation.unit"
	FieldFloor           Field = "basicInformation.floor"
	FieldBedrooms        Field = "basicInformation.bedrooms"
	FieldBathrooms       Field = "basicInformation.bathrooms"
	FieldSquareFeet      Field = "basicInformation.squareFeet"
	FieldDateAvailable   Field = "basicInformation.dateAvailable"
	FieldGrossRent       Field = "economicInformation.grossRent"
	FieldSecurityDeposit Field = "economicInformation.securityDepositAmount"
	FieldBrokerFee       Field = "economicInformation.brokerFee"
	FieldAnotherFee      Field = "economicInformation.anotherFee"
	FieldImages          Field = "images"
)

var fieldLabels = map[Field]string{
	FieldAddress:         "address",
	FieldUnit:            "unit",
	FieldFloor:           "floor",
	FieldBedrooms:        "bedrooms",
	FieldBathrooms:       "bathrooms",
	FieldSquareFeet:      "square feet",
	FieldDateAvailable:   "date available",
	FieldGrossRent:       "gross rent",
	FieldSecurityDeposit: "security deposit amount",
	FieldBrokerFee:       "broker fee",
	FieldAnotherFee:      "additional fee",
	FieldImages:          "images",
}

// Label is the human readable name of the field.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

var (
	draftRequired = []Field{FieldAddress}

	publishedRequired = []Field{
		FieldAddress,
		FieldBedrooms,
		FieldBathrooms,
		FieldDateAvailable,
		FieldGrossRent,
		FieldSecurityDeposit,
		FieldBrokerFee,
		FieldImages,
	}
)

// ParseStatus converts a client supplied status.
func ParseStatus(s string) (models.ListingStatus, error) {
	switch models.ListingStatus(strings.ToLower(strings.TrimSpace(s))) {
	case models.StatusDraft:
		return models.StatusDraft, nil
	case models.StatusPublished:
		return models.StatusPublished, nil
	}
	return "", apperrors.ErrInvalidStatus
}

// RequiredFieldsFor returns the fields that must be present for a listing in status.
func RequiredFieldsFor(status models.ListingStatus) []Field {
	var fields []Field
	if status == models.StatusPublished {
		fields = publishedRequired
	} else {
		fields = draftRequired
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// IsSet reports whether the field carries a value on l.
func IsSet(l *models.Listing, f Field) bool {
	b, e := l.BasicInformation, l.EconomicInformation
	switch f {
	case FieldAddress:
		return strings.TrimSpace(b.Address) != ""
	case FieldUnit:
		return strings.TrimSpace(b.Unit) != ""
	case FieldFloor:
		return b.Floor != nil
	case FieldBedrooms:
		return b.Bedrooms != nil
	case FieldBathrooms:
		return b.Bathrooms != nil
	case FieldSquareFeet:
		return b.SquareFeet != nil
	case FieldDateAvailable:
		return b.DateAvailable != nil && !b.DateAvailable.IsZero()
	case FieldGrossRent:
		return e.GrossRent != nil
	case FieldSecurityDeposit:
		return e.SecurityDepositAmount != nil
	case FieldBrokerFee:
		return e.BrokerFee != nil
	case FieldAnotherFee:
		return e.AnotherFee != nil
	case FieldImages:
		return len(l.Images) > 0
	}
	return false
}

// Validate checks l against the rules for status and reports every violation at once.
// It returns nil when the listing may be stored in that status.
func Validate(l *models.Listing, status models.ListingStatus) *apperrors.ValidationError {
	ve := &apperrors.ValidationError{}

	for _, f := range RequiredFieldsFor(status) {
		if f == FieldImages {
			continue
		}
		if !IsSet(l, f) {
			if status == models.StatusPublished {
				ve.Add(string(f), fmt.Sprintf("%s is required to publish", f.Label()))
			} else {
				ve.Add(string(f), fmt.Sprintf("%s is required", f.Label()))
			}
		}
	}

	checkNonNegative(ve, FieldFloor, l.BasicInformation.Floor)
	checkNonNegative(ve, FieldBedrooms, l.BasicInformation.Bedrooms)
	checkNonNegative(ve, FieldBathrooms, l.BasicInformation.Bathrooms)
	checkNonNegative(ve, FieldSquareFeet, l.BasicInformation.SquareFeet)
	checkNonNegative(ve, FieldGrossRent, l.EconomicInformation.GrossRent)
	checkNonNegative(ve, FieldSecurityDeposit, l.EconomicInformation.SecurityDepositAmount)
	checkNonNegative(ve, FieldBrokerFee, l.EconomicInformation.BrokerFee)

	if fee := l.EconomicInformation.AnotherFee; fee != nil {
		if fee.FeeAmount != nil && *fee.FeeAmount < 0 {
			ve.Add(string(FieldAnotherFee)+".feeAmount", "additional fee amount must not be negative")
		}
		if fee.FeeType != "" && fee.FeeType != models.FeeMonthly && fee.FeeType != models.FeeOneTime {
			ve.Add(string(FieldAnotherFee)+".feeType", "fee type must be monthly or one-time")
		}
	}

	if status == models.StatusPublished {
		validateImages(ve, l.Images)
	}

	if len(ve.Violations) == 0 {
		return nil
	}
	return ve
}

func validateImages(ve *apperrors.ValidationError, images []string) {
	n := len(images)
	if n < MinPublishedImages || n > MaxPublishedImages {
		ve.Add(string(FieldImages), fmt.Sprintf("published properties must have between %d and %d images", MinPublishedImages, MaxPublishedImages))
		return
	}
	for i, img := range images {
		if strings.TrimSpace(img) == "" {
			ve.Add(fmt.Sprintf("%s[%d]", FieldImages, i), "image url must not be empty")
		}
	}
}

func checkNonNegative(ve *apperrors.ValidationError, f Field, v *float64) {
	if v != nil && *v < 0 {
		ve.Add(string(f), fmt.Sprintf("%s must not be negative", f.Label()))
	}
}
