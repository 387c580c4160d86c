// Package errors provides custom error types for the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role, must be renter, agent, landlord or admin")
	ErrCompanyRequired    = errors.New("company name, company address and license number are required for agents and landlords")
)

// Auth errors
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrOAuthNotEnabled   = errors.New("google sign-in is not configured")
	ErrOAuthExchange     = errors.New("failed to authenticate with google")
	ErrOAuthEmailMissing = errors.New("google account has no verified email")
)

// Listing errors
var (
	ErrListingNotFound  = errors.New("property not found")
	ErrListingForbidden = errors.New("you can only modify your own properties")
	ErrInvalidStatus    = errors.New("invalid status value, must be draft or published")
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrInvalidListingID = errors.New("invalid property id")
	ErrQueryFailed      = errors.New("query failed")
)

// Upload errors
var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrFileTooLarge    = errors.New("file exceeds the 5MB limit")
	ErrUnsupportedFile = errors.New("only JPEG, PNG, and PDF files are allowed")
)

// Location errors
var (
	ErrGeocoderUnavailable = errors.New("failed to fetch locations")
)

// FieldViolation is one failed field check.
type FieldViolation struct {
	Field   string `json:"field" example:"basicInformation.bedrooms"`
	Message string `json:"message" example:"bedrooms is required to publish"`
}

// ValidationError aggregates every violation found for a listing mutation.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return fmt.Sprintf("cannot publish: missing or invalid fields: %s", strings.Join(fields, ", "))
}

// Add records a violation.
func (e *ValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
}

// Has reports whether a violation was recorded for field.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns nil when no violations were recorded, so callers can return it as error directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
