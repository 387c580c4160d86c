// Package validator registers custom binding validators with gin.
package validator

import (
	"zeme/internal/listing"
	"zeme/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validateListingStatus accepts draft or published in any case.
func validateListingStatus(fl validator.FieldLevel) bool {
	_, err := listing.ParseStatus(fl.Field().String())
	return err == nil
}

// validateRole accepts canonical roles and the legacy labels that map onto them.
func validateRole(fl validator.FieldLevel) bool {
	_, ok := models.NormalizeRole(fl.Field().String())
	return ok
}

// RegisterCustomValidators registers all custom validators with gin's validator
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("listingstatus", validateListingStatus)
		_ = v.RegisterValidation("role", validateRole)
	}
}
