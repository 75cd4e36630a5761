// Package validator registers the custom binding tags used by request models.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// slugRegex: lowercase alphanumerics joined by single hyphens
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

	// accessNameRegex: catalog module and permission names, e.g. create_salesman
	accessNameRegex = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)
)

func validateSlug(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}

func validateAccessName(fl validator.FieldLevel) bool {
	return accessNameRegex.MatchString(fl.Field().String())
}

// Register adds the custom tags to v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("slug", validateSlug); err != nil {
		return err
	}
	return v.RegisterValidation("accessname", validateAccessName)
}

// RegisterCustomValidators registers all custom validators with gin's validator
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = Register(v)
	}
}
