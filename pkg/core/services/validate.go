package services

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	clockPattern    = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
	rgbColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	validate.RegisterValidation("rgbcolor", func(fl validator.FieldLevel) bool {
		return rgbColorPattern.MatchString(fl.Field().String())
	})
}
