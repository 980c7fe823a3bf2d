// Package validator wraps go-playground/validator with the tags request DTOs
// in this service use.
package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Steam app ids are positive decimal integers without leading zeros.
var appIDPattern = regexp.MustCompile(`^[1-9][0-9]{0,9}$`)

// IsAppID reports whether s is a well-formed Steam app id. It backs the
// "appid" tag.
func IsAppID(s string) bool {
	return appIDPattern.MatchString(s)
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("appid", func(fl validator.FieldLevel) bool {
		return IsAppID(fl.Field().String())
	})
	return &Validator{v: v}
}

func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}
