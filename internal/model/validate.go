package model

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ErrValidation wraps every validation failure so callers can test with
// errors.Is without depending on validator internals.
var ErrValidation = errors.New("validation failed")

var validate = newValidator()

// phoneRe accepts international and local formats: optional +, digits,
// spaces, dashes, parentheses, 7-20 significant characters.
var phoneRe = regexp.MustCompile(`^\+?[0-9][0-9\s\-().]{5,19}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// iso4217 covers currency; phone mirrors the original's loose check.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return false
		}
		return phoneRe.MatchString(s)
	})
	return v
}

// Validate runs struct validation on an entity or patch. The repositories
// call it before every local write; rows applied from the remote are trusted
// as-is.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
