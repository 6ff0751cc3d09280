package types

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// looseEmailPattern only checks for "something@something.something" without whitespace.
var looseEmailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ContactRecord is a single contact form submission.
type ContactRecord struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,looseemail"`
	Date        string `json:"date" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (c ContactRecord) Trimmed() ContactRecord {
	return ContactRecord{
		Name:        strings.TrimSpace(c.Name),
		Email:       strings.TrimSpace(c.Email),
		Date:        strings.TrimSpace(c.Date),
		Description: strings.TrimSpace(c.Description),
	}
}

// IsLooseEmail reports whether s has the rough shape of an email address.
func IsLooseEmail(s string) bool {
	return looseEmailPattern.MatchString(s)
}

// NewContactValidator returns a validator with the looseemail rule registered.
func NewContactValidator() *validator.Validate {
	validate := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = validate.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return IsLooseEmail(fl.Field().String())
	})
	return validate
}

// Validate validates the ContactRecord using the validator.
func (c *ContactRecord) Validate() error {
	return NewContactValidator().Struct(c)
}
