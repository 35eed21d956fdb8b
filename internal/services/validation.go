package services

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"sweetshop/internal/models"
)

var (
	lettersPattern = regexp.MustCompile(`^[A-Za-z ]+$`)
	digitsPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// NewValidator returns a validator with the shop's custom tags registered:
// "letters" (ASCII letters and spaces) and "digits" (ASCII digits only).
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("letters", func(fl validator.FieldLevel) bool {
		return lettersPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})
	return v
}

// NormalizeCustomer trims every checkout field.
func NormalizeCustomer(d models.CustomerDetails) models.CustomerDetails {
	return models.CustomerDetails{
		Name:    strings.TrimSpace(d.Name),
		Phone:   strings.TrimSpace(d.Phone),
		Pincode: strings.TrimSpace(d.Pincode),
		City:    strings.TrimSpace(d.City),
		State:   strings.TrimSpace(d.State),
	}
}
