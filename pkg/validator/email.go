package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyEmail indicates the email address is empty
	ErrEmptyEmail = errors.New("email address cannot be empty")

	// ErrInvalidFormat indicates the email address is malformed
	ErrInvalidFormat = errors.New("email address is not valid")
)

// emailRegex requires a local part, an @ and a dotted domain, with no
// whitespace anywhere.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailValidator handles email address validation
type EmailValidator struct{}

// NewEmailValidator creates a new email validator instance
func NewEmailValidator() *EmailValidator {
	return &EmailValidator{}
}

// Validate validates an email address. Returns the sanitized address
// (trimmed, lowercased) and an error if invalid. Customer lookup is
// case-insensitive, so the sanitized form is what goes to the store.
func (v *EmailValidator) Validate(email string) (string, error) {
	if email == "" {
		return "", ErrEmptyEmail
	}

	sanitized := v.Sanitize(email)
	if sanitized == "" {
		return "", ErrEmptyEmail
	}

	if !emailRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	return sanitized, nil
}

// Sanitize trims whitespace and lowercases an email address
func (v *EmailValidator) Sanitize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
