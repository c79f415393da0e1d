package validator

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidName     = errors.New("name must be between 2 and 100 characters")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidPolicy   = errors.New("invalid policy number")
)

var (
	emailRegex  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRegex  = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	policyRegex = regexp.MustCompile(`^[A-Za-z]{3}-[0-9]{4}-[0-9]{4}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePhone accepts digits with an optional leading +, ignoring spaces
// and dashes.
func ValidatePhone(phone string) error {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	if !phoneRegex.MatchString(cleaned) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 2 || n > 100 {
		return ErrInvalidName
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidatePolicyNumber(policy string) error {
	if !policyRegex.MatchString(strings.TrimSpace(policy)) {
		return ErrInvalidPolicy
	}
	return nil
}
