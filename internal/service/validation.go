package service

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// Validation limits.
const (
	// MaxNameLength is the maximum length for a user's display name.
	MaxNameLength = 100

	// MaxEmailLength is the maximum length for an email address.
	MaxEmailLength = 254

	// MinPasswordLength is the minimum length for a password.
	MinPasswordLength = 8

	// MaxPasswordLength caps passwords to bound hashing cost.
	MaxPasswordLength = 128

	// MaxTitleLength is the maximum length for a task title.
	MaxTitleLength = 200

	// MaxDescriptionLength is the maximum length for a task description.
	MaxDescriptionLength = 2000
)

// Validation errors.
var (
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email format is invalid")
	ErrEmailTooLong       = errors.New("email exceeds maximum length")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrPasswordTooLong    = errors.New("password exceeds maximum length")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title exceeds maximum length")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
)

// emailPattern is a pragmatic format check, not full RFC 5322.
// The store's unique index is the real uniqueness guard.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateName validates a user's display name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrNameRequired
	}
	if len(trimmed) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// ValidateEmail validates an email address format.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// ValidatePassword validates password length bounds.
// Content rules are deliberately absent; length is the only hard gate.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// ValidateTitle validates a task title.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if len(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateDescription validates a task description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimFunc(email, unicode.IsSpace))
}

// validationErrors enumerates field-level failures that map to a
// 400 response rather than a 500.
var validationErrors = []error{
	ErrNameRequired,
	ErrNameTooLong,
	ErrEmailRequired,
	ErrEmailInvalid,
	ErrEmailTooLong,
	ErrPasswordRequired,
	ErrPasswordTooShort,
	ErrPasswordTooLong,
	ErrTitleRequired,
	ErrTitleTooLong,
	ErrDescriptionTooLong,
	ErrLastDateRequired,
	ErrInvalidStatus,
	ErrInvalidRole,
}

// IsValidationError reports whether the error is a field validation
// failure, independent of auth.
func IsValidationError(err error) bool {
	for _, e := range validationErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
