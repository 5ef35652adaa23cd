package domain

import (
	"regexp"
	"strings"

	"authcore/internal/apperr"
)

// maxEmailLength bounds stored addresses; longer input is rejected, not truncated.
const maxEmailLength = 255

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is a validated, normalized (trimmed, lowercased) address.
// Construct only through NewEmail.
type Email string

// NewEmail validates and normalizes raw. Returns a Validation error on
// empty, oversized, or malformed input.
func NewEmail(raw string) (Email, error) {
	e := strings.ToLower(strings.TrimSpace(raw))
	if e == "" {
		return "", apperr.Validation("email is required")
	}
	if len(e) > maxEmailLength {
		return "", apperr.Validation("email must be 255 characters or less")
	}
	if !emailPattern.MatchString(e) {
		return "", apperr.Validation("invalid email format")
	}
	return Email(e), nil
}

func (e Email) String() string { return string(e) }
