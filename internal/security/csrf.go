package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
)

// csrfTokenBytes is the entropy of a CSRF token before encoding (256 bits).
const csrfTokenBytes = 32

// GenerateCSRFToken returns a fresh random CSRF token, base64url-encoded
// without padding.
func GenerateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CSRFTokenEqual performs a constant-time comparison of the stored token with
// the one the client submitted. Returns true only if they match.
func CSRFTokenEqual(stored, submitted string) bool {
	if len(stored) != len(submitted) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
