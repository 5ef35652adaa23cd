package security

import "time"

// Test signing secret for unit tests only. Do not use in production.
const testSecret = "unit-test-signing-secret-0123456789abcdef"

// NewTestTokenProvider returns a TokenProvider using the embedded test secret
// with 15m access / 24h refresh lifetimes. For unit tests only.
func NewTestTokenProvider() (*TokenProvider, error) {
	return NewTokenProvider([]byte(testSecret), "test-issuer", 15*time.Minute, 24*time.Hour)
}
