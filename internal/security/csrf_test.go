package security

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateCSRFToken(t *testing.T) {
	t1, err := GenerateCSRFToken()
	if err != nil {
		t.Fatalf("GenerateCSRFToken: %v", err)
	}
	t2, err := GenerateCSRFToken()
	if err != nil {
		t.Fatalf("GenerateCSRFToken: %v", err)
	}
	if t1 == t2 {
		t.Fatal("two generated tokens are identical")
	}
	// 32 bytes base64url without padding encode to 43 characters.
	if len(t1) != 43 {
		t.Errorf("token length = %d, want 43", len(t1))
	}
	if strings.ContainsAny(t1, "+/=") {
		t.Errorf("token %q is not base64url without padding", t1)
	}
}

func TestCSRFTokenEqual(t *testing.T) {
	token, err := GenerateCSRFToken()
	if err != nil {
		t.Fatalf("GenerateCSRFToken: %v", err)
	}
	if !CSRFTokenEqual(token, token) {
		t.Fatal("equal tokens did not match")
	}
	if CSRFTokenEqual(token, token[:len(token)-1]+"!") {
		t.Fatal("token differing in the last byte matched")
	}
	if CSRFTokenEqual(token, "!"+token[1:]) {
		t.Fatal("token differing in the first byte matched")
	}
	if CSRFTokenEqual(token, token[:10]) {
		t.Fatal("shorter token matched")
	}
	if CSRFTokenEqual("", "") != true {
		t.Fatal("two empty strings should compare equal")
	}
}

// TestCSRFTokenEqual_TimingIndependence checks that comparison time does not
// depend on where the first mismatching byte sits. The threshold is generous;
// the point is catching an accidental switch to a short-circuiting compare,
// not micro-benchmarking.
func TestCSRFTokenEqual_TimingIndependence(t *testing.T) {
	if testing.Short() {
		t.Skip("timing measurement skipped in short mode")
	}
	stored := strings.Repeat("a", 43)
	earlyMismatch := "b" + strings.Repeat("a", 42)
	lateMismatch := strings.Repeat("a", 42) + "b"

	const iterations = 200000
	measure := func(candidate string) time.Duration {
		start := time.Now()
		for i := 0; i < iterations; i++ {
			CSRFTokenEqual(stored, candidate)
		}
		return time.Since(start)
	}
	// Warm up before timing.
	measure(earlyMismatch)
	early := measure(earlyMismatch)
	late := measure(lateMismatch)

	ratio := float64(early) / float64(late)
	if ratio < 0.1 || ratio > 10 {
		t.Errorf("comparison timing depends on mismatch position: early=%v late=%v", early, late)
	}
}
