package domain

import (
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	s, err := New("u1", "127.0.0.1", "Mozilla/5.0", time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.ID == "" || s.CsrfToken == "" {
		t.Fatal("id or csrf token empty")
	}
	if s.UserID != "u1" || s.IPAddress != "127.0.0.1" || s.UserAgent != "Mozilla/5.0" {
		t.Errorf("fields not carried: %+v", s)
	}
	if s.IsExpired() {
		t.Error("fresh session reported expired")
	}
}

func TestSessionExpiry(t *testing.T) {
	s, err := New("u1", "", "", -time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !s.IsExpired() {
		t.Error("session past its TTL reported live")
	}
	s.Extend(time.Hour)
	if s.IsExpired() {
		t.Error("extended session reported expired")
	}
}

func TestSessionVerifyCsrf(t *testing.T) {
	s, err := New("u1", "", "", time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !s.VerifyCsrf(s.CsrfToken) {
		t.Error("stored token rejected")
	}
	if s.VerifyCsrf(s.CsrfToken[:len(s.CsrfToken)-1] + "x") {
		t.Error("near-miss token accepted")
	}
	if s.VerifyCsrf("") {
		t.Error("empty token accepted")
	}
}

func TestSessionCsrfTokensDiffer(t *testing.T) {
	a, _ := New("u1", "", "", time.Hour)
	b, _ := New("u1", "", "", time.Hour)
	if a.CsrfToken == b.CsrfToken {
		t.Error("two sessions share a CSRF token")
	}
}
