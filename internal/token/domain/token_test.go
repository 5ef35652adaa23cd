package domain

import (
	"testing"
	"time"
)

func TestNewRecord(t *testing.T) {
	exp := time.Now().UTC().Add(15 * time.Minute)
	rec := NewRecord("u1", KindAccess, "jti-1", exp)
	if rec.ID == "" {
		t.Error("ID not assigned")
	}
	if rec.UserID != "u1" || rec.Kind != KindAccess || rec.JTI != "jti-1" {
		t.Errorf("fields not carried: %+v", rec)
	}
	if rec.Revoked || rec.RevokedAt != nil {
		t.Error("new record must not be revoked")
	}
	if !rec.IsValid() {
		t.Error("new record must be valid")
	}
}

func TestTokenExpiry(t *testing.T) {
	rec := NewRecord("u1", KindRefresh, "jti-1", time.Now().UTC().Add(-time.Second))
	if !rec.IsExpired() {
		t.Error("past-expiry record reported live")
	}
	if rec.IsValid() {
		t.Error("expired record reported valid")
	}
}

func TestTokenRevokedInvalid(t *testing.T) {
	rec := NewRecord("u1", KindRefresh, "jti-1", time.Now().UTC().Add(time.Hour))
	now := time.Now().UTC()
	rec.Revoked = true
	rec.RevokedAt = &now
	if rec.IsValid() {
		t.Error("revoked record reported valid")
	}
}
