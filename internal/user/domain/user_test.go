package domain

import (
	"strings"
	"testing"

	"authcore/internal/apperr"
)

func TestNewEmail(t *testing.T) {
	e, err := NewEmail("  TEST@Example.COM ")
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}
	if e.String() != "test@example.com" {
		t.Errorf("normalization: got %q", e)
	}
}

func TestNewEmailInvalid(t *testing.T) {
	cases := []string{"", "not-an-email", "a@b", "@example.com", "a" + strings.Repeat("b", 250) + "@example.com"}
	for _, raw := range cases {
		if _, err := NewEmail(raw); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("NewEmail(%q): want validation error, got %v", raw, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Secret123"); err != nil {
		t.Fatalf("valid password rejected: %v", err)
	}
	if err := ValidatePassword("short"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("short password: want validation error, got %v", err)
	}
}

func TestNewUserDefaults(t *testing.T) {
	email, _ := NewEmail("alice@example.com")
	u, err := New(email, "$2a$12$hash", " Alice ")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if u.ID == "" {
		t.Error("ID not assigned")
	}
	if u.Name != "Alice" {
		t.Errorf("name not trimmed: %q", u.Name)
	}
	if u.EmailVerified {
		t.Error("new user must start unverified")
	}
	if !u.IsActive || !u.CanLogin() {
		t.Error("new user must start active")
	}
	if u.CreatedAt.IsZero() || !u.CreatedAt.Equal(u.UpdatedAt) {
		t.Error("timestamps not initialized together")
	}
}

func TestNewUserIDsAreTimeSortable(t *testing.T) {
	email, _ := NewEmail("alice@example.com")
	a, _ := New(email, "h", "Alice")
	b, _ := New(email, "h", "Alice")
	if !(a.ID < b.ID) {
		t.Errorf("UUIDv7 ids not monotonic: %q then %q", a.ID, b.ID)
	}
}

func TestNewUserEmptyName(t *testing.T) {
	email, _ := NewEmail("alice@example.com")
	if _, err := New(email, "h", "   "); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("blank name: want validation error, got %v", err)
	}
}

func TestDeactivateReactivate(t *testing.T) {
	email, _ := NewEmail("alice@example.com")
	u, _ := New(email, "h", "Alice")
	u.Deactivate()
	if u.CanLogin() {
		t.Error("deactivated user can log in")
	}
	u.Reactivate()
	if !u.CanLogin() {
		t.Error("reactivated user cannot log in")
	}
}

func TestSetPasswordHashBumpsUpdatedAt(t *testing.T) {
	email, _ := NewEmail("alice@example.com")
	u, _ := New(email, "old", "Alice")
	before := u.UpdatedAt
	u.SetPasswordHash("new")
	if u.PasswordHash != "new" {
		t.Error("hash not replaced")
	}
	if u.UpdatedAt.Before(before) {
		t.Error("UpdatedAt moved backwards")
	}
}
