package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{Validation("bad email"), KindValidation},
		{Authentication("invalid credentials"), KindAuthentication},
		{Conflict("email already registered"), KindConflict},
		{NotFound("user"), KindNotFound},
		{Internal("db", errors.New("connection refused")), KindInternal},
		{errors.New("plain"), KindInternal},
	}
	for _, c := range cases {
		if got := KindOf(c.err); got != c.want {
			t.Errorf("KindOf(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", Authentication("invalid credentials"))
	if !Is(err, KindAuthentication) {
		t.Errorf("wrapped authentication error lost its kind")
	}
	if Is(err, KindConflict) {
		t.Errorf("wrapped authentication error reported as conflict")
	}
}

func TestInternalUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("store unavailable", cause)
	if !errors.Is(err, cause) {
		t.Errorf("Internal did not preserve the cause chain")
	}
}

func TestIsNil(t *testing.T) {
	if Is(nil, KindInternal) {
		t.Errorf("Is(nil, ...) must be false")
	}
}
