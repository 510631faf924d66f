package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNotFoundErrorsWrapErrNotFound(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tests := []struct {
		err  error
		kind error
		msg  string
	}{
		{matchNotFound(id), ErrMatchNotFound, "match not found: " + id.String()},
		{gameNotFound(id), ErrGameNotFound, "game not found: " + id.String()},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, ErrNotFound) {
			t.Fatalf("errors.Is(%v, ErrNotFound) = false, want true", tt.err)
		}
		if !errors.Is(tt.err, tt.kind) {
			t.Fatalf("errors.Is(%v, %v) = false, want true", tt.err, tt.kind)
		}
		if tt.err.Error() != tt.msg {
			t.Fatalf("message = %q, want %q", tt.err.Error(), tt.msg)
		}
	}

	if errors.Is(ErrValidationFailed, ErrNotFound) {
		t.Fatal("ErrValidationFailed must not match ErrNotFound")
	}
}
