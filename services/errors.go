package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Errors shared by the services and the HTTP error mapping.
var (
	// Generic not-found; the entity errors below wrap it.
	ErrNotFound = errors.New("not found")

	// Entity specific
	ErrMatchNotFound = fmt.Errorf("match %w", ErrNotFound)
	ErrGameNotFound  = fmt.Errorf("game %w", ErrNotFound)

	// Validation
	ErrValidationFailed  = errors.New("validation failed")
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrNoTimeoutsLeft    = errors.New("team has no timeouts left in this game")

	// Storage
	ErrPersistence     = errors.New("persistence failure")
	ErrArchiveDisabled = errors.New("scorecard archive storage is not configured")
	ErrArchiveFailed   = errors.New("failed to archive scorecard")
)

func matchNotFound(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
}

func gameNotFound(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrGameNotFound, id)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
