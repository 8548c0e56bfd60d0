package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a signed-in user and none is present.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrProfileNotFound is returned when the user's profile has not been created or could not be loaded.
	ErrProfileNotFound = errors.New("profile not loaded")

	// ErrProfileExists is returned by Create when the user already has a profile.
	ErrProfileExists = errors.New("profile already exists")

	// ErrVersionConflict is returned by Save when the stored profile changed since it was loaded.
	ErrVersionConflict = errors.New("profile version conflict")

	// ErrConflictRetriesExhausted is returned by Update when every attempt hit a version conflict.
	ErrConflictRetriesExhausted = errors.New("profile update retries exhausted")

	// ErrUnknownTopic is returned for a topic id missing from the catalog.
	ErrUnknownTopic = errors.New("unknown topic")

	// ErrInvalidLevel is returned for a level number outside 1..10.
	ErrInvalidLevel = errors.New("invalid level")

	// ErrLevelLocked is returned when a level is played before it is unlocked.
	ErrLevelLocked = errors.New("level is locked")

	// ErrNoChanges may be returned by an Update mutation to skip the write.
	ErrNoChanges = errors.New("no changes")
)

// PersistenceError wraps a failure of the backing document store.
// The in-memory profile is not guaranteed to match the stored one afterward.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a *PersistenceError unless it is nil or already a
// domain sentinel the caller is expected to branch on.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrProfileExists),
		errors.Is(err, ErrVersionConflict):
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
