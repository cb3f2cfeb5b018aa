package domain

import (
	"errors"
	"fmt"
)

// Recoverable failures reported to the caller. Nothing in this package is
// fatal to the process; dangling deck cards (a card whose pair no longer
// exists in the wallet) are not an error at all and stay displayable.
var (
	// ErrDuplicateWord is returned when adding a (front, back) pair already
	// present in the wallet
	ErrDuplicateWord = errors.New("word already in wallet")

	// ErrNotFound is returned when an operation references a deck or word
	// that does not exist
	ErrNotFound = errors.New("not found")

	// ErrMaxDecksExceeded blocks deck creation above MaxDecks
	ErrMaxDecksExceeded = errors.New("maximum number of decks reached")
)

// PersistenceError reports a failed snapshot write. The in-memory state
// already reflects the mutation optimistically; callers may retry the save
// or surface a stale-state warning, but must not discard the error.
type PersistenceError struct {
	Store string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Store, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
