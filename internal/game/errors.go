package game

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted is returned by a draw when every word of the catalog was
	// already drawn since the last reset.
	ErrExhausted = errors.New("no words left, reset the raffle")

	// ErrInvalidState marks a command that has no transition from the
	// current state. The command performs no mutation.
	ErrInvalidState = errors.New("invalid state")

	ErrCatalogLoading  = fmt.Errorf("%w: catalog is loading", ErrInvalidState)
	ErrRoundInProgress = fmt.Errorf("%w: a round is in progress", ErrInvalidState)
	ErrTimerNotRunning = fmt.Errorf("%w: timer is not running", ErrInvalidState)
	ErrSessionClosed   = fmt.Errorf("%w: session is closed", ErrInvalidState)

	ErrParticipantNotFound = errors.New("participant not found")
)

// StorageError wraps a failure of the word storage collaborator.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
