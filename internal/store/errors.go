package store

import "errors"

var (
	// ErrNotFound is returned when an entity is absent or not owned by the caller.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState is returned when an operation violates the entity's
	// state machine, e.g. stopping an already-completed entry.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrEntryPaused is returned when stopping a paused entry; the caller
	// must resume it first.
	ErrEntryPaused = errors.New("entry is paused")

	// ErrActiveEntryExists is returned when starting a session while another
	// entry is already active for the same owner.
	ErrActiveEntryExists = errors.New("an active entry already exists")

	// ErrTokenRevoked is returned when resolving a revoked API token.
	ErrTokenRevoked = errors.New("token revoked")
)
