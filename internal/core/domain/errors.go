package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotScheduled indicates the user has no active scheduler.
	// Returned by trigger and activity operations; Start must be called first.
	ErrNotScheduled = errors.New("user not scheduled")

	// ErrUnknownDomain indicates an unrecognised sync domain name.
	ErrUnknownDomain = errors.New("unknown sync domain")

	// ErrUnknownEvent indicates an unrecognised activity event kind.
	ErrUnknownEvent = errors.New("unknown activity event")

	// ErrUnknownProvider indicates an unrecognised provider name.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrSyncerMissing indicates no handler is registered for a domain.
	// The scheduler is misconfigured; every domain needs a handler.
	ErrSyncerMissing = errors.New("sync handler missing for domain")
)
