package domain

import "fmt"

// SyncDomain identifies one external data domain the scheduler polls.
// The set is closed: scheduling logic dispatches over these four values
// and nothing else.
type SyncDomain string

const (
	// DomainCalendar is the user's external calendar provider.
	DomainCalendar SyncDomain = "calendar"

	// DomainFileStorage is the user's file-storage provider.
	DomainFileStorage SyncDomain = "file_storage"

	// DomainMailbox is the user's mail provider.
	DomainMailbox SyncDomain = "mailbox"

	// DomainMeetingBot is the meeting-notetaker bot provider.
	DomainMeetingBot SyncDomain = "meeting_bot"
)

// AllDomains returns every sync domain in fan-out order.
func AllDomains() []SyncDomain {
	return []SyncDomain{DomainCalendar, DomainFileStorage, DomainMailbox, DomainMeetingBot}
}

// ParseSyncDomain converts a user-supplied domain name to a SyncDomain.
func ParseSyncDomain(s string) (SyncDomain, error) {
	switch SyncDomain(s) {
	case DomainCalendar, DomainFileStorage, DomainMailbox, DomainMeetingBot:
		return SyncDomain(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
}

// DomainResult is the uniform outcome of syncing one domain for one user.
// Produced fresh each round and never mutated after construction.
type DomainResult struct {
	// Domain identifies which handler produced this result.
	Domain SyncDomain

	// Success is false when the handler hit a hard failure. A skipped
	// domain is still a success.
	Success bool

	// Processed is the number of remote records examined.
	Processed int

	// Created, Updated and Deleted count local reconciliation outcomes.
	Created int
	Updated int
	Deleted int

	// Skipped indicates the domain had nothing to do or is not yet
	// configured for this user. SkipReason says which.
	Skipped    bool
	SkipReason string

	// SignalHits counts scheduling-trigger detections found during this
	// round (mailbox scans for the automated scheduler address).
	SignalHits int

	// Error describes the failure when Success is false.
	Error string
}

// Changes returns the total number of local changes this round made.
func (r DomainResult) Changes() int {
	return r.Created + r.Updated + r.Deleted
}

// HasActivity reports whether the round observed anything at all in this
// domain: a change or a signal detection.
func (r DomainResult) HasActivity() bool {
	return r.Changes() > 0 || r.SignalHits > 0
}

// FailedResult builds a failed DomainResult from an error.
func FailedResult(d SyncDomain, err error) DomainResult {
	return DomainResult{Domain: d, Success: false, Error: err.Error()}
}

// SkippedResult builds a successful no-op DomainResult with an explicit
// reason, so "not configured" stays distinguishable from "nothing new".
func SkippedResult(d SyncDomain, reason string) DomainResult {
	return DomainResult{Domain: d, Success: true, Skipped: true, SkipReason: reason}
}

// Skip reasons for SkippedResult.
const (
	// SkipReasonNotConfigured means the user has not connected this
	// provider; permission-denied responses land here rather than as
	// failures.
	SkipReasonNotConfigured = "not_configured"

	// SkipReasonNoChanges means the provider reported nothing new.
	SkipReasonNoChanges = "no_changes"

	// SkipReasonCursorReset means the provider expired our sync cursor;
	// it was reseeded and the next round will reconcile from scratch.
	SkipReasonCursorReset = "cursor_reset"
)
