package driven

import (
	"context"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

// DomainSyncer reconciles one external domain for one user. Each domain
// (calendar, file storage, mailbox, meeting bot) has its own implementation.
//
// SyncUser never returns an error: every internal failure is captured in
// the DomainResult so a broken domain cannot abort a fan-out round. The
// scheduler treats all implementations identically through this interface.
type DomainSyncer interface {
	// Domain returns which sync domain this handler covers.
	Domain() domain.SyncDomain

	// SyncUser fetches and reconciles the domain for the user, returning
	// a uniform result. Cancellation via ctx is the only external way to
	// cut a sync short.
	SyncUser(ctx context.Context, userID string) domain.DomainResult
}

// SyncerSet maps every sync domain to its handler. Built once at wiring
// time; the scheduler fails fast on a missing entry rather than skipping
// a domain silently.
type SyncerSet map[domain.SyncDomain]DomainSyncer

// Validate checks that every domain has a handler registered.
func (s SyncerSet) Validate() error {
	for _, d := range domain.AllDomains() {
		if s[d] == nil {
			return domain.ErrSyncerMissing
		}
	}
	return nil
}
