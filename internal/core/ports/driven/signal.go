package driven

import (
	"context"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

// SignalSource looks up a user's external-signal state from the provider
// that observes it (the mailbox scan). Used once at Start to seed the
// signal sub-state; afterwards detections arrive as activity events.
type SignalSource interface {
	// SignalActivity returns the user's current signal state, or
	// domain.ErrNotFound if the provider has never seen a detection for
	// this user.
	SignalActivity(ctx context.Context, userID string) (*domain.SignalActivity, error)
}
