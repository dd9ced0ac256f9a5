package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

// SyncScheduler is the scheduling service consumed by request handlers
// and the CLI. One instance manages all scheduled users.
type SyncScheduler interface {
	// Start schedules background syncing for a user. Idempotent: starting
	// an already-scheduled user is a no-op.
	Start(ctx context.Context, userID string) error

	// Stop cancels all timers for a user and discards its state. Safe to
	// call on a stopped or never-started user.
	Stop(userID string)

	// Shutdown stops every scheduled user.
	Shutdown()

	// RecordActivity feeds an activity event into the user's tracker and
	// fires any immediate syncs the event qualifies for. Returns
	// domain.ErrNotScheduled if the user has no scheduler.
	RecordActivity(ctx context.Context, userID string, event domain.ActivityEvent) error

	// TriggerSync runs exactly one domain handler for the user and
	// returns its result. Returns domain.ErrNotScheduled if the user has
	// no scheduler.
	TriggerSync(ctx context.Context, userID string, d domain.SyncDomain) (domain.DomainResult, error)

	// TriggerRound runs one full fan-out round for the user and returns
	// all domain results. State updates apply as in a background round.
	TriggerRound(ctx context.Context, userID string) ([]domain.DomainResult, error)

	// State returns a copy of the user's scheduling state, or
	// domain.ErrNotScheduled.
	State(userID string) (*domain.UserSyncState, error)

	// Stats returns aggregate diagnostics across all scheduled users.
	Stats() SchedulerStats
}

// SchedulerStats are aggregate diagnostics over all scheduled users.
type SchedulerStats struct {
	// ScheduledUsers is the number of users with an active scheduler.
	ScheduledUsers int

	// ActiveUsers is the number currently in the Active sub-state.
	ActiveUsers int

	// SignalActiveUsers is the number with an active signal sub-state.
	SignalActiveUsers int

	// AverageInterval is the mean of current background intervals.
	// Zero when no users are scheduled.
	AverageInterval time.Duration
}
