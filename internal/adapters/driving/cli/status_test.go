package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driving"
)

func TestStatus_Aggregate(t *testing.T) {
	SetServices(Services{Scheduler: &stubScheduler{stats: driving.SchedulerStats{
		ScheduledUsers:    3,
		ActiveUsers:       1,
		SignalActiveUsers: 1,
		AverageInterval:   5 * time.Minute,
	}}})

	out, err := runCommand(t, "status")
	require.NoError(t, err)

	assert.Contains(t, out, "Scheduled users:     3")
	assert.Contains(t, out, "Active users:        1")
	assert.Contains(t, out, "Average interval:    5m0s")
}

func TestStatus_User(t *testing.T) {
	SetServices(Services{Scheduler: &stubScheduler{state: testState("alice")}})

	out, err := runCommand(t, "status", "alice")
	require.NoError(t, err)

	assert.Contains(t, out, "User:             alice")
	assert.Contains(t, out, "Interval:         30s")
	assert.Contains(t, out, "Change frequency: high")
	assert.Contains(t, out, "Signal active:    true (detections 2, pending 1)")
}

func TestStatus_UserNotScheduled(t *testing.T) {
	SetServices(Services{Scheduler: &stubScheduler{stateErr: domain.ErrNotScheduled}})

	_, err := runCommand(t, "status", "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotScheduled)
}

func TestStatus_WithHistory(t *testing.T) {
	history := &stubHistory{records: []domain.RoundRecord{{
		ID:        "r1",
		UserID:    "alice",
		Trigger:   domain.TriggerBackground,
		StartedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Results: []domain.DomainResult{
			{Domain: domain.DomainCalendar, Success: true, Created: 1, Updated: 2},
			{Domain: domain.DomainMeetingBot, Success: true, Skipped: true, SkipReason: domain.SkipReasonNotConfigured},
		},
		Changes:  3,
		Interval: 30 * time.Second,
	}}}
	SetServices(Services{
		Scheduler:    &stubScheduler{state: testState("alice")},
		HistoryStore: history,
	})

	out, err := runCommand(t, "status", "alice", "--history", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "Recent rounds:")
	assert.Contains(t, out, "changes=3")
	assert.Contains(t, out, "+1 ~2 -0")
	assert.Contains(t, out, "skipped (not_configured)")
}

func TestStatus_NoScheduler(t *testing.T) {
	SetServices(Services{})

	_, err := runCommand(t, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler not configured")
}
