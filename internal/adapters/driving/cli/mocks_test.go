package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driving"
)

// stubScheduler implements driving.SyncScheduler for command tests.
type stubScheduler struct {
	state       *domain.UserSyncState
	stateErr    error
	roundResult []domain.DomainResult
	roundErr    error
	syncResult  domain.DomainResult
	syncErr     error
	activityErr error
	stats       driving.SchedulerStats

	recordedEvents []domain.ActivityEvent
	startedUsers   []string
}

var _ driving.SyncScheduler = (*stubScheduler)(nil)

func (s *stubScheduler) Start(_ context.Context, userID string) error {
	s.startedUsers = append(s.startedUsers, userID)
	return nil
}

func (s *stubScheduler) Stop(string) {}
func (s *stubScheduler) Shutdown()   {}

func (s *stubScheduler) RecordActivity(_ context.Context, _ string, event domain.ActivityEvent) error {
	s.recordedEvents = append(s.recordedEvents, event)
	return s.activityErr
}

func (s *stubScheduler) TriggerSync(context.Context, string, domain.SyncDomain) (domain.DomainResult, error) {
	return s.syncResult, s.syncErr
}

func (s *stubScheduler) TriggerRound(context.Context, string) ([]domain.DomainResult, error) {
	return s.roundResult, s.roundErr
}

func (s *stubScheduler) State(string) (*domain.UserSyncState, error) {
	return s.state, s.stateErr
}

func (s *stubScheduler) Stats() driving.SchedulerStats {
	return s.stats
}

// stubHistory implements driven.RoundHistoryStore for command tests.
type stubHistory struct {
	records []domain.RoundRecord
	err     error
}

func (h *stubHistory) RecordRound(context.Context, *domain.RoundRecord) error { return nil }

func (h *stubHistory) RoundHistory(context.Context, string, int) ([]domain.RoundRecord, error) {
	return h.records, h.err
}

func (h *stubHistory) PruneHistory(context.Context, int) error { return nil }

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		statusHistory = 0
		connectToken = ""
		connectRefresh = ""
		connectAccount = ""
		SetServices(Services{})
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func testState(userID string) *domain.UserSyncState {
	return &domain.UserSyncState{
		UserID:             userID,
		Active:             true,
		ActivityCount:      5,
		LastActivity:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		LastBackgroundSync: time.Date(2026, 3, 1, 8, 55, 0, 0, time.UTC),
		ChangeFrequency:    domain.FrequencyHigh,
		CurrentInterval:    30 * time.Second,
		Signal:             domain.SignalActivity{Active: true, DetectionCount: 2, PendingCount: 1},
	}
}
