package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driving"
)

// mockScheduler implements driving.SyncScheduler for tests.
type mockScheduler struct {
	state       *domain.UserSyncState
	stateErr    error
	roundResult []domain.DomainResult
	roundErr    error
	syncResult  domain.DomainResult
	syncErr     error
	stats       driving.SchedulerStats

	triggeredDomains []domain.SyncDomain
	roundUsers       []string
}

var _ driving.SyncScheduler = (*mockScheduler)(nil)

func (m *mockScheduler) Start(context.Context, string) error { return nil }
func (m *mockScheduler) Stop(string)                         {}
func (m *mockScheduler) Shutdown()                           {}

func (m *mockScheduler) RecordActivity(context.Context, string, domain.ActivityEvent) error {
	return nil
}

func (m *mockScheduler) TriggerSync(_ context.Context, _ string, d domain.SyncDomain) (domain.DomainResult, error) {
	m.triggeredDomains = append(m.triggeredDomains, d)
	return m.syncResult, m.syncErr
}

func (m *mockScheduler) TriggerRound(_ context.Context, userID string) ([]domain.DomainResult, error) {
	m.roundUsers = append(m.roundUsers, userID)
	return m.roundResult, m.roundErr
}

func (m *mockScheduler) State(string) (*domain.UserSyncState, error) {
	return m.state, m.stateErr
}

func (m *mockScheduler) Stats() driving.SchedulerStats {
	return m.stats
}

func activeState(userID string) *domain.UserSyncState {
	return &domain.UserSyncState{
		UserID:             userID,
		Active:             true,
		ActivityCount:      3,
		LastActivity:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		LastBackgroundSync: time.Date(2026, 3, 1, 8, 59, 0, 0, time.UTC),
		ChangeFrequency:    domain.FrequencyMedium,
		CurrentInterval:    30 * time.Second,
		Signal: domain.SignalActivity{
			Active:         true,
			DetectionCount: 2,
			PendingCount:   1,
		},
	}
}
