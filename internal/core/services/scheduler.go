package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/cadence-cli/internal/clock"
	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driven"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driving"
	"github.com/custodia-labs/cadence-cli/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.SyncScheduler = (*Scheduler)(nil)

// Scheduler is the process-wide registry of per-user schedulers. It owns
// every user's timers; they are released on Stop, never left to garbage
// collection.
type Scheduler struct {
	clk     clock.Clock
	syncers driven.SyncerSet
	signals driven.SignalSource
	history driven.RoundHistoryStore

	mu    sync.Mutex
	cfg   domain.SchedulerConfig
	users map[string]*userScheduler
}

// NewScheduler creates the scheduling service. The signal source and the
// history store are optional; a nil clock means real wall-clock timers.
func NewScheduler(
	cfg domain.SchedulerConfig,
	clk clock.Clock,
	syncers driven.SyncerSet,
	signals driven.SignalSource,
	history driven.RoundHistoryStore,
) (*Scheduler, error) {
	if err := syncers.Validate(); err != nil {
		return nil, fmt.Errorf("validating sync handlers: %w", err)
	}
	if clk == nil {
		clk = clock.System()
	}

	return &Scheduler{
		cfg:     cfg,
		clk:     clk,
		syncers: syncers,
		signals: signals,
		history: history,
		users:   make(map[string]*userScheduler),
	}, nil
}

// Start schedules background syncing for a user. Idempotent.
func (s *Scheduler) Start(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user id", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	if _, exists := s.users[userID]; exists {
		s.mu.Unlock()
		return nil // Already scheduled
	}
	u := newUserScheduler(s, userID)
	s.users[userID] = u
	s.mu.Unlock()

	u.seedSignal(ctx)
	u.armInitial()

	logger.Info("Scheduled user %s at %s interval", userID, domain.TierBackground)
	return nil
}

// Stop cancels all timers for a user and removes its state. Safe to call
// on a stopped or never-started user.
func (s *Scheduler) Stop(userID string) {
	s.mu.Lock()
	u := s.users[userID]
	delete(s.users, userID)
	s.mu.Unlock()

	if u != nil {
		u.stop()
		logger.Info("Unscheduled user %s", userID)
	}
}

// Shutdown stops every scheduled user.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	users := make([]*userScheduler, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.users = make(map[string]*userScheduler)
	s.mu.Unlock()

	for _, u := range users {
		u.stop()
	}
}

// UpdateConfig swaps in new tunables. Timers already armed keep their
// old durations; the new values apply from the next arm onwards.
func (s *Scheduler) UpdateConfig(cfg domain.SchedulerConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	logger.Debug("Scheduler config replaced")
}

// config returns the current tunables.
func (s *Scheduler) config() domain.SchedulerConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// RecordActivity feeds an activity event into the user's tracker.
func (s *Scheduler) RecordActivity(ctx context.Context, userID string, event domain.ActivityEvent) error {
	if _, err := domain.ParseActivityEvent(string(event)); err != nil {
		return err
	}

	u, ok := s.get(userID)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotScheduled, userID)
	}
	u.recordActivity(ctx, event)
	return nil
}

// TriggerSync runs exactly one domain handler for the user.
func (s *Scheduler) TriggerSync(ctx context.Context, userID string, d domain.SyncDomain) (domain.DomainResult, error) {
	if _, err := domain.ParseSyncDomain(string(d)); err != nil {
		return domain.DomainResult{}, err
	}

	u, ok := s.get(userID)
	if !ok {
		return domain.DomainResult{}, fmt.Errorf("%w: %s", domain.ErrNotScheduled, userID)
	}
	return u.syncOne(ctx, d), nil
}

// TriggerRound runs one full fan-out round and returns all results.
func (s *Scheduler) TriggerRound(ctx context.Context, userID string) ([]domain.DomainResult, error) {
	u, ok := s.get(userID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotScheduled, userID)
	}
	return u.runRound(ctx, domain.TriggerManual), nil
}

// State returns a copy of the user's scheduling state.
func (s *Scheduler) State(userID string) (*domain.UserSyncState, error) {
	u, ok := s.get(userID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotScheduled, userID)
	}
	return u.snapshot(), nil
}

// Stats returns aggregate diagnostics across all scheduled users.
func (s *Scheduler) Stats() driving.SchedulerStats {
	s.mu.Lock()
	users := make([]*userScheduler, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.Unlock()

	stats := driving.SchedulerStats{ScheduledUsers: len(users)}
	var total time.Duration
	for _, u := range users {
		state := u.snapshot()
		if state.Active {
			stats.ActiveUsers++
		}
		if state.Signal.Active {
			stats.SignalActiveUsers++
		}
		total += state.CurrentInterval
	}
	if len(users) > 0 {
		stats.AverageInterval = total / time.Duration(len(users))
	}
	return stats
}

// get returns the live scheduler for a user, if any.
func (s *Scheduler) get(userID string) (*userScheduler, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	return u, ok
}
