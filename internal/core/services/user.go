package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/cadence-cli/internal/clock"
	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/logger"
)

// userScheduler owns one user's sync state and timers. All state
// mutation happens under mu; timer slots serialise their own arm/cancel
// so two live timers of the same kind can never coexist.
type userScheduler struct {
	parent *Scheduler
	userID string

	mu      sync.Mutex
	state   *domain.UserSyncState
	stopped bool

	background    *clock.Slot
	activityDecay *clock.Slot
	signalDecay   *clock.Slot
	debounce      *clock.Slot
}

func newUserScheduler(parent *Scheduler, userID string) *userScheduler {
	return &userScheduler{
		parent:        parent,
		userID:        userID,
		state:         domain.NewUserSyncState(userID),
		background:    clock.NewSlot(parent.clk),
		activityDecay: clock.NewSlot(parent.clk),
		signalDecay:   clock.NewSlot(parent.clk),
		debounce:      clock.NewSlot(parent.clk),
	}
}

// seedSignal fetches the initial signal sub-state from the provider.
// A missing record or a lookup failure leaves the zero state.
func (u *userScheduler) seedSignal(ctx context.Context) {
	if u.parent.signals == nil {
		return
	}

	sa, err := u.parent.signals.SignalActivity(ctx, u.userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Debug("Signal lookup failed for %s: %v", u.userID, err)
		}
		return
	}

	u.mu.Lock()
	u.state.Signal = *sa
	u.mu.Unlock()

	if sa.Active {
		// The seed reports a detection that already happened, so the
		// decay timer only gets the remainder of the window.
		remaining := u.parent.config().SignalWindow
		if !sa.LastDetected.IsZero() {
			if elapsed := u.parent.clk.Now().Sub(sa.LastDetected); elapsed > 0 {
				remaining -= elapsed
			}
		}
		if remaining < 0 {
			remaining = 0
		}
		u.signalDecay.Arm(remaining, u.onSignalDecay)
	}
}

// armInitial arms the background timer at the Background tier.
func (u *userScheduler) armInitial() {
	u.background.Arm(domain.TierBackground, u.onBackgroundTick)
}

// stop cancels every pending timer synchronously and marks the scheduler
// dead so in-flight rounds discard their results. Closing the slots
// rather than cancelling them means an arm racing with stop is dropped
// instead of leaking a timer on the removed user.
func (u *userScheduler) stop() {
	u.mu.Lock()
	u.stopped = true
	u.mu.Unlock()

	u.background.Close()
	u.activityDecay.Close()
	u.signalDecay.Close()
	u.debounce.Close()
}

// recordActivity applies one activity event: tracker transition, timer
// resets, immediate syncs, and interval recomputation.
func (u *userScheduler) recordActivity(ctx context.Context, event domain.ActivityEvent) {
	now := u.parent.clk.Now()

	u.mu.Lock()
	if u.stopped {
		u.mu.Unlock()
		return
	}
	u.state.RecordActivity(now)
	signal := event.IsSignal()
	if signal {
		u.state.RecordSignal(now)
	}
	u.mu.Unlock()

	u.activityDecay.Arm(u.parent.config().ActivityTimeout, u.onActivityDecay)
	if signal {
		u.signalDecay.Arm(u.parent.config().SignalWindow, u.onSignalDecay)
	}

	if domains := event.ImmediateDomains(); len(domains) > 0 {
		if event.Debounced() {
			// Defer past the provider's own write before re-reading.
			u.debounce.Arm(u.parent.config().MeetingDebounce, func() {
				u.syncDomains(context.Background(), domains)
			})
		} else {
			u.syncDomains(ctx, domains)
		}
	}

	u.recompute()
	logger.Debug("Activity %s for %s", event, u.userID)
}

// onBackgroundTick is the background-interval timer callback. Rounds and
// rearming happen inside runRound; failures never escape a timer callback.
func (u *userScheduler) onBackgroundTick() {
	u.runRound(context.Background(), domain.TriggerBackground)
}

// onActivityDecay clears the active state after the activity timeout.
func (u *userScheduler) onActivityDecay() {
	u.mu.Lock()
	if u.stopped {
		u.mu.Unlock()
		return
	}
	u.state.DecayActivity()
	u.mu.Unlock()

	u.recompute()
}

// onSignalDecay clears the signal sub-state after its longer timeout,
// independent of the general activity timer.
func (u *userScheduler) onSignalDecay() {
	u.mu.Lock()
	if u.stopped {
		u.mu.Unlock()
		return
	}
	u.state.DecaySignal()
	u.mu.Unlock()

	u.recompute()
}

// runRound fans out to every domain handler concurrently, waits for all
// of them to settle, and applies the outcome to the user's state. Results
// arriving after stop are returned but not applied.
func (u *userScheduler) runRound(ctx context.Context, trigger string) []domain.DomainResult {
	started := u.parent.clk.Now()
	results := u.fanOut(ctx)

	changes := 0
	signalHits := 0
	for _, r := range results {
		changes += r.Changes() + r.SignalHits
		signalHits += r.SignalHits
	}

	now := u.parent.clk.Now()

	u.mu.Lock()
	if u.stopped {
		u.mu.Unlock()
		return results // Scheduler gone; nothing to apply the round to.
	}
	u.state.ChangeFrequency = domain.ClassifyChangeFrequency(changes)
	u.state.LastBackgroundSync = now
	if signalHits > 0 {
		u.state.RecordSignal(now)
	}
	interval := domain.ComputeInterval(u.state, now, u.parent.config().SignalWindow)
	u.state.CurrentInterval = interval
	u.mu.Unlock()

	if signalHits > 0 {
		u.signalDecay.Arm(u.parent.config().SignalWindow, u.onSignalDecay)
	}

	// The tick consumed the one-shot timer, so the background slot is
	// always rearmed here, at whatever interval the round computed.
	u.background.Arm(interval, u.onBackgroundTick)

	u.record(trigger, started, now, results, changes, interval)

	logger.Debug("Round for %s: %d changes, %d signal hits, next in %s",
		u.userID, changes, signalHits, interval)
	return results
}

// fanOut runs all four domain handlers concurrently and waits for every
// one to settle. A failing or panicking handler yields a failed result
// and never short-circuits the others.
func (u *userScheduler) fanOut(ctx context.Context) []domain.DomainResult {
	domains := domain.AllDomains()
	results := make([]domain.DomainResult, len(domains))

	var wg sync.WaitGroup
	for i, d := range domains {
		wg.Add(1)
		go func(i int, d domain.SyncDomain) {
			defer wg.Done()
			results[i] = u.syncOne(ctx, d)
		}(i, d)
	}
	wg.Wait()

	return results
}

// syncOne runs a single domain handler, converting panics into failed
// results so nothing escapes into a timer callback.
func (u *userScheduler) syncOne(ctx context.Context, d domain.SyncDomain) (res domain.DomainResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Handler %s panicked for %s: %v", d, u.userID, r)
			res = domain.FailedResult(d, fmt.Errorf("handler panic: %v", r))
		}
	}()

	return u.parent.syncers[d].SyncUser(ctx, u.userID)
}

// syncDomains runs an immediate sync of specific domains, logging
// failures. Immediate rounds update no scheduling state; only background
// rounds feed the change classifier.
func (u *userScheduler) syncDomains(ctx context.Context, domains []domain.SyncDomain) {
	for _, d := range domains {
		if res := u.syncOne(ctx, d); !res.Success {
			logger.Debug("Immediate %s sync failed for %s: %s", d, u.userID, res.Error)
		}
	}
}

// recompute recalculates the interval from current state and rearms the
// background timer only when the period actually changed.
func (u *userScheduler) recompute() {
	now := u.parent.clk.Now()

	u.mu.Lock()
	if u.stopped {
		u.mu.Unlock()
		return
	}
	interval := domain.ComputeInterval(u.state, now, u.parent.config().SignalWindow)
	u.state.CurrentInterval = interval
	u.mu.Unlock()

	if period, armed := u.background.Period(); !armed || period != interval {
		u.background.Arm(interval, u.onBackgroundTick)
	}
}

// record writes the round into the history store, if one is configured,
// and prunes old entries. History failures are logged, never surfaced.
func (u *userScheduler) record(
	trigger string,
	started, ended time.Time,
	results []domain.DomainResult,
	changes int,
	interval time.Duration,
) {
	store := u.parent.history
	if store == nil {
		return
	}

	ctx := context.Background()
	rec := &domain.RoundRecord{
		ID:        uuid.NewString(),
		UserID:    u.userID,
		Trigger:   trigger,
		StartedAt: started,
		EndedAt:   ended,
		Results:   results,
		Changes:   changes,
		Interval:  interval,
	}
	if err := store.RecordRound(ctx, rec); err != nil {
		logger.Warn("Failed to record round for %s: %v", u.userID, err)
		return
	}
	if err := store.PruneHistory(ctx, u.parent.config().HistoryKeep); err != nil {
		logger.Warn("Failed to prune round history: %v", err)
	}
}

// snapshot returns a copy of the user's state.
func (u *userScheduler) snapshot() *domain.UserSyncState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state.Clone()
}
