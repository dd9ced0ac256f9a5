package domain

import "time"

// MaxActivityCount is the saturation ceiling for the activity counter.
const MaxActivityCount = 50

// SignalActivity is the external-signal sub-state of a user. It evolves
// independently of the general activity state: detections arrive from
// inbound data scans, not from user interaction.
type SignalActivity struct {
	// LastDetected is when a scheduling trigger was last seen.
	LastDetected time.Time

	// DetectionCount is the number of detections in the rolling window.
	DetectionCount int

	// Active is true between a detection and the signal-decay timeout.
	Active bool

	// PendingCount is the number of threads still awaiting an automated
	// scheduling outcome, as reported by the mailbox scan.
	PendingCount int
}

// UserSyncState is the scheduling state for one actively-scheduled user.
// It is created on the first Start for a user, mutated by activity
// recording and sync rounds, and destroyed only by an explicit Stop.
type UserSyncState struct {
	// UserID identifies the user.
	UserID string

	// LastActivity is when the user last interacted with the dashboard.
	LastActivity time.Time

	// ActivityCount counts recent interactions, saturating at
	// MaxActivityCount and reset to zero on activity decay.
	ActivityCount int

	// Active is true between an activity event and the activity timeout.
	Active bool

	// LastBackgroundSync is when the last background round completed.
	LastBackgroundSync time.Time

	// ChangeFrequency classifies recent change volume across rounds.
	ChangeFrequency ChangeFrequency

	// CurrentInterval is the period of the armed background timer.
	// Always one of the fixed tier values.
	CurrentInterval time.Duration

	// Signal is the external-signal sub-state.
	Signal SignalActivity
}

// NewUserSyncState creates the initial state for a user: inactive, low
// change frequency, Background tier.
func NewUserSyncState(userID string) *UserSyncState {
	return &UserSyncState{
		UserID:          userID,
		ChangeFrequency: FrequencyLow,
		CurrentInterval: TierBackground,
	}
}

// RecordActivity marks the user active as of now and bumps the saturating
// activity counter.
func (s *UserSyncState) RecordActivity(now time.Time) {
	s.LastActivity = now
	s.Active = true
	if s.ActivityCount < MaxActivityCount {
		s.ActivityCount++
	}
}

// DecayActivity clears the active state after the activity timeout.
func (s *UserSyncState) DecayActivity() {
	s.Active = false
	s.ActivityCount = 0
}

// RecordSignal marks the signal sub-state active as of now.
func (s *UserSyncState) RecordSignal(now time.Time) {
	s.Signal.LastDetected = now
	s.Signal.DetectionCount++
	s.Signal.Active = true
}

// DecaySignal clears the signal sub-state after the signal timeout.
func (s *UserSyncState) DecaySignal() {
	s.Signal.Active = false
	s.Signal.DetectionCount = 0
}

// Clone returns a copy of the state safe to hand to callers.
func (s *UserSyncState) Clone() *UserSyncState {
	copied := *s
	return &copied
}
