package domain

import "time"

// Interval tiers. The computed background interval is always exactly one
// of these values, never an arbitrary duration.
const (
	// TierImmediate is a sync that runs now, outside the timer cycle.
	TierImmediate = 0 * time.Second

	// TierFast is the cadence while the user is actively interacting.
	TierFast = 30 * time.Second

	// TierSignalActive is the cadence while an external scheduling
	// trigger is in flight. It outranks every other tier.
	TierSignalActive = 60 * time.Second

	// TierNormal is the default cadence.
	TierNormal = 5 * time.Minute

	// TierSlow is the cadence for quiet users with stale syncs.
	TierSlow = 10 * time.Minute

	// TierBackground is the initial cadence for a freshly scheduled user.
	TierBackground = 15 * time.Minute
)

// ChangeFrequency classifies how much change recent rounds observed.
type ChangeFrequency string

const (
	// FrequencyHigh means three or more changes in the last round.
	FrequencyHigh ChangeFrequency = "high"

	// FrequencyMedium means at least one change in the last round.
	FrequencyMedium ChangeFrequency = "medium"

	// FrequencyLow means the last round observed nothing.
	FrequencyLow ChangeFrequency = "low"
)

// ClassifyChangeFrequency maps a round's combined change-and-signal count
// to a frequency class.
func ClassifyChangeFrequency(changes int) ChangeFrequency {
	switch {
	case changes >= 3:
		return FrequencyHigh
	case changes >= 1:
		return FrequencyMedium
	default:
		return FrequencyLow
	}
}

// ComputeInterval selects the background interval tier for a user. It is
// deterministic and side-effect-free: callers apply the returned value.
//
// Precedence, first match wins:
//  1. signal active, or detected within signalWindow  -> TierSignalActive
//  2. user active                                     -> TierFast
//  3. change frequency high                           -> TierNormal
//  4. frequency low and last sync older than TierSlow -> TierSlow
//  5. otherwise                                       -> TierNormal
func ComputeInterval(s *UserSyncState, now time.Time, signalWindow time.Duration) time.Duration {
	signalRecent := !s.Signal.LastDetected.IsZero() &&
		now.Sub(s.Signal.LastDetected) < signalWindow

	switch {
	case s.Signal.Active || signalRecent:
		return TierSignalActive
	case s.Active:
		return TierFast
	case s.ChangeFrequency == FrequencyHigh:
		return TierNormal
	case s.ChangeFrequency == FrequencyLow &&
		!s.LastBackgroundSync.IsZero() &&
		now.Sub(s.LastBackgroundSync) > TierSlow:
		return TierSlow
	default:
		return TierNormal
	}
}
