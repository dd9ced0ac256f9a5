package domain

import "time"

// SchedulerConfig holds the scheduler's tunables. Interval tiers are
// fixed; only timeouts and retry behaviour are configurable.
type SchedulerConfig struct {
	// ActivityTimeout is how long after the last activity event the user
	// is still considered active.
	ActivityTimeout time.Duration

	// SignalWindow is how long a scheduling-trigger detection keeps the
	// signal sub-state active. Longer than ActivityTimeout: an automated
	// scheduling exchange outlives the click that started it.
	SignalWindow time.Duration

	// MeetingDebounce delays the immediate sync after meeting creation so
	// it does not race the provider's own calendar write.
	MeetingDebounce time.Duration

	// RetryAttempts is the attempt ceiling for network calls.
	RetryAttempts int

	// RetryBaseDelay is the first backoff delay; it doubles per attempt.
	RetryBaseDelay time.Duration

	// CallTimeout bounds each individual network attempt.
	CallTimeout time.Duration

	// HistoryKeep is how many round records to retain per user.
	HistoryKeep int
}

// DefaultSchedulerConfig returns sensible defaults for the scheduler.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		ActivityTimeout: 2 * time.Minute,
		SignalWindow:    10 * time.Minute,
		MeetingDebounce: 5 * time.Second,
		RetryAttempts:   3,
		RetryBaseDelay:  time.Second,
		CallTimeout:     10 * time.Second,
		HistoryKeep:     100,
	}
}
