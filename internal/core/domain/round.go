package domain

import "time"

// Round trigger kinds recorded in history.
const (
	// TriggerBackground is a round started by the background timer.
	TriggerBackground = "background"

	// TriggerManual is a round started by an explicit trigger call.
	TriggerManual = "manual"
)

// RoundRecord is the diagnostic record of one completed sync round.
// Records are kept for observability only; the scheduler never reads
// them back to make decisions.
type RoundRecord struct {
	// ID uniquely identifies the round.
	ID string

	// UserID is the user the round ran for.
	UserID string

	// Trigger says what started the round.
	Trigger string

	// StartedAt and EndedAt bound the round's execution.
	StartedAt time.Time
	EndedAt   time.Time

	// Results holds one entry per domain, in fan-out order.
	Results []DomainResult

	// Changes is the combined change-and-signal count fed into the
	// change-frequency classifier.
	Changes int

	// Interval is the background interval chosen after the round.
	Interval time.Duration
}

// FailureCount returns the number of failed domains in the round.
func (r RoundRecord) FailureCount() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success {
			n++
		}
	}
	return n
}
