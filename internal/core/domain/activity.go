package domain

import "fmt"

// ActivityEvent is a user-interaction or external-signal trigger kind.
// Events are consumed synchronously by the activity tracker and not stored.
type ActivityEvent string

const (
	// EventAppLoad fires when the user opens the dashboard.
	EventAppLoad ActivityEvent = "app_load"

	// EventCalendarViewed fires when the user opens the calendar view.
	EventCalendarViewed ActivityEvent = "calendar_viewed"

	// EventMeetingCreated fires when the user creates a meeting. The
	// follow-up sync is debounced so it does not race the provider's own
	// calendar write.
	EventMeetingCreated ActivityEvent = "meeting_created"

	// EventInteraction is any other user interaction worth tracking.
	EventInteraction ActivityEvent = "interaction"

	// EventSignalDetected fires when an automated scheduling trigger is
	// found in inbound data, independent of user interaction.
	EventSignalDetected ActivityEvent = "signal_detected"
)

// ParseActivityEvent converts a user-supplied event name to an ActivityEvent.
func ParseActivityEvent(s string) (ActivityEvent, error) {
	switch ActivityEvent(s) {
	case EventAppLoad, EventCalendarViewed, EventMeetingCreated, EventInteraction, EventSignalDetected:
		return ActivityEvent(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
}

// ImmediateDomains returns the domains an event triggers an immediate sync
// of. Empty for events that only feed the activity counter.
func (e ActivityEvent) ImmediateDomains() []SyncDomain {
	switch e {
	case EventAppLoad:
		return []SyncDomain{DomainCalendar, DomainMailbox}
	case EventCalendarViewed:
		return []SyncDomain{DomainCalendar}
	case EventMeetingCreated:
		return []SyncDomain{DomainCalendar}
	case EventSignalDetected:
		return []SyncDomain{DomainMailbox, DomainCalendar}
	default:
		return nil
	}
}

// Debounced reports whether the event's immediate sync should wait out a
// short delay instead of running instantly.
func (e ActivityEvent) Debounced() bool {
	return e == EventMeetingCreated
}

// IsSignal reports whether the event updates the signal sub-state rather
// than only the general activity state.
func (e ActivityEvent) IsSignal() bool {
	return e == EventSignalDetected
}
