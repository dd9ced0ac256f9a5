// Package services implements the driving port interfaces.
// The Scheduler here is the adaptive sync scheduler: a registry of
// per-user schedulers, each owning its own timers and orchestrating
// fan-out rounds over the driven DomainSyncer handlers.
//
// All timers go through clock.Slot, so cancel-before-rearm is enforced
// structurally rather than by convention.
package services
