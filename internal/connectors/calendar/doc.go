// Package calendar syncs Google Calendar changes via incremental sync
// tokens against the primary calendar of each scheduled user.
package calendar
