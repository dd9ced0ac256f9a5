// Package connectors groups the per-domain sync handlers. Each
// subpackage talks to one provider (Google Calendar, Gmail, Dropbox,
// the meeting bot API), keeps its own change cursors, and reports a
// DomainResult per sync. The call subpackage supplies the shared
// retrying request primitive.
package connectors
