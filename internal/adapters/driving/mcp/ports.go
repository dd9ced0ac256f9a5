package mcp

import (
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driven"
	"github.com/custodia-labs/cadence-cli/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Scheduler drives and inspects the sync scheduler.
	Scheduler driving.SyncScheduler

	// History serves recent round records. Optional; the history tool
	// is not registered without it.
	History driven.RoundHistoryStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Scheduler == nil {
		return ErrMissingScheduler
	}
	return nil
}
