// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Cadence. It lets AI assistants inspect and drive the sync
// scheduler.
package mcp

import "errors"

// ErrMissingScheduler is returned when the scheduler is not provided.
var ErrMissingScheduler = errors.New("mcp: scheduler is required")
