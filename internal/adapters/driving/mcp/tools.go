package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

// TriggerSyncInput is the input schema for the trigger_sync tool.
type TriggerSyncInput struct {
	UserID string `json:"user_id" jsonschema:"the user to sync"`
	Domain string `json:"domain,omitempty" jsonschema:"optional domain (calendar, file_storage, mailbox, meeting_bot); all domains when omitted"`
}

// TriggerSyncOutput is the output schema for the trigger_sync tool.
type TriggerSyncOutput struct {
	Results []DomainResultOutput `json:"results"`
}

// DomainResultOutput represents one domain's outcome in a round.
type DomainResultOutput struct {
	Domain     string `json:"domain"`
	Success    bool   `json:"success"`
	Processed  int    `json:"processed"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	Deleted    int    `json:"deleted"`
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
	SignalHits int    `json:"signal_hits,omitempty"`
	Error      string `json:"error,omitempty"`
}

// StateInput is the input schema for the get_sync_state tool.
type StateInput struct {
	UserID string `json:"user_id" jsonschema:"the user whose scheduling state to fetch"`
}

// StateOutput is the output schema for the get_sync_state tool.
type StateOutput struct {
	UserID          string `json:"user_id"`
	Active          bool   `json:"active"`
	ActivityCount   int    `json:"activity_count"`
	LastActivity    string `json:"last_activity,omitempty"`
	ChangeFrequency string `json:"change_frequency"`
	CurrentInterval string `json:"current_interval"`
	LastSync        string `json:"last_sync,omitempty"`
	SignalActive    bool   `json:"signal_active"`
	SignalCount     int    `json:"signal_count"`
	SignalPending   int    `json:"signal_pending"`
}

// StatsInput is the input schema for the get_sync_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the get_sync_stats tool.
type StatsOutput struct {
	ScheduledUsers    int    `json:"scheduled_users"`
	ActiveUsers       int    `json:"active_users"`
	SignalActiveUsers int    `json:"signal_active_users"`
	AverageInterval   string `json:"average_interval,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "trigger_sync",
		Description: "Run a sync round for a user, optionally for one domain only",
	}, s.handleTriggerSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_sync_state",
		Description: "Fetch a user's current scheduling state",
	}, s.handleState)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_sync_stats",
		Description: "Fetch aggregate scheduler statistics",
	}, s.handleStats)
}

// handleTriggerSync handles the trigger_sync tool invocation.
func (s *Server) handleTriggerSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TriggerSyncInput,
) (*mcp.CallToolResult, TriggerSyncOutput, error) {
	if input.Domain != "" {
		d, err := domain.ParseSyncDomain(input.Domain)
		if err != nil {
			return nil, TriggerSyncOutput{}, err
		}

		result, err := s.ports.Scheduler.TriggerSync(ctx, input.UserID, d)
		if err != nil {
			return nil, TriggerSyncOutput{}, err
		}
		return nil, TriggerSyncOutput{Results: []DomainResultOutput{toResultOutput(result)}}, nil
	}

	results, err := s.ports.Scheduler.TriggerRound(ctx, input.UserID)
	if err != nil {
		return nil, TriggerSyncOutput{}, err
	}

	output := TriggerSyncOutput{Results: make([]DomainResultOutput, len(results))}
	for i, result := range results {
		output.Results[i] = toResultOutput(result)
	}
	return nil, output, nil
}

// handleState handles the get_sync_state tool invocation.
func (s *Server) handleState(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input StateInput,
) (*mcp.CallToolResult, StateOutput, error) {
	state, err := s.ports.Scheduler.State(input.UserID)
	if err != nil {
		return nil, StateOutput{}, err
	}

	output := StateOutput{
		UserID:          state.UserID,
		Active:          state.Active,
		ActivityCount:   state.ActivityCount,
		ChangeFrequency: string(state.ChangeFrequency),
		CurrentInterval: state.CurrentInterval.String(),
		SignalActive:    state.Signal.Active,
		SignalCount:     state.Signal.DetectionCount,
		SignalPending:   state.Signal.PendingCount,
	}
	if !state.LastActivity.IsZero() {
		output.LastActivity = state.LastActivity.Format(time.RFC3339)
	}
	if !state.LastBackgroundSync.IsZero() {
		output.LastSync = state.LastBackgroundSync.Format(time.RFC3339)
	}
	return nil, output, nil
}

// handleStats handles the get_sync_stats tool invocation.
func (s *Server) handleStats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats := s.ports.Scheduler.Stats()

	output := StatsOutput{
		ScheduledUsers:    stats.ScheduledUsers,
		ActiveUsers:       stats.ActiveUsers,
		SignalActiveUsers: stats.SignalActiveUsers,
	}
	if stats.AverageInterval > 0 {
		output.AverageInterval = stats.AverageInterval.String()
	}
	return nil, output, nil
}

func toResultOutput(r domain.DomainResult) DomainResultOutput {
	return DomainResultOutput{
		Domain:     string(r.Domain),
		Success:    r.Success,
		Processed:  r.Processed,
		Created:    r.Created,
		Updated:    r.Updated,
		Deleted:    r.Deleted,
		Skipped:    r.Skipped,
		SkipReason: r.SkipReason,
		SignalHits: r.SignalHits,
		Error:      r.Error,
	}
}
