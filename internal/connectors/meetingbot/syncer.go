package meetingbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/custodia-labs/cadence-cli/internal/clock"
	"github.com/custodia-labs/cadence-cli/internal/connectors/call"
	"github.com/custodia-labs/cadence-cli/internal/core/domain"
)

// CredentialsProvider yields the meeting bot API key for a user.
// Implementations return domain.ErrNotFound when the user has not
// connected the bot.
type CredentialsProvider interface {
	APIKey(ctx context.Context, userID string) (string, error)
}

// event is one entry in the bot's recording event feed.
type event struct {
	Type        string `json:"type"`
	RecordingID string `json:"recording_id"`
}

// eventsResponse is the bot API payload for the events endpoint.
type eventsResponse struct {
	Events     []event `json:"events"`
	NextCursor string  `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// Event types emitted by the bot API.
const (
	eventRecordingCreated = "recording.created"
	eventRecordingUpdated = "recording.updated"
	eventRecordingDeleted = "recording.deleted"
)

// Syncer pulls recording events from the meeting bot's REST API,
// keeping a per-user feed cursor between rounds.
type Syncer struct {
	creds   CredentialsProvider
	client  *http.Client
	baseURL string
	clk     clock.Clock
	retry   call.Config

	mu      sync.Mutex
	cursors map[string]string
}

// New creates a meeting bot sync handler. A nil client falls back to
// http.DefaultClient.
func New(creds CredentialsProvider, client *http.Client, baseURL string, clk clock.Clock, retry call.Config) *Syncer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Syncer{
		creds:   creds,
		client:  client,
		baseURL: baseURL,
		clk:     clk,
		retry:   retry,
		cursors: make(map[string]string),
	}
}

// Domain implements driven.DomainSyncer.
func (s *Syncer) Domain() domain.SyncDomain { return domain.DomainMeetingBot }

// SyncUser implements driven.DomainSyncer.
func (s *Syncer) SyncUser(ctx context.Context, userID string) domain.DomainResult {
	key, err := s.creds.APIKey(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.SkippedResult(domain.DomainMeetingBot, domain.SkipReasonNotConfigured)
	}
	if err != nil {
		return domain.FailedResult(domain.DomainMeetingBot, fmt.Errorf("meeting bot credentials: %w", err))
	}

	result := domain.DomainResult{Domain: domain.DomainMeetingBot, Success: true}
	cursor := s.cursor(userID)

	for {
		var page *eventsResponse
		res := call.Do(ctx, s.clk, s.retry, func(ctx context.Context) error {
			out, err := s.fetchEvents(ctx, userID, key, cursor)
			if err != nil {
				return err
			}
			page = out
			return nil
		})
		if res.Failed() {
			var statusErr *call.StatusError
			if res.Outcome == call.TerminalFailure && errors.As(res.Err, &statusErr) &&
				(statusErr.Code == http.StatusUnauthorized || statusErr.Code == http.StatusForbidden) {
				return domain.SkippedResult(domain.DomainMeetingBot, domain.SkipReasonNotConfigured)
			}
			return domain.FailedResult(domain.DomainMeetingBot, res.Err)
		}

		countEvents(page.Events, &result)
		if page.NextCursor != "" {
			cursor = page.NextCursor
		}
		if !page.HasMore {
			break
		}
	}

	s.setCursor(userID, cursor)

	if result.Processed == 0 {
		return domain.SkippedResult(domain.DomainMeetingBot, domain.SkipReasonNoChanges)
	}
	return result
}

// fetchEvents issues one page request against the bot API.
func (s *Syncer) fetchEvents(ctx context.Context, userID, key, cursor string) (*eventsResponse, error) {
	endpoint, err := url.Parse(s.baseURL + "/v1/users/" + url.PathEscape(userID) + "/events")
	if err != nil {
		return nil, fmt.Errorf("meeting bot endpoint: %w", err)
	}
	if cursor != "" {
		q := endpoint.Query()
		q.Set("cursor", cursor)
		endpoint.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &call.StatusError{Code: resp.StatusCode, Message: string(body)}
	}

	var out eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return &out, nil
}

func countEvents(events []event, result *domain.DomainResult) {
	for _, ev := range events {
		result.Processed++
		switch ev.Type {
		case eventRecordingCreated:
			result.Created++
		case eventRecordingUpdated:
			result.Updated++
		case eventRecordingDeleted:
			result.Deleted++
		}
	}
}

func (s *Syncer) cursor(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[userID]
}

func (s *Syncer) setCursor(userID, cursor string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cursor == "" {
		delete(s.cursors, userID)
		return
	}
	s.cursors[userID] = cursor
}
