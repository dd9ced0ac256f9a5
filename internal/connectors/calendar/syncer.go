package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/cadence-cli/internal/clock"
	"github.com/custodia-labs/cadence-cli/internal/connectors/call"
	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/logger"
)

// TokenProvider yields an OAuth token source for a user's Google account.
// Implementations return domain.ErrNotFound when the user has not
// connected Google Calendar.
type TokenProvider interface {
	TokenSource(ctx context.Context, userID string) (oauth2.TokenSource, error)
}

// Syncer pulls incremental calendar changes for the primary calendar
// of each user. It keeps a per-user sync token so each round only
// sees events changed since the previous one.
type Syncer struct {
	tokens  TokenProvider
	clk     clock.Clock
	retry   call.Config
	limiter *RateLimiter

	mu      sync.Mutex
	cursors map[string]string
}

// New creates a calendar sync handler.
func New(tokens TokenProvider, clk clock.Clock, retry call.Config) *Syncer {
	return &Syncer{
		tokens:  tokens,
		clk:     clk,
		retry:   retry,
		limiter: NewRateLimiter(),
		cursors: make(map[string]string),
	}
}

// Domain implements driven.DomainSyncer.
func (s *Syncer) Domain() domain.SyncDomain { return domain.DomainCalendar }

// SyncUser implements driven.DomainSyncer.
func (s *Syncer) SyncUser(ctx context.Context, userID string) domain.DomainResult {
	ts, err := s.tokens.TokenSource(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.SkippedResult(domain.DomainCalendar, domain.SkipReasonNotConfigured)
	}
	if err != nil {
		return domain.FailedResult(domain.DomainCalendar, fmt.Errorf("calendar token source: %w", err))
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return domain.FailedResult(domain.DomainCalendar, fmt.Errorf("calendar service: %w", err))
	}

	result := domain.DomainResult{Domain: domain.DomainCalendar, Success: true}
	pageToken := ""
	syncToken := s.cursor(userID)

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return domain.FailedResult(domain.DomainCalendar, err)
		}

		var page *calendar.Events
		res := call.Do(ctx, s.clk, s.retry, func(ctx context.Context) error {
			req := svc.Events.List("primary").
				SingleEvents(true).
				MaxResults(maxEventsPerPage).
				Context(ctx)
			if pageToken != "" {
				req = req.PageToken(pageToken)
			} else if syncToken != "" {
				req = req.SyncToken(syncToken)
			}
			out, err := req.Do()
			if err != nil {
				return err
			}
			page = out
			return nil
		})
		if res.Failed() {
			if isSyncTokenExpired(res.Err) {
				// Google invalidated the token; drop it so the next
				// round performs a full reconciliation.
				logger.Debug("calendar: sync token expired for user %s, resetting cursor", userID)
				s.setCursor(userID, "")
				return domain.SkippedResult(domain.DomainCalendar, domain.SkipReasonCursorReset)
			}
			if res.Outcome == call.TerminalFailure && isAuthError(res.Err) {
				return domain.SkippedResult(domain.DomainCalendar, domain.SkipReasonNotConfigured)
			}
			return domain.FailedResult(domain.DomainCalendar, res.Err)
		}

		countEvents(page.Items, syncToken == "", &result)

		if page.NextPageToken != "" {
			pageToken = page.NextPageToken
			continue
		}
		if page.NextSyncToken != "" {
			s.setCursor(userID, page.NextSyncToken)
		}
		break
	}

	if result.Processed == 0 {
		return domain.SkippedResult(domain.DomainCalendar, domain.SkipReasonNoChanges)
	}
	return result
}

const maxEventsPerPage = 250

// countEvents folds one page of events into the running result. On a
// full sync (no prior cursor) every live event counts as created.
func countEvents(items []*calendar.Event, fullSync bool, result *domain.DomainResult) {
	for _, ev := range items {
		result.Processed++
		switch {
		case ev.Status == "cancelled":
			result.Deleted++
		case fullSync || ev.Created == ev.Updated:
			result.Created++
		default:
			result.Updated++
		}
	}
}

func isSyncTokenExpired(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 410
}

func isAuthError(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == 401 || apiErr.Code == 403
}

func (s *Syncer) cursor(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[userID]
}

func (s *Syncer) setCursor(userID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		delete(s.cursors, userID)
		return
	}
	s.cursors[userID] = token
}
