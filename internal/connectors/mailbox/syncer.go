package mailbox

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/cadence-cli/internal/clock"
	"github.com/custodia-labs/cadence-cli/internal/connectors/call"
	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/logger"
)

// TokenProvider yields an OAuth token source for a user's Google
// account. Implementations return domain.ErrNotFound when the user has
// not connected Gmail.
type TokenProvider interface {
	TokenSource(ctx context.Context, userID string) (oauth2.TokenSource, error)
}

// signalScanLimit caps how many newly arrived messages we inspect for
// the trigger address during a single round.
const signalScanLimit = 10

// Syncer pulls incremental mailbox changes via the Gmail History API
// and watches for messages involving the configured trigger address.
// Gmail marks accounts without the service enabled with a permission
// error; those users are skipped rather than failed.
type Syncer struct {
	tokens         TokenProvider
	clk            clock.Clock
	retry          call.Config
	triggerAddress string
	cursors        *cursorStore
}

// New creates a mailbox sync handler. triggerAddress is the mailbox
// address whose traffic counts as scheduling signals; empty disables
// signal detection.
func New(tokens TokenProvider, clk clock.Clock, retry call.Config, triggerAddress string) *Syncer {
	return &Syncer{
		tokens:         tokens,
		clk:            clk,
		retry:          retry,
		triggerAddress: strings.ToLower(triggerAddress),
		cursors:        newCursorStore(),
	}
}

// Domain implements driven.DomainSyncer.
func (s *Syncer) Domain() domain.SyncDomain { return domain.DomainMailbox }

// SyncUser implements driven.DomainSyncer.
func (s *Syncer) SyncUser(ctx context.Context, userID string) domain.DomainResult {
	svc, result := s.service(ctx, userID, domain.DomainMailbox)
	if result != nil {
		return *result
	}

	start := s.cursors.get(userID)
	if start == 0 {
		// First round for this user: seed the cursor from the current
		// profile so subsequent rounds are incremental.
		historyID, err := s.currentHistoryID(ctx, svc)
		if err != nil {
			return s.classify(userID, err)
		}
		s.cursors.set(userID, historyID)
		return domain.SkippedResult(domain.DomainMailbox, domain.SkipReasonNoChanges)
	}

	out := domain.DomainResult{Domain: domain.DomainMailbox, Success: true}
	var added []string
	pageToken := ""
	latest := start

	for {
		var page *gmail.ListHistoryResponse
		res := call.Do(ctx, s.clk, s.retry, func(ctx context.Context) error {
			req := svc.Users.History.List("me").
				StartHistoryId(start).
				Context(ctx)
			if pageToken != "" {
				req = req.PageToken(pageToken)
			}
			p, err := req.Do()
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if res.Failed() {
			return s.classify(userID, res.Err)
		}

		for _, h := range page.History {
			if h.Id > latest {
				latest = h.Id
			}
			for _, ma := range h.MessagesAdded {
				out.Processed++
				out.Created++
				if ma.Message != nil {
					added = append(added, ma.Message.Id)
				}
			}
			for range h.MessagesDeleted {
				out.Processed++
				out.Deleted++
			}
			for range h.LabelsAdded {
				out.Processed++
				out.Updated++
			}
			for range h.LabelsRemoved {
				out.Processed++
				out.Updated++
			}
		}

		if page.NextPageToken == "" {
			if page.HistoryId > latest {
				latest = page.HistoryId
			}
			break
		}
		pageToken = page.NextPageToken
	}

	s.cursors.set(userID, latest)

	if out.Processed == 0 {
		return domain.SkippedResult(domain.DomainMailbox, domain.SkipReasonNoChanges)
	}

	out.SignalHits = s.countSignalHits(ctx, svc, added)
	return out
}

// countSignalHits inspects recently added messages for the trigger
// address. Lookup failures only cost us a signal, never the round.
func (s *Syncer) countSignalHits(ctx context.Context, svc *gmail.Service, messageIDs []string) int {
	if s.triggerAddress == "" || len(messageIDs) == 0 {
		return 0
	}
	if len(messageIDs) > signalScanLimit {
		messageIDs = messageIDs[:signalScanLimit]
	}

	hits := 0
	for _, id := range messageIDs {
		var msg *gmail.Message
		res := call.Do(ctx, s.clk, s.retry, func(ctx context.Context) error {
			m, err := svc.Users.Messages.Get("me", id).
				Format("metadata").
				MetadataHeaders("From", "To", "Cc").
				Context(ctx).
				Do()
			if err != nil {
				return err
			}
			msg = m
			return nil
		})
		if res.Failed() {
			logger.Debug("mailbox: signal scan failed for message %s: %v", id, res.Err)
			continue
		}
		if messageMentions(msg, s.triggerAddress) {
			hits++
		}
	}
	return hits
}

// messageMentions reports whether any address header of msg contains
// the given lowercase address.
func messageMentions(msg *gmail.Message, address string) bool {
	if msg == nil || msg.Payload == nil {
		return false
	}
	for _, h := range msg.Payload.Headers {
		switch h.Name {
		case "From", "To", "Cc":
			if strings.Contains(strings.ToLower(h.Value), address) {
				return true
			}
		}
	}
	return false
}

func (s *Syncer) currentHistoryID(ctx context.Context, svc *gmail.Service) (uint64, error) {
	var id uint64
	res := call.Do(ctx, s.clk, s.retry, func(ctx context.Context) error {
		profile, err := svc.Users.GetProfile("me").Context(ctx).Do()
		if err != nil {
			return err
		}
		id = profile.HistoryId
		return nil
	})
	if res.Failed() {
		return 0, res.Err
	}
	return id, nil
}

// classify maps a Gmail API error to the appropriate round outcome.
// Permission errors mean the account is not connected, and an expired
// history ID means the cursor must be reseeded before the next pass.
func (s *Syncer) classify(userID string, err error) domain.DomainResult {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return domain.SkippedResult(domain.DomainMailbox, domain.SkipReasonNotConfigured)
		case 404:
			logger.Debug("mailbox: history id expired for user %s, resetting cursor", userID)
			s.cursors.set(userID, 0)
			return domain.SkippedResult(domain.DomainMailbox, domain.SkipReasonCursorReset)
		}
	}
	return domain.FailedResult(domain.DomainMailbox, err)
}

// service builds a Gmail client for userID, or the result that should
// be returned when a client cannot be built.
func (s *Syncer) service(ctx context.Context, userID string, d domain.SyncDomain) (*gmail.Service, *domain.DomainResult) {
	ts, err := s.tokens.TokenSource(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		r := domain.SkippedResult(d, domain.SkipReasonNotConfigured)
		return nil, &r
	}
	if err != nil {
		r := domain.FailedResult(d, fmt.Errorf("mailbox token source: %w", err))
		return nil, &r
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		r := domain.FailedResult(d, fmt.Errorf("mailbox service: %w", err))
		return nil, &r
	}
	return svc, nil
}
