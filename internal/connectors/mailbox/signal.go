package mailbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/cadence-cli/internal/connectors/call"
	"github.com/custodia-labs/cadence-cli/internal/core/domain"
	"github.com/custodia-labs/cadence-cli/internal/logger"
)

// signalLookback bounds how far back the seed query searches for
// trigger-address traffic.
const signalLookback = "7d"

// SignalActivity implements driven.SignalSource. It seeds scheduler
// state by searching the mailbox for recent trigger-address traffic.
func (s *Syncer) SignalActivity(ctx context.Context, userID string) (*domain.SignalActivity, error) {
	if s.triggerAddress == "" {
		return nil, domain.ErrNotFound
	}

	svc, result := s.service(ctx, userID, domain.DomainMailbox)
	if result != nil {
		if result.Skipped {
			return nil, domain.ErrNotFound
		}
		return nil, errors.New(result.Error)
	}

	query := fmt.Sprintf("(from:%s OR to:%s) newer_than:%s", s.triggerAddress, s.triggerAddress, signalLookback)

	var list *gmail.ListMessagesResponse
	res := call.Do(ctx, s.clk, s.retry, func(ctx context.Context) error {
		out, err := svc.Users.Messages.List("me").
			Q(query).
			MaxResults(signalSeedLimit).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		list = out
		return nil
	})
	if res.Failed() {
		return nil, fmt.Errorf("mailbox signal seed: %w", res.Err)
	}

	activity := &domain.SignalActivity{
		DetectionCount: len(list.Messages),
	}
	if len(list.Messages) == 0 {
		return activity, nil
	}

	// Results come newest first; one metadata fetch pins the timestamp.
	// Failure after retries only costs the timestamp, not the seed.
	var newest *gmail.Message
	res = call.Do(ctx, s.clk, s.retry, func(ctx context.Context) error {
		m, err := svc.Users.Messages.Get("me", list.Messages[0].Id).
			Format("minimal").
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		newest = m
		return nil
	})
	if !res.Failed() && newest.InternalDate > 0 {
		activity.LastDetected = time.UnixMilli(newest.InternalDate)
	}
	activity.Active = len(list.Messages) > 0
	activity.PendingCount = s.countPending(ctx, svc)
	return activity, nil
}

const signalSeedLimit = 25

// countPending counts trigger-address messages still unread, a proxy
// for scheduling exchanges awaiting an automated outcome. Failure after
// retries only costs the count, never the seed.
func (s *Syncer) countPending(ctx context.Context, svc *gmail.Service) int {
	query := fmt.Sprintf("(from:%s OR to:%s) newer_than:%s is:unread",
		s.triggerAddress, s.triggerAddress, signalLookback)

	var list *gmail.ListMessagesResponse
	res := call.Do(ctx, s.clk, s.retry, func(ctx context.Context) error {
		out, err := svc.Users.Messages.List("me").
			Q(query).
			MaxResults(signalSeedLimit).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		list = out
		return nil
	})
	if res.Failed() {
		logger.Debug("mailbox: pending count failed: %v", res.Err)
		return 0
	}
	return len(list.Messages)
}
