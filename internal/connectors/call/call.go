// Package call provides the retrying network-call primitive shared by
// every domain handler. One call is one operation executed under a
// per-attempt timeout, with transient failures retried under exponential
// backoff and terminal client errors returned immediately.
package call

import (
	"context"
	"time"

	"github.com/custodia-labs/cadence-cli/internal/clock"
	"github.com/custodia-labs/cadence-cli/internal/logger"
)

// Operation is a network operation safe to retry. It must respect ctx.
type Operation func(ctx context.Context) error

// Config bounds a retried call.
type Config struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt; it doubles for
	// every attempt after that.
	BaseDelay time.Duration

	// Timeout bounds each individual attempt.
	Timeout time.Duration
}

// DefaultConfig matches domain.DefaultSchedulerConfig's retry settings.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Timeout:     10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = d.BaseDelay
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// Outcome classifies how a retried call ended, so callers can decide
// whether a failure is a hard domain failure or a transient skip.
type Outcome int

const (
	// Success means the operation completed on some attempt.
	Success Outcome = iota

	// TerminalFailure means a client-class error stopped the call on the
	// attempt it occurred; no retries were spent after it.
	TerminalFailure

	// Exhausted means every attempt failed with a transient error.
	Exhausted
)

// Result is the final outcome of a retried call.
type Result struct {
	Outcome  Outcome
	Attempts int

	// Err is the last observed error; nil on Success.
	Err error
}

// Failed reports whether the call ultimately failed.
func (r Result) Failed() bool {
	return r.Outcome != Success
}

// Do executes op under cfg. Each attempt runs with its own timeout; waits
// between attempts go through clk so tests can drive them. A terminal
// client error stops retrying immediately. Context cancellation ends the
// call with a TerminalFailure carrying ctx.Err().
//
// Do keeps no shared state and is safe for concurrent use.
func Do(ctx context.Context, clk clock.Clock, cfg Config, op Operation) Result {
	cfg = cfg.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := cfg.BaseDelay << (attempt - 2)
			if err := sleep(ctx, clk, backoff); err != nil {
				return Result{Outcome: TerminalFailure, Attempts: attempt - 1, Err: err}
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		err := op(attemptCtx)
		cancel()

		if err == nil {
			return Result{Outcome: Success, Attempts: attempt}
		}
		lastErr = err

		if ctx.Err() != nil {
			return Result{Outcome: TerminalFailure, Attempts: attempt, Err: ctx.Err()}
		}
		if IsTerminal(err) {
			return Result{Outcome: TerminalFailure, Attempts: attempt, Err: err}
		}

		logger.Debug("transient call failure (attempt %d/%d): %v", attempt, cfg.MaxAttempts, err)
	}

	return Result{Outcome: Exhausted, Attempts: cfg.MaxAttempts, Err: lastErr}
}

// sleep waits d on clk, returning early with ctx.Err() on cancellation.
func sleep(ctx context.Context, clk clock.Clock, d time.Duration) error {
	done := make(chan struct{})
	timer := clk.AfterFunc(d, func() { close(done) })
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-done:
		return nil
	}
}
