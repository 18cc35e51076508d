// Package retry drives a retry loop over a backoff.Policy. It is the single
// reusable retry mechanism in the core; callers (the LLM client today,
// potentially other HTTP-backed collaborators later) configure it instead
// of inlining their own attempt-counting loops.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/triadrun/agentcore/internal/backoff"
)

// Config bounds a retry loop.
type Config struct {
	MaxAttempts int
	Policy      backoff.Policy
	// IsPermanent classifies an error as non-retryable. A nil func treats
	// every error as transient.
	IsPermanent func(error) bool
	// OnRetry is invoked after a transient failure, before sleeping, with
	// the attempt number just completed and the error that triggered it.
	// Callers use this to emit retry events.
	OnRetry func(attempt, maxAttempts int, err error)
}

// Result reports how a retried operation concluded.
type Result struct {
	Attempts int
	Err      error
	Duration time.Duration
}

// PermanentError marks an error that should never be retried regardless of
// the configured classifier.
type PermanentError struct{ Err error }

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Do runs op, retrying transient failures per cfg until MaxAttempts is
// reached, a permanent error is returned, or ctx is done.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) Result {
	start := time.Now()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var res Result
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		res.Attempts = attempt

		if err := ctx.Err(); err != nil {
			res.Err = err
			res.Duration = time.Since(start)
			return res
		}

		err := op(ctx)
		if err == nil {
			res.Err = nil
			res.Duration = time.Since(start)
			return res
		}
		res.Err = err

		var perm *PermanentError
		if errors.As(err, &perm) {
			res.Duration = time.Since(start)
			return res
		}
		if cfg.IsPermanent != nil && cfg.IsPermanent(err) {
			res.Duration = time.Since(start)
			return res
		}

		if attempt >= cfg.MaxAttempts {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, cfg.MaxAttempts, err)
		}

		delay := backoff.Compute(cfg.Policy, attempt)
		select {
		case <-ctx.Done():
			res.Err = ctx.Err()
			res.Duration = time.Since(start)
			return res
		case <-time.After(delay):
		}
	}

	res.Duration = time.Since(start)
	return res
}
