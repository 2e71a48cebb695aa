package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often a ledger operation is re-run after a
// concurrency conflict. Every attempt re-reads fresh state. MaxAttempts of 1
// (or less) disables retrying.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// NoRetry runs an operation exactly once.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// newBackOff builds a jittered exponential schedule. A randomization factor
// of 1 spreads each sleep over [0, 2*interval], so intervals are halved to
// keep the first sleep within BaseDelay and every sleep within MaxDelay.
func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.ZeroBackOff{}
	if p.BaseDelay > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = max(p.BaseDelay/2, time.Nanosecond)
		eb.RandomizationFactor = 1
		eb.Multiplier = 2
		eb.MaxElapsedTime = 0
		if p.MaxDelay > 0 {
			eb.MaxInterval = max(p.MaxDelay/2, time.Nanosecond)
			eb.InitialInterval = min(eb.InitialInterval, eb.MaxInterval)
		}
		eb.Reset()
		b = eb
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.attempts()-1)), ctx)
}

// retryable reports whether err is worth another attempt.
func retryable(err error) bool {
	return errors.Is(err, apperrors.ErrConcurrencyConflict)
}

// Do runs op until it succeeds, fails with a non-conflict error, the context
// ends, or MaxAttempts is reached. onRetry, if set, observes each scheduled retry.
func (p RetryPolicy) Do(ctx context.Context, op func(attempt int) error, onRetry func(attempt int, err error, delay time.Duration)) error {
	attempt := 0
	var lastErr error
	err := backoff.RetryNotify(func() error {
		attempt++
		lastErr = op(attempt)
		if lastErr != nil && !retryable(lastErr) {
			return backoff.Permanent(lastErr)
		}
		return lastErr
	}, p.newBackOff(ctx), func(err error, delay time.Duration) {
		if onRetry != nil {
			onRetry(attempt, err, delay)
		}
	})

	if err != nil && lastErr != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return fmt.Errorf("retry aborted after %d attempts: %w", attempt, errors.Join(lastErr, err))
	}
	return err
}
