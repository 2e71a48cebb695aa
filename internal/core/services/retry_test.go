package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/mini_banking_api/internal/apperrors"
	"github.com/SscSPs/mini_banking_api/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_DelaysStayWithinMaxDelay(t *testing.T) {
	p := services.RetryPolicy{MaxAttempts: 6, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}

	var delays []time.Duration
	err := p.Do(context.Background(), func(int) error {
		return apperrors.ErrConcurrencyConflict
	}, func(_ int, _ error, d time.Duration) { delays = append(delays, d) })

	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
	assert.Len(t, delays, 5)
	for _, d := range delays {
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 4*time.Millisecond)
	}
}

func TestRetryPolicy_ReportsAttemptNumbers(t *testing.T) {
	p := services.RetryPolicy{MaxAttempts: 3}

	var seen []int
	err := p.Do(context.Background(), func(int) error {
		return apperrors.ErrConcurrencyConflict
	}, func(attempt int, _ error, d time.Duration) {
		seen = append(seen, attempt)
		assert.Zero(t, d)
	})

	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestRetryPolicy_Do(t *testing.T) {
	conflict := apperrors.ErrConcurrencyConflict
	other := errors.New("boom")
	fast := services.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Microsecond}

	tests := []struct {
		name         string
		policy       services.RetryPolicy
		results      []error
		wantErr      error
		wantAttempts int
	}{
		{name: "success first time", policy: fast, results: []error{nil}, wantAttempts: 1},
		{name: "conflict then success", policy: fast, results: []error{conflict, nil}, wantAttempts: 2},
		{name: "gives up after max attempts", policy: fast, results: []error{conflict, conflict, conflict, nil}, wantErr: conflict, wantAttempts: 3},
		{name: "other errors are not retried", policy: fast, results: []error{other, nil}, wantErr: other, wantAttempts: 1},
		{name: "no retry by default", policy: services.NoRetry(), results: []error{conflict, nil}, wantErr: conflict, wantAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			retries := 0
			err := tt.policy.Do(context.Background(), func(int) error {
				res := tt.results[attempts]
				attempts++
				return res
			}, func(int, error, time.Duration) { retries++ })

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantAttempts, attempts)
			assert.Equal(t, tt.wantAttempts-1, retries)
		})
	}
}

func TestRetryPolicy_DoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := services.RetryPolicy{MaxAttempts: 10, BaseDelay: time.Hour}

	attempts := 0
	err := p.Do(ctx, func(int) error {
		attempts++
		cancel()
		return apperrors.ErrConcurrencyConflict
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
	assert.Equal(t, 1, attempts)
}
