package database

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/mrlokans/kotoba/internal/entities"
)

// Retrier retries storage calls that fail with ErrStorageUnavailable using
// exponential backoff. Every other error is returned after the first attempt.
type Retrier struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	CallTimeout     time.Duration // bound on a single attempt, 0 disables
}

// DefaultRetrier returns a small bounded policy for transient failures.
func DefaultRetrier() Retrier {
	return Retrier{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		CallTimeout:     10 * time.Second,
	}
}

// NoRetry runs each call exactly once without a timeout.
func NoRetry() Retrier {
	return Retrier{MaxAttempts: 1}
}

// Do runs op until it succeeds, fails permanently or attempts run out. The
// returned error is already translated.
func (r Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := r.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	if r.InitialInterval > 0 {
		b.InitialInterval = r.InitialInterval
	}
	if r.MaxInterval > 0 {
		b.MaxInterval = r.MaxInterval
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := Translate(r.attempt(ctx, op))
		if err == nil {
			return struct{}{}, nil
		}
		if ctx.Err() != nil || !errors.Is(err, entities.ErrStorageUnavailable) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(attempts))

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Unwrap()
	}
	return err
}

func (r Retrier) attempt(ctx context.Context, op func(ctx context.Context) error) error {
	if r.CallTimeout <= 0 {
		return op(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, r.CallTimeout)
	defer cancel()
	return op(callCtx)
}
