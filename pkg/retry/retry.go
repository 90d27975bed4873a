package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const defaultDelay = 100 * time.Millisecond

type Backoff func(attempt int) time.Duration

type ShouldRetry func(error) bool

// OnRetry observes a failed attempt that is about to be retried.
type OnRetry func(attempt int, wait time.Duration, err error)

type RetryConfig struct {
	MaxAttempts int
	Backoff     Backoff
	ShouldRetry ShouldRetry
	OnRetry     OnRetry
}

func (s *RetryConfig) normalize() {
	if s.MaxAttempts == 0 {
		s.MaxAttempts = 1
	}

	if s.Backoff == nil {
		s.Backoff = defaultBackoff()
	}

	if s.ShouldRetry == nil {
		s.ShouldRetry = alwaysRetry
	}

	if s.OnRetry == nil {
		s.OnRetry = func(int, time.Duration, error) {}
	}
}

func defaultBackoff() Backoff {
	return ExponentialBackoff(defaultDelay)
}

func alwaysRetry(error) bool {
	return true
}

// ExponentialBackoff doubles delay per attempt and adds up to half of it
// as jitter.
func ExponentialBackoff(delay time.Duration) Backoff {
	return func(attempt int) time.Duration {
		base := 1 << attempt * delay
		if base < 2 {
			return base
		}
		jitter := time.Duration(rand.Int64N(int64(base/2)) + 1)
		return base + jitter
	}
}

// CappedBackoff never waits longer than limit.
func CappedBackoff(b Backoff, limit time.Duration) Backoff {
	return func(attempt int) time.Duration {
		return min(b(attempt), limit)
	}
}

func LinearBackoff(delay time.Duration) Backoff {
	return func(attempt int) time.Duration {
		return delay
	}
}

func Do(ctx context.Context, c RetryConfig, fn func() error) error {
	_, err := DoWithResult(ctx, c, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func DoWithResult[T any](ctx context.Context, c RetryConfig, fn func() (T, error)) (T, error) {
	var (
		zero, result T
		err          error
	)

	err = ctx.Err()
	if err != nil {
		return zero, err
	}

	c.normalize()
	timer := time.NewTimer(0)
	defer timer.Stop()

	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if !c.ShouldRetry(err) || attempt == c.MaxAttempts {
			break
		}

		wait := c.Backoff(attempt)
		c.OnRetry(attempt, wait, err)
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%w: %w", ctx.Err(), err)
		case <-timer.C:
		}
	}

	return zero, err
}
