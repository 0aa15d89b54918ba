// Package retry runs a function until it succeeds, the attempts run out or
// the context is done.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	defaultDelay    = 100 * time.Millisecond
	defaultMaxDelay = 10 * time.Second
)

type Backoff func(attempt int) time.Duration

// A Policy describes how often and how fast an operation is retried.
// The zero Policy runs the operation once.
type Policy struct {
	Attempts int
	Backoff  Backoff

	// Retriable reports whether err is worth another attempt. Errors
	// wrapped with [Permanent] are never retried.
	Retriable func(error) bool

	// OnRetry is called before waiting for the next attempt.
	OnRetry func(attempt int, err error)
}

func (p *Policy) normalize() {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Backoff == nil {
		p.Backoff = ExponentialBackoff(defaultDelay, defaultMaxDelay)
	}
	if p.Retriable == nil {
		p.Retriable = func(error) bool { return true }
	}
	if p.OnRetry == nil {
		p.OnRetry = func(int, error) {}
	}
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err so that Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err}
}

func isPermanent(err error) bool {
	var pe permanentError
	return errors.As(err, &pe)
}

// ExponentialBackoff doubles delay per attempt and adds up to half of it
// as jitter. The result never exceeds maxDelay.
func ExponentialBackoff(delay, maxDelay time.Duration) Backoff {
	return func(attempt int) time.Duration {
		if attempt > 30 {
			attempt = 30
		}
		d := delay << attempt
		if d <= 0 || d > maxDelay {
			d = maxDelay
		}
		if half := int64(d / 2); half > 0 {
			d += time.Duration(rand.Int64N(half))
		}
		return min(d, maxDelay)
	}
}

func ConstantBackoff(delay time.Duration) Backoff {
	return func(int) time.Duration {
		return delay
	}
}

func Do(ctx context.Context, p Policy, fn func() error) error {
	_, err := DoWithResult(ctx, p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func DoWithResult[T any](
	ctx context.Context, p Policy, fn func() (T, error),
) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	p.normalize()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for attempt := 1; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if attempt >= p.Attempts || isPermanent(err) || !p.Retriable(err) {
			return zero, err
		}

		p.OnRetry(attempt, err)

		wait := p.Backoff(attempt)
		if timer == nil {
			timer = time.NewTimer(wait)
		} else {
			timer.Reset(wait)
		}
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%w: %w", ctx.Err(), err)
		case <-timer.C:
		}
	}
}
