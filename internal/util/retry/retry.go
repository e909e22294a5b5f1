// Package retry provides a bounded retry policy with configurable backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SleepFunc blocks for the given duration or until the context is done.
// It is injectable so retry loops can be tested without real time delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy holds retry configuration.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	MaxInterval time.Duration
	Multiplier  float64
	Sleep       SleepFunc
}

// Option is a functional option for retry configuration.
type Option func(*Policy)

// Do executes the operation under the configured policy. The operation is
// attempted up to MaxAttempts times, sleeping Interval between attempts
// (scaled by Multiplier, capped at MaxInterval). Context cancellation is
// respected throughout.
//
// Errors wrapped with Fatal() are not retried.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	p := &Policy{
		MaxAttempts: 5,
		Interval:    1 * time.Second,
		MaxInterval: 30 * time.Second,
		Multiplier:  2.0,
		Sleep:       defaultSleep,
	}

	for _, opt := range opts {
		opt(p)
	}

	delay := p.Interval
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if attempt < p.MaxAttempts {
			if err := p.Sleep(ctx, delay); err != nil {
				return fmt.Errorf("context cancelled after %d attempts: %w", attempt, err)
			}
			delay = time.Duration(float64(delay) * p.Multiplier)
			if delay > p.MaxInterval {
				delay = p.MaxInterval
			}
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", p.MaxAttempts, lastErr)
}

func defaultSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		p.MaxAttempts = n
	}
}

// WithInterval sets the initial delay between attempts.
func WithInterval(d time.Duration) Option {
	return func(p *Policy) {
		p.Interval = d
	}
}

// WithMaxInterval sets the maximum delay between attempts.
func WithMaxInterval(d time.Duration) Option {
	return func(p *Policy) {
		p.MaxInterval = d
	}
}

// WithMultiplier sets the backoff multiplier. A multiplier of 1.0 yields a
// fixed-interval policy.
func WithMultiplier(m float64) Option {
	return func(p *Policy) {
		p.Multiplier = m
	}
}

// WithSleep replaces the sleep function.
func WithSleep(sleep SleepFunc) Option {
	return func(p *Policy) {
		p.Sleep = sleep
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
// Operations that encounter fatal errors will not be retried.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
