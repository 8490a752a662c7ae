package retry

import (
	"context"
	"errors"
	"time"
)

// Policy describes a bounded retry with exponential backoff. It is
// configuration, not state: a single value can be shared read-only across
// any number of concurrent Do calls.
type Policy struct {
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// BaseDelay is the wait between attempt 1 and 2.
	BaseDelay time.Duration
	// BackoffFactor grows the delay geometrically. Values below 1 mean 1.
	BackoffFactor float64
}

// DefaultPolicy matches the documented schedule: 3 attempts, 1s base, factor 2.
var DefaultPolicy = Policy{MaxAttempts: 3, BaseDelay: time.Second, BackoffFactor: 2}

// Delay returns the wait after the given 1-based attempt: base*factor^(k-1).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.BaseDelay)
	factor := p.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	for i := 1; i < attempt; i++ {
		d *= factor
	}
	return time.Duration(d)
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Attempted pairs an operation's value with the number of attempts it took,
// keeping attempt accounting out of the payload shape.
type Attempted[T any] struct {
	Value    T
	Attempts int
}

// Do runs op up to p.MaxAttempts times, sleeping the backoff schedule between
// failures. The context cancels both the in-flight operation (op receives ctx)
// and any pending backoff sleep. On exhaustion the last error is returned with
// Attempts set to the number of tries made.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (Attempted[T], error) {
	var lastErr error
	var zero T
	max := p.attempts()
	for attempt := 1; attempt <= max; attempt++ {
		if err := ctx.Err(); err != nil {
			return Attempted[T]{Value: zero, Attempts: attempt - 1}, err
		}
		v, err := op(ctx)
		if err == nil {
			return Attempted[T]{Value: v, Attempts: attempt}, nil
		}
		lastErr = err
		if attempt == max {
			break
		}
		if err := sleep(ctx, p.Delay(attempt)); err != nil {
			return Attempted[T]{Value: zero, Attempts: attempt}, err
		}
	}
	if lastErr == nil {
		lastErr = errors.New("retry: no attempts made")
	}
	return Attempted[T]{Value: zero, Attempts: max}, lastErr
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
