package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"
)

// RetryPolicy retries rate-limited and timed-out calls with exponential
// backoff. Every attempt runs under AttemptTimeout.
type RetryPolicy struct {
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxJitter      time.Duration
	AttemptTimeout time.Duration

	Sleep  func(context.Context, time.Duration) error
	Jitter func(max time.Duration) time.Duration
}

func DefaultRetryPolicy(attemptTimeout time.Duration, maxAttempts int) RetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return RetryPolicy{
		MaxAttempts:    maxAttempts,
		BaseDelay:      time.Second,
		MaxJitter:      time.Second,
		AttemptTimeout: attemptTimeout,
		Sleep:          sleepContext,
		Jitter: func(max time.Duration) time.Duration {
			if max <= 0 {
				return 0
			}
			return rand.N(max)
		},
	}
}

// Backoff is the wait before the attempt following failed attempt n
// (0-based), without jitter.
func (p RetryPolicy) Backoff(n int) time.Duration {
	return p.BaseDelay << n
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// attempts run out.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		out, err := p.attempt(ctx, op, fn)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsRetryable(err) {
			return "", err
		}
		if attempt == p.MaxAttempts-1 {
			break
		}

		delay := p.Backoff(attempt)
		if p.Jitter != nil {
			delay += p.Jitter(p.MaxJitter)
		}
		log.Printf("[RETRY] ⏳ %s attempt %d/%d failed (%v), retrying in %s", op, attempt+1, p.MaxAttempts, KindOf(err), delay.Round(time.Millisecond))
		if err := p.Sleep(ctx, delay); err != nil {
			return "", err
		}
	}
	log.Printf("[RETRY] ❌ %s gave up after %d attempts", op, p.MaxAttempts)
	return "", fmt.Errorf("%s: %d attempts failed: %w", op, p.MaxAttempts, lastErr)
}

func (p RetryPolicy) attempt(ctx context.Context, op string, fn func(context.Context) (string, error)) (string, error) {
	attemptCtx := ctx
	if p.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
		defer cancel()
	}

	out, err := fn(attemptCtx)
	if err == nil {
		return out, nil
	}
	if ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return "", newError(KindTimeout, op, fmt.Errorf("no response within %s: %w", p.AttemptTimeout, err))
	}
	if KindOf(err) == "" && looksRateLimited(err) {
		return "", newError(KindRateLimited, op, err)
	}
	return "", err
}

// IsRetryable reports rate-limit and timeout failures.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout) {
		return true
	}
	return KindOf(err) == "" && looksRateLimited(err)
}

func looksRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "too many requests")
}
