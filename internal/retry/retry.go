// Package retry re-runs page loads that failed for transient reasons.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/rs/zerolog/log"
)

// Policy defines retry behavior with exponential backoff
type Policy struct {
	Attempts   int           // Total attempts, including the first
	Initial    time.Duration // Backoff before the second attempt
	Max        time.Duration // Backoff cap
	Multiplier float64       // Backoff growth per attempt
}

// DefaultPolicy returns the policy used for navigations
func DefaultPolicy() Policy {
	return Policy{
		Attempts:   3,
		Initial:    time.Second,
		Max:        10 * time.Second,
		Multiplier: 2.0,
	}
}

// Once never retries
func Once() Policy { return Policy{Attempts: 1} }

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Do calls fn until it succeeds, returns a non-retryable error, or the policy
// runs out of attempts. sleep performs the backoff waits.
func Do(ctx context.Context, p Policy, sleep SleepFunc, fn func() error) error {
	attempts := max(p.Attempts, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 0 {
				log.Debug().Int("attempts", attempt+1).Msg("Retry succeeded")
			}
			return nil
		}
		lastErr = err

		if !Retryable(err) || ctx.Err() != nil {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		backoff := Backoff(p, attempt)
		log.Debug().
			Int("attempt", attempt+1).
			Int("max_attempts", attempts).
			Dur("backoff", backoff).
			Err(err).
			Msg("Retrying after backoff")
		if err := sleep(ctx, backoff); err != nil {
			return err
		}
	}

	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

// Backoff returns the wait after the given zero-based attempt
func Backoff(p Policy, attempt int) time.Duration {
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	backoff := float64(p.Initial) * math.Pow(mult, float64(attempt))
	if p.Max > 0 && backoff > float64(p.Max) {
		backoff = float64(p.Max)
	}
	return time.Duration(backoff)
}

// Retryable reports whether err is worth another attempt. Only navigation
// failures and timeouts qualify; cancellation and template problems do not.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if engine.CodeOf(err) == engine.ErrCodeNavigation {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
