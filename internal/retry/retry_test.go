package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/stretchr/testify/assert"
)

type recordedSleeps []time.Duration

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	*r = append(*r, d)
	return nil
}

func navErr() error {
	return engine.NewEngineError(engine.ErrCodeNavigation, "net::ERR_CONNECTION_RESET", nil)
}

func TestDo_RetriesNavigation(t *testing.T) {
	var sleeps recordedSleeps
	calls := 0
	err := Do(context.Background(), DefaultPolicy(), sleeps.sleep, func() error {
		calls++
		if calls < 3 {
			return navErr()
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, recordedSleeps{time.Second, 2 * time.Second}, sleeps)
}

func TestDo_GivesUp(t *testing.T) {
	var sleeps recordedSleeps
	calls := 0
	err := Do(context.Background(), DefaultPolicy(), sleeps.sleep, func() error {
		calls++
		return navErr()
	})
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, engine.ErrNavigation)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
}

func TestDo_NotRetryable(t *testing.T) {
	var sleeps recordedSleeps
	calls := 0
	gate := engine.NewEngineError(engine.ErrCodeGateNotFound, "no gate", nil)
	err := Do(context.Background(), DefaultPolicy(), sleeps.sleep, func() error {
		calls++
		return gate
	})
	assert.Equal(t, 1, calls)
	assert.Same(t, gate, err)
	assert.Empty(t, sleeps)
}

func TestDo_Once(t *testing.T) {
	var sleeps recordedSleeps
	calls := 0
	err := Do(context.Background(), Once(), sleeps.sleep, func() error {
		calls++
		return navErr()
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, engine.ErrNavigation)
	assert.NotContains(t, err.Error(), "attempts")
}

func TestDo_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, DefaultPolicy(), func(context.Context, time.Duration) error { return nil }, func() error {
		calls++
		cancel()
		return navErr()
	})
	assert.Equal(t, 1, calls)
	assert.Error(t, err)
}

func TestBackoff_Capped(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, time.Second, Backoff(p, 0))
	assert.Equal(t, 4*time.Second, Backoff(p, 2))
	assert.Equal(t, 10*time.Second, Backoff(p, 5))
}

func TestRetryable(t *testing.T) {
	assert.False(t, Retryable(nil))
	assert.False(t, Retryable(context.Canceled))
	assert.True(t, Retryable(fmt.Errorf("load: %w", navErr())))
	assert.True(t, Retryable(context.DeadlineExceeded))
	assert.False(t, Retryable(errors.New("selector mismatch")))
	assert.False(t, Retryable(engine.NewEngineError(engine.ErrCodeValidation, "bad", nil)))
}
