// Package runctx carries a per-run identifier through context for log
// correlation.
package runctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type key int

const runKey key = 0

// Run describes one traversal
type Run struct {
	ID    string
	Site  string
	Start time.Time
}

// New attaches a fresh Run for site to ctx
func New(ctx context.Context, site string) context.Context {
	return context.WithValue(ctx, runKey, &Run{
		ID:    generateID(),
		Site:  site,
		Start: time.Now(),
	})
}

// From returns the Run carried by ctx, or a placeholder
func From(ctx context.Context) *Run {
	if r, ok := ctx.Value(runKey).(*Run); ok {
		return r
	}
	return &Run{ID: "unknown", Start: time.Now()}
}

// Logger returns the global logger enriched with the run fields
func Logger(ctx context.Context) zerolog.Logger {
	r := From(ctx)
	l := log.With().Str("run_id", r.ID)
	if r.Site != "" {
		l = l.Str("site", r.Site)
	}
	return l.Logger()
}

func generateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// Error tags an error with the run that produced it
type Error struct {
	RunID string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %v", e.RunID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with the run in ctx. A nil err stays nil.
func Wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &Error{RunID: From(ctx).ID, Err: err}
}
