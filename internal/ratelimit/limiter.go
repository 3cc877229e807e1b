// Package ratelimit paces page navigations per host
package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter gates navigations. Wait blocks until a navigation to rawURL may
// proceed or ctx is done.
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Defaults are deliberately slow: one tab, one site, no parallelism.
const (
	DefaultRPS   = 1.0
	DefaultBurst = 2
)

// DomainLimiter applies a token bucket per host
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter returns a limiter allowing rps navigations per second per
// host with the given burst. Non-positive values fall back to the defaults.
func NewDomainLimiter(rps float64, burst int) *DomainLimiter {
	if rps <= 0 {
		rps = DefaultRPS
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(rps),
		burst:    burst,
	}
}

// Wait implements Limiter. URLs without a host (about:blank, malformed input)
// are not limited; the navigation itself reports them.
func (d *DomainLimiter) Wait(ctx context.Context, rawURL string) error {
	host := hostOf(rawURL)
	if host == "" {
		return nil
	}
	return d.limiter(host).Wait(ctx)
}

func (d *DomainLimiter) limiter(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.limiters[host]
	if !ok {
		l = rate.NewLimiter(d.perHost, d.burst)
		d.limiters[host] = l
	}
	return l
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// Unlimited never blocks
type Unlimited struct{}

// Wait implements Limiter
func (Unlimited) Wait(ctx context.Context, _ string) error { return ctx.Err() }
