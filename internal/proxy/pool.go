// Package proxy rotates outbound proxies across browser sessions
package proxy

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

// Pool hands out proxies round-robin, skipping ones that recently failed.
// A nil or empty Pool always returns "" (direct connection).
type Pool struct {
	mu       sync.Mutex
	proxies  []string
	index    int
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewPool returns a pool over proxies
func NewPool(proxies []string) *Pool {
	return &Pool{
		proxies:  proxies,
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
}

// Len returns the number of configured proxies
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// Next returns the next healthy proxy. When every proxy is cooling down the
// next one in order is returned anyway.
func (p *Pool) Next() string {
	if p == nil {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	start := p.index
	for {
		proxy := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		failedAt, ok := p.failed[proxy]
		if !ok {
			return proxy
		}
		if p.now().Sub(failedAt) >= p.cooldown {
			delete(p.failed, proxy)
			return proxy
		}
		if p.index == start {
			return proxy
		}
	}
}

// MarkFailed puts proxy on cooldown
func (p *Pool) MarkFailed(proxy string) {
	if p == nil || proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = p.now()
}

// MarkHealthy clears a proxy's failure
func (p *Pool) MarkHealthy(proxy string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}

// ParseList splits a comma separated proxy list and validates each entry
func ParseList(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := Validate(part); err != nil {
			return nil, err
		}
		out = append(out, part)
	}
	return out, nil
}

// Validate checks that proxy is an absolute http, https or socks5 URL
func Validate(proxy string) error {
	u, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy %q: %w", proxy, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return fmt.Errorf("invalid proxy %q: unsupported scheme %q", proxy, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid proxy %q: missing host", proxy)
	}
	return nil
}
