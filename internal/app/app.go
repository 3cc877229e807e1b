// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/law-makers/nutricrawl/internal/config"
	"github.com/law-makers/nutricrawl/internal/crawler"
	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/law-makers/nutricrawl/internal/engine/dynamic"
	"github.com/law-makers/nutricrawl/internal/proxy"
	"github.com/law-makers/nutricrawl/internal/ratelimit"
	"github.com/law-makers/nutricrawl/internal/retry"
	"github.com/law-makers/nutricrawl/internal/utils/headers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// OpenFunc launches a browser session with opts
type OpenFunc func(ctx context.Context, opts dynamic.Options) (engine.Session, error)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config     *config.Config
	Logger     *zerolog.Logger
	Limiter    *ratelimit.DomainLimiter
	Proxies    *proxy.Pool
	ChromePath string
	Headers    map[string]string
	Retry      retry.Policy

	open      OpenFunc
	mu        sync.Mutex
	sessions  []engine.Session
	startTime time.Time
}

// Option customizes an Application
type Option func(*Application)

// WithOpenFunc replaces the browser launcher
func WithOpenFunc(f OpenFunc) Option {
	return func(a *Application) { a.open = f }
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Creates the rate limiter for per-host navigation pacing
//   - Creates the proxy pool shared by every browser session
//   - Locates the Chrome executable
//
// The browser itself is launched lazily, once per scrape.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := SetupLogging(cfg, os.Stderr)

	limiter := ratelimit.NewDomainLimiter(cfg.NavigationRPS, cfg.NavigationBurst)
	logger.Debug().
		Float64("rps", cfg.NavigationRPS).
		Int("burst", cfg.NavigationBurst).
		Msg("Rate limiter initialized")

	pool := proxy.NewPool(cfg.Proxies)
	if pool.Len() > 0 {
		logger.Debug().Int("proxies", pool.Len()).Msg("Proxy pool initialized")
	}

	hdrs, err := headers.ParseHeaders(cfg.Headers)
	if err != nil {
		return nil, err
	}

	policy := retry.DefaultPolicy()
	policy.Attempts = cfg.Retries + 1

	chrome := dynamic.FindChrome(cfg.ChromePath)
	if chrome != "" {
		logger.Debug().Str("path", chrome).Str("version", dynamic.Version(chrome)).Msg("Chrome located")
	} else {
		logger.Debug().Msg("Chrome not found on known paths, leaving lookup to chromedp")
	}

	a := &Application{
		Config:     cfg,
		Logger:     &logger,
		Limiter:    limiter,
		Proxies:    pool,
		ChromePath: chrome,
		Headers:    hdrs,
		Retry:      policy,
		open: func(ctx context.Context, opts dynamic.Options) (engine.Session, error) {
			return dynamic.Open(ctx, opts)
		},
		startTime: time.Now(),
	}
	for _, o := range opts {
		o(a)
	}

	logger.Debug().Msg("Application initialized successfully")
	return a, nil
}

// SetupLogging configures the global zerolog logger from cfg and returns it
func SetupLogging(cfg *config.Config, w io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = w
	if !cfg.JSONLog {
		// Human-friendly console output otherwise
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return log.Logger
}

// sessionOptions builds launch options for one session through proxyURL
func (a *Application) sessionOptions(proxyURL string) dynamic.Options {
	return dynamic.Options{
		Headless:   a.Config.Headless,
		UserAgent:  a.Config.UserAgent,
		Proxy:      proxyURL,
		ChromePath: a.ChromePath,
		Headers:    a.Headers,
	}
}

// opener returns an engine.Opener that launches one session through the
// next proxy and reports which proxy it picked via used
func (a *Application) opener(used *string) engine.Opener {
	return engine.OpenerFunc(func(ctx context.Context) (engine.Session, error) {
		p := a.Proxies.Next()
		*used = p
		s, err := a.open(ctx, a.sessionOptions(p))
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		a.sessions = append(a.sessions, s)
		a.mu.Unlock()
		return s, nil
	})
}

// ScrapeOptions tunes a single scrape
type ScrapeOptions struct {
	Observer crawler.Observer
	// Sleep replaces the settle wait; nil sleeps for real
	Sleep crawler.SleepFunc
}

// Scrape runs one traversal of profile. A run that could not reach the menu
// puts its proxy on cooldown so the next target rotates away from it.
func (a *Application) Scrape(ctx context.Context, profile crawler.Profile, opts ScrapeOptions) (*crawler.Result, error) {
	var used string
	c, err := crawler.New(crawler.Options{
		Profile:         profile,
		Opener:          a.opener(&used),
		Limiter:         a.Limiter,
		Observer:        opts.Observer,
		WaitTimeout:     a.Config.WaitTimeout,
		DiagnosticsDir:  a.Config.DiagnosticsDir,
		SaveFirstDetail: a.Config.SaveFirstDetail,
		SettleScale:     a.Config.SettleScale,
		Sleep:           opts.Sleep,
		Retry:           a.Retry,
	})
	if err != nil {
		return nil, err
	}

	res, err := c.Run(ctx)
	a.forget()
	switch {
	case errors.Is(err, engine.ErrGateNotFound), errors.Is(err, engine.ErrBrowserLaunch):
		if used != "" {
			a.Logger.Warn().Str("proxy", used).Msg("Proxy put on cooldown")
		}
		a.Proxies.MarkFailed(used)
	case err == nil:
		a.Proxies.MarkHealthy(used)
	}
	return res, err
}

// forget drops sessions the crawler has already closed
func (a *Application) forget() {
	a.mu.Lock()
	a.sessions = nil
	a.mu.Unlock()
}

// Close gracefully shuts down the application and all its resources.
//
// Sessions are closed by the crawler after each run; any still open here
// (for example after an interrupt) are closed now.
func (a *Application) Close(ctx context.Context) error {
	a.mu.Lock()
	sessions := a.sessions
	a.sessions = nil
	a.mu.Unlock()

	for _, s := range sessions {
		if err := s.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser session")
		}
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
