// Package dynamic implements engine.Session on top of a headless Chrome tab
// driven through chromedp.
package dynamic

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/rs/zerolog/log"
)

const defaultAcceptLanguage = "en-US,en;q=0.9"

// Session is a single Chrome tab. It is not safe for concurrent use.
type Session struct {
	allocCancel context.CancelFunc
	tab         context.Context
	tabCancel   context.CancelFunc
	closeOnce   sync.Once
	proxy       string
}

var _ engine.Session = (*Session)(nil)

// Open launches Chrome and prepares one warm tab
func Open(ctx context.Context, opts Options) (*Session, error) {
	start := time.Now()

	// The browser outlives ctx; it is released by Close.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocatorOptions(opts)...)
	tab, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		allocCancel: allocCancel,
		tab:         tab,
		tabCancel:   tabCancel,
		proxy:       opts.Proxy,
	}

	// The first Run allocates the browser and must use the tab context itself;
	// a cancellable child would take the browser down with it.
	err := chromedp.Run(tab,
		network.Enable(),
		network.SetExtraHTTPHeaders(extraHeaders(opts)),
		chromedp.Navigate("about:blank"),
	)
	if err != nil {
		s.Close()
		return nil, engine.NewEngineError(engine.ErrCodeBrowserLaunch, "failed to start browser", err).
			WithDetail("proxy", opts.Proxy)
	}

	log.Debug().
		Dur("elapsed", time.Since(start)).
		Bool("headless", opts.Headless).
		Str("proxy", opts.Proxy).
		Msg("Browser session ready")
	return s, nil
}

// extraHeaders merges the Accept-Language default with opts.Headers
func extraHeaders(opts Options) network.Headers {
	lang := opts.AcceptLanguage
	if lang == "" {
		lang = defaultAcceptLanguage
	}
	h := network.Headers{"Accept-Language": lang}
	for k, v := range opts.Headers {
		h[k] = v
	}
	return h
}

// Opener returns an engine.Opener launching sessions with opts
func Opener(opts Options) engine.Opener {
	return engine.OpenerFunc(func(ctx context.Context) (engine.Session, error) {
		return Open(ctx, opts)
	})
}

// Proxy returns the proxy the session was launched with
func (s *Session) Proxy() string { return s.proxy }

// run executes actions on the tab, aborting when ctx is done
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.tab)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Navigate implements engine.Session
func (s *Session) Navigate(ctx context.Context, url string) error {
	start := time.Now()
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return engine.NewEngineError(engine.ErrCodeNavigation, "navigation failed", err).WithDetail("url", url)
	}
	log.Debug().Str("url", url).Dur("elapsed", time.Since(start)).Msg("Navigated")
	return nil
}

func queryOptions(q engine.Query) (string, []chromedp.QueryOption) {
	if q.XPath != "" {
		return q.XPath, []chromedp.QueryOption{chromedp.BySearch}
	}
	return q.CSS, []chromedp.QueryOption{chromedp.ByQuery}
}

// WaitUntil implements engine.Session
func (s *Session) WaitUntil(ctx context.Context, q engine.Query, state engine.WaitState, timeout time.Duration) (bool, error) {
	if q.IsZero() {
		return false, engine.NewEngineError(engine.ErrCodeValidation, "empty query", nil)
	}
	sel, opts := queryOptions(q)

	var actions []chromedp.Action
	switch state {
	case engine.Visible:
		actions = []chromedp.Action{chromedp.WaitVisible(sel, opts...)}
	case engine.Clickable:
		actions = []chromedp.Action{chromedp.WaitVisible(sel, opts...), chromedp.WaitEnabled(sel, opts...)}
	default:
		actions = []chromedp.Action{chromedp.WaitReady(sel, opts...)}
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.run(waitCtx, actions...)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		log.Debug().Str("query", q.String()).Dur("timeout", timeout).Msg("Wait timed out")
		return false, nil
	default:
		return false, err
	}
}

// Click implements engine.Session
func (s *Session) Click(ctx context.Context, el engine.Element) error {
	id, err := strconv.ParseInt(el.ID, 10, 64)
	if err != nil {
		return engine.NewEngineError(engine.ErrCodeValidation, "invalid element handle", err).WithDetail("id", el.ID)
	}
	if err := s.run(ctx, chromedp.Click([]cdp.NodeID{cdp.NodeID(id)}, chromedp.ByNodeID)); err != nil {
		return fmt.Errorf("click node %d: %w", id, err)
	}
	return nil
}

// CurrentDocument implements engine.Session
func (s *Session) CurrentDocument(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

// SendKey implements engine.Session
func (s *Session) SendKey(ctx context.Context, key string) error {
	switch key {
	case engine.KeyEscape:
		key = kb.Escape
	case engine.KeyEnter:
		key = kb.Enter
	}
	return s.run(ctx, chromedp.KeyEvent(key))
}

// FindAll implements engine.Session
func (s *Session) FindAll(ctx context.Context, q engine.Query) ([]engine.Element, error) {
	if q.IsZero() {
		return nil, engine.NewEngineError(engine.ErrCodeValidation, "empty query", nil)
	}
	sel, opts := queryOptions(q)
	if q.CSS != "" {
		opts = []chromedp.QueryOption{chromedp.ByQueryAll}
	}
	opts = append(opts, chromedp.AtLeast(0))

	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(sel, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("query %q: %w", q.String(), err)
	}

	out := make([]engine.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toElement(n))
	}
	return out, nil
}

func toElement(n *cdp.Node) engine.Element {
	attrs := make(map[string]string, len(n.Attributes)/2)
	for i := 0; i+1 < len(n.Attributes); i += 2 {
		attrs[n.Attributes[i]] = n.Attributes[i+1]
	}
	return engine.Element{ID: strconv.FormatInt(int64(n.NodeID), 10), Attrs: attrs}
}

// Close implements engine.Session. Only the first call has effect.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.tabCancel()
		s.allocCancel()
		log.Debug().Msg("Browser session closed")
	})
	return nil
}
