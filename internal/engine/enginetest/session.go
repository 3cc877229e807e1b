// Package enginetest provides a scripted engine.Session backed by parsed
// markup, for exercising traversal logic without a browser.
package enginetest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/law-makers/nutricrawl/internal/engine/document"
	"golang.org/x/net/html"
)

// ClickFunc reacts to a click on el, typically by swapping the document
type ClickFunc func(s *Session, el *goquery.Selection) error

// KeyFunc reacts to a key press
type KeyFunc func(s *Session, key string) error

// Session is a fake engine.Session. Pages maps URLs to the markup Navigate
// loads. Element handles are valid until the document is replaced, like
// node ids in a real browser.
type Session struct {
	Pages       map[string]string
	NavigateErr map[string]error
	OnClick     ClickFunc
	OnKey       KeyFunc

	mu      sync.Mutex
	doc     *goquery.Document
	url     string
	nodes   map[string]*html.Node
	ids     map[*html.Node]string
	next    int
	visited []string
	keys    []string
	clicks  []map[string]string
	closes  int
}

var _ engine.Session = (*Session)(nil)

// New returns a session serving pages
func New(pages map[string]string) *Session {
	return &Session{Pages: pages, NavigateErr: map[string]error{}}
}

// SetHTML replaces the current document, invalidating all handles
func (s *Session) SetHTML(raw string) error {
	doc, err := document.Parse(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setDoc(doc)
	return nil
}

func (s *Session) setDoc(doc *goquery.Document) {
	s.doc = doc
	s.nodes = make(map[string]*html.Node)
	s.ids = make(map[*html.Node]string)
}

// Navigate implements engine.Session
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.visited = append(s.visited, url)
	if err, ok := s.NavigateErr[url]; ok {
		s.mu.Unlock()
		return err
	}
	raw, ok := s.Pages[url]
	s.mu.Unlock()
	if !ok {
		return engine.NewEngineError(engine.ErrCodeNavigation, "no scripted page", nil).WithDetail("url", url)
	}
	doc, err := document.Parse(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.url = url
	s.setDoc(doc)
	s.mu.Unlock()
	return nil
}

// match returns the nodes matching q in the current document.
// XPath queries never match.
func (s *Session) match(q engine.Query) (*goquery.Selection, error) {
	if s.doc == nil || q.CSS == "" {
		return &goquery.Selection{}, nil
	}
	sel, err := cascadia.Compile(q.CSS)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", q.CSS, err)
	}
	return s.doc.FindMatcher(sel), nil
}

// WaitUntil implements engine.Session. The fake never blocks: the answer is
// whatever the current document holds.
func (s *Session) WaitUntil(ctx context.Context, q engine.Query, state engine.WaitState, _ time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	found, err := s.match(q)
	if err != nil {
		return false, err
	}
	ok := false
	found.EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if state >= engine.Visible {
			if _, hidden := el.Attr("hidden"); hidden {
				return true
			}
		}
		if state == engine.Clickable {
			if _, disabled := el.Attr("disabled"); disabled {
				return true
			}
		}
		ok = true
		return false
	})
	return ok, nil
}

// FindAll implements engine.Session
func (s *Session) FindAll(ctx context.Context, q engine.Query) ([]engine.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	found, err := s.match(q)
	if err != nil {
		return nil, err
	}
	out := make([]engine.Element, 0, found.Length())
	for _, n := range found.Nodes {
		out = append(out, engine.Element{ID: s.handle(n), Attrs: attrs(n)})
	}
	return out, nil
}

func (s *Session) handle(n *html.Node) string {
	if id, ok := s.ids[n]; ok {
		return id
	}
	s.next++
	id := strconv.Itoa(s.next)
	s.ids[n] = id
	s.nodes[id] = n
	return id
}

func attrs(n *html.Node) map[string]string {
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		m[a.Key] = a.Val
	}
	return m
}

// Click implements engine.Session. Stale handles fail.
func (s *Session) Click(ctx context.Context, el engine.Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	n, ok := s.nodes[el.ID]
	if ok {
		s.clicks = append(s.clicks, attrs(n))
	}
	hook := s.OnClick
	doc := s.doc
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("stale element handle %q", el.ID)
	}
	if hook == nil {
		return nil
	}
	return hook(s, doc.FindNodes(n))
}

// CurrentDocument implements engine.Session
func (s *Session) CurrentDocument(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return "", nil
	}
	return goquery.OuterHtml(s.doc.Selection)
}

// SendKey implements engine.Session
func (s *Session) SendKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.keys = append(s.keys, key)
	hook := s.OnKey
	s.mu.Unlock()
	if hook == nil {
		return nil
	}
	return hook(s, key)
}

// Close implements engine.Session
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

// URL returns the last successfully loaded URL
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Visited returns every URL passed to Navigate, in order
func (s *Session) Visited() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visited...)
}

// Keys returns every key sent
func (s *Session) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

// Clicks returns the attributes of every clicked element
func (s *Session) Clicks() []map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]string(nil), s.clicks...)
}

// Closes returns how many times Close was called
func (s *Session) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Opener hands out s and counts how often it was opened
type Opener struct {
	Session *Session
	Err     error
	mu      sync.Mutex
	opens   int
}

// Open implements engine.Opener
func (o *Opener) Open(ctx context.Context) (engine.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opens++
	if o.Err != nil {
		return nil, o.Err
	}
	return o.Session, nil
}

// Opens returns the number of Open calls
func (o *Opener) Opens() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens
}
