package engine

import (
	"context"
	"time"
)

// Key names accepted by Session.SendKey
const (
	KeyEscape = "Escape"
	KeyEnter  = "Enter"
)

// WaitState is the element state a WaitUntil call waits for
type WaitState int

const (
	// Present waits for the element to exist in the DOM
	Present WaitState = iota
	// Visible waits for the element to be rendered and visible
	Visible
	// Clickable waits for a visible, enabled element
	Clickable
)

// Query selects elements in the rendered document.
// Exactly one of CSS or XPath is set.
type Query struct {
	CSS   string
	XPath string
}

// CSS builds a CSS selector query
func CSS(selector string) Query { return Query{CSS: selector} }

// XPath builds an XPath query
func XPath(expr string) Query { return Query{XPath: expr} }

// IsZero reports whether the query selects nothing
func (q Query) IsZero() bool { return q.CSS == "" && q.XPath == "" }

// String returns the expression for logging
func (q Query) String() string {
	if q.XPath != "" {
		return q.XPath
	}
	return q.CSS
}

// Element is an opaque handle to a rendered element plus the attributes it
// carried when it was found
type Element struct {
	ID    string
	Attrs map[string]string
}

// Attr returns the named attribute
func (e Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// Session is the rendering capability the crawler drives.
//
// Implementations are stateful (one browser tab) and not safe for concurrent
// use. Close must be idempotent.
type Session interface {
	// Navigate loads url and blocks until the load event
	Navigate(ctx context.Context, url string) error

	// WaitUntil blocks until an element matching q reaches state or timeout
	// elapses. It returns false, nil on timeout.
	WaitUntil(ctx context.Context, q Query, state WaitState, timeout time.Duration) (bool, error)

	// Click clicks the referenced element
	Click(ctx context.Context, el Element) error

	// CurrentDocument returns the rendered markup of the whole page
	CurrentDocument(ctx context.Context) (string, error)

	// SendKey dispatches a key press to the focused document
	SendKey(ctx context.Context, key string) error

	// FindAll returns every element matching q, or an empty slice
	FindAll(ctx context.Context, q Query) ([]Element, error)

	// Close releases the underlying browser resources
	Close() error
}

// Opener acquires a fresh Session
type Opener interface {
	Open(ctx context.Context) (Session, error)
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(ctx context.Context) (Session, error)

// Open calls f(ctx)
func (f OpenerFunc) Open(ctx context.Context) (Session, error) { return f(ctx) }
