package crawler

import (
	"context"
	"fmt"
	"strings"

	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/law-makers/nutricrawl/internal/engine/document"
	"github.com/law-makers/nutricrawl/internal/extract"
	urlutil "github.com/law-makers/nutricrawl/internal/utils/url"
	"github.com/law-makers/nutricrawl/pkg/models"
)

// opened is the rendered state of an item's detail surface
type opened struct {
	Markup string
	// Name is the display name read from the surface, if any
	Name string
}

// surface opens and closes the place an item's nutrition facts live.
// close is always called once open has been attempted, even if open panics.
type surface interface {
	open(ctx context.Context, item models.ItemRef) (opened, error)
	close(ctx context.Context) error
}

func newSurface(c *Controller, s engine.Session) surface {
	if c.profile.Kind == models.DetailPage {
		return &detailSurface{c: c, s: s}
	}
	return &modalSurface{c: c, s: s}
}

// modalSurface opens an item by clicking its tile on the list page
type modalSurface struct {
	c *Controller
	s engine.Session
}

func (m *modalSurface) open(ctx context.Context, item models.ItemRef) (opened, error) {
	p := m.c.profile
	el, err := m.resolve(ctx, item)
	if err != nil {
		return opened{}, err
	}

	if err := m.c.pause(ctx, p.Timing.BeforeOpen); err != nil {
		return opened{}, err
	}
	if err := m.s.Click(ctx, el); err != nil {
		return opened{}, engine.NewEngineError(engine.ErrCodeExtraction, "failed to open item", err).WithDetail("item", item.ID)
	}
	if err := m.c.pause(ctx, p.Timing.AfterOpen); err != nil {
		return opened{}, err
	}

	ready, err := m.s.WaitUntil(ctx, p.ContentReady, engine.Present, m.c.waitTimeout)
	if err != nil {
		return opened{}, err
	}
	if !ready {
		return opened{}, engine.NewEngineError(engine.ErrCodeContentTimeout, "nutrition panel never loaded", nil).
			WithDetail("item", item.ID)
	}
	if err := m.c.pause(ctx, p.Timing.ContentSettle); err != nil {
		return opened{}, err
	}

	markup, err := m.s.CurrentDocument(ctx)
	if err != nil {
		return opened{}, err
	}
	return opened{Markup: markup}, nil
}

// resolve re-finds the item tile by identity, since handles found during
// discovery go stale once a modal has been opened and closed
func (m *modalSurface) resolve(ctx context.Context, item models.ItemRef) (engine.Element, error) {
	attr := m.c.profile.ItemIDAttr
	if attr != "" && !strings.HasPrefix(item.ID, syntheticIDPrefix) {
		els, err := m.s.FindAll(ctx, engine.CSS(fmt.Sprintf(`[%s=%s]`, attr, cssString(item.ID))))
		if err != nil {
			return engine.Element{}, err
		}
		if len(els) > 0 {
			return els[0], nil
		}
	}
	if item.Handle == "" {
		return engine.Element{}, engine.NewEngineError(engine.ErrCodeExtraction, "item is no longer on the page", nil).
			WithDetail("item", item.ID)
	}
	return engine.Element{ID: item.Handle}, nil
}

func (m *modalSurface) close(ctx context.Context) error {
	p := m.c.profile
	closed := false
	if !p.Close.IsZero() {
		if btns, err := m.s.FindAll(ctx, p.Close); err == nil && len(btns) > 0 {
			closed = m.s.Click(ctx, btns[0]) == nil
		}
	}
	if !closed {
		if err := m.s.SendKey(ctx, engine.KeyEscape); err != nil {
			return fmt.Errorf("dismiss modal: %w", err)
		}
	}
	return m.c.pause(ctx, p.Timing.AfterClose)
}

// detailSurface visits the product page for the name, then its nutrition page
type detailSurface struct {
	c *Controller
	s engine.Session
}

func (d *detailSurface) open(ctx context.Context, item models.ItemRef) (opened, error) {
	p := d.c.profile

	if err := d.c.navigate(ctx, d.s, item.URL); err != nil {
		return opened{}, err
	}
	if err := d.c.pause(ctx, p.Timing.PerItem); err != nil {
		return opened{}, err
	}
	name := ""
	if markup, err := d.s.CurrentDocument(ctx); err == nil {
		if doc, err := document.Parse(markup); err == nil {
			name = extract.ProductName(doc)
		}
	}

	target := item.URL
	if p.NutritionPath != "" {
		target = urlutil.JoinPath(item.URL, p.NutritionPath)
	}
	if err := d.c.navigate(ctx, d.s, target); err != nil {
		return opened{}, err
	}

	if !p.ContentReady.IsZero() {
		ready, err := d.s.WaitUntil(ctx, p.ContentReady, engine.Present, d.c.waitTimeout)
		if err != nil {
			return opened{}, err
		}
		if !ready {
			return opened{}, engine.NewEngineError(engine.ErrCodeContentTimeout, "nutrition page never loaded", nil).
				WithDetail("url", target)
		}
	}
	if err := d.c.pause(ctx, p.Timing.PerItem); err != nil {
		return opened{}, err
	}

	markup, err := d.s.CurrentDocument(ctx)
	if err != nil {
		return opened{}, err
	}
	return opened{Markup: markup, Name: name}, nil
}

func (d *detailSurface) close(context.Context) error { return nil }

// cssString quotes s as a CSS string literal
func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}
