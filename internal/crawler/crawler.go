// Package crawler drives one rendering session through a menu site and
// turns every reachable item into a NutritionRecord.
//
// A run is a fixed sequence of states: init (session, root page, gate),
// category discovery, item discovery, per-item extraction, finalize. Each
// state reads and extends an explicit accumulator rather than shared fields.
// Items are extracted strictly one after another, and a failure while
// extracting one item never ends the run.
package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/law-makers/nutricrawl/internal/engine/document"
	"github.com/law-makers/nutricrawl/internal/export"
	"github.com/law-makers/nutricrawl/internal/extract"
	"github.com/law-makers/nutricrawl/internal/filter"
	"github.com/law-makers/nutricrawl/internal/normalize"
	"github.com/law-makers/nutricrawl/internal/ratelimit"
	"github.com/law-makers/nutricrawl/internal/retry"
	"github.com/law-makers/nutricrawl/internal/runctx"
	urlutil "github.com/law-makers/nutricrawl/internal/utils/url"
	"github.com/law-makers/nutricrawl/pkg/models"
	"github.com/rs/zerolog"
)

// DefaultWaitTimeout bounds every condition wait
const DefaultWaitTimeout = 10 * time.Second

// syntheticIDPrefix marks identities made up for items without one
const syntheticIDPrefix = "#"

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Controller
type Options struct {
	Profile  Profile
	Opener   engine.Opener
	Limiter  ratelimit.Limiter
	Observer Observer

	WaitTimeout     time.Duration
	DiagnosticsDir  string
	SaveFirstDetail bool
	// SettleScale multiplies every settle delay; 0 means 1
	SettleScale float64
	Sleep       SleepFunc
	// Retry governs page loads; the zero value tries once
	Retry retry.Policy
}

// Controller runs traversals for one profile
type Controller struct {
	profile     Profile
	opener      engine.Opener
	limiter     ratelimit.Limiter
	observer    Observer
	extractor   extract.Extractor
	normalizer  *normalize.Normalizer
	waitTimeout time.Duration
	diagDir     string
	saveFirst   bool
	scale       float64
	sleep       SleepFunc
	retry       retry.Policy
}

// Stats summarizes a run
type Stats struct {
	Categories int
	Discovered int
	Accepted   int
	Rejected   int
	Failed     int
	Duration   time.Duration
}

// Result is the outcome of a run
type Result struct {
	Site        string
	RunID       string
	Records     []models.NutritionRecord
	Categories  []models.CategoryRef
	Items       []models.ItemRef
	Stats       Stats
	Diagnostics []string
}

// New validates opts and returns a Controller
func New(opts Options) (*Controller, error) {
	if opts.Opener == nil {
		return nil, engine.NewEngineError(engine.ErrCodeValidation, "session opener is required", nil)
	}
	if opts.Profile.RootURL == "" {
		return nil, engine.NewEngineError(engine.ErrCodeValidation, "profile has no root URL", nil)
	}
	ex, err := extract.For(opts.Profile.Kind)
	if err != nil {
		return nil, err
	}
	if opts.Profile.Items.IsZero() {
		return nil, engine.NewEngineError(engine.ErrCodeValidation, "profile has no item query", nil).
			WithDetail("site", opts.Profile.Name)
	}
	if opts.Profile.Kind == models.ModalEmbedded && opts.Profile.ContentReady.IsZero() {
		return nil, engine.NewEngineError(engine.ErrCodeValidation, "modal profile has no content-ready query", nil).
			WithDetail("site", opts.Profile.Name)
	}

	c := &Controller{
		profile:     opts.Profile,
		opener:      opts.Opener,
		limiter:     opts.Limiter,
		observer:    opts.Observer,
		extractor:   ex,
		normalizer:  normalize.New(opts.Profile.Kind),
		waitTimeout: opts.WaitTimeout,
		diagDir:     opts.DiagnosticsDir,
		saveFirst:   opts.SaveFirstDetail,
		scale:       opts.SettleScale,
		sleep:       opts.Sleep,
		retry:       opts.Retry,
	}
	if c.limiter == nil {
		c.limiter = ratelimit.Unlimited{}
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	if c.waitTimeout <= 0 {
		c.waitTimeout = DefaultWaitTimeout
	}
	if c.scale <= 0 {
		c.scale = 1
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}
	return c, nil
}

// Profile returns the profile the controller runs
func (c *Controller) Profile() Profile { return c.profile }

type state int

const (
	stateInit state = iota
	stateDiscoverCategories
	stateDiscoverItems
	stateExtractItems
	stateFinalize
)

func (s state) String() string {
	return [...]string{"init", "discover_categories", "discover_items", "extract_items", "finalize"}[s]
}

// run is the accumulator threaded through the states
type run struct {
	session     engine.Session
	log         zerolog.Logger
	categories  filter.CategorySet
	items       filter.ItemSet
	records     []models.NutritionRecord
	stats       Stats
	diagnostics []string
	savedDetail bool
	err         error
}

// Run executes one traversal. The session is released exactly once on
// every path. A missing required gate yields an empty Result together with
// an ErrGateNotFound error; item-level failures are counted, not returned.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	ctx = runctx.New(ctx, c.profile.Name)
	r := &run{log: runctx.Logger(ctx)}

	session, err := c.opener.Open(ctx)
	if err != nil {
		return nil, runctx.Wrap(ctx, fmt.Errorf("open session: %w", err))
	}
	r.session = session
	defer func() {
		if cerr := session.Close(); cerr != nil {
			r.log.Warn().Err(cerr).Msg("Failed to close session")
		}
	}()

	for st := stateInit; st != stateFinalize; {
		r.log.Debug().Stringer("state", st).Msg("Entering state")
		switch st {
		case stateInit:
			st = c.init(ctx, r)
		case stateDiscoverCategories:
			st = c.discoverCategories(ctx, r)
		case stateDiscoverItems:
			st = c.discoverItems(ctx, r)
		case stateExtractItems:
			st = c.extractItems(ctx, r)
		}
	}

	r.stats.Duration = time.Since(start)
	res := &Result{
		Site:        c.profile.Name,
		RunID:       runctx.From(ctx).ID,
		Records:     r.records,
		Categories:  r.categories.Categories(),
		Items:       r.items.Items(),
		Stats:       r.stats,
		Diagnostics: r.diagnostics,
	}
	if res.Records == nil {
		res.Records = []models.NutritionRecord{}
	}

	r.log.Info().
		Int("discovered", r.stats.Discovered).
		Int("accepted", r.stats.Accepted).
		Int("rejected", r.stats.Rejected).
		Int("failed", r.stats.Failed).
		Dur("duration", r.stats.Duration).
		Msg("Run finished")

	if r.err != nil {
		return res, runctx.Wrap(ctx, r.err)
	}
	return res, nil
}

func (c *Controller) init(ctx context.Context, r *run) state {
	p := c.profile
	if err := c.navigate(ctx, r.session, p.RootURL); err != nil {
		r.err = err
		c.snapshot(ctx, r, p.ErrorFile())
		return stateFinalize
	}
	if err := c.pause(ctx, p.Timing.AfterLoad); err != nil {
		r.err = err
		return stateFinalize
	}

	if p.Gate != nil {
		if !c.passGate(ctx, r, *p.Gate) {
			return stateFinalize
		}
	}

	if p.Categories != nil {
		return stateDiscoverCategories
	}
	r.categories.Add(models.CategoryRef{URL: p.RootURL, Name: p.Name})
	return stateDiscoverItems
}

// passGate waits for the gate and clicks it. It reports whether the run may
// continue.
func (c *Controller) passGate(ctx context.Context, r *run, g Gate) bool {
	if err := clickGate(ctx, r.session, g); err != nil {
		if !g.Required {
			r.log.Debug().Err(err).Str("gate", g.Query.String()).Msg("Optional gate not present, continuing")
			return true
		}
		r.log.Warn().Err(err).Str("gate", g.Query.String()).Dur("timeout", g.Timeout).Msg("Menu gate not found")
		r.err = engine.NewEngineError(engine.ErrCodeGateNotFound, "menu gate never became available", err).
			WithDetail("query", g.Query.String())
		c.snapshot(ctx, r, c.profile.ErrorFile())
		return false
	}

	if err := c.pause(ctx, c.profile.Timing.AfterGate); err != nil {
		r.err = err
		return false
	}
	return true
}

func clickGate(ctx context.Context, s engine.Session, g Gate) error {
	ok, err := s.WaitUntil(ctx, g.Query, g.State, g.Timeout)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("not ready within %s", g.Timeout)
	}
	els, err := s.FindAll(ctx, g.Query)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		return fmt.Errorf("gate vanished before click")
	}
	return s.Click(ctx, els[0])
}

func (c *Controller) discoverCategories(ctx context.Context, r *run) state {
	pat := c.profile.Categories
	links, err := r.session.FindAll(ctx, pat.Links)
	if err != nil {
		r.log.Warn().Err(err).Msg("Failed to list category links")
	}
	for _, el := range links {
		href, _ := el.Attr("href")
		if cat, ok := c.categoryFrom(href, *pat); ok && r.categories.Add(cat) {
			r.log.Debug().Str("section", cat.Section).Str("category", cat.Name).Msg("Found category")
		}
	}
	r.stats.Categories = r.categories.Len()
	r.log.Info().Int("categories", r.stats.Categories).Msg("Category discovery complete")

	if r.categories.Len() == 0 {
		c.snapshot(ctx, r, c.profile.ErrorFile())
		return stateFinalize
	}
	return stateDiscoverItems
}

// categoryFrom accepts links shaped /{root}/{section}/{name} on the root host
func (c *Controller) categoryFrom(href string, pat CategoryPattern) (models.CategoryRef, bool) {
	if href == "" {
		return models.CategoryRef{}, false
	}
	abs := urlutil.Canonical(urlutil.ResolveURL(c.profile.RootURL, href))
	if !urlutil.SameHost(abs, c.profile.RootURL) {
		return models.CategoryRef{}, false
	}
	segs := urlutil.PathSegments(abs)
	if len(segs) != 3 || segs[0] != pat.Root {
		return models.CategoryRef{}, false
	}
	for _, s := range pat.Sections {
		if segs[1] == s {
			return models.CategoryRef{URL: abs, Section: segs[1], Name: segs[2]}, true
		}
	}
	return models.CategoryRef{}, false
}

func (c *Controller) discoverItems(ctx context.Context, r *run) state {
	if c.profile.Kind == models.DetailPage {
		c.discoverLinkedItems(ctx, r)
	} else {
		c.discoverModalItems(ctx, r)
	}

	r.stats.Discovered = r.items.Len()
	r.log.Info().Int("items", r.stats.Discovered).Msg("Item discovery complete")
	c.observer.Discovered(r.stats.Discovered)

	if r.items.Len() == 0 {
		c.snapshot(ctx, r, c.profile.ErrorFile())
		return stateFinalize
	}
	return stateExtractItems
}

func (c *Controller) discoverLinkedItems(ctx context.Context, r *run) {
	p := c.profile
	for _, cat := range r.categories.Categories() {
		if p.Categories != nil {
			if err := c.navigate(ctx, r.session, cat.URL); err != nil {
				r.log.Warn().Err(err).Str("category", cat.Name).Msg("Failed to load category")
				continue
			}
			if err := c.pause(ctx, p.Timing.PerCategory); err != nil {
				return
			}
		}
		links, err := r.session.FindAll(ctx, p.Items)
		if err != nil {
			r.log.Warn().Err(err).Str("category", cat.Name).Msg("Failed to list products")
			continue
		}
		added := 0
		for _, el := range links {
			href, _ := el.Attr("href")
			if href == "" {
				continue
			}
			u := urlutil.Canonical(urlutil.ResolveURL(cat.URL, href))
			if r.items.Add(models.ItemRef{ID: u, URL: u, DisplayName: urlutil.LastSegment(u)}) {
				added++
			}
		}
		r.log.Debug().Str("category", cat.Name).Int("new_items", added).Msg("Category scanned")
	}
}

func (c *Controller) discoverModalItems(ctx context.Context, r *run) {
	p := c.profile
	for _, q := range p.ItemListReady {
		ok, err := r.session.WaitUntil(ctx, q, engine.Present, c.waitTimeout)
		if err != nil || !ok {
			r.log.Warn().Err(err).Str("query", q.String()).Msg("Menu items did not load in time")
			return
		}
	}
	if err := c.pause(ctx, p.Timing.ContentSettle); err != nil {
		return
	}

	els, err := r.session.FindAll(ctx, p.Items)
	if err != nil {
		r.log.Warn().Err(err).Msg("Failed to list menu items")
		return
	}
	for i, el := range els {
		id, _ := el.Attr(p.ItemIDAttr)
		name := strings.TrimPrefix(id, p.ItemIDPrefix)
		if id == "" {
			id = fmt.Sprintf("%s%d", syntheticIDPrefix, i+1)
			name = fmt.Sprintf("Unknown Item %d", i+1)
		}
		r.items.Add(models.ItemRef{ID: id, Handle: el.ID, DisplayName: name})
	}
}

func (c *Controller) extractItems(ctx context.Context, r *run) state {
	surf := newSurface(c, r.session)
	items := r.items.Items()
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			r.err = err
			break
		}

		rec, err := c.extractOne(ctx, r, surf, item)
		ev := ItemEvent{Index: i, Total: len(items), Item: item, Err: err}
		switch {
		case err != nil:
			ev.Outcome = Failed
			r.stats.Failed++
		case filter.Degenerate(rec):
			ev.Outcome = Rejected
			r.stats.Rejected++
		default:
			ev.Outcome = Accepted
			r.stats.Accepted++
			r.records = append(r.records, rec)
			accepted := rec
			ev.Record = &accepted
		}

		var entry *zerolog.Event
		if err != nil {
			entry = r.log.Warn().Err(err).Str("code", string(engine.CodeOf(err)))
		} else {
			entry = r.log.Info()
		}
		entry.Str("item", item.DisplayName).Str("outcome", ev.Outcome.String()).
			Int("index", i+1).Int("total", len(items)).Msg("Item processed")
		c.observer.ItemDone(ev)
	}
	return stateFinalize
}

// extractOne is the isolation boundary for a single item
func (c *Controller) extractOne(ctx context.Context, r *run, surf surface, item models.ItemRef) (rec models.NutritionRecord, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = engine.NewEngineError(engine.ErrCodeExtraction, fmt.Sprintf("panic: %v", p), nil).WithDetail("item", item.ID)
		}
	}()
	// registered before open so a panic while opening still releases the surface
	defer func() {
		if cerr := surf.close(ctx); cerr != nil {
			r.log.Debug().Err(cerr).Str("item", item.ID).Msg("Failed to close detail surface")
		}
	}()

	o, err := surf.open(ctx, item)
	if err != nil {
		return rec, err
	}

	if c.saveFirst && !r.savedDetail {
		r.savedDetail = true
		if path, werr := export.WriteDiagnostic(c.diagDir, c.profile.DetailFile(), o.Markup); werr == nil {
			r.diagnostics = append(r.diagnostics, path)
		}
	}

	doc, err := document.Parse(o.Markup)
	if err != nil {
		return rec, engine.NewEngineError(engine.ErrCodeParseFailure, "unreadable detail document", err).WithDetail("item", item.ID)
	}
	raw, err := c.extractor.Extract(doc)
	if err != nil {
		return rec, engine.NewEngineError(engine.ErrCodeExtraction, "extraction failed", err).WithDetail("item", item.ID)
	}
	if len(raw.Missing) > 0 {
		r.log.Debug().Str("item", item.DisplayName).Strs("missing", raw.Missing).Msg("Fields not found on page")
	}
	if o.Name != "" {
		raw.Fields[models.FieldName] = o.Name
	}
	return c.normalizer.Normalize(item, raw), nil
}

// navigate paces and performs a page load
func (c *Controller) navigate(ctx context.Context, s engine.Session, url string) error {
	return retry.Do(ctx, c.retry, retry.SleepFunc(c.sleep), func() error {
		if err := c.limiter.Wait(ctx, url); err != nil {
			return err
		}
		return s.Navigate(ctx, url)
	})
}

// pause applies a scaled settle delay
func (c *Controller) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return c.sleep(ctx, time.Duration(float64(d)*c.scale))
}

// snapshot writes the current markup as a diagnostic. Failures are logged.
func (c *Controller) snapshot(ctx context.Context, r *run, name string) {
	markup, err := r.session.CurrentDocument(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("Could not capture page for diagnostics")
		return
	}
	path, err := export.WriteDiagnostic(c.diagDir, name, markup)
	if err != nil {
		return
	}
	r.diagnostics = append(r.diagnostics, path)
	r.log.Info().Str("path", path).Msg("Saved page for inspection")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
