package crawler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/law-makers/nutricrawl/internal/engine"
	urlutil "github.com/law-makers/nutricrawl/internal/utils/url"
	"github.com/law-makers/nutricrawl/pkg/models"
)

// Gate is an action that must (or may) be taken on the root page before the
// menu is reachable, such as a "view menus" splash or a cookie banner.
type Gate struct {
	Query   engine.Query
	State   engine.WaitState
	Timeout time.Duration
	// Required gates end the run with GateNotFound when they never appear.
	// Optional ones are skipped silently.
	Required bool
}

// CategoryPattern selects category links of the form /{Root}/{section}/{name}
type CategoryPattern struct {
	Links    engine.Query
	Root     string
	Sections []string
}

// Timing holds the fixed settle delays inserted after actions
type Timing struct {
	AfterLoad     time.Duration
	AfterGate     time.Duration
	BeforeOpen    time.Duration
	AfterOpen     time.Duration
	ContentSettle time.Duration
	AfterClose    time.Duration
	PerCategory   time.Duration
	PerItem       time.Duration
}

// Profile describes how to traverse one site
type Profile struct {
	Name        string
	Description string
	Kind        models.TemplateKind
	RootURL     string

	Gate       *Gate
	Categories *CategoryPattern

	// ItemListReady queries are waited for in order before items are listed
	ItemListReady []engine.Query
	Items         engine.Query
	// ItemIDAttr names the attribute carrying a modal item's identity
	ItemIDAttr   string
	ItemIDPrefix string

	ContentReady engine.Query
	Close        engine.Query
	// NutritionPath is appended to a detail item URL to reach its facts page
	NutritionPath string

	Timing Timing
}

// OutputName returns the export base name, e.g. "starbucks_menu"
func (p Profile) OutputName() string { return p.Name + "_menu" }

// ErrorFile is the diagnostic written when a run finds nothing
func (p Profile) ErrorFile() string { return p.Name + "_error.html" }

// DetailFile is the optional snapshot of the first opened detail surface
func (p Profile) DetailFile() string { return p.Name + "_detail.html" }

// DefaultSite is used when no target is given
const DefaultSite = "nutrislice"

var builtins = map[string]Profile{
	"nutrislice": {
		Name:        "nutrislice",
		Description: "Nutrislice dining menus (single page, nutrition in item modals)",
		Kind:        models.ModalEmbedded,
		RootURL:     "https://cpp.nutrislice.com/menu/centerpointe-dining-commons/lunch",
		Gate: &Gate{
			Query:    engine.CSS(`button[data-testid="view-menus-button"]`),
			State:    engine.Clickable,
			Timeout:  10 * time.Second,
			Required: true,
		},
		ItemListReady: []engine.Query{
			engine.CSS(`.menu-item-wrapper`),
		},
		Items:        engine.CSS(`.menu-item-wrapper[data-testid^="menu-item-"]`),
		ItemIDAttr:   "data-testid",
		ItemIDPrefix: "menu-item-",
		ContentReady: engine.CSS(`.nutrition-container`),
		Close:        engine.CSS(`button.close, button[aria-label*="Close"], .modal button[class*="close"]`),
		Timing: Timing{
			AfterLoad:     2 * time.Second,
			AfterGate:     3 * time.Second,
			BeforeOpen:    500 * time.Millisecond,
			AfterOpen:     time.Second,
			ContentSettle: 2 * time.Second,
			AfterClose:    500 * time.Millisecond,
		},
	},
	"starbucks": {
		Name:        "starbucks",
		Description: "Starbucks menu (category pages, one nutrition page per product)",
		Kind:        models.DetailPage,
		RootURL:     "https://www.starbucks.com/menu",
		Gate: &Gate{
			Query:   engine.XPath(`//*[contains(text(), 'Accept') or contains(text(), 'accept')]`),
			State:   engine.Clickable,
			Timeout: 3 * time.Second,
		},
		Categories: &CategoryPattern{
			Links:    engine.CSS(`a[href*='/menu/']`),
			Root:     "menu",
			Sections: []string{"drinks", "food"},
		},
		Items:         engine.CSS(`a[href*='/menu/product/']`),
		ContentReady:  engine.CSS(`[data-e2e="nutritionSection"], span[data-e2e="calories"]`),
		NutritionPath: "nutrition",
		Timing: Timing{
			AfterLoad:   3 * time.Second,
			AfterGate:   time.Second,
			PerCategory: 2 * time.Second,
			PerItem:     2 * time.Second,
		},
	},
}

// Builtin returns the built-in profiles sorted by name
func Builtin() []Profile {
	out := make([]Profile, 0, len(builtins))
	for _, p := range builtins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the built-in profile called name
func Lookup(name string) (Profile, bool) {
	p, ok := builtins[strings.ToLower(name)]
	return p, ok
}

// templateBase is the built-in profile whose selectors serve a template kind
var templateBase = map[models.TemplateKind]string{
	models.ModalEmbedded: "nutrislice",
	models.DetailPage:    "starbucks",
}

// Resolve turns a CLI target into a profile. A target is empty (default
// site), a built-in site name, or a root URL. For URLs the template is
// inferred from the host unless kind forces one.
func Resolve(target string, kind models.TemplateKind) (Profile, error) {
	if kind != "" {
		if _, ok := templateBase[kind]; !ok {
			return Profile{}, engine.NewEngineError(engine.ErrCodeValidation, fmt.Sprintf("unknown template %q (want modal or detail)", kind), nil)
		}
	}
	if target == "" {
		target = DefaultSite
	}

	if p, ok := Lookup(target); ok {
		if kind != "" && kind != p.Kind {
			return Profile{}, engine.NewEngineError(engine.ErrCodeValidation,
				fmt.Sprintf("site %s uses the %s template, not %s", p.Name, p.Kind, kind), nil)
		}
		return p, nil
	}

	if err := urlutil.ValidateURL(target); err != nil {
		return Profile{}, engine.NewEngineError(engine.ErrCodeValidation, fmt.Sprintf("unknown site %q", target), err)
	}

	host := urlutil.Host(target)
	var p Profile
	for name, base := range builtins {
		if strings.Contains(host, name) && (kind == "" || kind == base.Kind) {
			p = base
			break
		}
	}
	if p.Name == "" {
		if kind == "" {
			return Profile{}, engine.NewEngineError(engine.ErrCodeValidation,
				fmt.Sprintf("cannot infer template for %s; pass --template modal|detail", host), nil)
		}
		p = builtins[templateBase[kind]]
		p.Name = siteName(host)
		p.Description = "custom " + string(kind) + " site"
	}
	p.RootURL = target
	return p, nil
}

// siteName derives a file-safe name from a host
func siteName(host string) string {
	host = strings.TrimPrefix(host, "www.")
	return strings.NewReplacer(".", "_", ":", "_").Replace(host)
}
