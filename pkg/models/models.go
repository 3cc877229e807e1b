package models

// TemplateKind identifies which site template a profile follows
type TemplateKind string

const (
	// ModalEmbedded sites render every item on one page and show nutrition in a modal
	ModalEmbedded TemplateKind = "modal"
	// DetailPage sites expose categories and a dedicated nutrition page per item
	DetailPage TemplateKind = "detail"
)

// CategoryRef is a category page discovered from the root menu
type CategoryRef struct {
	URL     string `json:"url"`
	Section string `json:"section"`
	Name    string `json:"name"`
}

// ItemRef is a discovered, not yet extracted menu item.
//
// ID is the identity used for deduplication: the canonical item URL on
// detail-page sites, or a stable per-page data attribute on modal sites.
// Handle is the opaque element reference used to open a modal and is empty
// for detail-page items.
type ItemRef struct {
	ID          string `json:"id"`
	URL         string `json:"url,omitempty"`
	Handle      string `json:"-"`
	DisplayName string `json:"display_name"`
}

// Well-known RawFieldSet labels
const (
	FieldCalories    = "calories"
	FieldProtein     = "protein"
	FieldCarbs       = "carbs"
	FieldFats        = "fats"
	FieldServingSize = "serving size"
	FieldName        = "name"
)

// RawFieldSet holds label/value strings scraped from one detail surface.
// It is owned by a single extraction attempt and discarded after normalization.
type RawFieldSet struct {
	Fields map[string]string
	// AllergenText lists every free-text source that may name allergens
	AllergenText []string
	// DietaryText is the text of the dietary icon marker, if present
	DietaryText string
	// Missing names the fields whose markup did not match the template
	Missing []string
}

// NewRawFieldSet returns an empty field set ready for use
func NewRawFieldSet() RawFieldSet {
	return RawFieldSet{Fields: make(map[string]string)}
}

// Get returns the value for label or "" when absent
func (r RawFieldSet) Get(label string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[label]
}

// Vegetarian is a tri-state dietary flag
type Vegetarian int

const (
	VegetarianUnknown Vegetarian = iota
	VegetarianYes
	VegetarianNo
)

// String returns the export representation ("" for unknown)
func (v Vegetarian) String() string {
	switch v {
	case VegetarianYes:
		return "Yes"
	case VegetarianNo:
		return "No"
	default:
		return ""
	}
}

// NutritionRecord is the canonical normalized output for one item
type NutritionRecord struct {
	SourceID    string     `json:"source_id"`
	Name        string     `json:"name"`
	Calories    Amount     `json:"calories"`
	Protein     Amount     `json:"protein"`
	Carbs       Amount     `json:"carbs"`
	Fats        Amount     `json:"fats"`
	Allergens   []string   `json:"allergens"`
	Vegetarian  Vegetarian `json:"-"`
	ServingSize string     `json:"serving_size,omitempty"`
}

// VegetarianLabel is used by the JSON sink
func (r NutritionRecord) VegetarianLabel() string {
	return r.Vegetarian.String()
}
