// Package normalize converts raw scraped strings into NutritionRecords.
package normalize

import (
	"fmt"
	"strings"

	"github.com/law-makers/nutricrawl/internal/allergen"
	"github.com/law-makers/nutricrawl/internal/engine/document"
	"github.com/law-makers/nutricrawl/pkg/models"
)

// Normalizer builds canonical records for one template kind.
//
// The two templates disagree on what a missing number means: detail pages
// default to 0, modal panels leave the field empty. Both are kept as-is
// because exports and the zero filter depend on them.
type Normalizer struct {
	kind      models.TemplateKind
	allergens allergen.Table
}

// New returns a Normalizer using the default allergen table
func New(kind models.TemplateKind) *Normalizer {
	return &Normalizer{kind: kind, allergens: allergen.Default}
}

// Normalize converts raw fields scraped for item into a record
func (n *Normalizer) Normalize(item models.ItemRef, raw models.RawFieldSet) models.NutritionRecord {
	serving := strings.TrimSpace(raw.Get(models.FieldServingSize))
	name := raw.Get(models.FieldName)
	if name == "" {
		name = item.DisplayName
	}

	return models.NutritionRecord{
		SourceID:    item.ID,
		Name:        ComposeName(name, serving),
		Calories:    n.amount(raw.Get(models.FieldCalories)),
		Protein:     n.amount(raw.Get(models.FieldProtein)),
		Carbs:       n.amount(raw.Get(models.FieldCarbs)),
		Fats:        n.amount(raw.Get(models.FieldFats)),
		Allergens:   n.allergens.Match(raw.AllergenText...),
		Vegetarian:  Vegetarian(raw.DietaryText),
		ServingSize: serving,
	}
}

func (n *Normalizer) amount(s string) models.Amount {
	switch n.kind {
	case models.DetailPage:
		v, ok := document.FirstInteger(s)
		if !ok {
			return models.AmountOf(0)
		}
		return models.AmountOf(float64(v))
	default:
		num, ok := document.FirstDecimal(s)
		if !ok {
			return models.EmptyAmount()
		}
		a, ok := models.ParseAmount(num)
		if !ok {
			return models.EmptyAmount()
		}
		return a
	}
}

// ComposeName appends the serving size in parentheses when one is known
func ComposeName(name, serving string) string {
	if serving == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, serving)
}

// Vegetarian reports Yes when the dietary marker mentions vegan or
// vegetarian. Absence of a marker is Unknown, never No.
func Vegetarian(marker string) models.Vegetarian {
	lower := strings.ToLower(marker)
	if strings.Contains(lower, "vegan") || strings.Contains(lower, "vegetarian") {
		return models.VegetarianYes
	}
	return models.VegetarianUnknown
}
