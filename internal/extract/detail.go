package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/law-makers/nutricrawl/internal/engine/document"
	"github.com/law-makers/nutricrawl/pkg/models"
)

var (
	detailCalories  = cascadia.MustCompile(`span[data-e2e="calories"]`)
	detailSection   = cascadia.MustCompile(`div[data-e2e="nutritionSection"]`)
	detailCarbRows  = cascadia.MustCompile(`li`)
	detailProtRows  = cascadia.MustCompile(`div[class*="container___"]`)
	detailFatRows   = cascadia.MustCompile(`li[class*="container___"]`)
	detailValueSpan = cascadia.MustCompile(`span.text-semibold`)
	detailAllergens = cascadia.MustCompile(`div[data-e2e="allergensSection"] p.my1`)
	detailDietary   = cascadia.MustCompile(`[data-e2e="dietaryIcons"]`)
	detailName      = cascadia.MustCompile(`h1, [class*='product-name'], [class*='ProductName']`)
)

// Detail extracts the nutrition page of a detail-page site, where fields are
// keyed by stable data-e2e markers. Values are kept verbatim ("37g"); the
// normalizer reduces them to integers.
type Detail struct{}

// Kind implements Extractor
func (Detail) Kind() models.TemplateKind { return models.DetailPage }

// Extract implements Extractor
func (Detail) Extract(doc *goquery.Document) (models.RawFieldSet, error) {
	raw := models.NewRawFieldSet()
	if doc == nil {
		return raw, errNilDocument()
	}

	if cal := doc.FindMatcher(detailCalories).First(); cal.Length() > 0 {
		raw.Fields[models.FieldCalories] = document.Text(cal)
	} else {
		raw.Missing = append(raw.Missing, models.FieldCalories)
	}

	section := doc.FindMatcher(detailSection).First()
	if section.Length() > 0 {
		rows := []struct {
			field   string
			rows    cascadia.Selector
			label   string
			exclude string
		}{
			{models.FieldCarbs, detailCarbRows, "Total Carbohydrates", ""},
			{models.FieldProtein, detailProtRows, "Protein", "Total"},
			{models.FieldFats, detailFatRows, "Total Fat", ""},
		}
		for _, r := range rows {
			if v, ok := rowValue(section.FindMatcher(r.rows), r.label, r.exclude); ok {
				raw.Fields[r.field] = v
			} else {
				raw.Missing = append(raw.Missing, r.field)
			}
		}
	} else {
		raw.Missing = append(raw.Missing, models.FieldCarbs, models.FieldProtein, models.FieldFats)
	}

	if p := doc.FindMatcher(detailAllergens).First(); p.Length() > 0 {
		raw.AllergenText = append(raw.AllergenText, strings.TrimSpace(p.Text()))
	}

	if text, ok := dietary(doc.Selection, detailDietary); ok {
		raw.DietaryText = text
	}

	return raw, nil
}

// rowValue finds the first row whose text contains label (and not exclude)
// and returns its first "value with unit" span that is not the label itself.
// Only the first matching row is considered.
func rowValue(rows *goquery.Selection, label, exclude string) (string, bool) {
	var value string
	found := false
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := row.Text()
		if !strings.Contains(text, label) || (exclude != "" && strings.Contains(text, exclude)) {
			return true
		}
		row.FindMatcher(detailValueSpan).EachWithBreak(func(_ int, span *goquery.Selection) bool {
			t := document.CleanText(span.Text())
			if strings.Contains(t, "g") && t != label {
				value, found = t, true
				return false
			}
			return true
		})
		return false
	})
	return value, found
}

// ProductName reads the display name from a product page, falling back to the
// document title before its first "|".
func ProductName(doc *goquery.Document) string {
	if doc == nil {
		return "Unknown Item"
	}
	if name := document.Text(doc.FindMatcher(detailName).First()); name != "" {
		return name
	}
	if title := document.Title(doc); title != "" {
		if head := strings.TrimSpace(strings.SplitN(title, "|", 2)[0]); head != "" {
			return head
		}
	}
	return "Unknown Item"
}
