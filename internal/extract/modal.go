package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/law-makers/nutricrawl/internal/engine/document"
	"github.com/law-makers/nutricrawl/pkg/models"
)

var (
	modalScope       = cascadia.MustCompile(`[role="dialog"], .modal, mat-dialog-container`)
	modalContainer   = cascadia.MustCompile(`.nutrition-container`)
	modalServing     = cascadia.MustCompile(`div.serving-size`)
	modalBold        = cascadia.MustCompile(`div.bold`)
	modalCaloriesRow = cascadia.MustCompile(`div.calories-row`)
	modalLabelRow    = cascadia.MustCompile(`div.nutrition-label`)
	modalSpan        = cascadia.MustCompile(`span`)
	modalAriaLabel   = cascadia.MustCompile(`[aria-label]`)
	modalDietary     = cascadia.MustCompile(`menus-food-icons`)
)

// Modal extracts the nutrition panel rendered inside an item modal.
//
// Rows are nested divs under fixed class markers. Values are reduced to their
// first decimal-or-integer substring; anything that does not match stays empty.
type Modal struct{}

// Kind implements Extractor
func (Modal) Kind() models.TemplateKind { return models.ModalEmbedded }

// Extract implements Extractor
func (Modal) Extract(doc *goquery.Document) (models.RawFieldSet, error) {
	raw := models.NewRawFieldSet()
	if doc == nil {
		return raw, errNilDocument()
	}
	scope := modalRoot(doc)

	bold := scope.FindMatcher(modalServing).First().FindMatcher(modalBold)
	if bold.Length() >= 2 {
		raw.Fields[models.FieldServingSize] = document.Text(bold.Eq(1))
	}

	calories := false
	scope.FindMatcher(modalCaloriesRow).First().ChildrenFiltered("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		text := document.Text(div)
		if document.IsDigits(text) {
			raw.Fields[models.FieldCalories] = text
			calories = true
			return false
		}
		return true
	})
	if !calories {
		raw.Missing = append(raw.Missing, models.FieldCalories)
	}

	var saturated, trans float64
	scope.FindMatcher(modalLabelRow).Each(func(_ int, row *goquery.Selection) {
		spans := row.FindMatcher(modalSpan)
		if spans.Length() < 2 {
			return
		}
		label := strings.ToLower(document.Text(spans.Eq(0)))
		value, ok := document.FirstDecimal(document.Text(spans.Eq(1)))
		if !ok {
			return
		}

		switch {
		case strings.Contains(label, "protein"):
			raw.Fields[models.FieldProtein] = value
		case strings.Contains(label, "total carbohydrate"):
			raw.Fields[models.FieldCarbs] = value
		case strings.Contains(label, "total fat"):
			// First explicit row wins; later ones are ignored.
			if raw.Get(models.FieldFats) == "" {
				raw.Fields[models.FieldFats] = value
			}
		case strings.Contains(label, "saturated fat"):
			saturated, _ = strconv.ParseFloat(value, 64)
		case strings.Contains(label, "trans fat"):
			trans, _ = strconv.ParseFloat(value, 64)
		}
	})

	if raw.Get(models.FieldFats) == "" {
		if derived, ok := DeriveTotalFat(saturated, trans); ok {
			raw.Fields[models.FieldFats] = derived
		}
	}
	for _, f := range []string{models.FieldProtein, models.FieldCarbs, models.FieldFats} {
		if raw.Get(f) == "" {
			raw.Missing = append(raw.Missing, f)
		}
	}

	scope.FindMatcher(modalAriaLabel).Each(func(_ int, el *goquery.Selection) {
		label, _ := el.Attr("aria-label")
		if containsFold(label, "contains") {
			raw.AllergenText = append(raw.AllergenText, label)
		}
	})

	if text, ok := dietary(scope, modalDietary); ok {
		raw.DietaryText = text
	}

	return raw, nil
}

// modalRoot narrows extraction to the open dialog when one wraps the
// nutrition panel, so item tiles behind the overlay are not scanned.
func modalRoot(doc *goquery.Document) *goquery.Selection {
	dialog := doc.FindMatcher(modalContainer).First().ClosestMatcher(modalScope)
	if dialog.Length() > 0 {
		return dialog
	}
	return doc.Selection
}
