// Package extract pulls raw label/value pairs for nutrition attributes out of
// a parsed detail surface. There is one Extractor per site template.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/law-makers/nutricrawl/internal/engine/document"
	"github.com/law-makers/nutricrawl/pkg/models"
)

// Extractor scrapes one template's detail markup into a RawFieldSet.
//
// Fields that cannot be found are left out and listed in RawFieldSet.Missing;
// only a document that cannot be processed at all yields an error.
type Extractor interface {
	Kind() models.TemplateKind
	Extract(doc *goquery.Document) (models.RawFieldSet, error)
}

var extractors = map[models.TemplateKind]Extractor{
	models.ModalEmbedded: Modal{},
	models.DetailPage:    Detail{},
}

// For returns the extractor registered for kind
func For(kind models.TemplateKind) (Extractor, error) {
	ex, ok := extractors[kind]
	if !ok {
		return nil, engine.NewEngineError(engine.ErrCodeValidation,
			fmt.Sprintf("no extractor for template %q", kind), nil)
	}
	return ex, nil
}

// DeriveTotalFat sums saturated and trans fat when a panel has no explicit
// total fat row. Whole sums are collapsed to integers ("4", not "4.0").
// It reports false when neither component is positive.
func DeriveTotalFat(saturated, trans float64) (string, bool) {
	if saturated <= 0 && trans <= 0 {
		return "", false
	}
	total := saturated + trans
	if total == float64(int64(total)) {
		return strconv.FormatInt(int64(total), 10), true
	}
	return strconv.FormatFloat(total, 'f', -1, 64), true
}

func errNilDocument() error {
	return engine.NewEngineError(engine.ErrCodeParseFailure, "document is nil", nil)
}

// containsFold reports whether s contains substr, ignoring case
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// dietary returns the marker text, or "" with ok=false when no marker exists
func dietary(scope *goquery.Selection, m cascadia.Selector) (string, bool) {
	marker := scope.FindMatcher(m).First()
	if marker.Length() == 0 {
		return "", false
	}
	return document.Text(marker), true
}
