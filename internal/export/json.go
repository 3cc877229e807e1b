package export

import (
	"encoding/json"
	"io"

	"github.com/law-makers/nutricrawl/pkg/models"
)

// JSONSink writes the records as a JSON array
type JSONSink struct {
	Indent bool
}

type jsonRecord struct {
	models.NutritionRecord
	Vegetarian string   `json:"vegetarian"`
	Allergens  []string `json:"allergens"`
}

// Extension implements Sink
func (JSONSink) Extension() string { return "json" }

// Encode implements Sink. Empty amounts encode as null.
func (s JSONSink) Encode(w io.Writer, records []models.NutritionRecord) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		allergens := r.Allergens
		if allergens == nil {
			allergens = []string{}
		}
		out = append(out, jsonRecord{NutritionRecord: r, Vegetarian: r.VegetarianLabel(), Allergens: allergens})
	}
	enc := json.NewEncoder(w)
	if s.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
