package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/law-makers/nutricrawl/internal/allergen"
	"github.com/law-makers/nutricrawl/pkg/models"
)

// Header is the fixed CSV column order
var Header = []string{"Item Name", "Calories", "Protein", "Carbs", "Fats", "Vegetarian", "Allergens"}

// CSVSink writes one header row followed by one row per record
type CSVSink struct{}

// Extension implements Sink
func (CSVSink) Extension() string { return "csv" }

// Encode implements Sink
func (CSVSink) Encode(w io.Writer, records []models.NutritionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Name,
			r.Calories.String(),
			r.Protein.String(),
			r.Carbs.String(),
			r.Fats.String(),
			r.VegetarianLabel(),
			allergen.Join(r.Allergens),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// column keys after header normalization
const (
	colName       = "item name"
	colCalories   = "calories"
	colProtein    = "protein"
	colCarbs      = "carbs"
	colFats       = "fats"
	colVegetarian = "vegetarian"
	colAllergens  = "allergens"
)

var headerAliases = map[string]string{
	"name":     colName,
	"item":     colName,
	"fat":      colFats,
	"carb":     colCarbs,
	"kcal":     colCalories,
	"veg":      colVegetarian,
	"allergen": colAllergens,
}

// normalizeHeader maps "Protein (g)", " FATS " and friends onto column keys
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	if i := strings.Index(h, "("); i >= 0 {
		h = strings.TrimSpace(h[:i])
	}
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return h
}

// ReadCSV parses an export produced by CSVSink or by older scrapers that
// used unit-suffixed headers.
func ReadCSV(r io.Reader) ([]models.NutritionRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[normalizeHeader(h)] = i
	}
	if _, ok := cols[colName]; !ok {
		return nil, fmt.Errorf("missing %q column", "Item Name")
	}

	var out []models.NutritionRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		out = append(out, models.NutritionRecord{
			Name:       get(colName),
			Calories:   amount(get(colCalories)),
			Protein:    amount(get(colProtein)),
			Carbs:      amount(get(colCarbs)),
			Fats:       amount(get(colFats)),
			Vegetarian: vegetarian(get(colVegetarian)),
			Allergens:  allergen.Split(get(colAllergens)),
		})
	}
	return out, nil
}

// ReadCSVFile opens path and parses it with ReadCSV
func ReadCSVFile(path string) ([]models.NutritionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func amount(s string) models.Amount {
	a, ok := models.ParseAmount(s)
	if !ok {
		return models.EmptyAmount()
	}
	return a
}

func vegetarian(s string) models.Vegetarian {
	switch strings.ToLower(s) {
	case "yes", "true", "y", "1":
		return models.VegetarianYes
	case "no", "false", "n", "0":
		return models.VegetarianNo
	default:
		return models.VegetarianUnknown
	}
}
