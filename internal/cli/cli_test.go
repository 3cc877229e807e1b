package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/law-makers/nutricrawl/internal/crawler"
	"github.com/law-makers/nutricrawl/internal/export"
	"github.com/law-makers/nutricrawl/internal/ui"
	"github.com/law-makers/nutricrawl/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { ui.Disable() }

func records() []models.NutritionRecord {
	return []models.NutritionRecord{
		{Name: "Grilled Chicken (6 oz)", Calories: models.AmountOf(280), Protein: models.AmountOf(38), Fats: models.AmountOf(12), Allergens: []string{"M", "W"}},
		{Name: "Side Salad", Calories: models.AmountOf(35), Carbs: models.AmountOf(7), Vegetarian: models.VegetarianYes, Allergens: []string{"W"}},
		{Name: "Latte", Protein: models.AmountOf(13), Allergens: []string{"M", "S"}},
	}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, Execute(context.Background()))
	return out.String()
}

func TestSummarize(t *testing.T) {
	s := summarize(records(), 2)

	assert.Equal(t, 3, s.Items)
	assert.Equal(t, 1, s.Vegetarian)
	assert.Equal(t, 1, s.NoCalories)
	assert.InDelta(t, 157.5, s.AvgCalories, 0.001)
	require.Len(t, s.Samples, 2)
	assert.Equal(t, "Side Salad", s.Samples[1].Name)
	assert.Equal(t, []allergenCount{{"M", 2}, {"W", 2}, {"S", 1}}, s.Allergens)

	assert.Len(t, summarize(records(), 10).Samples, 3)
	assert.Empty(t, summarize(nil, 5).Allergens)
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four\nfive\n\n- keep\n- lines", 9)
	assert.Equal(t, "one two\nthree\nfour five\n\n- keep\n- lines", got)
}

func TestSave_OutputFlag(t *testing.T) {
	dir := t.TempDir()
	p, ok := crawler.Lookup("starbucks")
	require.True(t, ok)
	sink, err := export.For(export.FormatCSV)
	require.NoError(t, err)

	path, err := save(dir, p, sink, records())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "starbucks_menu.csv"), path)

	scrapeOutput = "sub/lunch.csv"
	defer func() { scrapeOutput = "" }()
	path, err = save(dir, p, sink, records())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "lunch.csv"), path)

	_, err = save(dir, p, sink, nil)
	assert.ErrorIs(t, err, export.ErrNoRecords)
}

func TestPrintSummary_NoItems(t *testing.T) {
	var buf bytes.Buffer
	p, _ := crawler.Lookup("nutrislice")
	res := &crawler.Result{Records: []models.NutritionRecord{}, Diagnostics: []string{"nutrislice_error.html"}}

	printSummary(&buf, p, res, "", nil)
	assert.Contains(t, buf.String(), "nutrislice: no items found")
	assert.Contains(t, buf.String(), "nutrislice_error.html")
}

func TestPrintSummary_Saved(t *testing.T) {
	var buf bytes.Buffer
	p, _ := crawler.Lookup("nutrislice")
	res := &crawler.Result{Records: records(), Stats: crawler.Stats{Discovered: 5, Rejected: 1, Failed: 1}}

	printSummary(&buf, p, res, "nutrislice_menu.csv", nil)
	assert.Contains(t, buf.String(), "3 items saved to nutrislice_menu.csv")
	assert.Contains(t, buf.String(), "discovered 5, rejected 1, failed 1")
}

func TestSitesCommand(t *testing.T) {
	out := run(t, "sites")
	assert.Contains(t, out, "nutrislice")
	assert.Contains(t, out, "starbucks")
	assert.True(t, strings.Index(out, "nutrislice") < strings.Index(out, "starbucks"))
}

func TestInspectCommand(t *testing.T) {
	sink, err := export.For(export.FormatCSV)
	require.NoError(t, err)
	path, err := export.Save(t.TempDir(), "menu", sink, records())
	require.NoError(t, err)

	out := run(t, "inspect", path, "-n", "1")
	assert.Contains(t, out, "items       3")
	assert.Contains(t, out, "Grilled Chicken (6 oz)")
	assert.NotContains(t, out, "Side Salad")
	assert.Contains(t, out, "milk")
}
