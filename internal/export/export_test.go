package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/law-makers/nutricrawl/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.NutritionRecord {
	return []models.NutritionRecord{
		{
			Name:       "Grilled Chicken (6 oz)",
			Calories:   models.AmountOf(280),
			Protein:    models.AmountOf(38.5),
			Carbs:      models.EmptyAmount(),
			Fats:       models.AmountOf(12),
			Vegetarian: models.VegetarianUnknown,
			Allergens:  []string{"M", "W"},
		},
		{
			Name:       "Side Salad",
			Calories:   models.AmountOf(35),
			Protein:    models.AmountOf(0),
			Carbs:      models.AmountOf(7),
			Fats:       models.AmountOf(0),
			Vegetarian: models.VegetarianYes,
		},
	}
}

func TestCSVSink_Encode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVSink{}.Encode(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Item Name,Calories,Protein,Carbs,Fats,Vegetarian,Allergens", lines[0])
	assert.Equal(t, `Grilled Chicken (6 oz),280,38.5,,12,,"M,W"`, lines[1])
	assert.Equal(t, "Side Salad,35,0,7,0,Yes,", lines[2])
}

func TestJSONSink_Encode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONSink{}.Encode(&buf, sampleRecords()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Grilled Chicken (6 oz)", got[0]["name"])
	assert.Nil(t, got[0]["carbs"])
	assert.Equal(t, 38.5, got[0]["protein"])
	assert.Equal(t, "", got[0]["vegetarian"])
	assert.Equal(t, "Yes", got[1]["vegetarian"])
	assert.Equal(t, []any{}, got[1]["allergens"])
}

func TestSave_NoRecordsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path, err := Save(dir, "nutrislice_menu", CSVSink{}, nil)
	assert.ErrorIs(t, err, ErrNoRecords)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_RoundTripCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	path, err := Save(dir, "starbucks_menu", CSVSink{}, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "starbucks_menu.csv"), path)

	got, err := ReadCSVFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Grilled Chicken (6 oz)", got[0].Name)
	assert.False(t, got[0].Carbs.Valid())
	assert.Equal(t, "38.5", got[0].Protein.String())
	assert.Equal(t, []string{"M", "W"}, got[0].Allergens)
	assert.Equal(t, models.VegetarianYes, got[1].Vegetarian)
	assert.Equal(t, "0", got[1].Fats.String())
}

func TestReadCSV_LegacyHeaders(t *testing.T) {
	in := "Item Name,Calories,Protein (g),Carbs (g),Fats (g),Vegetarian,Allergens\n" +
		"Caffè Latte,190,13,19,7,No,\"M, S\"\n" +
		"Cake Pop,160,2,23,8,TRUE,\"W, M, E\"\n"

	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "13", got[0].Protein.String())
	assert.Equal(t, "7", got[0].Fats.String())
	assert.Equal(t, models.VegetarianNo, got[0].Vegetarian)
	assert.Equal(t, []string{"M", "S"}, got[0].Allergens)
	assert.Equal(t, models.VegetarianYes, got[1].Vegetarian)
	assert.Equal(t, []string{"E", "M", "W"}, got[1].Allergens)
}

func TestReadCSV_Errors(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ReadCSV(strings.NewReader("Calories,Protein\n1,2\n"))
	assert.Error(t, err)
}

func TestFor(t *testing.T) {
	s, err := For(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "json", s.Extension())

	s, err = For("")
	require.NoError(t, err)
	assert.Equal(t, "csv", s.Extension())

	_, err = For("xml")
	assert.Error(t, err)
}

func TestWriteDiagnostic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "diag")
	path, err := WriteDiagnostic(dir, "nutrislice_error.html", "<html>gate</html>")
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>gate</html>", string(b))
}
