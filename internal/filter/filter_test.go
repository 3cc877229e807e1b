package filter

import (
	"testing"

	"github.com/law-makers/nutricrawl/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestDegenerate(t *testing.T) {
	empty := models.NutritionRecord{Name: "Water"}
	assert.True(t, Degenerate(empty))

	zeros := models.NutritionRecord{
		Name:     "Ice",
		Calories: models.AmountOf(0),
		Protein:  models.AmountOf(0),
		Carbs:    models.EmptyAmount(),
		Fats:     models.AmountOf(0),
	}
	assert.True(t, Degenerate(zeros))

	protein := zeros
	protein.Protein = models.AmountOf(1)
	assert.False(t, Degenerate(protein))
}

func TestItemSet_FirstWins(t *testing.T) {
	var s ItemSet
	assert.True(t, s.Add(models.ItemRef{ID: "/menu/product/1", DisplayName: "Latte"}))
	assert.True(t, s.Add(models.ItemRef{ID: "/menu/product/2", DisplayName: "Mocha"}))
	assert.False(t, s.Add(models.ItemRef{ID: "/menu/product/1", DisplayName: "Latte again"}))

	items := s.Items()
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "Latte", items[0].DisplayName)
	assert.Equal(t, "Mocha", items[1].DisplayName)

	// returned slice is a copy
	items[0].DisplayName = "changed"
	assert.Equal(t, "Latte", s.Items()[0].DisplayName)
}

func TestCategorySet(t *testing.T) {
	var s CategorySet
	assert.True(t, s.Add(models.CategoryRef{URL: "https://x/menu/drinks/hot", Name: "hot"}))
	assert.False(t, s.Add(models.CategoryRef{URL: "https://x/menu/drinks/hot", Name: "Hot Coffee"}))
	assert.True(t, s.Add(models.CategoryRef{URL: "https://x/menu/food/bakery", Name: "bakery"}))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "hot", s.Categories()[0].Name)
}
