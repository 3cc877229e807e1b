package crawler

import (
	"testing"

	"github.com/law-makers/nutricrawl/internal/engine"
	"github.com/law-makers/nutricrawl/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Default(t *testing.T) {
	p, err := Resolve("", "")
	require.NoError(t, err)
	assert.Equal(t, "nutrislice", p.Name)
	assert.Equal(t, models.ModalEmbedded, p.Kind)
	assert.True(t, p.Gate.Required)
}

func TestResolve_BuiltinName(t *testing.T) {
	p, err := Resolve("Starbucks", "")
	require.NoError(t, err)
	assert.Equal(t, "starbucks", p.Name)
	assert.False(t, p.Gate.Required)

	_, err = Resolve("starbucks", models.ModalEmbedded)
	assert.ErrorIs(t, err, engine.ErrValidation)
}

func TestResolve_URLInfersTemplate(t *testing.T) {
	p, err := Resolve("https://dining.nutrislice.com/menu/hall/dinner", "")
	require.NoError(t, err)
	assert.Equal(t, "nutrislice", p.Name)
	assert.Equal(t, "https://dining.nutrislice.com/menu/hall/dinner", p.RootURL)

	p, err = Resolve("https://www.starbucks.ca/menu", "")
	require.NoError(t, err)
	assert.Equal(t, models.DetailPage, p.Kind)
}

func TestResolve_CustomHostNeedsTemplate(t *testing.T) {
	_, err := Resolve("https://menus.campus.test/today", "")
	assert.ErrorIs(t, err, engine.ErrValidation)

	p, err := Resolve("https://www.menus.campus.test/today", models.DetailPage)
	require.NoError(t, err)
	assert.Equal(t, "menus_campus_test", p.Name)
	assert.Equal(t, "menus_campus_test_menu", p.OutputName())
	assert.Equal(t, "menus_campus_test_error.html", p.ErrorFile())
	assert.Equal(t, models.DetailPage, p.Kind)
	assert.NotNil(t, p.Categories)
}

func TestResolve_Invalid(t *testing.T) {
	_, err := Resolve("wendys", "")
	assert.ErrorIs(t, err, engine.ErrValidation)

	_, err = Resolve("", "carousel")
	assert.ErrorIs(t, err, engine.ErrValidation)
}

func TestBuiltin_Sorted(t *testing.T) {
	ps := Builtin()
	require.Len(t, ps, 2)
	assert.Equal(t, "nutrislice", ps[0].Name)
	assert.Equal(t, "starbucks", ps[1].Name)
}

func TestCategoryFrom(t *testing.T) {
	c := &Controller{profile: Profile{RootURL: "https://www.starbucks.com/menu"}}
	pat := CategoryPattern{Root: "menu", Sections: []string{"drinks", "food"}}

	cat, ok := c.categoryFrom("/menu/drinks/cold-coffees", pat)
	require.True(t, ok)
	assert.Equal(t, models.CategoryRef{URL: "https://www.starbucks.com/menu/drinks/cold-coffees", Section: "drinks", Name: "cold-coffees"}, cat)

	for _, href := range []string{"", "/menu/drinks", "/menu/at-home/coffee", "/menu/drinks/a/b", "https://evil.test/menu/food/x", "/shop/drinks/x"} {
		_, ok := c.categoryFrom(href, pat)
		assert.False(t, ok, href)
	}
}
