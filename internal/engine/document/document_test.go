package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc, err := Parse(`<html><head><title>Menu | Cafe</title></head><body><div class="x">Hi</div></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Menu | Cafe", Title(doc))
	assert.Equal(t, "Hi", Text(doc.Find(".x")))
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("   ")
	assert.Error(t, err)
}

func TestParse_Fragment(t *testing.T) {
	// The HTML5 algorithm accepts fragments; they still get a body
	doc, err := Parse(`<span>12g</span>`)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("body span").Length())
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Total Fat 12 g", CleanText("  Total Fat \n\t12 g "))
	assert.Equal(t, "", CleanText(" \n "))
}

func TestFirstDecimal(t *testing.T) {
	cases := map[string]string{
		"20g":          "20",
		"2.5 g":        "2.5",
		"< 1g":         "1",
		"Sodium 540mg": "540",
	}
	for in, want := range cases {
		got, ok := FirstDecimal(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := FirstDecimal("--")
	assert.False(t, ok)
}

func TestFirstInteger(t *testing.T) {
	n, ok := FirstInteger("12.5g")
	require.True(t, ok)
	assert.Equal(t, 12, n)

	n, ok = FirstInteger("240 calories")
	require.True(t, ok)
	assert.Equal(t, 240, n)

	_, ok = FirstInteger("no value")
	assert.False(t, ok)
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("350"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("350 cal"))
	assert.False(t, IsDigits("3.5"))
}
