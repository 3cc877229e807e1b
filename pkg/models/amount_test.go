package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	a, ok := ParseAmount("2.50")
	require.True(t, ok)
	assert.Equal(t, "2.50", a.String())
	assert.Equal(t, 2.5, a.Value())

	_, ok = ParseAmount("")
	assert.False(t, ok)

	_, ok = ParseAmount("abc")
	assert.False(t, ok)
}

func TestAmount_ZeroOrEmpty(t *testing.T) {
	assert.True(t, EmptyAmount().ZeroOrEmpty())
	assert.True(t, AmountOf(0).ZeroOrEmpty())
	assert.False(t, AmountOf(0.5).ZeroOrEmpty())

	// "0.0g" and "0" are the same value
	zero, ok := ParseAmount("0.0")
	require.True(t, ok)
	assert.True(t, zero.ZeroOrEmpty())
	assert.Equal(t, "0.0", zero.String())
	assert.Equal(t, "", EmptyAmount().String())
	assert.Equal(t, "0", AmountOf(0).String())
}

func TestAmount_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}{A: AmountOf(12), B: EmptyAmount()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":null}`, string(out))
}

func TestVegetarian_String(t *testing.T) {
	assert.Equal(t, "Yes", VegetarianYes.String())
	assert.Equal(t, "No", VegetarianNo.String())
	assert.Equal(t, "", VegetarianUnknown.String())
}
