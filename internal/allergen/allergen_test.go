package allergen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch_SortedAndDeduplicated(t *testing.T) {
	codes := Match("Contains Wheat", "contains MILK and soy", "Contains wheat")
	assert.Equal(t, []string{"M", "S", "W"}, codes)
}

func TestMatch_PermutationInvariant(t *testing.T) {
	sources := []string{"contains sesame", "contains peanut", "contains egg", "contains tree nut"}
	want := []string{"E", "P", "SS", "T"}

	perms := [][]string{
		{sources[0], sources[1], sources[2], sources[3]},
		{sources[3], sources[2], sources[1], sources[0]},
		{sources[1], sources[3], sources[0], sources[2]},
	}
	for _, p := range perms {
		assert.Equal(t, want, Match(p...))
	}
}

func TestMatch_SubstringLimitation(t *testing.T) {
	// "shellfish" contains "fish"; both codes are reported
	assert.Equal(t, []string{"F", "SF"}, Match("Contains shellfish"))
	assert.Equal(t, []string{"T"}, Match("treenut", "Tree Nut"))
}

func TestMatch_Empty(t *testing.T) {
	assert.Empty(t, Match())
	assert.Empty(t, Match("", "no allergens listed"))
}

func TestJoinSplit(t *testing.T) {
	assert.Equal(t, "E,M,W", Join([]string{"E", "M", "W"}))
	assert.Equal(t, "", Join(nil))
	assert.Equal(t, []string{"E", "M", "W"}, Split("W, m;E,,W"))
	assert.Empty(t, Split(""))
}

func TestTable_Name(t *testing.T) {
	assert.Equal(t, "tree nut", Default.Name("T"))
	assert.Equal(t, "sesame", Default.Name("SS"))
	assert.Equal(t, "XX", Default.Name("XX"))
}
