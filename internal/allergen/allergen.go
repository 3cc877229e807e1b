// Package allergen maps free-text allergen mentions to two-letter codes.
//
// Matching is plain case-insensitive substring search, so it is approximate:
// "shellfish" also matches "fish" and "eggplant" matches "egg". That is a
// known limitation, not something this package tries to disambiguate.
package allergen

import (
	"sort"
	"strings"
)

// Entry maps a lowercase name fragment to its code
type Entry struct {
	Name string
	Code string
}

// Table is a read-only allergen lookup table
type Table []Entry

// Default is the process-wide table shared by every template
var Default = Table{
	{Name: "wheat", Code: "W"},
	{Name: "soy", Code: "S"},
	{Name: "milk", Code: "M"},
	{Name: "egg", Code: "E"},
	{Name: "fish", Code: "F"},
	{Name: "shellfish", Code: "SF"},
	{Name: "peanut", Code: "P"},
	{Name: "tree nut", Code: "T"},
	{Name: "treenut", Code: "T"},
	{Name: "sesame", Code: "SS"},
}

// Match tests every table entry against every source and returns the union
// of matched codes, sorted ascending with no duplicates.
func (t Table) Match(sources ...string) []string {
	seen := make(map[string]struct{})
	for _, src := range sources {
		lower := strings.ToLower(src)
		if lower == "" {
			continue
		}
		for _, e := range t {
			if strings.Contains(lower, e.Name) {
				seen[e.Code] = struct{}{}
			}
		}
	}

	codes := make([]string, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Match uses the Default table
func Match(sources ...string) []string {
	return Default.Match(sources...)
}

// Join renders codes in export form
func Join(codes []string) string {
	return strings.Join(codes, ",")
}

// Split parses the export form back into sorted, deduplicated codes.
// Both comma and semicolon separators are accepted.
func Split(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	seen := make(map[string]struct{}, len(fields))
	codes := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ToUpper(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		codes = append(codes, f)
	}
	sort.Strings(codes)
	return codes
}

// Name returns the first allergen name registered for code, or code itself
func (t Table) Name(code string) string {
	for _, e := range t {
		if e.Code == code {
			return e.Name
		}
	}
	return code
}
