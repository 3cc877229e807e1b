// Package filter holds the record filter and the insertion-ordered sets used
// to deduplicate discovered categories and items.
package filter

import "github.com/law-makers/nutricrawl/pkg/models"

// Degenerate reports whether every nutrient field is empty or zero.
// Such records are placeholders and are dropped before export.
func Degenerate(rec models.NutritionRecord) bool {
	return rec.Calories.ZeroOrEmpty() &&
		rec.Protein.ZeroOrEmpty() &&
		rec.Carbs.ZeroOrEmpty() &&
		rec.Fats.ZeroOrEmpty()
}

// ordered is a set that remembers first-insertion order
type ordered[K comparable, V any] struct {
	seen  map[K]struct{}
	items []V
}

func (o *ordered[K, V]) add(key K, v V) bool {
	if o.seen == nil {
		o.seen = make(map[K]struct{})
	}
	if _, ok := o.seen[key]; ok {
		return false
	}
	o.seen[key] = struct{}{}
	o.items = append(o.items, v)
	return true
}

// ItemSet deduplicates items by ID. The first occurrence wins.
type ItemSet struct {
	o ordered[string, models.ItemRef]
}

// Add inserts item and reports whether it was new
func (s *ItemSet) Add(item models.ItemRef) bool {
	return s.o.add(item.ID, item)
}

// Len returns the number of distinct items
func (s *ItemSet) Len() int { return len(s.o.items) }

// Items returns the items in first-seen order
func (s *ItemSet) Items() []models.ItemRef {
	out := make([]models.ItemRef, len(s.o.items))
	copy(out, s.o.items)
	return out
}

// CategorySet deduplicates categories by URL
type CategorySet struct {
	o ordered[string, models.CategoryRef]
}

// Add inserts cat and reports whether it was new
func (s *CategorySet) Add(cat models.CategoryRef) bool {
	return s.o.add(cat.URL, cat)
}

// Len returns the number of distinct categories
func (s *CategorySet) Len() int { return len(s.o.items) }

// Categories returns the categories in first-seen order
func (s *CategorySet) Categories() []models.CategoryRef {
	out := make([]models.CategoryRef, len(s.o.items))
	copy(out, s.o.items)
	return out
}
