package models

import (
	"encoding/json"
	"strconv"
)

// Amount is an optional numeric value.
//
// Modal-template fields that were never found stay empty, while detail-page
// fields default to an explicit zero. The export keeps that distinction, so
// the two states are not unified.
type Amount struct {
	text  string
	value float64
	valid bool
}

// EmptyAmount returns an Amount with no value
func EmptyAmount() Amount {
	return Amount{}
}

// AmountOf returns an Amount holding v
func AmountOf(v float64) Amount {
	return Amount{text: strconv.FormatFloat(v, 'f', -1, 64), value: v, valid: true}
}

// ParseAmount parses a numeric string such as "20" or "2.5".
// The original text is kept so exports reproduce what the site printed.
func ParseAmount(s string) (Amount, bool) {
	if s == "" {
		return Amount{}, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return Amount{}, false
	}
	return Amount{text: s, value: v, valid: true}, true
}

// Valid reports whether the amount holds a value
func (a Amount) Valid() bool { return a.valid }

// Value returns the numeric value, 0 when empty
func (a Amount) Value() float64 { return a.value }

// ZeroOrEmpty reports whether the amount is empty or exactly zero
func (a Amount) ZeroOrEmpty() bool {
	return !a.valid || a.value == 0
}

// String returns the export form of the amount ("" when empty)
func (a Amount) String() string {
	if !a.valid {
		return ""
	}
	return a.text
}

// MarshalJSON encodes empty amounts as null
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}
