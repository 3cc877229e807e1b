// Package document turns rendered markup snapshots into queryable trees.
//
// Everything here is pure: no I/O, no retries. Parse failures surface to the
// caller, which is always inside one item's isolation boundary.
package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	decimalPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	integerPattern = regexp.MustCompile(`\d+`)
)

// Parse builds a goquery document from raw rendered markup
func Parse(raw string) (*goquery.Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty document")
	}
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// CleanText applies NFKC normalization and collapses runs of whitespace.
// Rendered menus are full of non-breaking spaces and thin spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// Text returns the cleaned text content of the selection
func Text(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return CleanText(sel.Text())
}

// FirstDecimal returns the first integer-or-decimal substring of s
func FirstDecimal(s string) (string, bool) {
	m := decimalPattern.FindString(norm.NFKC.String(s))
	return m, m != ""
}

// FirstInteger returns the first run of digits in s as an int
func FirstInteger(s string) (int, bool) {
	m := integerPattern.FindString(norm.NFKC.String(s))
	if m == "" {
		return 0, false
	}
	n := 0
	for _, r := range m {
		n = n*10 + int(r-'0')
		if n > 1_000_000_000 {
			return 0, false
		}
	}
	return n, true
}

// IsDigits reports whether s is a non-empty string of ASCII digits
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Title returns the document title
func Title(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	return Text(doc.Find("title").First())
}
