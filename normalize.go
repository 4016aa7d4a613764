package pricetracker

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the key used to match product names: lower case,
// without diacritical marks, with runs of white space collapsed and trimmed.
//
// "  Café  au LAIT " and "cafe au lait" have the same key. NormalizeName is
// idempotent.
func NormalizeName(name string) string {
	// Lower case first: some lower case mappings introduce combining marks
	// (e.g. "İ") that must be stripped afterwards.
	s := strings.ToLower(name)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}
	return strings.Join(strings.Fields(s), " ")
}
