// Package normalize provides the deterministic text normalization both
// match tiers and the lexicon cache key share.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining diacritical marks after decomposition.
var stripMarks = runes.Remove(runes.In(unicode.Mn))

// Fold normalizes text for phrase matching: Unicode compatibility
// composition (NFKC), locale-invariant case folding, diacritic stripping,
// and whitespace collapsing, in that order. NFKC runs first so
// compatibility variants (full-width forms, ligatures) collapse before
// folding; folding can emit combining marks (e.g. U+0130), so mark
// stripping follows it.
//
// Fold("Café  RÉSUMÉ") == "cafe resume". Empty and all-whitespace input
// fold to "". Fold never fails; malformed input is carried through
// best-effort.
func Fold(input string) string {
	// cases.Fold carries per-use buffers, so the chain is built per call
	// rather than shared across goroutines.
	chain := transform.Chain(norm.NFKC, cases.Fold(), norm.NFD, stripMarks, norm.NFC)
	folded, _, _ := transform.String(chain, input)
	return strings.Join(strings.Fields(folded), " ")
}
