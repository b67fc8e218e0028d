package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips diacritical marks. Matching against folded text is
// accent-insensitive while extracted values keep their original accents.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FoldLower folds and lowercases, the form used for keyword and whitelist
// comparison.
func FoldLower(s string) string {
	return strings.ToLower(Fold(s))
}
