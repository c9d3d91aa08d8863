package seed

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldChain decomposes, strips combining marks, and recomposes, turning
// "Chloé" into "Chloe". Perfume brand names are full of diacritics and they
// have no place in a synthesized email address.
var foldChain = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// slug lowercases s, folds diacritics to ASCII, and drops everything that is
// not a letter or digit. Used for the local/domain parts of synthesized
// email addresses ("Jean Paul Gaultier" -> "jeanpaulgaultier").
func slug(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
