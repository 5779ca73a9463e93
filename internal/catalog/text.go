package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalize lower-cases s and strips combining marks after canonical
// decomposition, so "Écouteurs" matches "ecouteurs".
func normalize(s string) string {
	// transform.Chain is stateful; build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func haystack(p Product) string {
	return normalize(strings.Join([]string{
		p.ItemName,
		p.ItemCategory,
		p.ItemCategory2,
		strings.Join(p.Tags, " "),
		p.Description,
	}, " "))
}

// newFrenchCollator returns a fresh collator; collate.Collator is not safe
// for concurrent use.
func newFrenchCollator() *collate.Collator {
	return collate.New(language.French)
}
