// Package names canonicalizes Arabic and Latin given names and scores how
// closely two of them agree.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Harakat, shadda, superscript alef and the hamza/madda marks carried by
// أ إ آ ؤ ئ all decompose to non-spacing marks under NFD.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var letterFolds = strings.NewReplacer(
	"أ", "ا",
	"إ", "ا",
	"آ", "ا",
	"ٱ", "ا",
	"ؤ", "و",
	"ئ", "ي",
	"ى", "ي",
	"ة", "ه",
	"ـ", "",
)

// Normalize returns the canonical comparison form of a name: marks removed,
// orthographic variants folded, Latin lowercased and whitespace collapsed.
func Normalize(name string) string {
	stripped, _, err := transform.String(stripMarks, name)
	if err != nil {
		stripped = name
	}
	folded := strings.ToLower(letterFolds.Replace(stripped))
	return strings.Join(strings.Fields(folded), " ")
}

// compact drops the spaces of an already normalized name so that compound
// names written apart ("عبد الله") and joined ("عبدالله") share a key.
func compact(normalized string) string {
	return strings.ReplaceAll(normalized, " ", "")
}

func isArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
