package names

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// arabicSoundClasses folds letters that are commonly confused when a name is
// written from speech onto one representative.
var arabicSoundClasses = map[rune]rune{
	'ث': 'س',
	'ص': 'س',
	'ذ': 'ز',
	'ظ': 'ز',
	'ض': 'د',
	'ط': 'ت',
	'ح': 'ه',
	'ق': 'ك',
	'ء': 'ع',
}

// ArabicSkeleton reduces a normalized Arabic name to its consonant skeleton.
// Non-initial alefs are dropped, sound classes are folded and doubled
// letters collapse to one.
func ArabicSkeleton(normalized string) string {
	var b strings.Builder
	var prev rune
	for i, r := range []rune(compact(normalized)) {
		if r == 'ا' && i > 0 {
			continue
		}
		if folded, ok := arabicSoundClasses[r]; ok {
			r = folded
		}
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// samePhonetic compares two normalized names by sound. Arabic script uses
// the consonant skeleton; Latin script uses Double Metaphone keys.
func samePhonetic(normalizedA, normalizedB string) bool {
	arabicA, arabicB := isArabic(normalizedA), isArabic(normalizedB)
	if arabicA != arabicB {
		return false
	}
	if arabicA {
		ka, kb := ArabicSkeleton(normalizedA), ArabicSkeleton(normalizedB)
		return ka != "" && ka == kb
	}

	pa, sa := matchr.DoubleMetaphone(compact(normalizedA))
	pb, sb := matchr.DoubleMetaphone(compact(normalizedB))
	for _, x := range []string{pa, sa} {
		if x == "" {
			continue
		}
		if x == pb || x == sb {
			return true
		}
	}
	return false
}
