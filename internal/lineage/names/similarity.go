package names

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// MatchType is the tier that explained the agreement between two names.
type MatchType string

const (
	MatchTypeExact      MatchType = "exact"
	MatchTypeNormalized MatchType = "normalized"
	MatchTypeVariation  MatchType = "variation"
	MatchTypePhonetic   MatchType = "phonetic"
	MatchTypeFuzzy      MatchType = "fuzzy"
	MatchTypeNone       MatchType = "none"
)

// Confidence is a coarse three-level trust signal.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

const (
	ExactSimilarity      = 100.0
	NormalizedSimilarity = 95.0
	VariationSimilarity  = 85.0
	PhoneticSimilarity   = 75.0

	// MinimumFuzzyMatch is the bar a fuzzy comparison must reach to count
	// as a match at all.
	MinimumFuzzyMatch = 60.0
)

// Similarity is the outcome of comparing one name in the tree against one
// name entered by a user.
type Similarity struct {
	IsMatch    bool       `json:"isMatch"`
	Score      float64    `json:"similarity"`
	MatchType  MatchType  `json:"matchType"`
	Confidence Confidence `json:"confidence"`
}

// Compare classifies how the entered name relates to the name stored in the
// tree. Tiers are tried in order and the first one that applies wins:
// exact, normalized, variation, phonetic, fuzzy.
func Compare(inTree, entered string) Similarity {
	if inTree != "" && inTree == entered {
		return Similarity{IsMatch: true, Score: ExactSimilarity, MatchType: MatchTypeExact, Confidence: ConfidenceHigh}
	}

	// Names made only of spaces, marks or tatweel have nothing to compare.
	a, b := Normalize(inTree), Normalize(entered)
	if a == "" || b == "" {
		return Similarity{MatchType: MatchTypeNone, Confidence: ConfidenceLow}
	}

	if a == b {
		return Similarity{IsMatch: true, Score: NormalizedSimilarity, MatchType: MatchTypeNormalized, Confidence: ConfidenceHigh}
	}

	if areVariations(a, b) {
		return Similarity{IsMatch: true, Score: VariationSimilarity, MatchType: MatchTypeVariation, Confidence: ConfidenceHigh}
	}

	if samePhonetic(a, b) {
		return Similarity{IsMatch: true, Score: PhoneticSimilarity, MatchType: MatchTypePhonetic, Confidence: ConfidenceMedium}
	}

	score := FuzzyRatio(a, b)
	return Similarity{
		IsMatch:    score >= MinimumFuzzyMatch,
		Score:      score,
		MatchType:  MatchTypeFuzzy,
		Confidence: ConfidenceLow,
	}
}

// FuzzyRatio converts the edit distance between two strings into a 0-100
// similarity, rounded to one decimal. Lengths are counted in runes.
func FuzzyRatio(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return ExactSimilarity
	}
	distance := levenshtein.ComputeDistance(a, b)
	ratio := (1 - float64(distance)/float64(maxLen)) * 100
	return math.Round(ratio*10) / 10
}
