package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name unchanged", "محمد", "محمد"},
		{"diacritics removed", "مُحَمَّد", "محمد"},
		{"hamza above folds to alef", "أحمد", "احمد"},
		{"hamza below folds to alef", "إبراهيم", "ابراهيم"},
		{"madda folds to alef", "آمنة", "امنه"},
		{"taa marbuta folds to haa", "فاطمة", "فاطمه"},
		{"alef maksura folds to yaa", "مصطفى", "مصطفي"},
		{"tatweel removed", "عبـــدالله", "عبدالله"},
		{"whitespace collapsed and trimmed", "  عبد   الله  ", "عبد الله"},
		{"latin lowercased and accents stripped", "José", "jose"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, name := range []string{"أَحْمَد", "فاطمة", "Mohammed  Ali", "عبد الله"} {
		once := Normalize(name)
		assert.Equal(t, once, Normalize(once), name)
	}
}

func TestCompare_Tiers(t *testing.T) {
	tests := []struct {
		name       string
		inTree     string
		entered    string
		matchType  MatchType
		score      float64
		isMatch    bool
		confidence Confidence
	}{
		{"identical strings", "محمد", "محمد", MatchTypeExact, 100, true, ConfidenceHigh},
		{"identical latin", "Hamad", "Hamad", MatchTypeExact, 100, true, ConfidenceHigh},
		{"hamza variant", "إبراهيم", "ابراهيم", MatchTypeNormalized, 95, true, ConfidenceHigh},
		{"diacritics only", "مُحَمَّد", "محمد", MatchTypeNormalized, 95, true, ConfidenceHigh},
		{"taa marbuta", "فاطمة", "فاطمه", MatchTypeNormalized, 95, true, ConfidenceHigh},
		{"compound spacing", "عبد الله", "عبدالله", MatchTypeVariation, 85, true, ConfidenceHigh},
		{"latin transliterations", "Mohammed", "Muhammad", MatchTypeVariation, 85, true, ConfidenceHigh},
		{"cross script", "محمد", "Mohammed", MatchTypeVariation, 85, true, ConfidenceHigh},
		{"dropped leading alef", "ابراهيم", "براهيم", MatchTypeVariation, 85, true, ConfidenceHigh},
		{"emphatic written plain", "صالح", "سالح", MatchTypePhonetic, 75, true, ConfidenceMedium},
		{"taa written plain", "طلال", "تلال", MatchTypePhonetic, 75, true, ConfidenceMedium},
		{"latin sound-alike", "Smith", "Smyth", MatchTypePhonetic, 75, true, ConfidenceMedium},
		{"one letter inserted", "محمد", "محمود", MatchTypeFuzzy, 80, true, ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.inTree, tt.entered)
			assert.Equal(t, tt.matchType, got.MatchType)
			assert.InDelta(t, tt.score, got.Score, 0.001)
			assert.Equal(t, tt.isMatch, got.IsMatch)
			assert.Equal(t, tt.confidence, got.Confidence)
		})
	}
}

func TestCompare_UnrelatedNamesAreNotMatches(t *testing.T) {
	got := Compare("حمد", "ابراهيم")

	assert.Equal(t, MatchTypeFuzzy, got.MatchType)
	assert.False(t, got.IsMatch)
	assert.Less(t, got.Score, MinimumFuzzyMatch)
	assert.Equal(t, ConfidenceLow, got.Confidence)
}

func TestCompare_EmptyInput(t *testing.T) {
	for _, pair := range [][2]string{{"", "محمد"}, {"محمد", ""}, {"", ""}, {" ", "  "}, {"\u064E", "\u064F"}, {"ـــ", "محمد"}} {
		got := Compare(pair[0], pair[1])
		assert.Equal(t, MatchTypeNone, got.MatchType)
		assert.False(t, got.IsMatch)
		assert.Zero(t, got.Score)
	}
}

func TestCompare_SelfIsAlwaysExact(t *testing.T) {
	for _, name := range []string{"حمد", "عبد الرحمن", "Sulaiman", "نورة", "x", "  ", "\u064E"} {
		got := Compare(name, name)
		assert.Equal(t, MatchTypeExact, got.MatchType)
		assert.Equal(t, 100.0, got.Score)
		assert.True(t, got.IsMatch)
	}
}

func TestAreVariations(t *testing.T) {
	assert.True(t, AreVariations("Abdullah", "عبد الله"))
	assert.True(t, AreVariations("Yusuf", "يوسف"))
	assert.True(t, AreVariations("عبدالعزيز", "عزوز"))
	assert.False(t, AreVariations("محمد", "احمد"))
	assert.False(t, AreVariations("", "محمد"))
	assert.False(t, AreVariations("سلمان", "سليمان"))
}

func TestArabicSkeleton(t *testing.T) {
	assert.Equal(t, "مهمد", ArabicSkeleton("محمد"))
	assert.Equal(t, "سله", ArabicSkeleton("صالح"))
	assert.Equal(t, "اهمد", ArabicSkeleton("احمد"))
	assert.NotEqual(t, ArabicSkeleton("محمد"), ArabicSkeleton("محمود"))
	assert.Equal(t, "سلمن", ArabicSkeleton("سلمان"))
	assert.Equal(t, "سليمن", ArabicSkeleton("سليمان"))
}

func TestFuzzyRatio(t *testing.T) {
	assert.Equal(t, 100.0, FuzzyRatio("", ""))
	assert.Equal(t, 100.0, FuzzyRatio("حمد", "حمد"))
	assert.Equal(t, 75.0, FuzzyRatio("سعود", "سعيد"))
	assert.Equal(t, 0.0, FuzzyRatio("abc", "xyz"))
}
