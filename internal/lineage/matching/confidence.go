package matching

import "lineage-workers/internal/lineage/names"

// confidenceFacts is everything the confidence rules look at.
type confidenceFacts struct {
	fatherType              names.MatchType
	grandfatherMatched      bool
	greatGrandfatherMatched bool
	score                   float64
}

func (f confidenceFacts) strongFather() bool {
	return f.fatherType == names.MatchTypeExact || f.fatherType == names.MatchTypeNormalized
}

func (f confidenceFacts) softFather() bool {
	return f.fatherType == names.MatchTypeVariation || f.fatherType == names.MatchTypePhonetic
}

type confidenceRule struct {
	name    string
	applies func(confidenceFacts) bool
	outcome func(confidenceFacts) names.Confidence
}

func fixed(c names.Confidence) func(confidenceFacts) names.Confidence {
	return func(confidenceFacts) names.Confidence { return c }
}

func byScore(min float64, atOrAbove, below names.Confidence) func(confidenceFacts) names.Confidence {
	return func(f confidenceFacts) names.Confidence {
		if f.score >= min {
			return atOrAbove
		}
		return below
	}
}

// confidenceRules are evaluated in order; the first rule that applies wins.
var confidenceRules = []confidenceRule{
	{
		name: "strong father with corroborated ancestor",
		applies: func(f confidenceFacts) bool {
			return f.strongFather() && (f.grandfatherMatched || f.greatGrandfatherMatched)
		},
		outcome: fixed(names.ConfidenceHigh),
	},
	{
		name:    "strong father alone",
		applies: confidenceFacts.strongFather,
		outcome: byScore(90, names.ConfidenceHigh, names.ConfidenceMedium),
	},
	{
		name: "soft father with both ancestors corroborated",
		applies: func(f confidenceFacts) bool {
			return f.softFather() && f.grandfatherMatched && f.greatGrandfatherMatched
		},
		outcome: fixed(names.ConfidenceHigh),
	},
	{
		name:    "soft father partly corroborated",
		applies: confidenceFacts.softFather,
		outcome: fixed(names.ConfidenceMedium),
	},
	{
		name:    "fuzzy father",
		applies: func(confidenceFacts) bool { return true },
		outcome: byScore(70, names.ConfidenceMedium, names.ConfidenceLow),
	},
}

func classifyConfidence(f confidenceFacts) names.Confidence {
	for _, r := range confidenceRules {
		if r.applies(f) {
			return r.outcome(f)
		}
	}
	return names.ConfidenceLow
}
