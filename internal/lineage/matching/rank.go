package matching

import (
	"fmt"
	"sort"
)

// sortCandidates orders by score, then by number of corroborated ancestor
// levels, then by father id so equal candidates always come out the same way.
func sortCandidates(cs []MatchCandidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.CorroboratedLevels != b.CorroboratedLevels {
			return a.CorroboratedLevels > b.CorroboratedLevels
		}
		return a.FatherID < b.FatherID
	})
}

func rank(candidates []MatchCandidate) *MatchResult {
	all := make([]MatchCandidate, len(candidates))
	copy(all, candidates)
	sortCandidates(all)

	r := &MatchResult{
		ExactMatches:  []MatchCandidate{},
		HighMatches:   []MatchCandidate{},
		MediumMatches: []MatchCandidate{},
		LowMatches:    []MatchCandidate{},
		AllMatches:    all,
		HasMatches:    len(all) > 0,
		MatchCount:    len(all),
	}
	for _, c := range all {
		switch c.MatchLevel {
		case MatchLevelExact:
			r.ExactMatches = append(r.ExactMatches, c)
		case MatchLevelHigh:
			r.HighMatches = append(r.HighMatches, c)
		case MatchLevelMedium:
			r.MediumMatches = append(r.MediumMatches, c)
		default:
			r.LowMatches = append(r.LowMatches, c)
		}
	}
	if len(all) > 0 {
		best := all[0]
		r.BestMatch = &best
	}

	suggest(r)
	return r
}

func suggest(r *MatchResult) {
	exact, high, medium, low := len(r.ExactMatches), len(r.HighMatches), len(r.MediumMatches), len(r.LowMatches)

	switch {
	case exact == 1:
		r.SuggestedAction = ActionConfirm
		r.Message = fmt.Sprintf("Exact match found: %s", describe(r.ExactMatches[0]))
		r.MessageAr = fmt.Sprintf("تم العثور على تطابق تام: %s", describe(r.ExactMatches[0]))
	case exact > 1:
		r.SuggestedAction = ActionSelect
		r.Message = fmt.Sprintf("%d exact matches found, select the correct father", exact)
		r.MessageAr = fmt.Sprintf("تم العثور على %d تطابقات تامة، يرجى اختيار الأب الصحيح", exact)
	case high == 1:
		r.SuggestedAction = ActionConfirm
		r.Message = fmt.Sprintf("Strong match found: %s", describe(r.HighMatches[0]))
		r.MessageAr = fmt.Sprintf("تم العثور على تطابق قوي: %s", describe(r.HighMatches[0]))
	case high > 1 || medium > 0:
		r.SuggestedAction = ActionSelect
		r.Message = fmt.Sprintf("%d possible fathers found, select the correct one", r.MatchCount)
		r.MessageAr = fmt.Sprintf("تم العثور على %d من الآباء المحتملين، يرجى اختيار الأب الصحيح", r.MatchCount)
	case low > 0:
		r.SuggestedAction = ActionSelect
		r.RequiresVerification = true
		r.Message = fmt.Sprintf("Only weak matches found (%d), verify carefully before selecting", low)
		r.MessageAr = fmt.Sprintf("تم العثور على تطابقات ضعيفة فقط (%d)، يرجى التحقق بعناية قبل الاختيار", low)
	default:
		r.SuggestedAction = ActionNoMatch
		r.Message = "No matching father found, locate the father manually in the tree"
		r.MessageAr = "لم يتم العثور على أب مطابق، يرجى تحديد الأب يدويا من الشجرة"
	}
}

func describe(c MatchCandidate) string {
	return fmt.Sprintf("%s (%s)", c.Father.FirstName, c.FatherID)
}
