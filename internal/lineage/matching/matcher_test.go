package matching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lineage-workers/internal/common/errors"
	"lineage-workers/internal/lineage/names"
	"lineage-workers/internal/lineage/tree"
)

func m(id, name, father string, gen int) tree.FamilyMember {
	return tree.FamilyMember{ID: id, FirstName: name, FatherID: father, Generation: gen, Gender: tree.GenderMale}
}

func fatherIDs(cs []MatchCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.FatherID
	}
	return out
}

func TestMatch_PlacesUnderSingleFather(t *testing.T) {
	members := []tree.FamilyMember{
		m("P001", "حمد", "", 1),
		m("P002", "ابراهيم", "P001", 2),
	}

	result, err := Match(NameInput{FirstName: "محمد", FatherName: "ابراهيم"}, members, DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, 1, result.MatchCount)
	require.NotNil(t, result.BestMatch)
	best := result.BestMatch
	assert.Equal(t, "P002", best.FatherID)
	assert.Equal(t, 3, best.Generation)
	assert.Equal(t, "محمد بن ابراهيم بن حمد آل شايع", best.FullName.Arabic)
	assert.Equal(t, []string{"P001", "P002"}, best.Lineage)
	assert.Equal(t, "ابراهيم", best.Branch)
	assert.Equal(t, 100.0, best.Score)
	assert.Equal(t, MatchLevelExact, best.MatchLevel)
	assert.Equal(t, names.ConfidenceHigh, best.Confidence)
	assert.False(t, best.GrandfatherMatch.Evaluated)
	assert.Equal(t, "P001", best.GrandfatherMatch.MemberID)

	assert.True(t, result.HasMatches)
	assert.Equal(t, ActionConfirm, result.SuggestedAction)
	assert.Len(t, result.ExactMatches, 1)
	assert.NotEmpty(t, result.Message)
	assert.NotEmpty(t, result.MessageAr)
}

func TestMatch_NoMatch(t *testing.T) {
	members := []tree.FamilyMember{
		m("P001", "حمد", "", 1),
		m("P002", "ابراهيم", "P001", 2),
	}

	result, err := Match(NameInput{FirstName: "محمد", FatherName: "زيد"}, members, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, result.MatchCount)
	assert.False(t, result.HasMatches)
	assert.Nil(t, result.BestMatch)
	assert.Equal(t, ActionNoMatch, result.SuggestedAction)
	assert.NotNil(t, result.AllMatches)
	assert.Empty(t, result.AllMatches)
}

func TestMatch_EmptyPopulation(t *testing.T) {
	result, err := Match(NameInput{FirstName: "محمد", FatherName: "ابراهيم"}, nil, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, ActionNoMatch, result.SuggestedAction)
}

func TestMatch_AmbiguousFathersRequireSelection(t *testing.T) {
	members := []tree.FamilyMember{
		m("P001", "حمد", "", 1),
		m("P003", "ابراهيم", "P001", 2),
		m("P002", "ابراهيم", "P001", 2),
	}

	result, err := Match(NameInput{FirstName: "محمد", FatherName: "ابراهيم"}, members, DefaultConfig())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.MatchCount, 2)
	assert.Equal(t, ActionSelect, result.SuggestedAction)
	assert.False(t, result.RequiresVerification)
	assert.Equal(t, []string{"P002", "P003"}, fatherIDs(result.AllMatches), "equal candidates fall back to id order")
}

func TestMatch_TieBreakPrefersCorroboratedAncestors(t *testing.T) {
	members := []tree.FamilyMember{
		m("P000", "ابراهيم", "", 1),
		m("P001", "حمد", "", 1),
		m("P002", "ابراهيم", "P001", 2),
	}

	result, err := Match(NameInput{FirstName: "محمد", FatherName: "ابراهيم", GrandfatherName: "حمد"}, members, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, result.AllMatches, 2)
	first, second := result.AllMatches[0], result.AllMatches[1]
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, "P002", first.FatherID)
	assert.Equal(t, 1, first.CorroboratedLevels)
	assert.Equal(t, "P000", second.FatherID)
	assert.Equal(t, 0, second.CorroboratedLevels)
}

func TestMatch_RenormalizesOverEvaluatedLevels(t *testing.T) {
	tests := []struct {
		name     string
		members  []tree.FamilyMember
		expected []string
	}{
		{
			name: "perfect father has a grandfather in the tree",
			members: []tree.FamilyMember{
				m("P001", "حمد", "", 1),
				m("P002", "ابراهيم", "P001", 2),
				m("P003", "براهيم", "", 1),
			},
			expected: []string{"P002", "P003"},
		},
		{
			name: "imperfect father has a grandfather in the tree",
			members: []tree.FamilyMember{
				m("P001", "حمد", "", 1),
				m("P002", "براهيم", "P001", 2),
				m("P003", "ابراهيم", "", 1),
			},
			expected: []string{"P003", "P002"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Match(NameInput{FirstName: "محمد", FatherName: "ابراهيم"}, tt.members, DefaultConfig())
			require.NoError(t, err)

			require.Equal(t, tt.expected, fatherIDs(result.AllMatches))
			assert.Equal(t, 100.0, result.AllMatches[0].Score)
			assert.Equal(t, names.VariationSimilarity, result.AllMatches[1].Score)
			for _, c := range result.AllMatches {
				assert.False(t, c.GrandfatherMatch.Evaluated)
				assert.False(t, c.GreatGrandfatherMatch.Evaluated)
			}
		})
	}
}

func TestMatch_GrandfatherMismatchLowersScore(t *testing.T) {
	members := []tree.FamilyMember{
		m("P001", "حمد", "", 1),
		m("P002", "ابراهيم", "P001", 2),
	}
	input := NameInput{FirstName: "محمد", FatherName: "ابراهيم", GrandfatherName: "زيد"}

	result, err := Match(input, members, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 1, result.MatchCount)

	c := result.AllMatches[0]
	assert.True(t, c.GrandfatherMatch.Evaluated)
	assert.False(t, c.GrandfatherMatch.IsMatch)
	assert.Equal(t, 68.9, c.Score)
	assert.Equal(t, MatchLevelMedium, c.MatchLevel)
	assert.Equal(t, names.ConfidenceMedium, c.Confidence)
	assert.Equal(t, ActionSelect, result.SuggestedAction)

	strict := DefaultConfig()
	strict.MinimumTotalScore = 70
	result, err = Match(input, members, strict)
	require.NoError(t, err)
	assert.Equal(t, ActionNoMatch, result.SuggestedAction)
}

func TestMatch_FullChainCorroboration(t *testing.T) {
	members := []tree.FamilyMember{
		m("P001", "عبدالله", "", 1),
		m("P002", "حمد", "P001", 2),
		m("P003", "ابراهيم", "P002", 3),
	}
	input := NameInput{FirstName: "محمد", FatherName: "براهيم", GrandfatherName: "حمد", GreatGrandfatherName: "عبد الله"}

	result, err := Match(input, members, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 1, result.MatchCount)

	c := result.AllMatches[0]
	assert.Equal(t, names.MatchTypeVariation, c.FatherMatch.MatchType)
	assert.True(t, c.GrandfatherMatch.Corroborated())
	assert.True(t, c.GreatGrandfatherMatch.Corroborated())
	assert.Equal(t, 2, c.CorroboratedLevels)
	// (40*85 + 35*100 + 25*85) / 100 = 90.25, rounded to one decimal
	assert.Equal(t, 90.3, c.Score)
	assert.Equal(t, names.ConfidenceHigh, c.Confidence)
	assert.Equal(t, MatchLevelHigh, c.MatchLevel)
	assert.Equal(t, ActionConfirm, result.SuggestedAction)
	assert.Equal(t, 4, c.Generation)
	assert.Equal(t, "حمد", c.Branch)
}

func TestMatch_LowConfidenceCandidates(t *testing.T) {
	members := []tree.FamilyMember{
		m("P001", "حمد", "", 1),
		m("P002", "سعيد", "P001", 2),
	}
	input := NameInput{FirstName: "محمد", FatherName: "سعود", GrandfatherName: "زيد"}

	result, err := Match(input, members, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 1, result.MatchCount)

	c := result.AllMatches[0]
	assert.Equal(t, names.MatchTypeFuzzy, c.FatherMatch.MatchType)
	assert.Equal(t, 55.5, c.Score)
	assert.Equal(t, names.ConfidenceLow, c.Confidence)
	assert.Len(t, result.LowMatches, 1)
	assert.Equal(t, ActionSelect, result.SuggestedAction)
	assert.True(t, result.RequiresVerification)

	cfg := DefaultConfig()
	cfg.IncludeLowConfidence = false
	result, err = Match(input, members, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, result.MatchCount)
	assert.Equal(t, ActionNoMatch, result.SuggestedAction)
}

func TestMatch_SkipsFemaleFathers(t *testing.T) {
	daughter := m("P002", "ابراهيم", "P001", 2)
	daughter.Gender = tree.GenderFemale
	members := []tree.FamilyMember{m("P001", "حمد", "", 1), daughter}

	result, err := Match(NameInput{FirstName: "محمد", FatherName: "ابراهيم"}, members, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, result.MatchCount)
}

func TestMatch_CyclicCandidateIsSkipped(t *testing.T) {
	members := []tree.FamilyMember{
		m("A", "ابراهيم", "C", 2),
		m("C", "حمد", "A", 1),
		m("B", "ابراهيم", "", 1),
	}

	result, err := Match(NameInput{FirstName: "محمد", FatherName: "ابراهيم"}, members, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"B"}, fatherIDs(result.AllMatches))
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "A", result.Skipped[0].FatherID)
	assert.Contains(t, result.Skipped[0].Reason, "cyclic")
}

func TestMatch_DanglingGrandfatherIsNotEvaluated(t *testing.T) {
	members := []tree.FamilyMember{m("P005", "ابراهيم", "GHOST", 2)}

	result, err := Match(NameInput{FirstName: "محمد", FatherName: "ابراهيم", GrandfatherName: "حمد"}, members, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 1, result.MatchCount)

	c := result.AllMatches[0]
	assert.False(t, c.GrandfatherMatch.Evaluated)
	assert.Equal(t, 100.0, c.Score)
	assert.Equal(t, []string{"P005"}, c.Lineage)
	assert.Equal(t, 3, c.Generation)
}

func TestMatch_FamilyContext(t *testing.T) {
	members := []tree.FamilyMember{
		m("P001", "حمد", "", 1),
		m("P002", "ابراهيم", "P001", 2),
		m("P003", "عبدالله", "P001", 2),
		m("P004", "صالح", "P002", 3),
		m("P005", "فهد", "P003", 3),
	}

	result, err := Match(NameInput{FirstName: "محمد", FatherName: "ابراهيم"}, members, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, result.BestMatch)

	fc := result.BestMatch.FamilyContext
	require.Len(t, fc.Siblings, 1)
	assert.Equal(t, "P004", fc.Siblings[0].ID)
	require.Len(t, fc.AuntsUncles, 1)
	assert.Equal(t, "P003", fc.AuntsUncles[0].ID)
	require.Len(t, fc.Cousins, 1)
	assert.Equal(t, "P005", fc.Cousins[0].ID)
}

func TestMatch_BranchFromStoredLabelAndRootChild(t *testing.T) {
	labelled := m("P002", "ابراهيم", "P001", 2)
	labelled.Branch = "الابراهيم"
	members := []tree.FamilyMember{m("P001", "حمد", "", 1), labelled}

	result, err := Match(NameInput{FirstName: "محمد", FatherName: "ابراهيم"}, members, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "الابراهيم", result.BestMatch.Branch)

	result, err = Match(NameInput{FirstName: "ناصر", FatherName: "حمد"}, members, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, result.BestMatch)
	assert.Equal(t, 2, result.BestMatch.Generation)
	assert.Equal(t, "ناصر", result.BestMatch.Branch)
	assert.Equal(t, "ناصر بن حمد آل شايع", result.BestMatch.FullName.Arabic)
}

func TestMatch_FemaleChildFullName(t *testing.T) {
	members := []tree.FamilyMember{
		m("P001", "حمد", "", 1),
		m("P002", "ابراهيم", "P001", 2),
	}

	result, err := Match(NameInput{FirstName: "نوره", FatherName: "ابراهيم", Gender: tree.GenderFemale, FirstNameEn: "Noura"}, members, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "نوره بنت ابراهيم بن حمد آل شايع", result.BestMatch.FullName.Arabic)
	assert.Equal(t, "Noura bint ابراهيم bin حمد Al-Shaya", result.BestMatch.FullName.English)
}

func TestMatch_IsIdempotent(t *testing.T) {
	members := []tree.FamilyMember{
		m("P001", "حمد", "", 1),
		m("P002", "ابراهيم", "P001", 2),
		m("P003", "براهيم", "P001", 2),
		m("P004", "ابراهيم", "", 1),
	}
	input := NameInput{FirstName: "محمد", FatherName: "ابراهيم", GrandfatherName: "حمد"}

	first, err := Match(input, members, DefaultConfig())
	require.NoError(t, err)
	second, err := Match(input, members, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMatch_InputValidation(t *testing.T) {
	tests := []struct {
		name  string
		input NameInput
		field string
	}{
		{"missing first name", NameInput{FatherName: "ابراهيم"}, "firstName"},
		{"blank father name", NameInput{FirstName: "محمد", FatherName: "  "}, "fatherName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Match(tt.input, nil, DefaultConfig())
			require.Error(t, err)

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, apperrors.ErrCodeMissingRequiredField, stdErr.Code)
			assert.Equal(t, tt.field, stdErr.Metadata["field"])
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero father weight", func(c *Config) { c.FatherWeight = 0 }, false},
		{"negative grandfather weight", func(c *Config) { c.GrandfatherWeight = -1 }, false},
		{"minimum total above 100", func(c *Config) { c.MinimumTotalScore = 101 }, false},
		{"negative minimum father", func(c *Config) { c.MinimumFatherScore = -5 }, false},
		{"thresholds at bounds", func(c *Config) { c.MinimumTotalScore = 0; c.MinimumFatherScore = 100 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, apperrors.ErrCodeInvalidConfiguration, stdErr.Code)
		})
	}
}

func TestMatch_InvalidConfigurationFailsBeforeMatching(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GreatGrandfatherWeight = 0

	_, err := Match(NameInput{}, nil, cfg)
	var stdErr *apperrors.StandardError
	require.True(t, errors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeInvalidConfiguration, stdErr.Code)
}

func TestConfig_Apply(t *testing.T) {
	weight := 50.0
	include := false
	cfg := DefaultConfig().Apply(&Override{FatherWeight: &weight, IncludeLowConfidence: &include})

	assert.Equal(t, 50.0, cfg.FatherWeight)
	assert.False(t, cfg.IncludeLowConfidence)
	assert.Equal(t, 35.0, cfg.GrandfatherWeight)
	assert.Equal(t, DefaultConfig(), DefaultConfig().Apply(nil))
}
