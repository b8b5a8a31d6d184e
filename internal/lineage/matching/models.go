package matching

import (
	"strings"

	"lineage-workers/internal/common/errors"
	"lineage-workers/internal/lineage/fullname"
	"lineage-workers/internal/lineage/names"
	"lineage-workers/internal/lineage/tree"
)

// NameInput describes the person being placed. Only FirstName and
// FatherName are required.
type NameInput struct {
	FirstName            string      `json:"firstName"`
	FatherName           string      `json:"fatherName"`
	GrandfatherName      string      `json:"grandfatherName,omitempty"`
	GreatGrandfatherName string      `json:"greatGrandfatherName,omitempty"`
	Gender               tree.Gender `json:"gender,omitempty"`
	FirstNameEn          string      `json:"firstNameEn,omitempty"`
}

func (in NameInput) Validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return errors.NewMissingRequiredFieldError("firstName")
	}
	if strings.TrimSpace(in.FatherName) == "" {
		return errors.NewMissingRequiredFieldError("fatherName")
	}
	return nil
}

func (in NameInput) person() fullname.Person {
	gender := in.Gender
	if gender == "" {
		gender = tree.GenderMale
	}
	return fullname.Person{FirstName: strings.TrimSpace(in.FirstName), FirstNameEn: in.FirstNameEn, Gender: gender}
}

// LevelMatch is the comparison at one ancestor level. Evaluated is false
// when the caller left the name out or the ancestor is not in the tree.
type LevelMatch struct {
	Evaluated bool   `json:"evaluated"`
	MemberID  string `json:"memberId,omitempty"`
	Name      string `json:"name,omitempty"`
	InputName string `json:"inputName,omitempty"`
	names.Similarity
}

// Corroborated reports an evaluated level that counts as a name match.
func (l LevelMatch) Corroborated() bool {
	return l.Evaluated && l.IsMatch
}

type MatchLevel string

const (
	MatchLevelExact  MatchLevel = "exact"
	MatchLevelHigh   MatchLevel = "high"
	MatchLevelMedium MatchLevel = "medium"
	MatchLevelLow    MatchLevel = "low"
)

func levelForScore(score float64) MatchLevel {
	switch {
	case score >= 95:
		return MatchLevelExact
	case score >= 80:
		return MatchLevelHigh
	case score >= 60:
		return MatchLevelMedium
	default:
		return MatchLevelLow
	}
}

type SuggestedAction string

const (
	ActionConfirm SuggestedAction = "confirm"
	ActionSelect  SuggestedAction = "select"
	ActionManual  SuggestedAction = "manual"
	ActionNoMatch SuggestedAction = "no_match"
)

// Relative is a compact view of a member used in family context.
type Relative struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	Generation int    `json:"generation"`
}

func relativesOf(ms []tree.FamilyMember) []Relative {
	out := make([]Relative, 0, len(ms))
	for _, m := range ms {
		out = append(out, Relative{ID: m.ID, FirstName: m.FirstName, Generation: m.Generation})
	}
	return out
}

// FamilyContext lists relatives the new member would have under a
// candidate father.
type FamilyContext struct {
	Siblings    []Relative `json:"siblings"`
	AuntsUncles []Relative `json:"auntsUncles"`
	Cousins     []Relative `json:"cousins"`
}

// Placement is what a new member inherits from a chosen father.
type Placement struct {
	Lineage    []string       `json:"lineage"`
	Generation int            `json:"generation"`
	Branch     string         `json:"branch,omitempty"`
	FullName   fullname.Names `json:"fullName"`
}

// MatchCandidate is one hypothesis for the new member's father.
type MatchCandidate struct {
	FatherID              string            `json:"fatherId"`
	Father                tree.FamilyMember `json:"father"`
	FatherMatch           LevelMatch        `json:"fatherMatch"`
	GrandfatherMatch      LevelMatch        `json:"grandfatherMatch"`
	GreatGrandfatherMatch LevelMatch        `json:"greatGrandfatherMatch"`
	Score                 float64           `json:"score"`
	MatchLevel            MatchLevel        `json:"matchLevel"`
	Confidence            names.Confidence  `json:"confidence"`
	CorroboratedLevels    int               `json:"corroboratedLevels"`
	FamilyContext         FamilyContext     `json:"familyContext"`
	Placement
}

// SkippedCandidate records a father that matched by name but whose lineage
// could not be resolved.
type SkippedCandidate struct {
	FatherID string `json:"fatherId"`
	Reason   string `json:"reason"`
}

type MatchResult struct {
	RequestID            string             `json:"requestId,omitempty"`
	ExactMatches         []MatchCandidate   `json:"exactMatches"`
	HighMatches          []MatchCandidate   `json:"highMatches"`
	MediumMatches        []MatchCandidate   `json:"mediumMatches"`
	LowMatches           []MatchCandidate   `json:"lowMatches"`
	AllMatches           []MatchCandidate   `json:"allMatches"`
	HasMatches           bool               `json:"hasMatches"`
	MatchCount           int                `json:"matchCount"`
	BestMatch            *MatchCandidate    `json:"bestMatch"`
	SuggestedAction      SuggestedAction    `json:"suggestedAction"`
	RequiresVerification bool               `json:"requiresVerification"`
	Message              string             `json:"message"`
	MessageAr            string             `json:"messageAr"`
	Skipped              []SkippedCandidate `json:"skipped,omitempty"`
}
