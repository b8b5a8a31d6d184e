// Package tree indexes a snapshot of family members and answers lineage
// questions about it: parent chains, named-branch founders and branch
// membership. A Population is built per request and never mutated.
package tree

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Status string

const (
	StatusLiving   Status = "Living"
	StatusDeceased Status = "Deceased"
)

// Generation numbers of the named-branch and named-sub-branch founders.
const (
	BranchGeneration    = 2
	SubBranchGeneration = 3
)

// FamilyMember is a read-only record supplied by the persistence layer.
// An empty FatherID marks a root of the forest.
type FamilyMember struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	FullNameEn string `json:"fullNameEn,omitempty"`
	Gender     Gender `json:"gender"`
	FatherID   string `json:"fatherId,omitempty"`
	Generation int    `json:"generation"`
	Branch     string `json:"branch,omitempty"`
	Status     Status `json:"status,omitempty"`
}

func (m FamilyMember) IsRoot() bool {
	return m.FatherID == ""
}

// IsLiving treats a missing status as living.
func (m FamilyMember) IsLiving() bool {
	return m.Status != StatusDeceased
}

// IsFemale reports an explicit female gender; unknown gender is not female.
func (m FamilyMember) IsFemale() bool {
	return m.Gender == GenderFemale
}
