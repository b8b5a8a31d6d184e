package generatefullname

import (
	"lineage-workers/internal/lineage/fullname"
	"lineage-workers/internal/lineage/tree"
)

type Input struct {
	FirstName   string              `json:"firstName"`
	FirstNameEn string              `json:"firstNameEn,omitempty"`
	Gender      tree.Gender         `json:"gender,omitempty"`
	FatherID    string              `json:"fatherId"`
	Members     []tree.FamilyMember `json:"members,omitempty"`
}

type Output struct {
	fullname.Names
	FatherID   string   `json:"fatherId"`
	Lineage    []string `json:"lineage"`
	Generation int      `json:"generation"`
	Branch     string   `json:"branch,omitempty"`
}
