package branchoverview

import "lineage-workers/internal/lineage/tree"

type Input struct {
	Members []tree.FamilyMember `json:"members,omitempty"`
}

// BranchSummary describes one branch founder. Generation-3 branches carry
// the color of the generation-2 branch they belong to.
type BranchSummary struct {
	FounderID     string `json:"founderId"`
	FounderName   string `json:"founderName"`
	FounderNameEn string `json:"founderNameEn,omitempty"`
	ParentBranch  string `json:"parentBranch,omitempty"`
	Color         string `json:"color"`
	Total         int    `json:"total"`
	Living        int    `json:"living"`
}

type Output struct {
	TotalMembers  int             `json:"totalMembers"`
	LivingMembers int             `json:"livingMembers"`
	Branches      []BranchSummary `json:"branches"`
	SubBranches   []BranchSummary `json:"subBranches"`
}
