package matchancestorchain

import (
	"lineage-workers/internal/lineage/matching"
	"lineage-workers/internal/lineage/tree"
)

// Input carries the names entered for the new member. Members is optional;
// when absent the population is read from the database for this job.
type Input struct {
	NameInput matching.NameInput  `json:"nameInput"`
	Members   []tree.FamilyMember `json:"members,omitempty"`
	Config    *matching.Override  `json:"config,omitempty"`
}

type Output struct {
	matching.MatchResult
}
