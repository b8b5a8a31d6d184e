package tree

import (
	"errors"
	"fmt"
)

var ErrMemberNotFound = errors.New("member not found")

// CyclicLineageError is returned when walking the parent chain of MemberID
// reaches RepeatedID a second time.
type CyclicLineageError struct {
	MemberID   string
	RepeatedID string
}

func (e *CyclicLineageError) Error() string {
	return fmt.Sprintf("cyclic lineage: walking up from %s revisits %s", e.MemberID, e.RepeatedID)
}

// LineagePath returns ancestor ids ordered from the root down to the
// member's father. The member itself is not included and a root yields an
// empty path. A parent reference to an unknown id ends the walk there.
func (p *Population) LineagePath(id string) ([]string, error) {
	chain, err := p.AncestorChain(id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(chain))
	for i, m := range chain {
		ids[i] = m.ID
	}
	return ids, nil
}

// AncestorChain is LineagePath with the members resolved.
func (p *Population) AncestorChain(id string) ([]FamilyMember, error) {
	m, ok := p.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}

	visited := map[string]bool{id: true}
	chain := []FamilyMember{}
	for cur := m.FatherID; cur != ""; {
		if visited[cur] {
			return nil, &CyclicLineageError{MemberID: id, RepeatedID: cur}
		}
		visited[cur] = true

		parent, ok := p.Get(cur)
		if !ok {
			break
		}
		chain = append(chain, parent)
		cur = parent.FatherID
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// AncestorAtGeneration finds the founder at the given generation for a
// member. Members above that generation have none, a member at exactly that
// generation is its own founder, and deeper members are resolved by scanning
// the lineage from the root. Unknown members and malformed chains report
// false.
func (p *Population) AncestorAtGeneration(id string, generation int) (FamilyMember, bool) {
	m, ok := p.Get(id)
	if !ok || m.Generation < generation {
		return FamilyMember{}, false
	}
	if m.Generation == generation {
		return m, true
	}

	chain, err := p.AncestorChain(id)
	if err != nil {
		return FamilyMember{}, false
	}
	for _, a := range chain {
		if a.Generation == generation {
			return a, true
		}
	}
	return FamilyMember{}, false
}

func (p *Population) Gen2Ancestor(id string) (FamilyMember, bool) {
	return p.AncestorAtGeneration(id, BranchGeneration)
}

func (p *Population) Gen3Ancestor(id string) (FamilyMember, bool) {
	return p.AncestorAtGeneration(id, SubBranchGeneration)
}
