package tree

// Population is an immutable index over one member snapshot.
type Population struct {
	members  []FamilyMember
	byID     map[string]int
	children map[string][]int
}

// NewPopulation copies members and indexes them by id and by father.
// When an id repeats, the first occurrence wins.
func NewPopulation(members []FamilyMember) *Population {
	p := &Population{
		members:  make([]FamilyMember, 0, len(members)),
		byID:     make(map[string]int, len(members)),
		children: make(map[string][]int),
	}
	for _, m := range members {
		if _, dup := p.byID[m.ID]; dup {
			continue
		}
		p.byID[m.ID] = len(p.members)
		p.members = append(p.members, m)
	}
	for i, m := range p.members {
		if m.FatherID != "" {
			p.children[m.FatherID] = append(p.children[m.FatherID], i)
		}
	}
	return p
}

func (p *Population) Len() int {
	return len(p.members)
}

// Members returns the indexed members in the order they were supplied.
func (p *Population) Members() []FamilyMember {
	out := make([]FamilyMember, len(p.members))
	copy(out, p.members)
	return out
}

func (p *Population) Get(id string) (FamilyMember, bool) {
	i, ok := p.byID[id]
	if !ok {
		return FamilyMember{}, false
	}
	return p.members[i], true
}

// Father resolves one hop up. A root or a dangling parent reference both
// report false.
func (p *Population) Father(id string) (FamilyMember, bool) {
	m, ok := p.Get(id)
	if !ok || m.IsRoot() {
		return FamilyMember{}, false
	}
	return p.Get(m.FatherID)
}

func (p *Population) Children(id string) []FamilyMember {
	idx := p.children[id]
	if len(idx) == 0 {
		return nil
	}
	out := make([]FamilyMember, 0, len(idx))
	for _, i := range idx {
		out = append(out, p.members[i])
	}
	return out
}

// Siblings returns the other children of the member's father.
func (p *Population) Siblings(id string) []FamilyMember {
	m, ok := p.Get(id)
	if !ok || m.IsRoot() {
		return nil
	}
	var out []FamilyMember
	for _, c := range p.Children(m.FatherID) {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
