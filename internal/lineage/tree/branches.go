package tree

// BranchStat summarizes one founder's branch.
type BranchStat struct {
	Founder FamilyMember `json:"founder"`
	Total   int          `json:"total"`
	Living  int          `json:"living"`
}

// FoundersAt lists members at the given generation in population order.
func (p *Population) FoundersAt(generation int) []FamilyMember {
	var out []FamilyMember
	for _, m := range p.members {
		if m.Generation == generation {
			out = append(out, m)
		}
	}
	return out
}

func (p *Population) Gen2Founders() []FamilyMember {
	return p.FoundersAt(BranchGeneration)
}

func (p *Population) Gen3Founders() []FamilyMember {
	return p.FoundersAt(SubBranchGeneration)
}

// BranchMembers returns the founder and every member whose ancestor at the
// founder's generation resolves to it, in population order.
func (p *Population) BranchMembers(founderID string) []FamilyMember {
	founder, ok := p.Get(founderID)
	if !ok {
		return nil
	}
	var out []FamilyMember
	for _, m := range p.members {
		a, ok := p.AncestorAtGeneration(m.ID, founder.Generation)
		if ok && a.ID == founderID {
			out = append(out, m)
		}
	}
	return out
}

// BranchStats counts members and living members for every founder at the
// given generation.
func (p *Population) BranchStats(generation int) []BranchStat {
	founders := p.FoundersAt(generation)
	stats := make([]BranchStat, 0, len(founders))
	for _, f := range founders {
		stat := BranchStat{Founder: f}
		for _, m := range p.BranchMembers(f.ID) {
			stat.Total++
			if m.IsLiving() {
				stat.Living++
			}
		}
		stats = append(stats, stat)
	}
	return stats
}
