// Package matching places a described person under candidate fathers in a
// member snapshot and ranks the candidates. Match and its helpers are pure
// functions of their arguments; Service wraps them with request ids and
// logging for the job workers.
package matching

import (
	"math"

	"lineage-workers/internal/lineage/fullname"
	"lineage-workers/internal/lineage/names"
	"lineage-workers/internal/lineage/tree"
)

// Match scores every plausible father in members against input.
func Match(input NameInput, members []tree.FamilyMember, cfg Config) (*MatchResult, error) {
	return MatchPopulation(input, tree.NewPopulation(members), cfg)
}

// MatchPopulation is Match over an already indexed population.
func MatchPopulation(input NameInput, pop *tree.Population, cfg Config) (*MatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	gen := fullname.NewGenerator(cfg.FamilyName, cfg.FamilyNameEn)
	person := input.person()

	var (
		candidates []MatchCandidate
		skipped    []SkippedCandidate
	)
	for _, father := range candidateFathers(input.FatherName, pop, cfg) {
		c := scoreCandidate(input, father.member, father.similarity, pop, cfg)
		if c == nil {
			continue
		}

		placement, err := Place(pop, father.member, person, gen)
		if err != nil {
			skipped = append(skipped, SkippedCandidate{FatherID: father.member.ID, Reason: err.Error()})
			continue
		}
		c.Placement = placement
		c.FamilyContext = familyContext(pop, father.member)
		candidates = append(candidates, *c)
	}

	result := rank(candidates)
	result.Skipped = skipped
	return result, nil
}

type fatherCandidate struct {
	member     tree.FamilyMember
	similarity names.Similarity
}

// candidateFathers keeps members whose first name clears the father
// threshold or is a non-low-confidence name match. Explicitly female
// members are never fathers.
func candidateFathers(fatherName string, pop *tree.Population, cfg Config) []fatherCandidate {
	var out []fatherCandidate
	for _, m := range pop.Members() {
		if m.IsFemale() {
			continue
		}
		sim := names.Compare(m.FirstName, fatherName)
		if sim.Score >= cfg.MinimumFatherScore || (sim.IsMatch && sim.Confidence != names.ConfidenceLow) {
			out = append(out, fatherCandidate{member: m, similarity: sim})
		}
	}
	return out
}

// scoreCandidate returns nil when the candidate falls below the minimum
// total score or is low confidence while low confidence is excluded.
func scoreCandidate(input NameInput, father tree.FamilyMember, fatherSim names.Similarity, pop *tree.Population, cfg Config) *MatchCandidate {
	c := &MatchCandidate{
		FatherID: father.ID,
		Father:   father,
		FatherMatch: LevelMatch{
			Evaluated:  true,
			MemberID:   father.ID,
			Name:       father.FirstName,
			InputName:  input.FatherName,
			Similarity: fatherSim,
		},
	}

	grandfather, hasGrandfather := pop.Father(father.ID)
	if hasGrandfather {
		c.GrandfatherMatch = compareLevel(grandfather, input.GrandfatherName)
		if greatGrandfather, ok := pop.Father(grandfather.ID); ok {
			c.GreatGrandfatherMatch = compareLevel(greatGrandfather, input.GreatGrandfatherName)
		}
	}

	c.Score = compositeScore(c, cfg)
	if c.Score < cfg.MinimumTotalScore {
		return nil
	}

	for _, l := range []LevelMatch{c.GrandfatherMatch, c.GreatGrandfatherMatch} {
		if l.Corroborated() {
			c.CorroboratedLevels++
		}
	}

	c.MatchLevel = levelForScore(c.Score)
	c.Confidence = classifyConfidence(confidenceFacts{
		fatherType:              fatherSim.MatchType,
		grandfatherMatched:      c.GrandfatherMatch.Corroborated(),
		greatGrandfatherMatched: c.GreatGrandfatherMatch.Corroborated(),
		score:                   c.Score,
	})
	if c.Confidence == names.ConfidenceLow && !cfg.IncludeLowConfidence {
		return nil
	}
	return c
}

// compareLevel evaluates an ancestor only when the caller supplied a name
// for that level.
func compareLevel(ancestor tree.FamilyMember, entered string) LevelMatch {
	l := LevelMatch{MemberID: ancestor.ID, Name: ancestor.FirstName}
	if names.Normalize(entered) == "" {
		return l
	}
	l.Evaluated = true
	l.InputName = entered
	l.Similarity = names.Compare(ancestor.FirstName, entered)
	return l
}

// compositeScore is the weighted mean over evaluated levels only, so a
// candidate scored on the father alone is not diluted by absent levels.
func compositeScore(c *MatchCandidate, cfg Config) float64 {
	weighted := cfg.FatherWeight * c.FatherMatch.Score
	total := cfg.FatherWeight
	if c.GrandfatherMatch.Evaluated {
		weighted += cfg.GrandfatherWeight * c.GrandfatherMatch.Score
		total += cfg.GrandfatherWeight
	}
	if c.GreatGrandfatherMatch.Evaluated {
		weighted += cfg.GreatGrandfatherWeight * c.GreatGrandfatherMatch.Score
		total += cfg.GreatGrandfatherWeight
	}
	return math.Round(weighted/total*10) / 10
}

// Place derives what a new child of father inherits: the lineage from the
// root down to father, the child's generation, its branch and full names.
func Place(pop *tree.Population, father tree.FamilyMember, child fullname.Person, gen *fullname.Generator) (Placement, error) {
	chain, err := pop.AncestorChain(father.ID)
	if err != nil {
		return Placement{}, err
	}
	chain = append(chain, father)

	lineage := make([]string, len(chain))
	for i, m := range chain {
		lineage[i] = m.ID
	}

	return Placement{
		Lineage:    lineage,
		Generation: father.Generation + 1,
		Branch:     inheritedBranch(pop, father, child),
		FullName:   gen.Generate(child, chain),
	}, nil
}

// inheritedBranch prefers the father's stored label, then the father's
// generation-2 founder. A child of a root founds its own branch.
func inheritedBranch(pop *tree.Population, father tree.FamilyMember, child fullname.Person) string {
	if father.Branch != "" {
		return father.Branch
	}
	if founder, ok := pop.Gen2Ancestor(father.ID); ok {
		return founder.FirstName
	}
	if father.Generation+1 == tree.BranchGeneration {
		return child.FirstName
	}
	return ""
}

func familyContext(pop *tree.Population, father tree.FamilyMember) FamilyContext {
	ctx := FamilyContext{
		Siblings:    relativesOf(pop.Children(father.ID)),
		AuntsUncles: []Relative{},
		Cousins:     []Relative{},
	}
	for _, uncle := range pop.Siblings(father.ID) {
		ctx.AuntsUncles = append(ctx.AuntsUncles, Relative{ID: uncle.ID, FirstName: uncle.FirstName, Generation: uncle.Generation})
		ctx.Cousins = append(ctx.Cousins, relativesOf(pop.Children(uncle.ID))...)
	}
	return ctx
}
