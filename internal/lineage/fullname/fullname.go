// Package fullname renders patronymic display names from a resolved lineage.
package fullname

import (
	"strings"

	"lineage-workers/internal/lineage/tree"
)

const (
	DefaultFamilyName   = "آل شايع"
	DefaultFamilyNameEn = "Al-Shaya"
)

var (
	arabicConnectors = map[tree.Gender]string{tree.GenderMale: "بن", tree.GenderFemale: "بنت"}
	latinConnectors  = map[tree.Gender]string{tree.GenderMale: "bin", tree.GenderFemale: "bint"}
)

// Person is the member whose name is being rendered.
type Person struct {
	FirstName   string
	FirstNameEn string
	Gender      tree.Gender
}

// Names holds both renderings of one full name.
type Names struct {
	Arabic  string `json:"fullNameAr"`
	English string `json:"fullNameEn"`
}

type Generator struct {
	familyName   string
	familyNameEn string
}

// NewGenerator falls back to the default family names when either is empty.
func NewGenerator(familyName, familyNameEn string) *Generator {
	if strings.TrimSpace(familyName) == "" {
		familyName = DefaultFamilyName
	}
	if strings.TrimSpace(familyNameEn) == "" {
		familyNameEn = DefaultFamilyNameEn
	}
	return &Generator{familyName: familyName, familyNameEn: familyNameEn}
}

// Generate builds both names. lineage is ordered root first, as returned by
// tree.Population.AncestorChain; the rendered chain starts at the father.
func (g *Generator) Generate(p Person, lineage []tree.FamilyMember) Names {
	return Names{
		Arabic:  g.Arabic(p, lineage),
		English: g.English(p, lineage),
	}
}

// Arabic renders "first بن father بن grandfather ... family". Each
// connector agrees with the gender of the child in that link.
func (g *Generator) Arabic(p Person, lineage []tree.FamilyMember) string {
	return render(p.FirstName, p.Gender, lineage, g.familyName, arabicConnectors, func(m tree.FamilyMember) string {
		return m.FirstName
	})
}

// English uses the first token of each ancestor's stored Latin name, or the
// Arabic first name when none is stored.
func (g *Generator) English(p Person, lineage []tree.FamilyMember) string {
	first := strings.TrimSpace(p.FirstNameEn)
	if first == "" {
		first = p.FirstName
	}
	return render(first, p.Gender, lineage, g.familyNameEn, latinConnectors, latinToken)
}

func latinToken(m tree.FamilyMember) string {
	if fields := strings.Fields(m.FullNameEn); len(fields) > 0 {
		return fields[0]
	}
	return m.FirstName
}

func render(first string, gender tree.Gender, lineage []tree.FamilyMember, family string,
	connectors map[tree.Gender]string, token func(tree.FamilyMember) string) string {

	parts := []string{strings.TrimSpace(first)}
	child := gender
	for i := len(lineage) - 1; i >= 0; i-- {
		parts = append(parts, connector(connectors, child), token(lineage[i]))
		child = lineage[i].Gender
	}
	if family != "" {
		parts = append(parts, family)
	}
	return strings.Join(parts, " ")
}

func connector(connectors map[tree.Gender]string, g tree.Gender) string {
	if c, ok := connectors[g]; ok {
		return c
	}
	return connectors[tree.GenderMale]
}
