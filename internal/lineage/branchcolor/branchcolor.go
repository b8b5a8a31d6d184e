// Package branchcolor maps generation-2 founders to display colors.
package branchcolor

import "lineage-workers/internal/lineage/tree"

// FallbackColor is used for ids that are not in the founder list.
const FallbackColor = "#9E9E9E"

var DefaultPalette = []string{
	"#2E7D32", "#1565C0", "#C62828", "#6A1B9A", "#EF6C00",
	"#00838F", "#AD1457", "#4E342E", "#283593", "#9E9D24",
}

type Assigner struct {
	palette []string
}

// New copies palette; an empty palette selects DefaultPalette.
func New(palette []string) *Assigner {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	p := make([]string, len(palette))
	copy(p, palette)
	return &Assigner{palette: p}
}

// ColorAt wraps around the palette.
func (a *Assigner) ColorAt(index int) string {
	if index < 0 {
		return FallbackColor
	}
	return a.palette[index%len(a.palette)]
}

// Assign returns the color for founderID by its position in founders.
func (a *Assigner) Assign(founderID string, founders []tree.FamilyMember) string {
	for i, f := range founders {
		if f.ID == founderID {
			return a.ColorAt(i)
		}
	}
	return FallbackColor
}

func (a *Assigner) AssignAll(founders []tree.FamilyMember) map[string]string {
	out := make(map[string]string, len(founders))
	for i, f := range founders {
		if _, seen := out[f.ID]; !seen {
			out[f.ID] = a.ColorAt(i)
		}
	}
	return out
}
