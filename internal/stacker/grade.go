package stacker

import "strings"

// DefaultGradeAliases returns the grade substitution table used on the BAF
// line when no other table is configured. Grades on the left are stacked
// together with the grade on the right.
func DefaultGradeAliases() map[string]string {
	return map[string]string{
		"DR-08":  "T-57",
		"TS-480": "T-57",
		"DR-75":  "T-57",
	}
}

// Normalizer maps raw grade labels to the key coils are grouped by.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer builds a Normalizer from a grade -> group table. The table is
// copied, so later changes by the caller have no effect.
func NewNormalizer(aliases map[string]string) Normalizer {
	table := make(map[string]string, len(aliases))
	for grade, group := range aliases {
		table[strings.TrimSpace(grade)] = strings.TrimSpace(group)
	}
	return Normalizer{aliases: table}
}

// DefaultNormalizer returns a Normalizer using DefaultGradeAliases.
func DefaultNormalizer() Normalizer {
	return NewNormalizer(DefaultGradeAliases())
}

// Normalize returns the grouping key for grade. Grades without an alias map
// to themselves.
func (n Normalizer) Normalize(grade string) string {
	trimmed := strings.TrimSpace(grade)
	if group, ok := n.aliases[trimmed]; ok {
		return group
	}
	return trimmed
}

// Aliases returns a copy of the substitution table.
func (n Normalizer) Aliases() map[string]string {
	out := make(map[string]string, len(n.aliases))
	for grade, group := range n.aliases {
		out[grade] = group
	}
	return out
}
