package stacker

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Packer builds stacks from a coil pool. It only holds configuration, so a
// single Packer may be shared by concurrent callers.
type Packer struct {
	logger     *zap.Logger
	limits     Limits
	normalizer Normalizer
}

// NewPacker constructs a Packer after checking the limits.
func NewPacker(logger *zap.Logger, limits Limits, normalizer Normalizer) (*Packer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if normalizer.aliases == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Packer{logger: logger, limits: limits, normalizer: normalizer}, nil
}

// Limits returns the limits the Packer enforces.
func (p *Packer) Limits() Limits {
	return p.limits
}

// Normalizer returns the grade normalizer used for grouping.
func (p *Packer) Normalizer() Normalizer {
	return p.normalizer
}

type group struct {
	grade string
	coils []Coil
}

// Pack partitions coils into stacks and a waiting list. The input slice is
// not modified. A given input always yields the same Result.
func (p *Packer) Pack(coils []Coil) (Result, error) {
	if err := validateCoils(coils); err != nil {
		return Result{}, err
	}

	groups := p.groupByGrade(coils)

	result := Result{
		Stacks:  []Stack{},
		Waiting: []Coil{},
	}
	for _, g := range groups {
		stacks, waiting := p.packGroup(g)
		result.Stacks = append(result.Stacks, stacks...)
		result.Waiting = append(result.Waiting, waiting...)
	}
	result.Summary = summarize(len(coils), groups, result.Stacks, result.Waiting, p.limits)

	p.logger.Debug("packing complete",
		zap.String("op", "stacker.Pack"),
		zap.Int("coils", len(coils)),
		zap.Int("groups", len(groups)),
		zap.Int("stacks", len(result.Stacks)),
		zap.Int("waiting", len(result.Waiting)),
	)
	return result, nil
}

// groupByGrade copies the pool into per-grade groups ordered by the first
// appearance of each normalized grade, each sorted by width descending.
func (p *Packer) groupByGrade(coils []Coil) []group {
	index := make(map[string]int)
	var groups []group
	for i, coil := range coils {
		coil.Index = i
		coil.NormalizedGrade = p.normalizer.Normalize(coil.Grade)
		pos, ok := index[coil.NormalizedGrade]
		if !ok {
			pos = len(groups)
			index[coil.NormalizedGrade] = pos
			groups = append(groups, group{grade: coil.NormalizedGrade})
		}
		groups[pos].coils = append(groups[pos].coils, coil)
	}

	for i := range groups {
		members := groups[i].coils
		sort.SliceStable(members, func(a, b int) bool {
			return members[a].Width > members[b].Width
		})
	}
	return groups
}

// packGroup builds stacks for one group until a pass yields fewer than
// MinCoils coils. Each pass splits the remaining coils into the ones taken
// by the candidate stack and the ones left over; a rejected candidate simply
// keeps the previous remainder.
func (p *Packer) packGroup(g group) ([]Stack, []Coil) {
	var stacks []Stack
	remaining := g.coils

	for {
		candidate := Stack{Grade: g.grade}
		left := make([]Coil, 0, len(remaining))
		for _, coil := range remaining {
			if p.fits(candidate, coil) {
				candidate.Coils = append(candidate.Coils, coil)
				candidate.TotalWidth += coil.Width
				candidate.TotalWeight += coil.Weight
				continue
			}
			left = append(left, coil)
		}

		if len(candidate.Coils) < p.limits.MinCoils {
			p.logger.Debug("no further stack possible",
				zap.String("op", "stacker.packGroup"),
				zap.String("grade", g.grade),
				zap.Int("candidateCoils", len(candidate.Coils)),
				zap.Int("remaining", len(remaining)),
			)
			break
		}

		stacks = append(stacks, candidate)
		remaining = left
		p.logger.Debug("stack committed",
			zap.String("op", "stacker.packGroup"),
			zap.String("grade", g.grade),
			zap.Int("coils", len(candidate.Coils)),
			zap.Float64("totalWidth", candidate.TotalWidth),
			zap.Float64("totalWeight", candidate.TotalWeight),
		)
	}

	waiting := make([]Coil, len(remaining))
	copy(waiting, remaining)
	return stacks, waiting
}

func (p *Packer) fits(stack Stack, coil Coil) bool {
	return len(stack.Coils) < p.limits.MaxCoils &&
		stack.TotalWidth+coil.Width <= p.limits.MaxStackHeight &&
		stack.TotalWeight+coil.Weight <= p.limits.MaxStackWeight
}

func validateCoils(coils []Coil) error {
	for i, coil := range coils {
		if reason := invalidMeasure(coil.Width); reason != "" {
			return &InputError{Index: i, Field: "width", Reason: reason}
		}
		if reason := invalidMeasure(coil.Weight); reason != "" {
			return &InputError{Index: i, Field: "weight", Reason: reason}
		}
		if strings.TrimSpace(coil.Grade) == "" {
			return &InputError{Index: i, Field: "grade", Reason: "is blank"}
		}
	}
	return nil
}

func invalidMeasure(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "is not a number"
	case v <= 0:
		return "must be positive"
	}
	return ""
}
