package stacker

import (
	"github.com/iwvelando/baf-stacker/pkg/mathutil"
)

// Summary aggregates a packing run.
type Summary struct {
	TotalCoils        int            `json:"totalCoils"`
	StackCount        int            `json:"stackCount"`
	StackedCoils      int            `json:"stackedCoils"`
	WaitingCoils      int            `json:"waitingCoils"`
	FourCoilStacks    int            `json:"fourCoilStacks"`
	FiveCoilStacks    int            `json:"fiveCoilStacks"`
	StacksByCoilCount map[int]int    `json:"stacksByCoilCount"`
	ShortStacks       int            `json:"shortStacks"`
	TallStacks        int            `json:"tallStacks"`
	TallThreshold     float64        `json:"tallThreshold"`
	AverageHeight     *float64       `json:"averageHeight"`
	AverageWeight     *float64       `json:"averageWeight"`
	Utilization       float64        `json:"utilization"`
	Groups            []GroupSummary `json:"groups"`
}

// GroupSummary reports how one normalized grade was packed.
type GroupSummary struct {
	Grade   string `json:"grade"`
	Coils   int    `json:"coils"`
	Stacks  int    `json:"stacks"`
	Waiting int    `json:"waiting"`
}

// summarize folds the statistics for a run. Averages stay nil when there are
// no stacks.
func summarize(totalCoils int, groups []group, stacks []Stack, waiting []Coil, limits Limits) Summary {
	summary := Summary{
		TotalCoils:        totalCoils,
		StackCount:        len(stacks),
		WaitingCoils:      len(waiting),
		StacksByCoilCount: make(map[int]int),
		TallThreshold:     limits.TallStackThreshold,
		Groups:            make([]GroupSummary, 0, len(groups)),
	}

	groupIndex := make(map[string]int, len(groups))
	for _, g := range groups {
		groupIndex[g.grade] = len(summary.Groups)
		summary.Groups = append(summary.Groups, GroupSummary{Grade: g.grade, Coils: len(g.coils)})
	}

	var widthSum, weightSum float64
	for _, stack := range stacks {
		n := len(stack.Coils)
		summary.StackedCoils += n
		summary.StacksByCoilCount[n]++
		switch n {
		case 4:
			summary.FourCoilStacks++
		case 5:
			summary.FiveCoilStacks++
		}
		if stack.TotalWidth < limits.TallStackThreshold {
			summary.ShortStacks++
		} else {
			summary.TallStacks++
		}
		widthSum += stack.TotalWidth
		weightSum += stack.TotalWeight
		if pos, ok := groupIndex[stack.Grade]; ok {
			summary.Groups[pos].Stacks++
		}
	}

	for _, coil := range waiting {
		if pos, ok := groupIndex[coil.NormalizedGrade]; ok {
			summary.Groups[pos].Waiting++
		}
	}

	if len(stacks) > 0 {
		avgHeight := widthSum / float64(len(stacks))
		avgWeight := weightSum / float64(len(stacks))
		summary.AverageHeight = &avgHeight
		summary.AverageWeight = &avgWeight
	}
	summary.Utilization = mathutil.CalculatePercentage(float64(summary.StackedCoils), float64(totalCoils))

	return summary
}
