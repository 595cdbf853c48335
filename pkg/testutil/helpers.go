// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/baf-stacker/internal/stacker"
)

// Coils returns n identical coils of the given grade.
func Coils(grade string, n int, width, weight float64) []stacker.Coil {
	coils := make([]stacker.Coil, n)
	for i := range coils {
		coils[i] = stacker.Coil{Width: width, Weight: weight, Grade: grade}
	}
	return coils
}

// FindStack returns the first stack of the given normalized grade, or nil.
func FindStack(stacks []stacker.Stack, grade string) *stacker.Stack {
	for i := range stacks {
		if stacks[i].Grade == grade {
			return &stacks[i]
		}
	}
	return nil
}

// CheckInvariants fails the test when a result loses or duplicates coils,
// breaks a stack limit or mixes grades within a stack.
func CheckInvariants(tb testing.TB, inputCount int, result stacker.Result, limits stacker.Limits) {
	tb.Helper()

	seen := make(map[int]bool, inputCount)
	record := func(coil stacker.Coil) {
		if seen[coil.Index] {
			tb.Errorf("coil %d appears more than once", coil.Index)
		}
		seen[coil.Index] = true
	}

	for i, stack := range result.Stacks {
		n := len(stack.Coils)
		if n < limits.MinCoils || n > limits.MaxCoils {
			tb.Errorf("stack %d has %d coils, want between %d and %d", i, n, limits.MinCoils, limits.MaxCoils)
		}
		if stack.TotalWidth > limits.MaxStackHeight {
			tb.Errorf("stack %d total width %.2f exceeds %.2f", i, stack.TotalWidth, limits.MaxStackHeight)
		}
		if stack.TotalWeight > limits.MaxStackWeight {
			tb.Errorf("stack %d total weight %.2f exceeds %.2f", i, stack.TotalWeight, limits.MaxStackWeight)
		}
		for _, coil := range stack.Coils {
			if coil.NormalizedGrade != stack.Grade {
				tb.Errorf("stack %d (%s) holds coil %d of group %s", i, stack.Grade, coil.Index, coil.NormalizedGrade)
			}
			record(coil)
		}
	}
	for _, coil := range result.Waiting {
		record(coil)
	}

	if len(seen) != inputCount {
		tb.Errorf("result accounts for %d coils, input had %d", len(seen), inputCount)
	}
}
