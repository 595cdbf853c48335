package stacker_test

import (
	"math"
	"testing"

	"github.com/iwvelando/baf-stacker/internal/stacker"
	"github.com/iwvelando/baf-stacker/pkg/testutil"
)

func TestSummaryBuckets(t *testing.T) {
	var coils []stacker.Coil
	coils = append(coils, testutil.Coils("A", 4, 1000, 15)...) // 4 coils, 4000 mm
	coils = append(coils, testutil.Coils("B", 5, 700, 10)...)  // 5 coils, 3500 mm
	coils = append(coils, testutil.Coils("C", 4, 950, 12)...)  // 4 coils, 3800 mm
	coils = append(coils, testutil.Coils("D", 2, 1000, 10)...) // waiting

	result, err := newPacker(t).Pack(coils)
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	s := result.Summary

	if s.TotalCoils != 15 {
		t.Errorf("TotalCoils = %d, want 15", s.TotalCoils)
	}
	if s.StackCount != 3 {
		t.Errorf("StackCount = %d, want 3", s.StackCount)
	}
	if s.StackedCoils != 13 || s.WaitingCoils != 2 {
		t.Errorf("StackedCoils/WaitingCoils = %d/%d, want 13/2", s.StackedCoils, s.WaitingCoils)
	}
	if s.FourCoilStacks != 2 || s.FiveCoilStacks != 1 {
		t.Errorf("four/five coil stacks = %d/%d, want 2/1", s.FourCoilStacks, s.FiveCoilStacks)
	}
	if s.ShortStacks != 2 || s.TallStacks != 1 {
		t.Errorf("short/tall stacks = %d/%d, want 2/1", s.ShortStacks, s.TallStacks)
	}
	if s.AverageHeight == nil || math.Abs(*s.AverageHeight-3766.666) > 0.01 {
		t.Errorf("AverageHeight = %v, want ~3766.67", s.AverageHeight)
	}
	if s.AverageWeight == nil || math.Abs(*s.AverageWeight-158.0/3.0) > 0.01 {
		t.Errorf("AverageWeight = %v, want ~52.67", s.AverageWeight)
	}
	if math.Abs(s.Utilization-13.0/15.0*100) > 0.001 {
		t.Errorf("Utilization = %v", s.Utilization)
	}
	if s.TallThreshold != 4000 {
		t.Errorf("TallThreshold = %v, want 4000", s.TallThreshold)
	}

	wantGroups := []stacker.GroupSummary{
		{Grade: "A", Coils: 4, Stacks: 1, Waiting: 0},
		{Grade: "B", Coils: 5, Stacks: 1, Waiting: 0},
		{Grade: "C", Coils: 4, Stacks: 1, Waiting: 0},
		{Grade: "D", Coils: 2, Stacks: 0, Waiting: 2},
	}
	if len(s.Groups) != len(wantGroups) {
		t.Fatalf("expected %d groups, got %d", len(wantGroups), len(s.Groups))
	}
	for i, want := range wantGroups {
		if s.Groups[i] != want {
			t.Errorf("group %d = %+v, want %+v", i, s.Groups[i], want)
		}
	}
}

func TestSummaryNoStacks(t *testing.T) {
	result, err := newPacker(t).Pack(testutil.Coils("B", 3, 1000, 10))
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	s := result.Summary
	if s.TotalCoils != 3 || s.StackCount != 0 || s.WaitingCoils != 3 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.AverageHeight != nil || s.AverageWeight != nil {
		t.Error("expected nil averages without stacks")
	}
	if s.Utilization != 0 {
		t.Errorf("expected zero utilization, got %v", s.Utilization)
	}
}
