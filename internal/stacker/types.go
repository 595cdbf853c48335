// Package stacker assigns coils to BAF furnace stacks. Coils are grouped by
// normalized grade and each group is packed greedily, widest coil first,
// into stacks that respect the height, weight and coil-count limits.
package stacker

import (
	"errors"
	"fmt"

	"github.com/iwvelando/baf-stacker/pkg/constants"
)

var (
	// ErrInvalidInput is returned when a coil has a non-numeric, non-positive
	// dimension or a blank grade.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidLimits is returned when the stacking limits cannot produce a
	// valid stack.
	ErrInvalidLimits = errors.New("invalid stacking limits")
)

// Coil is a single rolled coil. Grade always holds the label the coil was
// loaded with; NormalizedGrade is filled in by the Packer.
type Coil struct {
	Index           int     `json:"index"`
	Row             int     `json:"row,omitempty"`
	Width           float64 `json:"width"`
	Weight          float64 `json:"weight"`
	Grade           string  `json:"grade"`
	NormalizedGrade string  `json:"normalizedGrade,omitempty"`
}

// Stack is a committed group of coils of one normalized grade. Coils are in
// the order they were accepted.
type Stack struct {
	Grade       string  `json:"grade"`
	Coils       []Coil  `json:"coils"`
	TotalWidth  float64 `json:"totalWidth"`
	TotalWeight float64 `json:"totalWeight"`
}

// Height is the stack height, which is the summed width of its coils.
func (s Stack) Height() float64 {
	return s.TotalWidth
}

// Result is the outcome of a packing run.
type Result struct {
	Stacks  []Stack `json:"stacks"`
	Waiting []Coil  `json:"waiting"`
	Summary Summary `json:"summary"`
}

// Limits bound a single stack.
type Limits struct {
	MaxStackHeight     float64 `json:"maxStackHeight" yaml:"maxStackHeight"`
	MaxStackWeight     float64 `json:"maxStackWeight" yaml:"maxStackWeight"`
	MinCoils           int     `json:"minCoils" yaml:"minCoils"`
	MaxCoils           int     `json:"maxCoils" yaml:"maxCoils"`
	TallStackThreshold float64 `json:"tallStackThreshold" yaml:"tallStackThreshold"`
}

// DefaultLimits returns the BAF line limits.
func DefaultLimits() Limits {
	return Limits{
		MaxStackHeight:     constants.DefaultMaxStackHeight,
		MaxStackWeight:     constants.DefaultMaxStackWeight,
		MinCoils:           constants.DefaultMinCoils,
		MaxCoils:           constants.DefaultMaxCoils,
		TallStackThreshold: constants.DefaultTallStackThreshold,
	}
}

// Validate reports whether the limits allow a stack to exist at all.
func (l Limits) Validate() error {
	switch {
	case l.MaxStackHeight <= 0:
		return fmt.Errorf("%w: max stack height must be positive, got %v", ErrInvalidLimits, l.MaxStackHeight)
	case l.MaxStackWeight <= 0:
		return fmt.Errorf("%w: max stack weight must be positive, got %v", ErrInvalidLimits, l.MaxStackWeight)
	case l.MinCoils < 1:
		return fmt.Errorf("%w: min coils must be at least 1, got %d", ErrInvalidLimits, l.MinCoils)
	case l.MaxCoils < l.MinCoils:
		return fmt.Errorf("%w: max coils (%d) is below min coils (%d)", ErrInvalidLimits, l.MaxCoils, l.MinCoils)
	case l.TallStackThreshold <= 0:
		return fmt.Errorf("%w: tall stack threshold must be positive, got %v", ErrInvalidLimits, l.TallStackThreshold)
	}
	return nil
}

// InputError describes the first invalid coil handed to the Packer.
type InputError struct {
	Index  int
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("coil %d: %s %s", e.Index, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
