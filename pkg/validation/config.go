// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"
)

// AliasConfig is the validation view of one grade substitution entry.
type AliasConfig struct {
	Grade string
	Group string
}

// ValidateGradeAliases returns warnings for substitution entries that are
// blank, map a grade to itself, or redefine an earlier grade.
func ValidateGradeAliases(aliases []AliasConfig) []string {
	var warnings []string
	seen := make(map[string]string)

	for i, alias := range aliases {
		grade := strings.TrimSpace(alias.Grade)
		group := strings.TrimSpace(alias.Group)

		if grade == "" || group == "" {
			warnings = append(warnings, fmt.Sprintf("Grade alias #%d is incomplete (grade %q, group %q) and will be ignored",
				i+1, alias.Grade, alias.Group))
			continue
		}
		if grade == group {
			warnings = append(warnings, fmt.Sprintf("Grade alias '%s' maps to itself and has no effect", grade))
		}
		if previous, ok := seen[grade]; ok && previous != group {
			warnings = append(warnings, fmt.Sprintf("Grade alias '%s' is defined twice ('%s' then '%s'); the last entry wins",
				grade, previous, group))
		}
		seen[grade] = group
	}

	return warnings
}

// ValidateTallThreshold warns when no stack could ever reach the tall bucket.
func ValidateTallThreshold(threshold, maxStackHeight float64) string {
	if threshold > maxStackHeight {
		return fmt.Sprintf("Tall stack threshold %.0f mm exceeds max stack height %.0f mm - every stack will count as short",
			threshold, maxStackHeight)
	}
	return ""
}

// ValidateStackWindow warns when min and max coils leave a single stack size.
func ValidateStackWindow(minCoils, maxCoils int) string {
	if minCoils == maxCoils {
		return fmt.Sprintf("Min and max coils are both %d - only stacks of exactly %d coils will be formed",
			minCoils, minCoils)
	}
	return ""
}
