package validation

import (
	"strings"
	"testing"
)

func TestValidateGradeAliases(t *testing.T) {
	tests := []struct {
		name         string
		aliases      []AliasConfig
		wantWarnings int
		contains     string
	}{
		{
			name: "Default table is clean",
			aliases: []AliasConfig{
				{Grade: "DR-08", Group: "T-57"},
				{Grade: "TS-480", Group: "T-57"},
				{Grade: "DR-75", Group: "T-57"},
			},
			wantWarnings: 0,
		},
		{
			name:         "Self mapping",
			aliases:      []AliasConfig{{Grade: "T-57", Group: "T-57"}},
			wantWarnings: 1,
			contains:     "maps to itself",
		},
		{
			name: "Conflicting duplicate",
			aliases: []AliasConfig{
				{Grade: "DR-08", Group: "T-57"},
				{Grade: "DR-08", Group: "T-61"},
			},
			wantWarnings: 1,
			contains:     "defined twice",
		},
		{
			name: "Identical duplicate is fine",
			aliases: []AliasConfig{
				{Grade: "DR-08", Group: "T-57"},
				{Grade: " DR-08 ", Group: "T-57"},
			},
			wantWarnings: 0,
		},
		{
			name:         "Blank group",
			aliases:      []AliasConfig{{Grade: "DR-08", Group: "  "}},
			wantWarnings: 1,
			contains:     "incomplete",
		},
		{
			name:         "Empty table",
			aliases:      nil,
			wantWarnings: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := ValidateGradeAliases(tt.aliases)
			if len(warnings) != tt.wantWarnings {
				t.Fatalf("ValidateGradeAliases() returned %d warnings, want %d: %v", len(warnings), tt.wantWarnings, warnings)
			}
			if tt.contains != "" && !strings.Contains(warnings[0], tt.contains) {
				t.Errorf("warning %q does not contain %q", warnings[0], tt.contains)
			}
		})
	}
}

func TestValidateTallThreshold(t *testing.T) {
	if warning := ValidateTallThreshold(4000, 4450); warning != "" {
		t.Errorf("unexpected warning: %s", warning)
	}
	if warning := ValidateTallThreshold(4450, 4450); warning != "" {
		t.Errorf("threshold equal to max height should not warn: %s", warning)
	}
	if warning := ValidateTallThreshold(5000, 4450); !strings.Contains(warning, "exceeds") {
		t.Errorf("expected exceeds warning, got %q", warning)
	}
}

func TestValidateStackWindow(t *testing.T) {
	if warning := ValidateStackWindow(4, 5); warning != "" {
		t.Errorf("unexpected warning: %s", warning)
	}
	if warning := ValidateStackWindow(5, 5); !strings.Contains(warning, "exactly 5") {
		t.Errorf("expected single-size warning, got %q", warning)
	}
}
