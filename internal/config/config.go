// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/baf-stacker/internal/stacker"
	"github.com/iwvelando/baf-stacker/pkg/constants"
	"github.com/iwvelando/baf-stacker/pkg/validation"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Configuration holds all configuration for baf-stacker.
type Configuration struct {
	Stacking StackingConfig `yaml:"stacking"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
}

// StackingConfig holds the stack limits and the grade substitution table.
type StackingConfig struct {
	MaxStackHeight     float64      `yaml:"maxStackHeight"`     // mm
	MaxStackWeight     float64      `yaml:"maxStackWeight"`     // kg
	MinCoils           int          `yaml:"minCoils"`
	MaxCoils           int          `yaml:"maxCoils"`
	TallStackThreshold float64      `yaml:"tallStackThreshold"` // mm
	GradeAliases       []GradeAlias `yaml:"gradeAliases"`
}

// GradeAlias stacks coils of Grade together with coils of Group.
type GradeAlias struct {
	Grade string `yaml:"grade" json:"grade"`
	Group string `yaml:"group" json:"group"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, xlsx
}

// Default returns the configuration used when no file is given.
func Default() *Configuration {
	return &Configuration{
		Stacking: DefaultStackingConfig(),
		Output:   OutputConfig{Format: constants.OutputFormatPretty},
	}
}

// DefaultStackingConfig returns the BAF line limits and grade table.
func DefaultStackingConfig() StackingConfig {
	limits := stacker.DefaultLimits()
	return StackingConfig{
		MaxStackHeight:     limits.MaxStackHeight,
		MaxStackWeight:     limits.MaxStackWeight,
		MinCoils:           limits.MinCoils,
		MaxCoils:           limits.MaxCoils,
		TallStackThreshold: limits.TallStackThreshold,
		GradeAliases:       defaultGradeAliases(),
	}
}

func defaultGradeAliases() []GradeAlias {
	return []GradeAlias{
		{Grade: "DR-08", Group: "T-57"},
		{Grade: "TS-480", Group: "T-57"},
		{Grade: "DR-75", Group: "T-57"},
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadOptionalConfiguration behaves like LoadConfiguration but falls back to
// the defaults (with environment overrides) when the file does not exist.
func LoadOptionalConfiguration(configPath string) (*Configuration, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return LoadConfiguration(configPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}
	return decode(newViper())
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultStackingConfig()
	v.SetDefault("stacking.maxStackHeight", defaults.MaxStackHeight)
	v.SetDefault("stacking.maxStackWeight", defaults.MaxStackWeight)
	v.SetDefault("stacking.minCoils", defaults.MinCoils)
	v.SetDefault("stacking.maxCoils", defaults.MaxCoils)
	v.SetDefault("stacking.tallStackThreshold", defaults.TallStackThreshold)
	aliases := make([]interface{}, 0, len(defaults.GradeAliases))
	for _, alias := range defaults.GradeAliases {
		aliases = append(aliases, map[string]interface{}{"grade": alias.Grade, "group": alias.Group})
	}
	v.SetDefault("stacking.gradeAliases", aliases)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ApplyDefaults fills unset limits with the defaults. A nil alias table takes
// the default table; an explicitly empty one is kept.
func (s *StackingConfig) ApplyDefaults() {
	defaults := DefaultStackingConfig()
	if s.MaxStackHeight == 0 {
		s.MaxStackHeight = defaults.MaxStackHeight
	}
	if s.MaxStackWeight == 0 {
		s.MaxStackWeight = defaults.MaxStackWeight
	}
	if s.MinCoils == 0 {
		s.MinCoils = defaults.MinCoils
	}
	if s.MaxCoils == 0 {
		s.MaxCoils = defaults.MaxCoils
	}
	if s.TallStackThreshold == 0 {
		s.TallStackThreshold = defaults.TallStackThreshold
	}
	if s.GradeAliases == nil {
		s.GradeAliases = defaults.GradeAliases
	}
}

// Limits converts the configuration into packer limits.
func (s StackingConfig) Limits() stacker.Limits {
	return stacker.Limits{
		MaxStackHeight:     s.MaxStackHeight,
		MaxStackWeight:     s.MaxStackWeight,
		MinCoils:           s.MinCoils,
		MaxCoils:           s.MaxCoils,
		TallStackThreshold: s.TallStackThreshold,
	}
}

// Normalizer builds the grade normalizer. Incomplete entries are skipped and
// later entries override earlier ones.
func (s StackingConfig) Normalizer() stacker.Normalizer {
	table := make(map[string]string, len(s.GradeAliases))
	for _, alias := range s.GradeAliases {
		grade := strings.TrimSpace(alias.Grade)
		group := strings.TrimSpace(alias.Group)
		if grade == "" || group == "" {
			continue
		}
		table[grade] = group
	}
	return stacker.NewNormalizer(table)
}

// NewPacker builds a Packer from the stacking configuration.
func (s StackingConfig) NewPacker(logger *zap.Logger) (*stacker.Packer, error) {
	packer, err := stacker.NewPacker(logger, s.Limits(), s.Normalizer())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return packer, nil
}

// Validate returns an error when the configuration cannot be used.
func (c *Configuration) Validate() error {
	if err := c.Stacking.Limits().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: invalid log level: %s", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: invalid log format: %s", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	return c.Stacking.Warnings()
}

// Warnings reports settings that are valid but probably unintended.
func (s StackingConfig) Warnings() []string {
	aliases := make([]validation.AliasConfig, 0, len(s.GradeAliases))
	for _, alias := range s.GradeAliases {
		aliases = append(aliases, validation.AliasConfig{Grade: alias.Grade, Group: alias.Group})
	}

	warnings := validation.ValidateGradeAliases(aliases)
	if warning := validation.ValidateTallThreshold(s.TallStackThreshold, s.MaxStackHeight); warning != "" {
		warnings = append(warnings, warning)
	}
	if warning := validation.ValidateStackWindow(s.MinCoils, s.MaxCoils); warning != "" {
		warnings = append(warnings, warning)
	}
	return warnings
}

// ToYAML renders the effective configuration.
func (c *Configuration) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}
