// Package constants provides shared constants for the baf-stacker application.
package constants

// Stacking defaults for the BAF line.
const (
	// DefaultMaxStackHeight is the maximum summed coil width of a stack (mm).
	DefaultMaxStackHeight = 4450.0

	// DefaultMaxStackWeight is the maximum summed coil weight of a stack (kg).
	DefaultMaxStackWeight = 75.0

	// DefaultMinCoils is the smallest number of coils that forms a stack.
	DefaultMinCoils = 4

	// DefaultMaxCoils is the largest number of coils a stack may hold.
	DefaultMaxCoils = 5

	// DefaultTallStackThreshold splits stacks into short and tall buckets (mm).
	DefaultTallStackThreshold = 4000.0

	// DecimalPrecision is the precision for rounding averages (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Spreadsheet column names expected in coil uploads.
const (
	ColumnWidth  = "Width"
	ColumnGrade  = "Grade"
	ColumnWeight = "Weight"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatXLSX is the Excel workbook output format
	OutputFormatXLSX = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. BAF_STACKING_MAXCOILS.
	EnvPrefix = "BAF"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for coil sheets (10 MB)
	DefaultMaxUploadSizeBytes int64 = 10 * 1024 * 1024
)
