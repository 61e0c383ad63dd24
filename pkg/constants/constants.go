// Package constants provides shared constants for the sip-calculator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DisplayPlaces is the number of decimal places shown for amounts
	DisplayPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultTaxRate is the percentage of each month's interest deducted as tax
	DefaultTaxRate = 10.0

	// MaxTenureYears bounds the accrual loop and the month series
	MaxTenureYears = 100
)

// Input defaults, matching the interactive dashboard's initial values
const (
	DefaultSIPAmount       = 1000.0
	DefaultAnnualIncrement = 0.0
	DefaultTenure          = 10
	DefaultRateOfReturn    = 12.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Dashboard mode constants
const (
	// DashboardModeLive recalculates on every input change
	DashboardModeLive = "live"

	// DashboardModeGated recalculates only on an explicit submit
	DashboardModeGated = "gated"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. SIP_LOGGING_LEVEL
	EnvPrefix = "SIP"

	// AppName names the XDG config directory
	AppName = "sip-calculator"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for scenario files (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown of the HTTP server
	DefaultShutdownTimeoutSeconds = 10
)
