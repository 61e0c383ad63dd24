// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/iwvelando/sip-calculator/pkg/sip"
	"github.com/iwvelando/sip-calculator/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for sip-calculator.
type Configuration struct {
	Logging   LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
	Tax       TaxConfig     `yaml:"tax,omitempty" mapstructure:"tax"`
	Strict    bool          `yaml:"strict,omitempty" mapstructure:"strict"`
	Defaults  Defaults      `yaml:"defaults" mapstructure:"defaults"`
	Scenarios []Scenario    `yaml:"scenarios,omitempty" mapstructure:"scenarios"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
	Series bool   `yaml:"series,omitempty" mapstructure:"series"` // include the month-by-month series
}

// TaxConfig holds the tax levied on accrued interest.
type TaxConfig struct {
	Rate float64 `yaml:"rate" mapstructure:"rate"` // percent of each month's interest
}

// Defaults holds the inputs shared by every scenario unless overridden.
type Defaults struct {
	SIPAmount       float64 `yaml:"sipAmount" mapstructure:"sipAmount"`
	AnnualIncrement float64 `yaml:"annualIncrement" mapstructure:"annualIncrement"`
	Tenure          int     `yaml:"tenure" mapstructure:"tenure"`
	RateOfReturn    float64 `yaml:"rateOfReturn" mapstructure:"rateOfReturn"`
}

// Scenario holds a named set of inputs. Unset fields fall back to Defaults.
type Scenario struct {
	Name            string      `yaml:"name" mapstructure:"name"`
	Active          bool        `yaml:"active" mapstructure:"active"`
	SIPAmount       *float64    `yaml:"sipAmount,omitempty" mapstructure:"sipAmount"`
	AnnualIncrement *float64    `yaml:"annualIncrement,omitempty" mapstructure:"annualIncrement"`
	Tenure          *int        `yaml:"tenure,omitempty" mapstructure:"tenure"`
	RateOfReturn    *float64    `yaml:"rateOfReturn,omitempty" mapstructure:"rateOfReturn"`
	Goal            *GoalConfig `yaml:"goal,omitempty" mapstructure:"goal"`
}

// DefaultConfiguration returns the configuration used when no file is given.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Output:  OutputConfig{Format: constants.OutputFormatPretty},
		Tax:     TaxConfig{Rate: constants.DefaultTaxRate},
		Defaults: Defaults{
			SIPAmount:       constants.DefaultSIPAmount,
			AnnualIncrement: constants.DefaultAnnualIncrement,
			Tenure:          constants.DefaultTenure,
			RateOfReturn:    constants.DefaultRateOfReturn,
		},
	}
}

// Inputs returns the defaults as calculator inputs.
func (d Defaults) Inputs() sip.Inputs {
	return sip.Inputs{
		SIPAmount:       d.SIPAmount,
		AnnualIncrement: d.AnnualIncrement,
		Tenure:          d.Tenure,
		RateOfReturn:    d.RateOfReturn,
	}
}

// Inputs resolves the scenario against the shared defaults.
func (s Scenario) Inputs(d Defaults) sip.Inputs {
	in := d.Inputs()
	if s.SIPAmount != nil {
		in.SIPAmount = *s.SIPAmount
	}
	if s.AnnualIncrement != nil {
		in.AnnualIncrement = *s.AnnualIncrement
	}
	if s.Tenure != nil {
		in.Tenure = *s.Tenure
	}
	if s.RateOfReturn != nil {
		in.RateOfReturn = *s.RateOfReturn
	}
	return in
}

// Policy returns the tax policy described by the configuration.
func (conf *Configuration) Policy() sip.Policy {
	return sip.Policy{TaxRate: conf.Tax.Rate}
}

// LoadConfiguration takes a file path as input and loads the configuration
// there. The format follows the file extension (YAML by default, TOML and
// JSON also accepted). SIP_-prefixed environment variables override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType(configType(configPath))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationOrDefault behaves like LoadConfiguration but returns the
// defaults, with environment overrides applied, when the file does not exist.
func LoadConfigurationOrDefault(configPath string) (*Configuration, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return LoadConfiguration(configPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}
	return decode(newViper())
}

// LoadConfigurationFromReader loads a YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	return LoadConfigurationFromReaderWithType(r, "yaml")
}

// LoadConfigurationFromReaderWithType loads a configuration of the given
// format (yaml, toml, json) from r.
func LoadConfigurationFromReaderWithType(r io.Reader, format string) (*Configuration, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if conf.Tax.Rate < 0 || conf.Tax.Rate > constants.PercentageMultiplier {
		warnings = append(warnings, fmt.Sprintf("Tax rate %.2f%% is outside 0-100%%", conf.Tax.Rate))
	}

	if len(conf.Scenarios) == 0 {
		return append(warnings, validation.ValidateScenarioInputs(validation.ScenarioConfig{
			Name:            "defaults",
			Active:          true,
			SIPAmount:       conf.Defaults.SIPAmount,
			AnnualIncrement: conf.Defaults.AnnualIncrement,
			Tenure:          conf.Defaults.Tenure,
			RateOfReturn:    conf.Defaults.RateOfReturn,
		})...)
	}

	scenarios := make([]validation.ScenarioConfig, 0, len(conf.Scenarios))
	for _, scenario := range conf.Scenarios {
		in := scenario.Inputs(conf.Defaults)
		scenarios = append(scenarios, validation.ScenarioConfig{
			Name:            scenario.Name,
			Active:          scenario.Active,
			SIPAmount:       in.SIPAmount,
			AnnualIncrement: in.AnnualIncrement,
			Tenure:          in.Tenure,
			RateOfReturn:    in.RateOfReturn,
		})
	}
	warnings = append(warnings, validation.ValidateScenarios(scenarios)...)

	for _, scenario := range conf.Scenarios {
		if scenario.Goal == nil || !scenario.Active {
			continue
		}
		goal := *scenario.Goal
		goal.Normalize()
		if err := goal.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' goal is invalid: %v", scenario.Name, err))
		}
	}

	return warnings
}

func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfiguration()
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", def.Output.Format)
	v.SetDefault("output.series", false)
	v.SetDefault("tax.rate", def.Tax.Rate)
	v.SetDefault("strict", false)
	v.SetDefault("defaults.sipAmount", def.Defaults.SIPAmount)
	v.SetDefault("defaults.annualIncrement", def.Defaults.AnnualIncrement)
	v.SetDefault("defaults.tenure", def.Defaults.Tenure)
	v.SetDefault("defaults.rateOfReturn", def.Defaults.RateOfReturn)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return "yml"
	}
}
