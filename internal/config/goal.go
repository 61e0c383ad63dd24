package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/iwvelando/sip-calculator/pkg/format"
)

const (
	GoalFieldSIPAmount       = "sipAmount"
	GoalFieldAnnualIncrement = "annualIncrement"
	GoalFieldRateOfReturn    = "rateOfReturn"
	GoalFieldTenure          = "tenure"

	defaultToleranceAmount   = 0.01
	defaultToleranceRate     = 0.0001
	defaultToleranceDiscrete = 1
	defaultMaxIterations     = 100
	defaultMaxRate           = 100.0
)

const defaultMaxTenure = float64(constants.MaxTenureYears)

// GoalConfig asks for the value of one input that makes the final post-tax
// return reach Target.
type GoalConfig struct {
	Field         string   `yaml:"field,omitempty" mapstructure:"field"`
	Target        float64  `yaml:"target" mapstructure:"target"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalGoalField returns the canonical identifier for a goal field.
func CanonicalGoalField(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return GoalFieldSIPAmount
	}
	switch strings.ToLower(trimmed) {
	case "sipamount", "sip_amount", "sip-amount", "amount":
		return GoalFieldSIPAmount
	case "annualincrement", "annual_increment", "annual-increment", "increment":
		return GoalFieldAnnualIncrement
	case "rateofreturn", "rate_of_return", "rate-of-return", "rate":
		return GoalFieldRateOfReturn
	case "tenure", "years":
		return GoalFieldTenure
	default:
		return strings.ToLower(trimmed)
	}
}

// IsDiscrete reports whether the goal field only takes whole values.
func (g *GoalConfig) IsDiscrete() bool {
	return g != nil && g.Field == GoalFieldTenure
}

// Normalize ensures defaults and canonical values are applied before validation.
func (g *GoalConfig) Normalize() {
	if g == nil {
		return
	}
	g.Field = CanonicalGoalField(g.Field)

	switch g.Field {
	case GoalFieldSIPAmount:
		if g.Tolerance <= 0 {
			g.Tolerance = defaultToleranceAmount
		}
		if g.Min == nil {
			g.Min = floatPtr(defaultToleranceAmount)
		}
		if g.Max == nil && g.Target > 0 {
			// Contributing the whole target in month one always reaches it.
			g.Max = floatPtr(g.Target)
		}
	case GoalFieldAnnualIncrement, GoalFieldRateOfReturn:
		if g.Tolerance <= 0 {
			g.Tolerance = defaultToleranceRate
		}
		if g.Min == nil {
			g.Min = floatPtr(0)
		}
		if g.Max == nil {
			g.Max = floatPtr(defaultMaxRate)
		}
	case GoalFieldTenure:
		if g.Tolerance < defaultToleranceDiscrete {
			g.Tolerance = defaultToleranceDiscrete
		}
		if g.Min == nil {
			g.Min = floatPtr(1)
		}
		if g.Max == nil {
			g.Max = floatPtr(defaultMaxTenure)
		}
	}

	if g.MaxIterations <= 0 {
		g.MaxIterations = defaultMaxIterations
	}
}

// Validate checks the goal directive after normalization.
func (g *GoalConfig) Validate() error {
	if g == nil {
		return fmt.Errorf("goal configuration cannot be nil")
	}
	switch g.Field {
	case GoalFieldSIPAmount, GoalFieldAnnualIncrement, GoalFieldRateOfReturn, GoalFieldTenure:
	default:
		return fmt.Errorf("unsupported goal field %q", g.Field)
	}
	if g.Target <= 0 || math.IsNaN(g.Target) || math.IsInf(g.Target, 0) {
		return fmt.Errorf("goal target must be a positive amount, got %v", g.Target)
	}
	if g.Min == nil || g.Max == nil {
		return fmt.Errorf("goal bounds for %s must be set", g.Field)
	}
	if *g.Min > *g.Max {
		return fmt.Errorf("goal min %v is greater than max %v", *g.Min, *g.Max)
	}
	if g.Field == GoalFieldSIPAmount && *g.Min <= 0 {
		return fmt.Errorf("goal min for %s must be positive", g.Field)
	}
	if g.Field == GoalFieldTenure && *g.Min < 1 {
		return fmt.Errorf("goal min for %s must be at least 1 year", g.Field)
	}
	if g.Field == GoalFieldTenure && *g.Max > defaultMaxTenure {
		return fmt.Errorf("goal max for %s must be at most %d years", g.Field, constants.MaxTenureYears)
	}
	return nil
}

// DisplayGoalValue renders a value of the given goal field for humans.
func DisplayGoalValue(field string, value float64) string {
	switch field {
	case GoalFieldSIPAmount:
		return format.NumericCurrency(value)
	case GoalFieldTenure:
		return fmt.Sprintf("%d years", int(value))
	default:
		return format.Percent(value)
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
