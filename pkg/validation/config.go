package validation

import (
	"fmt"
	"strings"
)

// ScenarioConfig is the validation view of a single scenario.
type ScenarioConfig struct {
	Name            string
	Active          bool
	SIPAmount       float64
	AnnualIncrement float64
	Tenure          int
	RateOfReturn    float64
}

// ValidateScenarioInputs returns warnings for values the calculator accepts but
// that produce degenerate or negative results.
func ValidateScenarioInputs(s ScenarioConfig) []string {
	var warnings []string

	if s.SIPAmount <= 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' has a non-positive SIP amount (%.2f)", s.Name, s.SIPAmount))
	}
	if s.Tenure <= 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' has a non-positive tenure (%d years) - all totals will be zero", s.Name, s.Tenure))
	}
	if s.AnnualIncrement < 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' has a negative annual increment (%.2f%%)", s.Name, s.AnnualIncrement))
	}
	if s.RateOfReturn < 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' has a negative rate of return (%.2f%%) - interest and tax will be negative", s.Name, s.RateOfReturn))
	}

	return warnings
}

// ValidateScenarios checks every scenario and the set as a whole: names must be
// unique and non-empty, and at least one scenario should be active.
func ValidateScenarios(scenarios []ScenarioConfig) []string {
	var warnings []string

	if len(scenarios) == 0 {
		return []string{"No scenarios configured - only the defaults will be evaluated"}
	}

	seen := make(map[string]int)
	active := 0
	for i, s := range scenarios {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("Scenario %d has no name", i))
		} else if prev, ok := seen[name]; ok {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is defined more than once (entries %d and %d)", name, prev, i))
		} else {
			seen[name] = i
		}

		if !s.Active {
			continue
		}
		active++
		warnings = append(warnings, ValidateScenarioInputs(s)...)
	}

	if active == 0 {
		warnings = append(warnings, "No active scenarios - nothing will be calculated")
	}

	return warnings
}
