// Package projection evaluates configured scenarios through the SIP calculator.
package projection

import (
	"fmt"

	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/pkg/sip"
	"go.uber.org/zap"
)

// Projection holds the calculation for a single scenario.
type Projection struct {
	Name    string              `json:"name"`
	Inputs  sip.Inputs          `json:"inputs"`
	Summary sip.Summary         `json:"summary"`
	Series  []sip.MonthSnapshot `json:"series,omitempty"`
	Goal    *GoalOutcome        `json:"goal,omitempty"`
	Notes   []string            `json:"notes,omitempty"`
}

// GoalOutcome records the input value solved for a scenario's goal.
type GoalOutcome struct {
	Field      string   `json:"field"`
	Target     float64  `json:"target"`
	Original   float64  `json:"original"`
	Value      float64  `json:"value"`
	Achieved   float64  `json:"achieved"`
	Iterations int      `json:"iterations"`
	Converged  bool     `json:"converged"`
	Notes      []string `json:"notes,omitempty"`
}

// DefaultScenarioName names the projection built from defaults when no scenarios are configured.
const DefaultScenarioName = "defaults"

// GetProjections processes every active scenario. With no scenarios
// configured, the defaults are evaluated as a single scenario. In strict mode
// a scenario with invalid inputs stops processing with an error wrapping
// sip.ErrInvalidInput.
func GetProjections(logger *zap.Logger, conf config.Configuration, withSeries bool) ([]Projection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	scenarios := conf.Scenarios
	if len(scenarios) == 0 {
		scenarios = []config.Scenario{{Name: DefaultScenarioName, Active: true}}
	}

	calc := sip.NewCalculator(logger, conf.Policy())

	var results []Projection
	for _, scenario := range scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "projection.GetProjections"),
			)
			continue
		}

		in := scenario.Inputs(conf.Defaults)
		if err := sip.CheckLimits(in); err != nil {
			return results, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		if conf.Strict {
			if err := sip.Validate(in); err != nil {
				return results, fmt.Errorf("scenario %s: %w", scenario.Name, err)
			}
		}

		res := calc.Compute(in, withSeries)
		results = append(results, Projection{
			Name:    scenario.Name,
			Inputs:  in,
			Summary: res.Summary,
			Series:  res.Series,
		})
	}

	return results, nil
}

// Single evaluates one set of inputs as an unnamed projection.
func Single(logger *zap.Logger, policy sip.Policy, in sip.Inputs, strict, withSeries bool) (Projection, error) {
	if err := sip.CheckLimits(in); err != nil {
		return Projection{}, err
	}
	if strict {
		if err := sip.Validate(in); err != nil {
			return Projection{}, err
		}
	}
	res := sip.NewCalculator(logger, policy).Compute(in, withSeries)
	return Projection{Name: DefaultScenarioName, Inputs: in, Summary: res.Summary, Series: res.Series}, nil
}

// Find returns the projection with the given name, or nil.
func Find(results []Projection, name string) *Projection {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
