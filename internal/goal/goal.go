// Package goal solves for the value of one calculator input that makes the
// final post-tax return reach a target.
package goal

import (
	"fmt"
	"math"

	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/internal/projection"
	"github.com/iwvelando/sip-calculator/pkg/format"
	"github.com/iwvelando/sip-calculator/pkg/mathutil"
	"github.com/iwvelando/sip-calculator/pkg/sip"
	"go.uber.org/zap"
)

// Summary captures the result of a single goal directive.
type Summary struct {
	Scenario   string   `json:"scenario"`
	Field      string   `json:"field"`
	Original   float64  `json:"original"`
	Value      float64  `json:"value"`
	Target     float64  `json:"target"`
	Achieved   float64  `json:"achieved"`
	Iterations int      `json:"iterations"`
	Converged  bool     `json:"converged"`
	Notes      []string `json:"notes,omitempty"`
}

// Result summarizes goal outcomes keyed by scenario name.
type Result struct {
	Summaries map[string]Summary
}

// Empty indicates whether any goal outcomes were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches goal outcomes to the matching projections.
func (r Result) Apply(projections []projection.Projection) {
	for i := range projections {
		summary, ok := r.Summaries[projections[i].Name]
		if !ok {
			continue
		}
		projections[i].Goal = &projection.GoalOutcome{
			Field:      summary.Field,
			Target:     summary.Target,
			Original:   summary.Original,
			Value:      summary.Value,
			Achieved:   summary.Achieved,
			Iterations: summary.Iterations,
			Converged:  summary.Converged,
			Notes:      append([]string(nil), summary.Notes...),
		}
		projections[i].Notes = append(projections[i].Notes, summary.Notes...)
	}
}

// Runner evaluates the goal directives of every active scenario.
type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, conf: conf}, nil
}

// Run executes all goal directives and writes each converged value back into
// its scenario, so later projections reflect the solved inputs. Goal
// directives themselves are left as configured.
func (r *Runner) Run() (*Result, error) {
	summaries := make(map[string]Summary)
	calc := sip.NewCalculator(zap.NewNop(), r.conf.Policy())

	for i := range r.conf.Scenarios {
		scenario := &r.conf.Scenarios[i]
		if !scenario.Active || scenario.Goal == nil {
			continue
		}

		summary, err := seek(calc, scenario.Inputs(r.conf.Defaults), *scenario.Goal)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		summary.Scenario = scenario.Name
		summaries[scenario.Name] = summary
		if summary.Converged {
			applyToScenario(scenario, summary.Field, summary.Value)
		}

		r.logger.Info("goal evaluated",
			zap.String("op", "goal.Run"),
			zap.String("scenario", scenario.Name),
			zap.String("field", summary.Field),
			zap.Float64("original", summary.Original),
			zap.Float64("value", summary.Value),
			zap.Float64("target", summary.Target),
			zap.Float64("achieved", summary.Achieved),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}

	return &Result{Summaries: summaries}, nil
}

// Seek solves a single goal for in under policy.
func Seek(policy sip.Policy, in sip.Inputs, cfg config.GoalConfig) (Summary, error) {
	return seek(sip.NewCalculator(zap.NewNop(), policy), in, cfg)
}

// seek bisects the goal field for the smallest value within bounds whose
// final post-tax return meets the target. The post-tax return does not
// decrease as any single input grows, which keeps the search one-sided.
func seek(calc *sip.Calculator, in sip.Inputs, cfg config.GoalConfig) (Summary, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	if err := sip.CheckLimits(in); err != nil {
		return Summary{}, err
	}

	original, err := getField(in, cfg.Field)
	if err != nil {
		return Summary{}, err
	}

	evaluate := func(value float64) float64 {
		candidate, _ := setField(in, cfg.Field, value)
		return calc.Compute(candidate, false).Summary.FinalReturnPostTax
	}

	lower := snap(&cfg, *cfg.Min)
	upper := snap(&cfg, *cfg.Max)
	summary := Summary{
		Field:    cfg.Field,
		Original: original,
		Target:   cfg.Target,
	}

	if achieved := evaluate(lower); achieved >= cfg.Target {
		summary.Value = lower
		summary.Achieved = achieved
		summary.Converged = true
		summary.Notes = []string{fmt.Sprintf("target %s is already met at the minimum %s", format.NumericCurrency(cfg.Target), config.DisplayGoalValue(cfg.Field, lower))}
		return summary, nil
	}

	if achieved := evaluate(upper); achieved < cfg.Target {
		summary.Value = upper
		summary.Achieved = achieved
		summary.Notes = []string{fmt.Sprintf("unable to reach target %s within bounds %s to %s",
			format.NumericCurrency(cfg.Target), config.DisplayGoalValue(cfg.Field, lower), config.DisplayGoalValue(cfg.Field, upper))}
		return summary, nil
	}

	iterations := 0
	for iterations < cfg.MaxIterations && !mathutil.WithinTolerance(upper, lower, cfg.Tolerance) {
		mid := snap(&cfg, lower+(upper-lower)/2)
		if mid <= lower || mid >= upper {
			break
		}
		iterations++
		if evaluate(mid) >= cfg.Target {
			upper = mid
		} else {
			lower = mid
		}
	}

	summary.Value = upper
	summary.Achieved = evaluate(upper)
	summary.Iterations = iterations
	summary.Converged = mathutil.WithinTolerance(upper, lower, cfg.Tolerance)
	if !summary.Converged {
		summary.Notes = []string{fmt.Sprintf("stopped after %d iterations with bracket %s to %s",
			iterations, config.DisplayGoalValue(cfg.Field, lower), config.DisplayGoalValue(cfg.Field, upper))}
	}
	return summary, nil
}

func snap(cfg *config.GoalConfig, value float64) float64 {
	if cfg.IsDiscrete() {
		return math.Floor(value)
	}
	return value
}

func getField(in sip.Inputs, field string) (float64, error) {
	switch field {
	case config.GoalFieldSIPAmount:
		return in.SIPAmount, nil
	case config.GoalFieldAnnualIncrement:
		return in.AnnualIncrement, nil
	case config.GoalFieldRateOfReturn:
		return in.RateOfReturn, nil
	case config.GoalFieldTenure:
		return float64(in.Tenure), nil
	}
	return 0, fmt.Errorf("unsupported goal field %q", field)
}

func setField(in sip.Inputs, field string, value float64) (sip.Inputs, error) {
	switch field {
	case config.GoalFieldSIPAmount:
		in.SIPAmount = value
	case config.GoalFieldAnnualIncrement:
		in.AnnualIncrement = value
	case config.GoalFieldRateOfReturn:
		in.RateOfReturn = value
	case config.GoalFieldTenure:
		in.Tenure = int(value)
	default:
		return in, fmt.Errorf("unsupported goal field %q", field)
	}
	return in, nil
}

func applyToScenario(scenario *config.Scenario, field string, value float64) {
	switch field {
	case config.GoalFieldSIPAmount:
		scenario.SIPAmount = &value
	case config.GoalFieldAnnualIncrement:
		scenario.AnnualIncrement = &value
	case config.GoalFieldRateOfReturn:
		scenario.RateOfReturn = &value
	case config.GoalFieldTenure:
		tenure := int(value)
		scenario.Tenure = &tenure
	}
}
