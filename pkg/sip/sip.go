// Package sip implements the month-by-month accrual of a Systematic Investment
// Plan: a monthly contribution that grows by an annual increment, earning a
// nominal annual return on the balance contributed before each month, with a
// flat tax levied on every month's interest.
package sip

import (
	"errors"
	"fmt"

	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/iwvelando/sip-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrInvalidInput is returned by Validate for inputs outside the calculator's domain.
var ErrInvalidInput = errors.New("invalid input")

// ErrLimitExceeded is returned by CheckLimits for inputs too large to compute.
var ErrLimitExceeded = errors.New("limit exceeded")

// Inputs are the four parameters of a single calculation.
type Inputs struct {
	SIPAmount       float64 `json:"sipAmount" yaml:"sipAmount"`
	AnnualIncrement float64 `json:"annualIncrement" yaml:"annualIncrement"`
	Tenure          int     `json:"tenure" yaml:"tenure"`
	RateOfReturn    float64 `json:"rateOfReturn" yaml:"rateOfReturn"`
}

// Months returns the number of accrual periods.
func (in Inputs) Months() int {
	return in.Tenure * constants.MonthsPerYear
}

// Summary holds the accumulated totals after the final month.
type Summary struct {
	TotalInvestment    float64 `json:"totalInvestment"`
	TotalInterest      float64 `json:"totalInterest"`
	TotalReturn        float64 `json:"totalReturn"`
	TotalTaxDeducted   float64 `json:"totalTaxDeducted"`
	FinalReturnPostTax float64 `json:"finalReturnPostTax"`
}

// MonthSnapshot holds the cumulative totals as of the end of one month.
type MonthSnapshot struct {
	Month        int     `json:"month"`
	Contribution float64 `json:"contribution"`
	Investment   float64 `json:"investment"`
	Interest     float64 `json:"interest"`
	TotalReturn  float64 `json:"totalReturn"`
	TaxDeducted  float64 `json:"taxDeducted"`
}

// Policy holds the tax treatment applied to accrued interest.
type Policy struct {
	// TaxRate is the percentage of each month's interest that is deducted.
	TaxRate float64 `json:"taxRate" yaml:"taxRate"`
}

// DefaultPolicy deducts 10% of every month's interest.
func DefaultPolicy() Policy {
	return Policy{TaxRate: constants.DefaultTaxRate}
}

// Result is the output of Calculator.Compute.
type Result struct {
	Inputs  Inputs          `json:"inputs"`
	Policy  Policy          `json:"policy"`
	Summary Summary         `json:"summary"`
	Series  []MonthSnapshot `json:"series,omitempty"`
}

// Calculator runs the accrual loop under a fixed tax policy.
type Calculator struct {
	logger *zap.Logger
	policy Policy
}

// NewCalculator creates a Calculator. A nil logger is replaced with a no-op logger.
func NewCalculator(logger *zap.Logger, policy Policy) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger, policy: policy}
}

// Policy returns the calculator's tax policy.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Compute runs the accrual loop for in. The series is only collected when
// withSeries is set. Inputs are not validated; a non-positive tenure yields
// zero totals and an empty series.
func (c *Calculator) Compute(in Inputs, withSeries bool) Result {
	var series []MonthSnapshot
	if withSeries && in.Months() > 0 {
		series = make([]MonthSnapshot, 0, min(in.Months(), constants.MaxTenureYears*constants.MonthsPerYear))
	}

	taxRate := mathutil.PercentToDecimal(c.policy.TaxRate)
	contribution := in.SIPAmount

	var s Summary
	for month := 1; month <= in.Months(); month++ {
		// The increment compounds on the already-incremented contribution.
		contribution += (contribution * in.AnnualIncrement / constants.PercentageMultiplier) / constants.MonthsPerYear
		s.TotalInvestment += contribution

		// This month's contribution earns nothing until next month.
		interest := (s.TotalInvestment - contribution) * (in.RateOfReturn / constants.PercentageMultiplier) / constants.MonthsPerYear
		s.TotalInterest += interest
		s.TotalReturn += contribution + interest
		s.TotalTaxDeducted += interest * taxRate

		if withSeries {
			series = append(series, MonthSnapshot{
				Month:        month,
				Contribution: contribution,
				Investment:   s.TotalInvestment,
				Interest:     s.TotalInterest,
				TotalReturn:  s.TotalReturn,
				TaxDeducted:  s.TotalTaxDeducted,
			})
		}
	}
	s.FinalReturnPostTax = s.TotalReturn - s.TotalTaxDeducted

	if ce := c.logger.Check(zap.DebugLevel, "sip calculated"); ce != nil {
		ce.Write(
			zap.String("op", "sip.Compute"),
			zap.Float64("sipAmount", in.SIPAmount),
			zap.Float64("annualIncrement", in.AnnualIncrement),
			zap.Int("tenure", in.Tenure),
			zap.Float64("rateOfReturn", in.RateOfReturn),
			zap.Float64("taxRate", c.policy.TaxRate),
			zap.Float64("finalReturnPostTax", s.FinalReturnPostTax),
		)
	}

	return Result{Inputs: in, Policy: c.policy, Summary: s, Series: series}
}

// Calculate returns the summary for in under the default policy.
func Calculate(in Inputs) Summary {
	return NewCalculator(nil, DefaultPolicy()).Compute(in, false).Summary
}

// CalculateSeries returns the summary and the month-indexed series for in
// under the default policy.
func CalculateSeries(in Inputs) (Summary, []MonthSnapshot) {
	res := NewCalculator(nil, DefaultPolicy()).Compute(in, true)
	return res.Summary, res.Series
}

// Validate rejects inputs the permissive Compute path would silently accept:
// a non-positive SIP amount or tenure, negative rates, and non-finite values.
// The returned error wraps ErrInvalidInput.
func Validate(in Inputs) error {
	switch {
	case !mathutil.IsFinite(in.SIPAmount) || !mathutil.IsFinite(in.AnnualIncrement) || !mathutil.IsFinite(in.RateOfReturn):
		return fmt.Errorf("%w: values must be finite numbers", ErrInvalidInput)
	case in.SIPAmount <= 0:
		return fmt.Errorf("%w: sip amount must be positive, got %v", ErrInvalidInput, in.SIPAmount)
	case in.Tenure <= 0:
		return fmt.Errorf("%w: tenure must be a positive number of years, got %d", ErrInvalidInput, in.Tenure)
	case in.AnnualIncrement < 0:
		return fmt.Errorf("%w: annual increment cannot be negative, got %v", ErrInvalidInput, in.AnnualIncrement)
	case in.RateOfReturn < 0:
		return fmt.Errorf("%w: rate of return cannot be negative, got %v", ErrInvalidInput, in.RateOfReturn)
	}
	return nil
}

// CheckLimits rejects a tenure above constants.MaxTenureYears. Unlike Validate
// it applies in permissive mode too, since work and memory grow with the tenure.
func CheckLimits(in Inputs) error {
	if in.Tenure > constants.MaxTenureYears {
		return fmt.Errorf("%w: tenure must be at most %d years, got %d", ErrLimitExceeded, constants.MaxTenureYears, in.Tenure)
	}
	return nil
}
