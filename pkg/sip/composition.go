package sip

import (
	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/iwvelando/sip-calculator/pkg/mathutil"
)

// Composition splits the total return into contributed principal and interest.
type Composition struct {
	Investment        float64 `json:"investment"`
	Interest          float64 `json:"interest"`
	InvestmentPercent float64 `json:"investmentPercent"`
	InterestPercent   float64 `json:"interestPercent"`
}

// Composition returns the two-slice breakdown of the summary's total return.
func (s Summary) Composition() Composition {
	return Composition{
		Investment:        s.TotalInvestment,
		Interest:          s.TotalInterest,
		InvestmentPercent: mathutil.CalculatePercentage(s.TotalInvestment, s.TotalReturn),
		InterestPercent:   mathutil.CalculatePercentage(s.TotalInterest, s.TotalReturn),
	}
}

// YearEnds returns the snapshot at the close of every year in series, plus the
// final month when the series does not end on a year boundary.
func YearEnds(series []MonthSnapshot) []MonthSnapshot {
	var out []MonthSnapshot
	for i, snap := range series {
		if snap.Month%constants.MonthsPerYear == 0 || i == len(series)-1 {
			out = append(out, snap)
		}
	}
	return out
}
