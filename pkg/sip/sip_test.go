package sip

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/sip-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

const tolerance = 1e-6

func TestCalculateConcreteScenario(t *testing.T) {
	summary, series := CalculateSeries(Inputs{SIPAmount: 1000, AnnualIncrement: 0, Tenure: 1, RateOfReturn: 12})

	if len(series) != 12 {
		t.Fatalf("expected 12 snapshots, got %d", len(series))
	}

	// Month 1 earns nothing: there is no prior balance.
	if series[0].Investment != 1000 || series[0].Interest != 0 || series[0].TaxDeducted != 0 {
		t.Errorf("month 1 = %+v, want investment 1000 and no interest or tax", series[0])
	}
	if !mathutil.WithinTolerance(series[1].Investment, 2000, tolerance) {
		t.Errorf("month 2 investment = %.2f, want 2000", series[1].Investment)
	}
	if !mathutil.WithinTolerance(series[1].Interest, 10, tolerance) {
		t.Errorf("month 2 interest = %.6f, want 10", series[1].Interest)
	}
	if !mathutil.WithinTolerance(series[1].TaxDeducted, 1, tolerance) {
		t.Errorf("month 2 tax = %.6f, want 1", series[1].TaxDeducted)
	}

	expected := Summary{
		TotalInvestment:    12000,
		TotalInterest:      660,
		TotalReturn:        12660,
		TotalTaxDeducted:   66,
		FinalReturnPostTax: 12594,
	}
	assertSummary(t, summary, expected)
}

func TestCalculateZeroTenure(t *testing.T) {
	summary, series := CalculateSeries(Inputs{SIPAmount: 5000, AnnualIncrement: 10, Tenure: 0, RateOfReturn: 12})
	if len(series) != 0 {
		t.Errorf("expected empty series, got %d entries", len(series))
	}
	assertSummary(t, summary, Summary{})
}

func TestCalculateNegativeTenureIsDegenerate(t *testing.T) {
	summary := Calculate(Inputs{SIPAmount: 5000, Tenure: -3, RateOfReturn: 12})
	assertSummary(t, summary, Summary{})
}

func TestCalculateZeroRateOfReturn(t *testing.T) {
	summary := Calculate(Inputs{SIPAmount: 2500, AnnualIncrement: 7.5, Tenure: 15, RateOfReturn: 0})

	if summary.TotalInterest != 0 {
		t.Errorf("TotalInterest = %v, want 0", summary.TotalInterest)
	}
	if summary.TotalTaxDeducted != 0 {
		t.Errorf("TotalTaxDeducted = %v, want 0", summary.TotalTaxDeducted)
	}
	if !mathutil.WithinTolerance(summary.FinalReturnPostTax, summary.TotalInvestment, tolerance) {
		t.Errorf("FinalReturnPostTax = %.6f, want TotalInvestment %.6f", summary.FinalReturnPostTax, summary.TotalInvestment)
	}
}

func TestCalculateZeroIncrementHasNoDrift(t *testing.T) {
	in := Inputs{SIPAmount: 1234.56, AnnualIncrement: 0, Tenure: 25, RateOfReturn: 9}
	_, series := CalculateSeries(in)

	for _, snap := range series {
		if snap.Contribution != in.SIPAmount {
			t.Fatalf("month %d contribution = %v, want exactly %v", snap.Month, snap.Contribution, in.SIPAmount)
		}
	}

	want := in.SIPAmount * float64(in.Tenure) * 12
	if !mathutil.WithinTolerance(series[len(series)-1].Investment, want, tolerance) {
		t.Errorf("total investment = %.6f, want %.6f", series[len(series)-1].Investment, want)
	}
}

func TestCalculateIncrementCompoundsMonthly(t *testing.T) {
	in := Inputs{SIPAmount: 1200, AnnualIncrement: 12, Tenure: 1, RateOfReturn: 0}
	summary := Calculate(in)

	// 1% monthly growth applied before each contribution: sum of 1200*1.01^m for m=1..12.
	want := 0.0
	for m := 1; m <= 12; m++ {
		want += 1200 * math.Pow(1.01, float64(m))
	}
	if !mathutil.WithinTolerance(summary.TotalInvestment, want, 1e-6) {
		t.Errorf("TotalInvestment = %.6f, want %.6f", summary.TotalInvestment, want)
	}
}

func TestSeriesInvariants(t *testing.T) {
	inputs := []Inputs{
		{SIPAmount: 1000, AnnualIncrement: 0, Tenure: 10, RateOfReturn: 12},
		{SIPAmount: 5000, AnnualIncrement: 10, Tenure: 20, RateOfReturn: 14.5},
		{SIPAmount: 150.75, AnnualIncrement: 3.3, Tenure: 3, RateOfReturn: 6},
	}

	for _, in := range inputs {
		summary, series := CalculateSeries(in)
		if len(series) != in.Tenure*12 {
			t.Fatalf("%+v: series length %d, want %d", in, len(series), in.Tenure*12)
		}

		var prev MonthSnapshot
		for i, snap := range series {
			if snap.Month != i+1 {
				t.Fatalf("%+v: snapshot %d has month %d", in, i, snap.Month)
			}
			rel := tolerance * math.Max(1, snap.TotalReturn)
			if !mathutil.WithinTolerance(snap.TotalReturn, snap.Investment+snap.Interest, rel) {
				t.Errorf("%+v month %d: total return %.6f != investment + interest %.6f",
					in, snap.Month, snap.TotalReturn, snap.Investment+snap.Interest)
			}
			if !mathutil.WithinTolerance(snap.TaxDeducted, 0.10*snap.Interest, rel) {
				t.Errorf("%+v month %d: tax %.6f != 10%% of interest %.6f", in, snap.Month, snap.TaxDeducted, snap.Interest)
			}
			if snap.Investment < prev.Investment || snap.Interest < prev.Interest ||
				snap.TotalReturn < prev.TotalReturn || snap.TaxDeducted < prev.TaxDeducted {
				t.Errorf("%+v month %d: accumulators decreased: %+v after %+v", in, snap.Month, snap, prev)
			}
			prev = snap
		}

		last := series[len(series)-1]
		if last.Investment != summary.TotalInvestment || last.TaxDeducted != summary.TotalTaxDeducted {
			t.Errorf("%+v: last snapshot %+v does not match summary %+v", in, last, summary)
		}
		if !mathutil.WithinTolerance(summary.FinalReturnPostTax, summary.TotalReturn-summary.TotalTaxDeducted, tolerance) {
			t.Errorf("%+v: post-tax %.6f != return - tax", in, summary.FinalReturnPostTax)
		}
	}
}

func TestCalculateNegativeRateIsAccepted(t *testing.T) {
	summary := Calculate(Inputs{SIPAmount: 1000, Tenure: 1, RateOfReturn: -12})
	if summary.TotalInterest >= 0 {
		t.Errorf("TotalInterest = %.2f, want negative", summary.TotalInterest)
	}
	if summary.TotalTaxDeducted >= 0 {
		t.Errorf("TotalTaxDeducted = %.2f, want negative", summary.TotalTaxDeducted)
	}
}

func TestCalculatorCustomPolicy(t *testing.T) {
	calc := NewCalculator(zap.NewNop(), Policy{TaxRate: 20})
	res := calc.Compute(Inputs{SIPAmount: 1000, Tenure: 1, RateOfReturn: 12}, false)

	if res.Series != nil {
		t.Errorf("expected no series when not requested, got %d entries", len(res.Series))
	}
	if !mathutil.WithinTolerance(res.Summary.TotalTaxDeducted, 132, tolerance) {
		t.Errorf("TotalTaxDeducted = %.6f, want 132", res.Summary.TotalTaxDeducted)
	}
	if !mathutil.WithinTolerance(res.Summary.FinalReturnPostTax, 12528, tolerance) {
		t.Errorf("FinalReturnPostTax = %.6f, want 12528", res.Summary.FinalReturnPostTax)
	}
	if res.Policy.TaxRate != 20 {
		t.Errorf("Policy.TaxRate = %v, want 20", res.Policy.TaxRate)
	}
}

func TestNewCalculatorNilLogger(t *testing.T) {
	calc := NewCalculator(nil, DefaultPolicy())
	if calc.Policy().TaxRate != 10 {
		t.Errorf("default tax rate = %v, want 10", calc.Policy().TaxRate)
	}
	_ = calc.Compute(Inputs{SIPAmount: 1, Tenure: 1, RateOfReturn: 1}, true)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Inputs
		wantErr bool
	}{
		{"valid", Inputs{SIPAmount: 1000, Tenure: 10, RateOfReturn: 12}, false},
		{"zero rates valid", Inputs{SIPAmount: 1, Tenure: 1}, false},
		{"zero amount", Inputs{SIPAmount: 0, Tenure: 10}, true},
		{"negative amount", Inputs{SIPAmount: -5, Tenure: 10}, true},
		{"zero tenure", Inputs{SIPAmount: 1000, Tenure: 0}, true},
		{"negative increment", Inputs{SIPAmount: 1000, Tenure: 1, AnnualIncrement: -1}, true},
		{"negative rate", Inputs{SIPAmount: 1000, Tenure: 1, RateOfReturn: -1}, true},
		{"nan rate", Inputs{SIPAmount: 1000, Tenure: 1, RateOfReturn: math.NaN()}, true},
		{"infinite amount", Inputs{SIPAmount: math.Inf(1), Tenure: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckLimits(t *testing.T) {
	if err := CheckLimits(Inputs{SIPAmount: 1000, Tenure: 100}); err != nil {
		t.Errorf("tenure at the limit rejected: %v", err)
	}
	if err := CheckLimits(Inputs{SIPAmount: 1000, Tenure: -3}); err != nil {
		t.Errorf("negative tenure is left to Validate, got %v", err)
	}
	err := CheckLimits(Inputs{SIPAmount: 1000, Tenure: 100000000})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("limit errors are distinct from validation errors")
	}
}

func TestComposition(t *testing.T) {
	c := Calculate(Inputs{SIPAmount: 1000, Tenure: 1, RateOfReturn: 12}).Composition()
	if !mathutil.WithinTolerance(c.InvestmentPercent+c.InterestPercent, 100, tolerance) {
		t.Errorf("shares sum to %.6f, want 100", c.InvestmentPercent+c.InterestPercent)
	}
	if !mathutil.WithinTolerance(c.InterestPercent, 660.0/12660.0*100, tolerance) {
		t.Errorf("InterestPercent = %.6f", c.InterestPercent)
	}

	empty := Summary{}.Composition()
	if empty.InvestmentPercent != 0 || empty.InterestPercent != 0 {
		t.Errorf("empty composition = %+v, want zero shares", empty)
	}
}

func TestYearEnds(t *testing.T) {
	_, series := CalculateSeries(Inputs{SIPAmount: 100, Tenure: 3, RateOfReturn: 8})
	ends := YearEnds(series)
	if len(ends) != 3 {
		t.Fatalf("expected 3 year-end snapshots, got %d", len(ends))
	}
	for i, snap := range ends {
		if snap.Month != (i+1)*12 {
			t.Errorf("year-end %d has month %d", i, snap.Month)
		}
	}

	partial := YearEnds(series[:14])
	if len(partial) != 2 || partial[1].Month != 14 {
		t.Errorf("partial year-ends = %+v, want months 12 and 14", partial)
	}
}

func assertSummary(t *testing.T, got, want Summary) {
	t.Helper()
	checks := []struct {
		name      string
		got, want float64
	}{
		{"TotalInvestment", got.TotalInvestment, want.TotalInvestment},
		{"TotalInterest", got.TotalInterest, want.TotalInterest},
		{"TotalReturn", got.TotalReturn, want.TotalReturn},
		{"TotalTaxDeducted", got.TotalTaxDeducted, want.TotalTaxDeducted},
		{"FinalReturnPostTax", got.FinalReturnPostTax, want.FinalReturnPostTax},
	}
	for _, c := range checks {
		if !mathutil.WithinTolerance(c.got, c.want, tolerance) {
			t.Errorf("%s = %.6f, want %.6f", c.name, c.got, c.want)
		}
	}
}
