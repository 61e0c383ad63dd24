package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/sip-calculator/internal/projection"
	"github.com/iwvelando/sip-calculator/pkg/sip"
)

func oneYear() projection.Projection {
	in := sip.Inputs{SIPAmount: 1000, AnnualIncrement: 0, Tenure: 1, RateOfReturn: 12}
	summary, series := sip.CalculateSeries(in)
	return projection.Projection{Name: "one year", Inputs: in, Summary: summary, Series: series}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, oneYear().Summary, sip.DefaultPolicy()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	want := strings.Join([]string{
		"Total Investment: 12000.00",
		"Total Interest Gained: 660.00",
		"Total Return: 12660.00",
		"Total Tax Deducted (10% on gains): 66.00",
		"Final Return Post Tax Deduction: 12594.00",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("WriteSummary() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestTaxLabel(t *testing.T) {
	if got := TaxLabel(sip.Policy{TaxRate: 12.5}); got != "Total Tax Deducted (12.5% on gains)" {
		t.Errorf("TaxLabel() = %q", got)
	}
}

func TestPrettyFormat(t *testing.T) {
	p := oneYear()
	p.Goal = &projection.GoalOutcome{Field: "tenure", Target: 25000, Original: 1, Value: 2, Achieved: 26484, Iterations: 3, Converged: true}
	p.Notes = []string{"sample note"}

	var buf bytes.Buffer
	PrettyFormat(&buf, []projection.Projection{p}, sip.DefaultPolicy(), true)
	output := buf.String()

	for _, want := range []string{
		"--- Results for scenario one year ---",
		"Total Investment",
		"12,000.00",
		"12,594.00",
		"Goal (tenure):",
		"1 years -> 2 years",
		"Note: sample note",
		"Month | Investment | Interest | Return | Tax",
		"12 | 12,000.00 | 660.00 | 12,660.00 | 66.00",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q:\n%s", want, output)
		}
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	CsvFormat(&buf, []projection.Projection{oneYear()}, sip.DefaultPolicy(), false)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], `"scenario","sip amount"`) {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[0], `"total tax deducted (10% on gains)"`) {
		t.Errorf("header missing tax column: %q", lines[0])
	}
	if lines[1] != `"one year","1000.00","0.00","1","12.00","12000.00","660.00","12660.00","66.00","12594.00"` {
		t.Errorf("unexpected row %q", lines[1])
	}

	buf.Reset()
	CsvFormat(&buf, []projection.Projection{oneYear()}, sip.DefaultPolicy(), true)
	if !strings.Contains(buf.String(), `"month","investment (one year)"`) {
		t.Errorf("series table missing:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"12","12000.00","660.00","12660.00","66.00"`) {
		t.Errorf("final month row missing:\n%s", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, []projection.Projection{oneYear()}); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded []projection.Projection
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "one year" || len(decoded[0].Series) != 12 {
		t.Errorf("decoded = %+v", decoded)
	}

	buf.Reset()
	if err := JSONFormat(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("nil results should encode as [], got %q", buf.String())
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "xml", nil, sip.DefaultPolicy(), false); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if err := Write(&buf, "csv", []projection.Projection{oneYear()}, sip.DefaultPolicy(), false); err != nil {
		t.Errorf("Write(csv) error = %v", err)
	}
}
