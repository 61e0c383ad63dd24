// Package report renders calculation results for terminals and files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/internal/projection"
	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/iwvelando/sip-calculator/pkg/format"
	"github.com/iwvelando/sip-calculator/pkg/sip"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Line is one labeled summary value.
type Line struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TaxLabel names the tax line using the policy's rate, e.g.
// "Total Tax Deducted (10% on gains)".
func TaxLabel(policy sip.Policy) string {
	return fmt.Sprintf("Total Tax Deducted (%s%% on gains)", strconv.FormatFloat(policy.TaxRate, 'f', -1, 64))
}

// Lines returns the five summary values in display order.
func Lines(summary sip.Summary, policy sip.Policy) []Line {
	return []Line{
		{Label: "Total Investment", Value: summary.TotalInvestment},
		{Label: "Total Interest Gained", Value: summary.TotalInterest},
		{Label: "Total Return", Value: summary.TotalReturn},
		{Label: TaxLabel(policy), Value: summary.TotalTaxDeducted},
		{Label: "Final Return Post Tax Deduction", Value: summary.FinalReturnPostTax},
	}
}

// WriteSummary writes the five labeled lines with values rounded to two
// decimals and no separators.
func WriteSummary(w io.Writer, summary sip.Summary, policy sip.Policy) error {
	for _, line := range Lines(summary, policy) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", line.Label, format.Amount(line.Value)); err != nil {
			return err
		}
	}
	return nil
}

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, results []projection.Projection, policy sip.Policy, withSeries bool) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		_, _ = p.Fprintf(w, "Inputs: SIP %.2f/month, increment %s/year, tenure %d years, return %s/year\n",
			display(result.Inputs.SIPAmount), format.Percent(result.Inputs.AnnualIncrement),
			result.Inputs.Tenure, format.Percent(result.Inputs.RateOfReturn))

		lines := Lines(result.Summary, policy)
		width := 0
		for _, line := range lines {
			if len(line.Label) > width {
				width = len(line.Label)
			}
		}
		for _, line := range lines {
			_, _ = p.Fprintf(w, "%-*s | %.2f\n", width, line.Label, display(line.Value))
		}

		if goal := result.Goal; goal != nil {
			fmt.Fprintf(w, "Goal (%s):\n", goal.Field)
			_, _ = p.Fprintf(w, "  - target %.2f, %s %s -> %s, achieved %.2f after %d iterations\n",
				display(goal.Target), goal.Field, config.DisplayGoalValue(goal.Field, goal.Original), config.DisplayGoalValue(goal.Field, goal.Value),
				display(goal.Achieved), goal.Iterations)
			if !goal.Converged {
				fmt.Fprintf(w, "  - did not converge\n")
			}
		}
		for _, note := range result.Notes {
			fmt.Fprintf(w, "Note: %s\n", note)
		}

		if withSeries && len(result.Series) > 0 {
			fmt.Fprintf(w, "Month | Investment | Interest | Return | Tax\n")
			fmt.Fprintf(w, "_____ | __________ | ________ | ______ | ___\n")
			for _, snap := range result.Series {
				_, _ = p.Fprintf(w, "%d | %.2f | %.2f | %.2f | %.2f\n", snap.Month,
					display(snap.Investment), display(snap.Interest), display(snap.TotalReturn), display(snap.TaxDeducted))
			}
		}

		if i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat writes one summary row per scenario. With series enabled a month
// table follows for each scenario.
func CsvFormat(w io.Writer, results []projection.Projection, policy sip.Policy, withSeries bool) {
	header := []string{"scenario", "sip amount", "annual increment", "tenure", "rate of return"}
	for _, line := range Lines(sip.Summary{}, policy) {
		header = append(header, strings.ToLower(line.Label))
	}
	writeRow(w, header)

	for _, result := range results {
		row := []string{
			result.Name,
			format.Amount(result.Inputs.SIPAmount),
			format.Amount(result.Inputs.AnnualIncrement),
			strconv.Itoa(result.Inputs.Tenure),
			format.Amount(result.Inputs.RateOfReturn),
		}
		for _, line := range Lines(result.Summary, policy) {
			row = append(row, format.Amount(line.Value))
		}
		writeRow(w, row)
	}

	if !withSeries {
		return
	}
	for _, result := range results {
		if len(result.Series) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n")
		writeRow(w, []string{
			"month",
			fmt.Sprintf("investment (%s)", result.Name),
			fmt.Sprintf("interest (%s)", result.Name),
			fmt.Sprintf("return (%s)", result.Name),
			fmt.Sprintf("tax (%s)", result.Name),
		})
		for _, snap := range result.Series {
			writeRow(w, []string{
				strconv.Itoa(snap.Month),
				format.Amount(snap.Investment),
				format.Amount(snap.Interest),
				format.Amount(snap.TotalReturn),
				format.Amount(snap.TaxDeducted),
			})
		}
	}
}

// JSONFormat writes the projections as an indented JSON document.
func JSONFormat(w io.Writer, results []projection.Projection) error {
	if results == nil {
		results = []projection.Projection{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// Write dispatches to the renderer named by outputFormat.
func Write(w io.Writer, outputFormat string, results []projection.Projection, policy sip.Policy, withSeries bool) error {
	switch outputFormat {
	case constants.OutputFormatPretty, "":
		PrettyFormat(w, results, policy, withSeries)
	case constants.OutputFormatCSV:
		CsvFormat(w, results, policy, withSeries)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
	return nil
}

func writeRow(w io.Writer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			fmt.Fprintf(w, ",")
		}
		fmt.Fprintf(w, `"%s"`, strings.ReplaceAll(field, `"`, `""`))
	}
	fmt.Fprintf(w, "\n")
}

// display rounds to the two decimals printed by the console summary so the
// grouped printer shows the same digits.
func display(value float64) float64 {
	return format.Round(value)
}
