package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/sip-calculator/internal/tui/theme"
	"github.com/iwvelando/sip-calculator/pkg/format"
	"github.com/iwvelando/sip-calculator/pkg/sip"
)

// StackedBarChart renders one bar per value pair with base at the bottom and
// top stacked above it. Bars are sampled down when they do not fit in width.
func StackedBarChart(base, top []float64, labels []string, width, height int) string {
	n := len(base)
	if n == 0 || len(top) != n {
		return ""
	}
	if height < 3 {
		height = 3
	}
	t := theme.Active

	totals := make([]float64, n)
	maxVal := 0.0
	for i := range base {
		totals[i] = base[i] + top[i]
		if totals[i] > maxVal {
			maxVal = totals[i]
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	tickStep := chartTickStep(maxVal)
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := int(math.Round(ceiling / tickStep))
	if numIntervals < 1 {
		numIntervals = 1
	}
	rowsPerTick := height / numIntervals
	if rowsPerTick < 1 {
		rowsPerTick = 1
	}
	chartH := rowsPerTick * numIntervals

	yLabelW := len(format.Compact(ceiling)) + 1
	if yLabelW < 4 {
		yLabelW = 4
	}
	tickLabels := make(map[int]string)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = format.Compact(tickStep * float64(i))
	}

	chartW := width - yLabelW - 1
	if chartW < 5 {
		chartW = 5
	}

	indexes := sampleIndexes(n, (chartW+1)/3)
	n = len(indexes)
	barW := 2
	if n > 0 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 2 {
		barW = 2
	}
	if barW > 6 {
		barW = 6
	}
	gap := 1
	axisLen := n*barW + max(0, n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	baseStyle := lipgloss.NewStyle().Foreground(t.Investment)
	topStyle := lipgloss.NewStyle().Foreground(t.Interest)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowMid := ceiling * (float64(row) - 0.5) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))
		for j, idx := range indexes {
			if j > 0 {
				b.WriteString(strings.Repeat(" ", gap))
			}
			switch {
			case base[idx] >= rowMid:
				b.WriteString(baseStyle.Render(strings.Repeat("█", barW)))
			case totals[idx] >= rowMid:
				b.WriteString(topStyle.Render(strings.Repeat("█", barW)))
			default:
				b.WriteString(strings.Repeat(" ", barW))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	if len(labels) == len(base) && n > 0 {
		buf := []byte(strings.Repeat(" ", axisLen))
		lastEnd := -1
		for j, idx := range indexes {
			lbl := labels[idx]
			pos := j * (barW + gap)
			end := pos + len(lbl)
			if pos <= lastEnd || end > axisLen {
				continue
			}
			copy(buf[pos:end], lbl)
			lastEnd = end
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", yLabelW+1))
		b.WriteString(axisStyle.Render(strings.TrimRight(string(buf), " ")))
	}

	return b.String()
}

// CompositionBar renders a single horizontal bar split between investment and
// interest, followed by the percentage of each.
func CompositionBar(c sip.Composition, width int) string {
	t := theme.Active
	if width < 10 {
		width = 10
	}

	investW := 0
	if total := c.Investment + c.Interest; total > 0 {
		investW = int(math.Round(c.InvestmentPercent / 100 * float64(width)))
	}
	if investW > width {
		investW = width
	}
	if investW < 0 {
		investW = 0
	}

	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	var b strings.Builder
	if c.Investment+c.Interest <= 0 {
		b.WriteString(emptyStyle.Render(strings.Repeat("░", width)))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Investment).Render(strings.Repeat("█", investW)))
		b.WriteString(lipgloss.NewStyle().Foreground(t.Interest).Render(strings.Repeat("█", width-investW)))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.Investment).Render("■ investment " + format.Percent(c.InvestmentPercent)))
	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Foreground(t.Interest).Render("■ interest " + format.Percent(c.InterestPercent)))
	return b.String()
}

// sampleIndexes picks at most limit evenly spaced indexes out of n, always
// keeping the first and last.
func sampleIndexes(n, limit int) []int {
	if limit < 2 {
		limit = 2
	}
	if n <= limit {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, limit)
	for i := range out {
		out[i] = i * (n - 1) / (limit - 1)
	}
	return out
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}
