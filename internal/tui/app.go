// Package tui provides the interactive Bubble Tea dashboard for the calculator.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/internal/report"
	"github.com/iwvelando/sip-calculator/internal/tui/components"
	"github.com/iwvelando/sip-calculator/internal/tui/theme"
	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/iwvelando/sip-calculator/pkg/format"
	"github.com/iwvelando/sip-calculator/pkg/mathutil"
	"github.com/iwvelando/sip-calculator/pkg/sip"
	"go.uber.org/zap"
)

const (
	minContentWidth     = 60
	defaultContentWidth = 100
	maxContentWidth     = 160
	chartHeight         = 8
)

// field describes one of the four calculator inputs.
type field struct {
	label   string
	integer bool
}

var fields = []field{
	{label: "Enter SIP amount per month"},
	{label: "Enter annual increment in percentage"},
	{label: "Enter tenure in years", integer: true},
	{label: "Enter expected rate of return in percentage"},
}

// Options configure a new App.
type Options struct {
	Mode    string
	Theme   string
	Policy  sip.Policy
	Strict  bool
	Initial sip.Inputs
	Logger  *zap.Logger
	// Persist saves mode and theme changes to the dashboard preferences file.
	Persist bool
}

// App is the root Bubble Tea model.
type App struct {
	logger  *zap.Logger
	calc    *sip.Calculator
	strict  bool
	persist bool

	mode      string
	themeName string

	// Live mode
	inputs    []textinput.Model
	focus     int
	fieldErrs []string

	// Gated mode
	form     *huh.Form
	formVals []string

	result  *sip.Result
	calcErr error
	saveErr error

	width  int
	height int
}

// NewApp creates a new dashboard model.
func NewApp(opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mode := opts.Mode
	if mode != constants.DashboardModeGated {
		mode = constants.DashboardModeLive
	}
	theme.SetActive(opts.Theme)

	initial := []string{
		strconv.FormatFloat(opts.Initial.SIPAmount, 'f', -1, 64),
		strconv.FormatFloat(opts.Initial.AnnualIncrement, 'f', -1, 64),
		strconv.Itoa(opts.Initial.Tenure),
		strconv.FormatFloat(opts.Initial.RateOfReturn, 'f', -1, 64),
	}

	a := App{
		logger:    logger,
		calc:      sip.NewCalculator(logger, opts.Policy),
		strict:    opts.Strict,
		persist:   opts.Persist,
		mode:      mode,
		themeName: theme.Active.Name,
		inputs:    make([]textinput.Model, len(fields)),
		fieldErrs: make([]string, len(fields)),
		formVals:  initial,
	}
	for i := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 24
		ti.Width = 20
		ti.SetValue(initial[i])
		a.inputs[i] = ti
	}
	a.inputs[0].Focus()

	if a.mode == constants.DashboardModeLive {
		a.recalc(a.rawInputs())
	} else {
		a.openForm()
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.form != nil {
		return a.form.Init()
	}
	return textinput.Blink
}

// Mode returns the active dashboard mode.
func (a App) Mode() string {
	return a.mode
}

// Result returns the most recent calculation, or nil when inputs are invalid
// or, in gated mode, not yet submitted.
func (a App) Result() *sip.Result {
	return a.result
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.contentWidth())
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if a.form != nil {
			return a.updateForm(msg)
		}

		switch key {
		case "ctrl+g":
			return a.toggleMode()
		case "ctrl+t":
			a.cycleTheme()
			return a, nil
		case "esc":
			return a, tea.Quit
		}

		if a.mode == constants.DashboardModeGated {
			switch key {
			case "e":
				a.openForm()
				return a, a.form.Init()
			case "m":
				return a.toggleMode()
			case "t":
				a.cycleTheme()
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}

		switch key {
		case "tab", "down", "enter":
			return a, a.setFocus((a.focus + 1) % len(a.inputs))
		case "shift+tab", "up":
			return a, a.setFocus((a.focus - 1 + len(a.inputs)) % len(a.inputs))
		}

		var cmd tea.Cmd
		a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
		a.recalc(a.rawInputs())
		return a, cmd
	}

	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.mode == constants.DashboardModeLive {
		var cmd tea.Cmd
		a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.form = nil
		a.recalc(a.formVals)
		return a, nil
	case huh.StateAborted:
		a.form = nil
		return a, nil
	}
	return a, cmd
}

func (a *App) openForm() {
	group := make([]huh.Field, 0, len(fields))
	for i, f := range fields {
		integer := f.integer
		group = append(group, huh.NewInput().
			Title(f.label).
			Value(&a.formVals[i]).
			Validate(func(s string) error {
				_, err := parseField(s, integer)
				return err
			}))
	}
	a.form = huh.NewForm(huh.NewGroup(group...)).WithShowHelp(true)
	if a.width > 0 {
		a.form = a.form.WithWidth(a.contentWidth())
	}
}

func (a App) toggleMode() (tea.Model, tea.Cmd) {
	if a.mode == constants.DashboardModeLive {
		a.mode = constants.DashboardModeGated
		copy(a.formVals, a.rawInputs())
		a.result = nil
		a.calcErr = nil
		a.openForm()
		a.savePrefs()
		return a, a.form.Init()
	}

	a.mode = constants.DashboardModeLive
	a.form = nil
	for i := range a.inputs {
		a.inputs[i].SetValue(a.formVals[i])
	}
	a.recalc(a.rawInputs())
	a.savePrefs()
	return a, a.setFocus(a.focus)
}

func (a *App) cycleTheme() {
	next := theme.Next(a.themeName)
	theme.SetActive(next.Name)
	a.themeName = next.Name
	a.savePrefs()
}

func (a *App) savePrefs() {
	if !a.persist {
		return
	}
	a.saveErr = config.SaveDashboardPrefs(config.DashboardPrefs{Theme: a.themeName, Mode: a.mode})
	if a.saveErr != nil {
		a.logger.Warn("failed to save dashboard preferences",
			zap.String("op", "tui.savePrefs"),
			zap.Error(a.saveErr),
		)
	}
}

func (a *App) setFocus(i int) tea.Cmd {
	a.inputs[a.focus].Blur()
	a.focus = i
	return a.inputs[a.focus].Focus()
}

func (a App) rawInputs() []string {
	raw := make([]string, len(a.inputs))
	for i, in := range a.inputs {
		raw[i] = in.Value()
	}
	return raw
}

// recalc parses raw and recomputes the result. Any unparsable field clears
// the result and records an inline error instead.
func (a *App) recalc(raw []string) {
	in, errs := parseInputs(raw)
	a.fieldErrs = errs
	a.calcErr = nil
	a.result = nil

	for _, e := range errs {
		if e != "" {
			return
		}
	}
	if err := sip.CheckLimits(in); err != nil {
		a.calcErr = err
		return
	}
	if a.strict {
		if err := sip.Validate(in); err != nil {
			a.calcErr = err
			return
		}
	}

	res := a.calc.Compute(in, true)
	a.result = &res
}

// parseInputs converts the four raw values. errs holds one message per field,
// empty for fields that parsed.
func parseInputs(raw []string) (sip.Inputs, []string) {
	errs := make([]string, len(fields))
	values := make([]float64, len(fields))
	for i, f := range fields {
		if i >= len(raw) {
			errs[i] = "required"
			continue
		}
		v, err := parseField(raw[i], f.integer)
		if err != nil {
			errs[i] = err.Error()
			continue
		}
		values[i] = v
	}

	return sip.Inputs{
		SIPAmount:       values[0],
		AnnualIncrement: values[1],
		Tenure:          int(values[2]),
		RateOfReturn:    values[3],
	}, errs
}

var errRequired = errors.New("required")

func parseField(raw string, integer bool) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, errRequired
	}
	if integer {
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("%q is not a whole number", trimmed)
		}
		return float64(n), nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !mathutil.IsFinite(v) {
		return 0, fmt.Errorf("%q is not a number", trimmed)
	}
	return v, nil
}

func (a App) contentWidth() int {
	w := a.width
	if w == 0 {
		w = defaultContentWidth
	}
	if w < minContentWidth {
		w = minContentWidth
	}
	if w > maxContentWidth {
		w = maxContentWidth
	}
	return w
}

// View implements tea.Model.
func (a App) View() string {
	t := theme.Active
	w := a.contentWidth()

	var b strings.Builder
	b.WriteString(a.viewHeader(w))
	b.WriteString("\n")

	if a.form != nil {
		b.WriteString(a.form.View())
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("  enter to submit · ctrl+c to quit"))
		return b.String()
	}

	inputsW := 36
	resultsW := w - inputsW
	if w < 90 {
		inputsW = w
		resultsW = w
	}

	left := components.ContentCard("Inputs", a.viewInputs(), inputsW)
	right := a.viewResults(resultsW)
	if inputsW == w {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, left, right))
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	}
	b.WriteString("\n")
	b.WriteString(a.viewFooter())
	return b.String()
}

func (a App) viewHeader(w int) string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render("◈ SIP Calculator")
	meta := lipgloss.NewStyle().Foreground(t.TextMuted).Render(fmt.Sprintf(" · %s mode · %s", a.mode, a.themeName))
	line := title + meta
	if a.saveErr != nil {
		line += lipgloss.NewStyle().Foreground(t.Error).Render(" · prefs not saved")
	}
	return lipgloss.NewStyle().Width(w).Render(line)
}

func (a App) viewInputs() string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	errStyle := lipgloss.NewStyle().Foreground(t.Error)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	for i, f := range fields {
		b.WriteString(labelStyle.Render(f.label))
		b.WriteString("\n")
		if a.mode == constants.DashboardModeLive {
			marker := "  "
			if i == a.focus {
				marker = lipgloss.NewStyle().Foreground(t.BorderFocus).Render("▸ ")
			}
			b.WriteString(marker + a.inputs[i].View())
			if a.fieldErrs[i] != "" {
				b.WriteString("\n" + errStyle.Render("  "+a.fieldErrs[i]))
			}
		} else {
			b.WriteString("  " + valueStyle.Render(a.formVals[i]))
		}
		if i < len(fields)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (a App) viewResults(w int) string {
	t := theme.Active
	hint := lipgloss.NewStyle().Foreground(t.TextMuted)

	switch {
	case a.calcErr != nil:
		return components.ContentCard("SIP Details", lipgloss.NewStyle().Foreground(t.Error).Render(a.calcErr.Error()), w)
	case a.result == nil && a.mode == constants.DashboardModeGated:
		return components.ContentCard("SIP Details", hint.Render("press e to enter values and calculate"), w)
	case a.result == nil:
		return components.ContentCard("SIP Details", hint.Render("fix the highlighted inputs to see results"), w)
	}

	res := a.result
	lines := report.Lines(res.Summary, res.Policy)
	colors := []lipgloss.Color{t.Investment, t.Interest, t.TextPrimary, t.Tax, t.Accent}
	cards := make([]components.Card, 0, len(lines))
	for i, line := range lines {
		cards = append(cards, components.Card{Label: line.Label, Value: format.NumericCurrency(line.Value), Color: colors[i]})
	}
	cards[2].Note = fmt.Sprintf("over %d months", res.Inputs.Months())

	var parts []string
	parts = append(parts, components.MetricCardRow(cards[:3], w), components.MetricCardRow(cards[3:], w))

	years := sip.YearEnds(res.Series)
	if len(years) > 0 {
		base := make([]float64, len(years))
		top := make([]float64, len(years))
		labels := make([]string, len(years))
		for i, y := range years {
			base[i] = y.Investment
			top[i] = y.Interest
			labels[i] = fmt.Sprintf("Y%d", y.Month/constants.MonthsPerYear)
		}
		chart := components.StackedBarChart(base, top, labels, components.CardInnerWidth(w), chartHeight)
		parts = append(parts, components.ContentCard("Cumulative investment vs interest by year", chart, w))
	}

	parts = append(parts, components.ContentCard("Composition of total return",
		components.CompositionBar(res.Summary.Composition(), components.CardInnerWidth(w)), w))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a App) viewFooter() string {
	t := theme.Active
	help := "tab/↑↓ move · ctrl+g gated mode · ctrl+t theme · esc quit"
	if a.mode == constants.DashboardModeGated {
		help = "e edit · m live mode · t theme · q quit"
	}
	return lipgloss.NewStyle().Foreground(t.TextDim).Render(" " + help)
}
