package tui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/iwvelando/sip-calculator/pkg/sip"
)

func oneYearOptions(mode string) Options {
	return Options{
		Mode:    mode,
		Policy:  sip.DefaultPolicy(),
		Initial: sip.Inputs{SIPAmount: 1000, AnnualIncrement: 0, Tenure: 1, RateOfReturn: 12},
	}
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next
}

func TestParseInputs(t *testing.T) {
	in, errs := parseInputs([]string{"1000", " 5 ", "10", "12.5"})
	for i, e := range errs {
		if e != "" {
			t.Errorf("field %d error = %q", i, e)
		}
	}
	want := sip.Inputs{SIPAmount: 1000, AnnualIncrement: 5, Tenure: 10, RateOfReturn: 12.5}
	if in != want {
		t.Errorf("inputs = %+v, want %+v", in, want)
	}

	_, errs = parseInputs([]string{"abc", "", "1.5", "Inf"})
	for i, e := range errs {
		if e == "" {
			t.Errorf("field %d should have failed to parse", i)
		}
	}
	if errs[1] != "required" {
		t.Errorf("empty field error = %q, want required", errs[1])
	}
}

func TestLiveModeCalculatesImmediately(t *testing.T) {
	a := NewApp(oneYearOptions(constants.DashboardModeLive))

	res := a.Result()
	if res == nil {
		t.Fatal("live mode should calculate on start")
	}
	if math.Abs(res.Summary.FinalReturnPostTax-12594) > 1e-6 {
		t.Errorf("post tax = %v, want 12594", res.Summary.FinalReturnPostTax)
	}
	if len(res.Series) != 12 {
		t.Errorf("series length = %d, want 12", len(res.Series))
	}
}

func TestLiveModeRecalculatesPerKeystroke(t *testing.T) {
	a := NewApp(oneYearOptions(constants.DashboardModeLive))

	a = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if a.Result() != nil {
		t.Fatal("unparsable input should clear the result")
	}
	if a.fieldErrs[0] == "" {
		t.Error("expected inline error on the SIP amount field")
	}
	if !strings.Contains(a.View(), "not a number") {
		t.Error("view should show the inline parse error")
	}

	a = update(t, a, tea.KeyMsg{Type: tea.KeyBackspace})
	if a.Result() == nil {
		t.Fatal("result should return once the input parses")
	}

	a = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0")})
	if got := a.Result().Inputs.SIPAmount; got != 10000 {
		t.Errorf("SIP amount = %v, want 10000", got)
	}
}

func TestLiveModeFocusCycles(t *testing.T) {
	a := NewApp(oneYearOptions(constants.DashboardModeLive))

	a = update(t, a, tea.KeyMsg{Type: tea.KeyTab})
	if a.focus != 1 {
		t.Fatalf("focus = %d, want 1", a.focus)
	}
	a = update(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})
	a = update(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})
	if a.focus != len(fields)-1 {
		t.Errorf("focus = %d, want %d", a.focus, len(fields)-1)
	}

	// Tenure only accepts whole numbers.
	a = update(t, a, tea.KeyMsg{Type: tea.KeyShiftTab})
	a = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(".5")})
	if a.Result() != nil || a.fieldErrs[2] == "" {
		t.Errorf("fractional tenure should not parse, errs %v", a.fieldErrs)
	}
}

func TestGatedModeWaitsForSubmit(t *testing.T) {
	a := NewApp(oneYearOptions(constants.DashboardModeGated))

	if a.Result() != nil {
		t.Fatal("gated mode should not calculate before submit")
	}
	if a.form == nil {
		t.Fatal("gated mode should open the input form")
	}

	a.form = nil
	a.recalc(a.formVals)
	if a.Result() == nil {
		t.Fatal("submitted values should calculate")
	}
	if !strings.Contains(a.View(), "12,594.00") {
		t.Error("view should render the post-tax return")
	}

	a = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if a.form == nil {
		t.Error("e should reopen the form")
	}
}

func TestToggleMode(t *testing.T) {
	a := NewApp(oneYearOptions(constants.DashboardModeLive))

	a = update(t, a, tea.KeyMsg{Type: tea.KeyCtrlG})
	if a.Mode() != constants.DashboardModeGated {
		t.Fatalf("mode = %s, want gated", a.Mode())
	}
	if a.Result() != nil {
		t.Error("switching to gated mode should clear results until submit")
	}
	if a.formVals[0] != "1000" {
		t.Errorf("form should carry over live values, got %v", a.formVals)
	}

	// The open form owns keystrokes.
	a.form = nil
	a = update(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if a.Mode() != constants.DashboardModeLive {
		t.Fatalf("mode = %s, want live", a.Mode())
	}
	if a.Result() == nil {
		t.Error("live mode should recalculate immediately")
	}
}

func TestStrictModeReportsInvalidInput(t *testing.T) {
	opts := oneYearOptions(constants.DashboardModeLive)
	opts.Strict = true
	opts.Initial.Tenure = 0

	a := NewApp(opts)
	if a.Result() != nil {
		t.Error("strict mode should not calculate invalid inputs")
	}
	if a.calcErr == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(a.View(), "invalid input") {
		t.Error("view should show the validation error")
	}
}

func TestExcessiveTenureReportsLimit(t *testing.T) {
	opts := oneYearOptions(constants.DashboardModeLive)
	opts.Initial.Tenure = 100000000

	a := NewApp(opts)
	if a.Result() != nil {
		t.Error("a tenure above the limit should not be calculated")
	}
	if a.calcErr == nil || !strings.Contains(a.View(), "limit exceeded") {
		t.Errorf("view should show the limit error, calcErr = %v", a.calcErr)
	}
}

func TestCtrlCQuits(t *testing.T) {
	a := NewApp(oneYearOptions(constants.DashboardModeGated))

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit even while the form is open")
	}
}

func TestThemeCycle(t *testing.T) {
	a := NewApp(oneYearOptions(constants.DashboardModeLive))
	start := a.themeName

	a = update(t, a, tea.KeyMsg{Type: tea.KeyCtrlT})
	if a.themeName == start {
		t.Error("ctrl+t should change the theme")
	}
}
