package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/sip-calculator/internal/report"
	"github.com/iwvelando/sip-calculator/pkg/sip"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var consolePrompts = []string{
	"Enter SIP amount per month: ",
	"Enter annual increment in percentage: ",
	"Enter tenure in years: ",
	"Enter expected rate of return in percentage: ",
}

func (c *cli) runConsole(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q", args[0])
	}

	in, err := readConsoleInputs(c.in, c.out)
	if err != nil {
		c.logger.Error("failed to read inputs",
			zap.String("op", "main.runConsole"),
			zap.Error(err),
		)
		return err
	}
	if err := sip.CheckLimits(in); err != nil {
		return err
	}
	if c.strict {
		if err := sip.Validate(in); err != nil {
			return err
		}
	}

	policy := c.conf.Policy()
	summary := sip.NewCalculator(c.logger, policy).Compute(in, false).Summary

	if _, err := fmt.Fprint(c.out, "\nSIP Details:\n"); err != nil {
		return err
	}
	return report.WriteSummary(c.out, summary, policy)
}

// readConsoleInputs prompts for the four values in order. A value that does
// not parse stops the session with an error.
func readConsoleInputs(r io.Reader, w io.Writer) (sip.Inputs, error) {
	reader := bufio.NewReader(r)
	raw := make([]string, len(consolePrompts))
	for i, prompt := range consolePrompts {
		if _, err := fmt.Fprint(w, prompt); err != nil {
			return sip.Inputs{}, err
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return sip.Inputs{}, err
			}
			if line == "" {
				return sip.Inputs{}, fmt.Errorf("unexpected end of input")
			}
		}
		raw[i] = strings.TrimSpace(line)
	}

	var in sip.Inputs
	var err error
	if in.SIPAmount, err = strconv.ParseFloat(raw[0], 64); err != nil {
		return in, fmt.Errorf("invalid SIP amount %q: %w", raw[0], err)
	}
	if in.AnnualIncrement, err = strconv.ParseFloat(raw[1], 64); err != nil {
		return in, fmt.Errorf("invalid annual increment %q: %w", raw[1], err)
	}
	if in.Tenure, err = strconv.Atoi(raw[2]); err != nil {
		return in, fmt.Errorf("invalid tenure %q: %w", raw[2], err)
	}
	if in.RateOfReturn, err = strconv.ParseFloat(raw[3], 64); err != nil {
		return in, fmt.Errorf("invalid rate of return %q: %w", raw[3], err)
	}
	return in, nil
}
