package main

import (
	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/pkg/sip"
	"github.com/spf13/cobra"
)

// inputFlags binds the four calculator inputs to command flags. Flags left
// unset fall back to the configured defaults.
type inputFlags struct {
	sipAmount       float64
	annualIncrement float64
	tenure          int
	rateOfReturn    float64
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.sipAmount, "sip-amount", "a", 0, "SIP amount per month (default from config)")
	cmd.Flags().Float64VarP(&f.annualIncrement, "annual-increment", "i", 0, "annual increment in percentage (default from config)")
	cmd.Flags().IntVarP(&f.tenure, "tenure", "y", 0, "tenure in years (default from config)")
	cmd.Flags().Float64VarP(&f.rateOfReturn, "rate-of-return", "r", 0, "expected rate of return in percentage (default from config)")
}

func (f *inputFlags) resolve(cmd *cobra.Command, d config.Defaults) sip.Inputs {
	in := d.Inputs()
	if cmd.Flags().Changed("sip-amount") {
		in.SIPAmount = f.sipAmount
	}
	if cmd.Flags().Changed("annual-increment") {
		in.AnnualIncrement = f.annualIncrement
	}
	if cmd.Flags().Changed("tenure") {
		in.Tenure = f.tenure
	}
	if cmd.Flags().Changed("rate-of-return") {
		in.RateOfReturn = f.rateOfReturn
	}
	return in
}
