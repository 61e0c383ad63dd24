package main

import (
	"encoding/json"
	"fmt"

	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/internal/goal"
	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/iwvelando/sip-calculator/pkg/format"
	"github.com/iwvelando/sip-calculator/pkg/sip"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) newGoalCmd() *cobra.Command {
	var (
		inputs       inputFlags
		goalCfg      config.GoalConfig
		minVal       float64
		maxVal       float64
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Solve for the input that reaches a target post-tax return",
		Long: "Solve for the smallest value of one input (sipAmount, annualIncrement, " +
			"rateOfReturn or tenure) whose final return post tax deduction reaches --target. " +
			"The other inputs come from flags or the configured defaults.",
		Example: "  sip-calculator goal --target 10000000 --tenure 20 --rate-of-return 12\n" +
			"  sip-calculator goal --field tenure --target 5000000 --sip-amount 10000",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("min") {
				goalCfg.Min = &minVal
			}
			if cmd.Flags().Changed("max") {
				goalCfg.Max = &maxVal
			}
			in := inputs.resolve(cmd, c.conf.Defaults)
			if c.strict {
				if err := sip.Validate(in); err != nil {
					return err
				}
			}

			summary, err := goal.Seek(c.conf.Policy(), in, goalCfg)
			if err != nil {
				return err
			}
			c.logger.Info("goal evaluated",
				zap.String("op", "main.goal"),
				zap.String("field", summary.Field),
				zap.Float64("value", summary.Value),
				zap.Int("iterations", summary.Iterations),
				zap.Bool("converged", summary.Converged),
			)

			if err := writeGoal(c, outputFormat, summary); err != nil {
				return err
			}
			if !summary.Converged {
				return fmt.Errorf("goal of %s not reached", format.NumericCurrency(summary.Target))
			}
			return nil
		},
	}
	inputs.register(cmd)
	cmd.Flags().StringVar(&goalCfg.Field, "field", config.GoalFieldSIPAmount, "input to solve: sipAmount, annualIncrement, rateOfReturn, tenure")
	cmd.Flags().Float64VarP(&goalCfg.Target, "target", "t", 0, "target final return post tax deduction")
	cmd.Flags().Float64Var(&minVal, "min", 0, "lower search bound")
	cmd.Flags().Float64Var(&maxVal, "max", 0, "upper search bound")
	cmd.Flags().Float64Var(&goalCfg.Tolerance, "tolerance", 0, "search tolerance")
	cmd.Flags().IntVar(&goalCfg.MaxIterations, "max-iterations", 0, "bisection iteration limit")
	cmd.Flags().StringVarP(&outputFormat, "output-format", "o", constants.OutputFormatPretty, "output format: pretty, json")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func writeGoal(c *cli, outputFormat string, summary goal.Summary) error {
	if outputFormat == constants.OutputFormatJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprintf(c.out, "Solving %s for a final return post tax deduction of %s\n", summary.Field, format.NumericCurrency(summary.Target))
	fmt.Fprintf(c.out, "Original: %s\n", config.DisplayGoalValue(summary.Field, summary.Original))
	fmt.Fprintf(c.out, "Required: %s\n", config.DisplayGoalValue(summary.Field, summary.Value))
	fmt.Fprintf(c.out, "Achieved: %s after %d iterations\n", format.NumericCurrency(summary.Achieved), summary.Iterations)
	for _, note := range summary.Notes {
		fmt.Fprintf(c.out, "Note: %s\n", note)
	}
	return nil
}
