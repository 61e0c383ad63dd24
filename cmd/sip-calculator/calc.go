package main

import (
	"fmt"

	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/internal/goal"
	"github.com/iwvelando/sip-calculator/internal/projection"
	"github.com/iwvelando/sip-calculator/internal/report"
	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/iwvelando/sip-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type outputFlags struct {
	format string
	series bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "output-format", "o", "", "output format override: pretty, csv, json")
	cmd.Flags().BoolVar(&f.series, "series", false, "include the month-by-month series")
}

// resolve applies the command line overrides to the configured output settings.
func (f *outputFlags) resolve(cmd *cobra.Command, conf config.OutputConfig) (string, bool, error) {
	format := conf.Format
	if f.format != "" {
		format = f.format
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		return "", false, err
	}

	series := conf.Series
	if cmd.Flags().Changed("series") {
		series = f.series
	}
	return format, series, nil
}

func (c *cli) newCalcCmd() *cobra.Command {
	var inputs inputFlags
	var output outputFlags

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate a single SIP from flags",
		Example: "  sip-calculator calc --sip-amount 5000 --annual-increment 10 --tenure 20 --rate-of-return 12\n" +
			"  sip-calculator calc -a 1000 -y 1 -r 12 -o csv --series",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, series, err := output.resolve(cmd, c.conf.Output)
			if err != nil {
				return err
			}

			in := inputs.resolve(cmd, c.conf.Defaults)
			result, err := projection.Single(c.logger, c.conf.Policy(), in, c.strict, series)
			if err != nil {
				c.logger.Error("calculation rejected",
					zap.String("op", "main.calc"),
					zap.Error(err),
				)
				return err
			}
			result.Name = "calculation"

			return report.Write(c.out, format, []projection.Projection{result}, c.conf.Policy(), series)
		},
	}
	inputs.register(cmd)
	output.register(cmd)
	return cmd
}

func (c *cli) newBatchCmd() *cobra.Command {
	var output outputFlags

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Calculate every active scenario in the configuration file",
		Long: "Calculate every active scenario in the configuration file, solving any " +
			"goals first. Scenario values override the configured defaults.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			const op = "main.batch"

			conf, err := config.LoadConfiguration(c.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", c.configPath, err)
			}
			conf.Strict = conf.Strict || c.strict

			format, series, err := output.resolve(cmd, conf.Output)
			if err != nil {
				return err
			}

			for _, warning := range conf.ValidateConfiguration() {
				c.logger.Warn("Configuration warning: "+warning,
					zap.String("op", op),
				)
			}

			runner, err := goal.NewRunner(c.logger, conf)
			if err != nil {
				return err
			}
			goals, err := runner.Run()
			if err != nil {
				c.logger.Error("failed to evaluate goals",
					zap.String("op", op),
					zap.Error(err),
				)
				return err
			}

			results, err := projection.GetProjections(c.logger, *conf, series)
			if err != nil {
				c.logger.Error("failed to compute projections",
					zap.String("op", op),
					zap.Error(err),
				)
				return err
			}
			if !goals.Empty() {
				goals.Apply(results)
			}

			return report.Write(c.out, format, results, conf.Policy(), series)
		},
	}
	output.register(cmd)
	return cmd
}
