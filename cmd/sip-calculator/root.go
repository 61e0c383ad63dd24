package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries state shared by every command.
type cli struct {
	configPath string
	envFile    string
	logLevel   string
	strict     bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	conf   *config.Configuration
	logger *zap.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   constants.AppName,
		Short: "Systematic investment plan return calculator",
		Long: "Project the returns of a monthly SIP with an annual step-up, " +
			"tax on monthly gains, and a fixed expected rate of return.\n\n" +
			"Run without a subcommand for the interactive console prompts.",
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: c.runConsole,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", constants.DefaultConfigFile, "path to configuration file (YAML, TOML or JSON)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "file of SIP_* environment overrides")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&c.strict, "strict", false, "reject non-positive amounts, tenures and negative rates")

	root.AddCommand(
		c.newCalcCmd(),
		c.newBatchCmd(),
		c.newGoalCmd(),
		c.newServeCmd(),
		c.newDashboardCmd(),
		c.newVersionCmd(),
	)
	return root
}

// setup loads the environment file, the configuration (defaults when the
// file is absent) and the logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(c.envFile); err != nil {
		return err
	}

	conf, err := config.LoadConfigurationOrDefault(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", c.configPath, err)
	}
	c.conf = conf
	c.strict = c.strict || conf.Strict

	logger, err := initializeLogger(conf.Logging, c.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

func (c *cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(c.out, "%s %s\n", constants.AppName, version)
			return err
		},
	}
}
