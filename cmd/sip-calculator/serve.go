package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/internal/server"
	"github.com/iwvelando/sip-calculator/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) newServeCmd() *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard and calculation API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srvCfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				srvCfg.Address = address
			}
			srvCfg.Strict = srvCfg.Strict || c.strict
			if srvCfg.TaxRate == nil {
				rate := c.conf.Tax.Rate
				srvCfg.TaxRate = &rate
			}

			logger := c.logger
			if srvCfg.Logging != (config.LoggingConfig{}) {
				if logger, err = initializeLogger(srvCfg.Logging, c.logLevel); err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting server",
				zap.String("op", "main.serve"),
				zap.String("address", srvCfg.Address),
				zap.String("version", version),
			)
			if err := server.Run(ctx, logger, srvCfg, version); err != nil {
				logger.Error("server stopped with error",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
				return err
			}
			logger.Info("server stopped gracefully", zap.String("op", "main.serve"))
			return nil
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override, e.g. :8080")
	return cmd
}
