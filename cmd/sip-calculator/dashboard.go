package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/internal/tui"
	"github.com/iwvelando/sip-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) newDashboardCmd() *cobra.Command {
	var mode, themeName string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Launch the interactive terminal dashboard",
		Long: "Launch the interactive terminal dashboard. In live mode results update " +
			"on every keystroke; in gated mode they update when the form is submitted. " +
			"Mode and theme changes are remembered between runs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefs, err := c.dashboardPrefs(cmd, mode, themeName)
			if err != nil {
				return err
			}

			app := tui.NewApp(tui.Options{
				Mode:    prefs.Mode,
				Theme:   prefs.Theme,
				Policy:  c.conf.Policy(),
				Strict:  c.strict,
				Initial: c.conf.Defaults.Inputs(),
				Logger:  c.logger,
				Persist: true,
			})

			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithInput(c.in), tea.WithOutput(c.out))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("dashboard error: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "live or gated (default from saved preferences)")
	cmd.Flags().StringVar(&themeName, "theme", "", "flexoki-dark, catppuccin-mocha, tokyo-night, terminal")
	return cmd
}

// dashboardPrefs merges saved preferences with flag overrides. A broken or
// invalid saved file falls back to the defaults; an invalid --mode is an error.
func (c *cli) dashboardPrefs(cmd *cobra.Command, mode, themeName string) (config.DashboardPrefs, error) {
	const op = "main.dashboard"

	prefs, err := config.LoadDashboardPrefs()
	if err != nil {
		c.logger.Warn("using default dashboard preferences",
			zap.String("op", op),
			zap.String("path", config.PrefsPath()),
			zap.Error(err),
		)
	}
	if err := validation.ValidateDashboardMode(prefs.Mode); err != nil {
		c.logger.Warn("ignoring saved dashboard mode",
			zap.String("op", op),
			zap.String("path", config.PrefsPath()),
			zap.Error(err),
		)
		prefs.Mode = config.DefaultDashboardPrefs().Mode
	}

	if cmd.Flags().Changed("mode") {
		if err := validation.ValidateDashboardMode(mode); err != nil {
			return prefs, err
		}
		prefs.Mode = mode
	}
	if cmd.Flags().Changed("theme") {
		prefs.Theme = themeName
	}
	return prefs, nil
}
