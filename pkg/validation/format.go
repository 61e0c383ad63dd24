// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/sip-calculator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateDashboardMode checks if the dashboard mode is live or gated.
func ValidateDashboardMode(mode string) error {
	if mode != constants.DashboardModeLive && mode != constants.DashboardModeGated {
		return fmt.Errorf("expected dashboard mode of %s or %s, got %s",
			constants.DashboardModeLive, constants.DashboardModeGated, mode)
	}
	return nil
}
