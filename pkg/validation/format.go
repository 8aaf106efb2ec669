// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/bahayahay/realty/pkg/constants"
	"github.com/bahayahay/realty/pkg/estimate"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	default:
		return fmt.Errorf("expected output format of %s, %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
	}
}

// ValidateMode checks if the estimate mode is supported. Unlike ParseMode it
// does not accept an empty value.
func ValidateMode(mode string) error {
	if mode != string(estimate.ModeSummary) && mode != string(estimate.ModeDetailed) {
		return fmt.Errorf("expected mode of %s or %s, got %s",
			estimate.ModeSummary, estimate.ModeDetailed, mode)
	}
	return nil
}

// ValidateDownPayment checks a down payment percentage against the configured choices.
func ValidateDownPayment(percent int, rates estimate.RateConfig) error {
	if !rates.AllowsDownPayment(percent) {
		return fmt.Errorf("down payment of %d%% is not one of %v", percent, rates.DownPaymentPercentOptions)
	}
	return nil
}
