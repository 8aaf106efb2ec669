// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/bahayahay/realty/pkg/constants"
	"github.com/bahayahay/realty/pkg/estimate"
)

// ValidateRateDivergence warns when the year-2 interest rate no longer agrees
// with the one-year remaining-amount factor. The two are configured
// separately but have always carried the same value.
func ValidateRateDivergence(rates estimate.RateConfig) string {
	oneYear, ok := rates.RemainingAmountFactorRates[1]
	if !ok {
		return ""
	}
	if !oneYear.Equal(rates.Year2InterestRate) {
		return fmt.Sprintf("Year 2 interest rate (%s) differs from the 1-year remaining amount factor (%s)",
			rates.Year2InterestRate, oneYear)
	}
	return ""
}

// ValidateFactorTerms warns about terms offered by one product but not by
// products that usually share them.
func ValidateFactorTerms(rates estimate.RateConfig) []string {
	var warnings []string
	for _, term := range rates.InHouseFactorRates.Terms() {
		if _, ok := rates.PagibigFactorRates[term]; !ok {
			warnings = append(warnings, fmt.Sprintf("In-house term of %d years has no matching Pag-IBIG factor", term))
		}
	}
	return warnings
}

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	Rates    estimate.RateConfig
	Mail     MailConfig
	Auth     AuthConfig
	Listings ListingsConfig
	Cache    CacheConfig
}

type MailConfig struct {
	Host             string
	From             string
	ContactRecipient string
	BookingRecipient string
}

type AuthConfig struct {
	AdminUsername string
	AdminPassword string
	JWTSecret     string
}

type ListingsConfig struct {
	Source       string
	DatabaseHost string
}

type CacheConfig struct {
	Backend   string
	RedisAddr string
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if warning := ValidateRateDivergence(cv.Rates); warning != "" {
		warnings = append(warnings, warning)
	}
	warnings = append(warnings, ValidateFactorTerms(cv.Rates)...)

	if cv.Mail.Host == "" {
		warnings = append(warnings, "Mail host is not set - inquiries will be logged instead of emailed")
	} else {
		if cv.Mail.From == "" {
			warnings = append(warnings, "Mail from address is not set")
		}
		if cv.Mail.ContactRecipient == "" {
			warnings = append(warnings, "Contact recipient is not set - contact inquiries go to the default inbox")
		}
		if cv.Mail.BookingRecipient == "" {
			warnings = append(warnings, "Booking recipient is not set - viewing requests go to the default front desk")
		}
	}

	if cv.Auth.JWTSecret == "" {
		warnings = append(warnings, "JWT secret is not set - admin login is disabled")
	}
	if cv.Auth.AdminUsername == "" || cv.Auth.AdminPassword == "" {
		warnings = append(warnings, "Admin credentials are not set - admin login is disabled")
	}

	if cv.Listings.Source == constants.ListingSourcePostgres && cv.Listings.DatabaseHost == "" {
		warnings = append(warnings, "Listing source is postgres but no database host is set")
	}
	if cv.Cache.Backend == constants.CacheBackendRedis && cv.Cache.RedisAddr == "" {
		warnings = append(warnings, "Cache backend is redis but no redis address is set")
	}

	return warnings
}
