package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/shopspring/decimal"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Defaults without a file",
			configPath: "",
			wantError:  false,
		},
		{
			name:       "Example config",
			configPath: "../../config.yaml.example",
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Format != "json" {
		t.Errorf("Expected default logging format json, got %s", config.Logging.Format)
	}
	if config.Output.Format != "pretty" {
		t.Errorf("Expected default output format pretty, got %s", config.Output.Format)
	}
	if config.Listings.Source != "memory" {
		t.Errorf("Expected default listing source memory, got %s", config.Listings.Source)
	}
	if config.Cache.TTL != 5*time.Minute {
		t.Errorf("Expected default cache ttl 5m, got %s", config.Cache.TTL)
	}
	if config.Auth.TokenTTL != 12*time.Hour {
		t.Errorf("Expected default token ttl 12h, got %s", config.Auth.TokenTTL)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default configuration should be valid: %v", err)
	}

	defaults := estimate.DefaultRates()
	if !config.Rates.Year2InterestRate.Equal(defaults.Year2InterestRate) {
		t.Errorf("Expected default year 2 rate, got %s", config.Rates.Year2InterestRate)
	}
	if len(config.Rates.BankFactorRates) != len(defaults.BankFactorRates) {
		t.Errorf("Expected default bank table, got %v", config.Rates.BankFactorRates)
	}
}

func TestLoadConfigurationExampleMatchesDefaults(t *testing.T) {
	config, err := LoadConfiguration("../../config.yaml.example")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	defaults := estimate.DefaultRates()
	tables := map[string][2]estimate.FactorRateTable{
		"inHouse":   {defaults.InHouseFactorRates, config.Rates.InHouseFactorRates},
		"pagibig":   {defaults.PagibigFactorRates, config.Rates.PagibigFactorRates},
		"remaining": {defaults.RemainingAmountFactorRates, config.Rates.RemainingAmountFactorRates},
		"bank":      {defaults.BankFactorRates, config.Rates.BankFactorRates},
	}
	for name, pair := range tables {
		if len(pair[0]) != len(pair[1]) {
			t.Errorf("%s table has %d terms, expected %d", name, len(pair[1]), len(pair[0]))
			continue
		}
		for term, want := range pair[0] {
			if !want.Equal(pair[1][term]) {
				t.Errorf("%s factor for %d years = %s, expected %s", name, term, pair[1][term], want)
			}
		}
	}

	for _, option := range estimate.Options() {
		if !defaults.ReservationFees[option].Equal(config.Rates.ReservationFees[option]) {
			t.Errorf("Reservation fee for %s = %s", option, config.Rates.ReservationFees[option])
		}
		want, got := defaults.MaxLoan(option), config.Rates.MaxLoan(option)
		if got == nil || !want.Equal(*got) {
			t.Errorf("Max loan for %s = %v, expected %s", option, got, want)
		}
	}
	if !config.Rates.RequiredIncomeDivisor.Equal(decimal.RequireFromString("0.4")) {
		t.Errorf("Expected divisor 0.4, got %s", config.Rates.RequiredIncomeDivisor)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Example configuration should be valid: %v", err)
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "debug" || config.Logging.Format != "console" {
		t.Errorf("Unexpected logging config %+v", config.Logging)
	}
	if config.Output.Format != "csv" || config.Output.Mode != "summary" {
		t.Errorf("Unexpected output config %+v", config.Output)
	}

	// Given settings replace their defaults.
	if !config.Rates.ReservationFees[estimate.NURLotOnly].Equal(decimal.NewFromInt(12000)) {
		t.Errorf("Expected NUR lot reservation fee 12000, got %s", config.Rates.ReservationFees[estimate.NURLotOnly])
	}
	if config.Rates.MaxLoan(estimate.PalmHouseLot) != nil {
		t.Errorf("Expected no cap for palm_house_lot, got %s", config.Rates.MaxLoan(estimate.PalmHouseLot))
	}
	if got := config.Rates.DownPaymentPercentOptions; len(got) != 2 || got[0] != 20 || got[1] != 30 {
		t.Errorf("Expected down payment options [20 30], got %v", got)
	}
	if len(config.Rates.BankFactorRates) != 2 {
		t.Errorf("Expected 2 bank terms, got %v", config.Rates.BankFactorRates.Terms())
	}
	if !config.Rates.BankFactorRates[5].Equal(decimal.RequireFromString("0.020037949")) {
		t.Errorf("Expected exact 5-year bank factor, got %s", config.Rates.BankFactorRates[5])
	}
	if !config.Rates.BankFactorRates[10].Equal(decimal.RequireFromString("0.0118701769135854")) {
		t.Errorf("Expected exact 10-year bank factor, got %s", config.Rates.BankFactorRates[10])
	}

	// Omitted settings keep their defaults.
	if len(config.Rates.InHouseFactorRates) != 3 {
		t.Errorf("Expected default in-house table, got %v", config.Rates.InHouseFactorRates.Terms())
	}
	if !config.Rates.Year2InterestRate.Equal(estimate.DefaultRates().Year2InterestRate) {
		t.Errorf("Expected default year 2 rate, got %s", config.Rates.Year2InterestRate)
	}

	if config.Cache.Backend != "redis" || config.Cache.RedisAddr != "localhost:6379" || config.Cache.TTL != 2*time.Minute {
		t.Errorf("Unexpected cache config %+v", config.Cache)
	}
	if config.Mail.Port != 465 || config.Mail.ContactRecipient != "sales@example.com" {
		t.Errorf("Unexpected mail config %+v", config.Mail)
	}
	if config.Auth.TokenTTL != time.Hour || config.Auth.Issuer != "realty-admin" {
		t.Errorf("Unexpected auth config %+v", config.Auth)
	}
	if config.Database.Port != 5432 || config.Database.SSLMode != "disable" {
		t.Errorf("Expected database defaults to fill gaps, got %+v", config.Database)
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("REALTY_MAIL_PASSWORD", "from-env")
	t.Setenv("REALTY_AUTH_JWTSECRET", "env-signing-key")
	t.Setenv("REALTY_LISTINGS_SOURCE", "postgres")

	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Mail.Password != "from-env" {
		t.Errorf("Expected mail password from environment, got %q", config.Mail.Password)
	}
	if config.Auth.JWTSecret != "env-signing-key" {
		t.Errorf("Expected jwt secret from environment, got %q", config.Auth.JWTSecret)
	}
	if config.Listings.Source != "postgres" {
		t.Errorf("Expected listing source from environment, got %q", config.Listings.Source)
	}
}

func TestLoadConfigurationInvalidDecimal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "rates:\n  year2InterestRate: \"eight percent\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadConfiguration(path); err == nil {
		t.Errorf("LoadConfiguration() expected error for malformed decimal")
	}
}

func TestDatabaseDSN(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	dsn := config.Database.DSN()
	parsed, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("DSN %q does not parse: %v", dsn, err)
	}
	if parsed.Host != "db.internal:5432" || parsed.Path != "/listings" {
		t.Errorf("Unexpected DSN host/path in %q", dsn)
	}
	if password, _ := parsed.User.Password(); password != "p@ss word" {
		t.Errorf("Password did not survive escaping, got %q", password)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("DSN missing sslmode: %q", dsn)
	}
}
