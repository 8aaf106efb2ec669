package config

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateConfigurationEdgeCases(t *testing.T) {
	conf, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	conf.Rates.Year2InterestRate = decimal.RequireFromString("0.09")
	conf.Listings.Source = "postgres"

	warnings := conf.ValidateConfiguration()

	// Verify we get appropriate warnings for edge cases
	if len(warnings) == 0 {
		t.Error("Expected validation warnings for edge cases but got none")
	}

	expected := []string{"Year 2 interest rate", "Mail host is not set", "JWT secret is not set", "no database host"}
	for _, want := range expected {
		found := false
		for _, warning := range warnings {
			if strings.Contains(warning, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected a warning containing %q, got %v", want, warnings)
		}
	}

	// Warnings do not make the configuration invalid
	if err := conf.Validate(); err != nil {
		t.Errorf("Validate() unexpected error = %v", err)
	}
}

func TestValidateConfigurationValid(t *testing.T) {
	conf, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", warnings)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr string
	}{
		{
			name:   "Defaults",
			mutate: func(c *Configuration) {},
		},
		{
			name:    "Missing reservation fee",
			mutate:  func(c *Configuration) { delete(c.Rates.ReservationFees, "nur_lot_only") },
			wantErr: "no reservation fee configured for nur_lot_only",
		},
		{
			name:    "Unknown output format",
			mutate:  func(c *Configuration) { c.Output.Format = "xml" },
			wantErr: "expected output format",
		},
		{
			name:    "Unknown mode",
			mutate:  func(c *Configuration) { c.Output.Mode = "full" },
			wantErr: "expected mode",
		},
		{
			name:    "Unknown listing source",
			mutate:  func(c *Configuration) { c.Listings.Source = "sqlite" },
			wantErr: "expected listing source",
		},
		{
			name:    "Unknown cache backend",
			mutate:  func(c *Configuration) { c.Cache.Backend = "memcached" },
			wantErr: "expected cache backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadConfiguration("")
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			tt.mutate(conf)

			err = conf.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, expected it to contain %q", err, tt.wantErr)
			}
		})
	}
}
