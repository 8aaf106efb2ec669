// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bahayahay/realty/pkg/constants"
	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/bahayahay/realty/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for realty.
type Configuration struct {
	Logging  LoggingConfig       `yaml:"logging,omitempty"`
	Output   OutputConfig        `yaml:"output,omitempty"`
	Rates    estimate.RateConfig `yaml:"rates,omitempty"`
	Database DatabaseConfig      `yaml:"database,omitempty"`
	Cache    CacheConfig         `yaml:"cache,omitempty"`
	Mail     MailConfig          `yaml:"mail,omitempty"`
	Auth     AuthConfig          `yaml:"auth,omitempty"`
	Listings ListingsConfig      `yaml:"listings,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
	Mode   string `yaml:"mode,omitempty"`   // summary, detailed
}

// DatabaseConfig holds the PostgreSQL connection settings used when listings
// come from the database.
type DatabaseConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	User       string `yaml:"user,omitempty"`
	Password   string `yaml:"password,omitempty"`
	Name       string `yaml:"name,omitempty"`
	SSLMode    string `yaml:"sslMode,omitempty"`
	MaxConns   int32  `yaml:"maxConns,omitempty"`
	Migrations string `yaml:"migrations,omitempty"`
}

// DSN returns the connection string in URL form.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
	}
	return u.String()
}

// CacheConfig selects the listing cache backend.
type CacheConfig struct {
	Backend   string        `yaml:"backend,omitempty"` // memory, redis
	RedisAddr string        `yaml:"redisAddr,omitempty"`
	RedisDB   int           `yaml:"redisDB,omitempty"`
	TTL       time.Duration `yaml:"ttl,omitempty"`
}

// MailConfig holds SMTP settings. An empty Host logs inquiries instead of
// sending them.
type MailConfig struct {
	Host             string `yaml:"host,omitempty"`
	Port             int    `yaml:"port,omitempty"`
	Username         string `yaml:"username,omitempty"`
	Password         string `yaml:"password,omitempty"`
	From             string `yaml:"from,omitempty"`
	ContactRecipient string `yaml:"contactRecipient,omitempty"`
	BookingRecipient string `yaml:"bookingRecipient,omitempty"`
}

// AuthConfig holds the admin credentials and token settings.
type AuthConfig struct {
	AdminUsername string        `yaml:"adminUsername,omitempty"`
	AdminPassword string        `yaml:"adminPassword,omitempty"`
	JWTSecret     string        `yaml:"jwtSecret,omitempty"`
	Issuer        string        `yaml:"issuer,omitempty"`
	TokenTTL      time.Duration `yaml:"tokenTTL,omitempty"`
}

// ListingsConfig selects where listings are read from.
type ListingsConfig struct {
	Source string `yaml:"source,omitempty"` // memory, postgres
	Seed   bool   `yaml:"seed,omitempty"`   // load the sample catalogue into a memory store
}

// rateKeys are the rates settings that replace their default as a whole when
// present in the file.
var rateKeys = []string{
	"reservationFees",
	"pagibigMaxLoan",
	"downPaymentPercentOptions",
	"inHouseFactorRates",
	"pagibigFactorRates",
	"remainingAmountFactorRates",
	"bankFactorRates",
	"year2InterestRate",
	"requiredIncomeDivisor",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.mode", string(estimate.ModeDetailed))

	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "realty")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxConns", 10)
	v.SetDefault("database.migrations", constants.DefaultMigrationsDir)

	v.SetDefault("cache.backend", constants.CacheBackendMemory)
	v.SetDefault("cache.redisAddr", "")
	v.SetDefault("cache.redisDB", 0)
	v.SetDefault("cache.ttl", time.Duration(constants.DefaultCacheTTLSeconds)*time.Second)

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.contactRecipient", "")
	v.SetDefault("mail.bookingRecipient", "")

	v.SetDefault("auth.adminUsername", "")
	v.SetDefault("auth.adminPassword", "")
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.issuer", constants.DefaultTokenIssuer)
	v.SetDefault("auth.tokenTTL", time.Duration(constants.DefaultTokenTTLMinutes)*time.Minute)

	v.SetDefault("listings.source", constants.ListingSourceMemory)
	v.SetDefault("listings.seed", true)
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path yields the defaults. Any setting may be
// overridden from the environment, e.g. REALTY_MAIL_PASSWORD.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.Rates = mergeRates(v, configuration.Rates)
	return &configuration, nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		DecimalHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// mergeRates fills every rates setting absent from the file with its default.
func mergeRates(v *viper.Viper, loaded estimate.RateConfig) estimate.RateConfig {
	merged := estimate.DefaultRates()
	for _, key := range rateKeys {
		if !v.IsSet("rates." + key) {
			continue
		}
		switch key {
		case "reservationFees":
			merged.ReservationFees = loaded.ReservationFees
		case "pagibigMaxLoan":
			merged.PagibigMaxLoan = loaded.PagibigMaxLoan
		case "downPaymentPercentOptions":
			merged.DownPaymentPercentOptions = loaded.DownPaymentPercentOptions
		case "inHouseFactorRates":
			merged.InHouseFactorRates = loaded.InHouseFactorRates
		case "pagibigFactorRates":
			merged.PagibigFactorRates = loaded.PagibigFactorRates
		case "remainingAmountFactorRates":
			merged.RemainingAmountFactorRates = loaded.RemainingAmountFactorRates
		case "bankFactorRates":
			merged.BankFactorRates = loaded.BankFactorRates
		case "year2InterestRate":
			merged.Year2InterestRate = loaded.Year2InterestRate
		case "requiredIncomeDivisor":
			merged.RequiredIncomeDivisor = loaded.RequiredIncomeDivisor
		}
	}
	return merged
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{
		Rates: c.Rates,
		Mail: validation.MailConfig{
			Host:             c.Mail.Host,
			From:             c.Mail.From,
			ContactRecipient: c.Mail.ContactRecipient,
			BookingRecipient: c.Mail.BookingRecipient,
		},
		Auth: validation.AuthConfig{
			AdminUsername: c.Auth.AdminUsername,
			AdminPassword: c.Auth.AdminPassword,
			JWTSecret:     c.Auth.JWTSecret,
		},
		Listings: validation.ListingsConfig{
			Source:       c.Listings.Source,
			DatabaseHost: c.Database.Host,
		},
		Cache: validation.CacheConfig{
			Backend:   c.Cache.Backend,
			RedisAddr: c.Cache.RedisAddr,
		},
	}
	return validator.ValidateAll()
}

// Validate reports settings that prevent the application from starting.
func (c *Configuration) Validate() error {
	var errs []error

	if err := c.Rates.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("invalid rates: %w", err))
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Output.Mode != "" {
		if err := validation.ValidateMode(c.Output.Mode); err != nil {
			errs = append(errs, err)
		}
	}

	switch c.Listings.Source {
	case constants.ListingSourceMemory, constants.ListingSourcePostgres:
	default:
		errs = append(errs, fmt.Errorf("expected listing source of %s or %s, got %s",
			constants.ListingSourceMemory, constants.ListingSourcePostgres, c.Listings.Source))
	}

	switch c.Cache.Backend {
	case "", constants.CacheBackendMemory, constants.CacheBackendRedis:
	default:
		errs = append(errs, fmt.Errorf("expected cache backend of %s or %s, got %s",
			constants.CacheBackendMemory, constants.CacheBackendRedis, c.Cache.Backend))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache ttl must not be negative"))
	}
	if c.Auth.TokenTTL < 0 {
		errs = append(errs, errors.New("auth token ttl must not be negative"))
	}

	return errors.Join(errs...)
}
