// Package constants provides shared constants for the realty application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyPlaces is the number of decimal places shown for currency
	CurrencyPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 centavo)
	CurrencyTolerance = "0.01"

	// YearlyDownPaymentShare is the share of the contract price payable per year
	// under the two-year down payment option.
	YearlyDownPaymentShare = "0.10"

	// RequiredIncomeDivisor is the maximum share of gross monthly income that a
	// monthly amortization may take.
	RequiredIncomeDivisor = "0.40"

	// MaxContractPrice is the largest contract price accepted from user input
	MaxContractPrice = "1000000000000"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides (REALTY_MAIL_PASSWORD etc.)
	EnvPrefix = "REALTY"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultInquiryRateLimit is the number of inquiries a client may submit per window
	DefaultInquiryRateLimit = 5

	// DefaultInquiryRateWindowSeconds is the window after which a client's inquiry allowance refills
	DefaultInquiryRateWindowSeconds = 600

	// DefaultLoginRateLimit is the number of admin login attempts a client may make per window
	DefaultLoginRateLimit = 10

	// DefaultLoginRateWindowSeconds is the window after which a client's login allowance refills
	DefaultLoginRateWindowSeconds = 900

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown
	DefaultShutdownTimeoutSeconds = 10
)

// Storage defaults
const (
	// ListingSourceMemory keeps listings in process memory
	ListingSourceMemory = "memory"

	// ListingSourcePostgres reads listings from PostgreSQL
	ListingSourcePostgres = "postgres"

	// CacheBackendMemory caches in process memory
	CacheBackendMemory = "memory"

	// CacheBackendRedis caches in Redis
	CacheBackendRedis = "redis"

	// DefaultCacheTTLSeconds is how long listing reads stay cached
	DefaultCacheTTLSeconds = 300

	// DefaultMigrationsDir is the golang-migrate source for the listing schema
	DefaultMigrationsDir = "file://migrations"
)

// Auth defaults
const (
	// DefaultTokenTTLMinutes is the admin session lifetime
	DefaultTokenTTLMinutes = 720

	// DefaultTokenIssuer is the JWT issuer for admin sessions
	DefaultTokenIssuer = "realty-admin"

	// RoleAdmin grants access to listing management
	RoleAdmin = "admin"
)
