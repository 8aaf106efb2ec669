package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/bahayahay/realty/internal/config"
	"github.com/bahayahay/realty/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server. BehindProxy makes
// the server take client addresses from X-Forwarded-For and X-Real-IP; leave
// it off unless a trusted proxy overwrites those headers.
type Config struct {
	Address          string               `yaml:"address"`
	MaxBodySize      string               `yaml:"maxBodySize"`
	AllowedOrigins   []string             `yaml:"allowedOrigins"`
	BehindProxy      bool                 `yaml:"behindProxy"`
	InquiryRateLimit RateLimitConfig      `yaml:"inquiryRateLimit"`
	LoginRateLimit   RateLimitConfig      `yaml:"loginRateLimit"`
	ShutdownTimeout  time.Duration        `yaml:"shutdownTimeout"`
	Logging          config.LoggingConfig `yaml:"logging"`
	bodySizeBytes    int64
}

// RateLimitConfig bounds how many requests one client may send per window.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// DefaultConfig returns the server configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Address:        constants.DefaultServerAddress,
		MaxBodySize:    fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes),
		AllowedOrigins: []string{"*"},
		InquiryRateLimit: RateLimitConfig{
			Requests: constants.DefaultInquiryRateLimit,
			Window:   constants.DefaultInquiryRateWindowSeconds * time.Second,
		},
		LoginRateLimit: RateLimitConfig{
			Requests: constants.DefaultLoginRateLimit,
			Window:   constants.DefaultLoginRateWindowSeconds * time.Second,
		},
		ShutdownTimeout: constants.DefaultShutdownTimeoutSeconds * time.Second,
		Logging:         config.LoggingConfig{},
		bodySizeBytes:   constants.DefaultMaxBodySizeBytes,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	if c.bodySizeBytes <= 0 {
		return constants.DefaultMaxBodySizeBytes
	}
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the configured request body limit.
func (c *Config) SetBodySizeBytes(size int64) {
	if size > 0 {
		c.bodySizeBytes = size
		c.MaxBodySize = fmt.Sprintf("%d", size)
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.InquiryRateLimit.Requests <= 0 {
		c.InquiryRateLimit.Requests = constants.DefaultInquiryRateLimit
	}
	if c.InquiryRateLimit.Window <= 0 {
		c.InquiryRateLimit.Window = constants.DefaultInquiryRateWindowSeconds * time.Second
	}
	if c.LoginRateLimit.Requests <= 0 {
		c.LoginRateLimit.Requests = constants.DefaultLoginRateLimit
	}
	if c.LoginRateLimit.Window <= 0 {
		c.LoginRateLimit.Window = constants.DefaultLoginRateWindowSeconds * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = constants.DefaultShutdownTimeoutSeconds * time.Second
	}

	sizeStr := strings.TrimSpace(c.MaxBodySize)
	if sizeStr == "" {
		c.bodySizeBytes = constants.DefaultMaxBodySizeBytes
		c.MaxBodySize = fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxBodySizeBytes
	}
	c.bodySizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
