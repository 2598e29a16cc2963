package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"

	"github.com/Dan9191/finance-client/internal/models"
)

// Config holds application configuration
type Config struct {
	APIURL          string
	UserID          string
	LogLevel        string
	LogFile         string
	HTTPTimeout     time.Duration
	RefreshSchedule string

	// timeoutText is the unparsed HTTP_TIMEOUT or --http-timeout value;
	// Validate parses it into HTTPTimeout.
	timeoutText string
}

// NewConfig loads configuration from an optional .env file and the
// environment, then validates it
func NewConfig() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads an optional .env file and the environment without validating
// the values, so command-line flags can still override bad ones. Only a
// .env file that exists but cannot be read or parsed is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return &Config{
		APIURL:          getEnv("API_URL", "http://localhost:8000"),
		UserID:          getEnv("USER_ID", models.DefaultUserID),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		LogFile:         getEnv("LOG_FILE", "finance-client.log"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", ""),
		timeoutText:     getEnv("HTTP_TIMEOUT", "10s"),
	}, nil
}

// AddFlags registers command-line overrides for the loaded values
func (c *Config) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.APIURL, "api-url", c.APIURL, "base URL of the finance manager API")
	flagSet.StringVar(&c.UserID, "user-id", c.UserID, "user whose transactions are listed and created")
	flagSet.StringVar(&c.LogFile, "log-file", c.LogFile, "write JSON logs to this file (empty: stderr)")
	flagSet.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	flagSet.StringVar(&c.timeoutText, "http-timeout", c.timeoutText, "per-request timeout, 0 disables it")
	flagSet.StringVar(&c.RefreshSchedule, "refresh-schedule", c.RefreshSchedule, `cron schedule for reloading the list, e.g. "@every 30s"`)
}

// Validate checks and normalizes the final values
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid API_URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_URL must include scheme and host, got %q", c.APIURL)
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")

	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("USER_ID is required")
	}

	if c.timeoutText != "" {
		timeout, err := time.ParseDuration(c.timeoutText)
		if err != nil {
			return fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = timeout
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative")
	}

	if c.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
			return fmt.Errorf("invalid REFRESH_SCHEDULE: %w", err)
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
