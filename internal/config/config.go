package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"financas/internal/installment"
)

type Config struct {
	// Remote ledger service
	APIBaseURL string
	APIToken   string

	// Preferences database
	SQLiteDBPath string

	// Change-event bus; empty URL disables it
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Export
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Cache behavior
	DedupeWindow      time.Duration
	ReloadInterval    time.Duration
	RevalidateOnFocus bool

	// Installment rounding: "half_up" or "absorb"
	InstallmentRounding string
}

func Load() *Config {
	return &Config{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:3000/api"),
		APIToken:   getEnv("API_TOKEN", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/financas.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "financas"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),

		DedupeWindow:      getEnvDuration("CACHE_DEDUPE_WINDOW", 5*time.Second),
		ReloadInterval:    getEnvDuration("RELOAD_INTERVAL", 5*time.Minute),
		RevalidateOnFocus: getEnvBool("REVALIDATE_ON_FOCUS", false),

		InstallmentRounding: getEnv("INSTALLMENT_ROUNDING", "half_up"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.APIBaseURL == "" {
		errors = append(errors, "API base URL cannot be empty")
	} else if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DedupeWindow < 0 {
		errors = append(errors, fmt.Sprintf("invalid dedupe window %v: must not be negative", c.DedupeWindow))
	} else if c.DedupeWindow > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid dedupe window %v: must be at most 1 minute", c.DedupeWindow))
	}

	if c.ReloadInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid reload interval %v: must be at least 1 second", c.ReloadInterval))
	} else if c.ReloadInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid reload interval %v: must be at most 24 hours", c.ReloadInterval))
	}

	if c.InstallmentRounding != "half_up" && c.InstallmentRounding != "absorb" {
		errors = append(errors, fmt.Sprintf("invalid installment rounding '%s': must be 'half_up' or 'absorb'", c.InstallmentRounding))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// RoundingPolicy maps the configured name to the engine's policy.
func (c *Config) RoundingPolicy() installment.RoundingPolicy {
	if c.InstallmentRounding == "absorb" {
		return installment.LastAbsorbsRemainder
	}
	return installment.RoundHalfUp
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
