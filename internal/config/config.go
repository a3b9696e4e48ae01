package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"

	"bolsillo/internal/log"
)

type Config struct {
	// Storage
	DataBackend   string
	SQLiteDBPath  string
	MemorySeedDir string

	// Exchange rate
	RateURL             string
	RateTimeout         time.Duration
	RateRefreshInterval time.Duration
	RateMinAge          time.Duration
	RateBuyPath         string
	RateSellPath        string
	RateUpdatedPath     string

	// Currencies
	LocalCurrency   string
	ForeignCurrency string

	// Output
	LogLevel    string
	PlainOutput bool
}

func Load() *Config {
	cfg := &Config{
		DataBackend:   getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/bolsillo.db"),
		MemorySeedDir: getEnv("MEMORY_SEED_DIR", "data"),

		RateURL:             getEnv("RATE_URL", "https://dolarapi.com/v1/dolares/oficial"),
		RateTimeout:         getEnvDuration("RATE_TIMEOUT", 10*time.Second),
		RateRefreshInterval: getEnvDuration("RATE_REFRESH_INTERVAL", time.Minute),
		RateMinAge:          getEnvDuration("RATE_MIN_AGE", 0),
		RateBuyPath:         getEnv("RATE_BUY_PATH", "$.compra"),
		RateSellPath:        getEnv("RATE_SELL_PATH", "$.venta"),
		RateUpdatedPath:     getEnv("RATE_UPDATED_PATH", "$.fechaActualizacion"),

		LocalCurrency:   strings.ToUpper(getEnv("LOCAL_CURRENCY", "ARS")),
		ForeignCurrency: strings.ToUpper(getEnv("FOREIGN_CURRENCY", "USD")),

		LogLevel:    getEnv("LOG_LEVEL", "warn"),
		PlainOutput: getEnvBool("PLAIN_OUTPUT", false),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate the exchange rate endpoint
	if parsedURL, err := url.Parse(c.RateURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid rate URL '%s': %v", c.RateURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid rate URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	}

	if c.RateTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid rate timeout %v: must be at least 100ms", c.RateTimeout))
	} else if c.RateTimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid rate timeout %v: must be at most 2 minutes", c.RateTimeout))
	}

	if c.RateRefreshInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid rate refresh interval %v: must be at least 1 second", c.RateRefreshInterval))
	} else if c.RateRefreshInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid rate refresh interval %v: must be at most 24 hours", c.RateRefreshInterval))
	}

	if c.RateMinAge < 0 || c.RateMinAge > c.RateRefreshInterval {
		errors = append(errors, fmt.Sprintf("invalid rate min age %v: must be between 0 and the refresh interval", c.RateMinAge))
	}

	ratePaths := []struct{ name, path string }{
		{"buy", c.RateBuyPath},
		{"sell", c.RateSellPath},
		{"updated", c.RateUpdatedPath},
	}
	for _, p := range ratePaths {
		if !strings.HasPrefix(p.path, "$") {
			errors = append(errors, fmt.Sprintf("invalid rate %s path '%s': must be a JSONPath starting with '$'", p.name, p.path))
		}
	}

	// Validate currencies
	for _, code := range []string{c.LocalCurrency, c.ForeignCurrency} {
		if money.GetCurrency(code) == nil {
			errors = append(errors, fmt.Sprintf("unknown currency '%s'", code))
		}
	}
	if c.LocalCurrency == c.ForeignCurrency {
		errors = append(errors, fmt.Sprintf("local and foreign currencies must differ, both are '%s'", c.LocalCurrency))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
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
