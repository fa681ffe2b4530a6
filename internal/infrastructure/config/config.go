// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml), with ${ENV} expansion
//  2. Environment variables (fallback), with .env discovery
//
// Example usage:
//
//	cfg, err := config.LoadOrEnv()
//	token := cfg.YNAB.APIKey
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// dotenvSearchDepth bounds the walk up the directory tree for a .env file.
const dotenvSearchDepth = 5

// Config represents the entire application configuration.
type Config struct {
	YNAB          YNABConfig          `yaml:"ynab"`
	Amazon        AmazonConfig        `yaml:"amazon"`
	Matching      MatchingConfig      `yaml:"matching"`
	Memo          MemoConfig          `yaml:"memo"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// YNABConfig holds YNAB API configuration.
type YNABConfig struct {
	APIKey    string `yaml:"api_key"`
	BudgetID  string `yaml:"budget_id"`
	AccountID string `yaml:"account_id"` // empty means all accounts
}

// AmazonConfig holds Amazon-specific settings.
type AmazonConfig struct {
	Domain string `yaml:"domain"` // storefront for order links, e.g. amazon.ca
}

// MatchingConfig holds order-to-transaction matching tolerances.
type MatchingConfig struct {
	AmountToleranceMilliunits int64 `yaml:"amount_tolerance_milliunits"`
	DaysBefore                int   `yaml:"days_before"`
	DaysAfter                 int   `yaml:"days_after"`
}

// MemoConfig holds memo generation settings.
type MemoConfig struct {
	MaxLength int `yaml:"max_length"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file, expanding ${ENV} references.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

// LoadFromEnv loads configuration from environment variables only, after
// loading a .env file found in the working directory or up to five parents.
func LoadFromEnv() (*Config, error) {
	loadDotenv()

	cfg := defaults()
	cfg.YNAB = YNABConfig{
		APIKey:    os.Getenv("YNAB_API_KEY"),
		BudgetID:  os.Getenv("YNAB_BUDGET_ID"),
		AccountID: normalizeAccountID(os.Getenv("YNAB_ACCOUNT_ID")),
	}
	cfg.Amazon.Domain = getEnv("AMAZON_DOMAIN", cfg.Amazon.Domain)
	cfg.Matching.AmountToleranceMilliunits = getEnvInt64("MATCH_AMOUNT_TOLERANCE_MILLIUNITS", cfg.Matching.AmountToleranceMilliunits)
	cfg.Matching.DaysBefore = getEnvInt("MATCH_DAYS_BEFORE", cfg.Matching.DaysBefore)
	cfg.Matching.DaysAfter = getEnvInt("MATCH_DAYS_AFTER", cfg.Matching.DaysAfter)
	cfg.Memo.MaxLength = getEnvInt("MEMO_MAX_LENGTH", cfg.Memo.MaxLength)
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)

	return cfg, cfg.validate()
}

// LoadOrEnv tries config.yaml first, then falls back to the environment.
func LoadOrEnv() (*Config, error) {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries the given path first, then falls back to the
// environment.
func LoadOrEnvWithPath(path string) (*Config, error) {
	if cfg, err := Load(path); err == nil {
		return cfg, nil
	}
	return LoadFromEnv()
}

func defaults() *Config {
	return &Config{
		Amazon: AmazonConfig{Domain: "amazon.ca"},
		Matching: MatchingConfig{
			AmountToleranceMilliunits: 10,
			DaysBefore:                7,
			DaysAfter:                 3,
		},
		Memo: MemoConfig{MaxLength: 200},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{Level: "info", Format: "text"},
		},
	}
}

func (c *Config) validate() error {
	if c.YNAB.APIKey == "" {
		return fmt.Errorf("YNAB_API_KEY is required")
	}
	if c.YNAB.BudgetID == "" {
		return fmt.Errorf("YNAB_BUDGET_ID is required")
	}
	return nil
}

// loadDotenv looks for a .env file in the working directory and up to
// dotenvSearchDepth parents, loading the first one found.
func loadDotenv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < dotenvSearchDepth; i++ {
		envFile := filepath.Join(dir, ".env")
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// normalizeAccountID treats "" and "none" as unset.
func normalizeAccountID(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return ""
	default:
		return strings.TrimSpace(raw)
	}
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvInt64 retrieves an int64 environment variable with a fallback default.
func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
