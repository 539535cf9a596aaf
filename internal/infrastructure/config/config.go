// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	alg := cfg.Solver.Algorithm
//	dbPath := cfg.Storage.DatabasePath
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither the file nor the environment sets a value.
const (
	DefaultAlgorithm     = "knapsack"
	DefaultDepthLimit    = 10
	DefaultMaxTableCells = 250_000_000
	DefaultCatalogURL    = "https://www.systembolaget.se/api/assortment/products/xml"
	DefaultCachePath     = "cache.xml"
	DefaultCacheTTL      = 6 * 24 * time.Hour
	DefaultDatabasePath  = "beerbudget.db"
	DefaultPort          = 8080
)

// Config represents the entire application configuration
type Config struct {
	Solver        SolverConfig        `yaml:"solver"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Storage       StorageConfig       `yaml:"storage"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// SolverConfig holds optimizer settings
type SolverConfig struct {
	Algorithm     string `yaml:"algorithm"` // roundrobin|rr, knapsack|ks, naive|nks
	DepthLimit    int    `yaml:"depth_limit"`
	MaxTableCells int64  `yaml:"max_table_cells"`
}

// CatalogConfig holds product catalog download and cache settings
type CatalogConfig struct {
	URL       string `yaml:"url"`
	CachePath string `yaml:"cache_path"`
	CacheTTL  string `yaml:"cache_ttl"` // Go duration, e.g. "144h"
	Timeout   string `yaml:"timeout"`
	RetryMax  int    `yaml:"retry_max"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${BEERBUDGET_DB})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Solver: SolverConfig{
			Algorithm:     getEnv("BEERBUDGET_ALGORITHM", DefaultAlgorithm),
			DepthLimit:    getEnvInt("BEERBUDGET_DEPTH_LIMIT", DefaultDepthLimit),
			MaxTableCells: int64(getEnvInt("BEERBUDGET_MAX_TABLE_CELLS", DefaultMaxTableCells)),
		},
		Catalog: CatalogConfig{
			URL:       getEnv("BEERBUDGET_CATALOG_URL", DefaultCatalogURL),
			CachePath: getEnv("BEERBUDGET_CACHE_PATH", DefaultCachePath),
			CacheTTL:  getEnv("BEERBUDGET_CACHE_TTL", DefaultCacheTTL.String()),
			Timeout:   getEnv("BEERBUDGET_CATALOG_TIMEOUT", "60s"),
			RetryMax:  getEnvInt("BEERBUDGET_CATALOG_RETRY_MAX", 3),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("BEERBUDGET_DB_PATH", DefaultDatabasePath),
		},
		API: APIConfig{
			Port:           getEnvInt("BEERBUDGET_PORT", DefaultPort),
			AllowedOrigins: getEnvList("BEERBUDGET_ALLOWED_ORIGINS"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Solver.DepthLimit < 0 {
		return fmt.Errorf("solver.depth_limit must not be negative, got %d", c.Solver.DepthLimit)
	}
	if _, err := time.ParseDuration(c.Catalog.CacheTTL); err != nil {
		return fmt.Errorf("catalog.cache_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Catalog.Timeout); err != nil {
		return fmt.Errorf("catalog.timeout: %w", err)
	}
	return nil
}

// CacheTTLDuration returns the parsed catalog cache lifetime.
func (c CatalogConfig) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return DefaultCacheTTL
	}
	return d
}

// TimeoutDuration returns the parsed catalog download timeout.
func (c CatalogConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return time.Minute
	}
	return d
}

func (c *Config) applyDefaults() {
	if c.Solver.Algorithm == "" {
		c.Solver.Algorithm = DefaultAlgorithm
	}
	if c.Solver.DepthLimit == 0 {
		c.Solver.DepthLimit = DefaultDepthLimit
	}
	if c.Solver.MaxTableCells == 0 {
		c.Solver.MaxTableCells = DefaultMaxTableCells
	}
	if c.Catalog.URL == "" {
		c.Catalog.URL = DefaultCatalogURL
	}
	if c.Catalog.CachePath == "" {
		c.Catalog.CachePath = DefaultCachePath
	}
	if c.Catalog.CacheTTL == "" {
		c.Catalog.CacheTTL = DefaultCacheTTL.String()
	}
	if c.Catalog.Timeout == "" {
		c.Catalog.Timeout = "60s"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = DefaultDatabasePath
	}
	if c.API.Port == 0 {
		c.API.Port = DefaultPort
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvList splits a comma separated environment variable
func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
