package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"marketmirror/internal/symbols"
)

// Config represents the application configuration
type Config struct {
	Market   MarketConfig   `yaml:"market"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Recorder RecorderConfig `yaml:"recorder"`
}

// MarketConfig selects what to analyze by default
type MarketConfig struct {
	Type      string   `yaml:"type"`
	Symbols   []string `yaml:"symbols"`
	Timeframe string   `yaml:"timeframe"`
}

// IngestConfig holds data feed settings
type IngestConfig struct {
	RateLimit int           `yaml:"rate_limit"` // requests per minute
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// MonitorConfig holds the alert monitoring loop settings
type MonitorConfig struct {
	Interval     time.Duration `yaml:"interval"`
	HistoryLimit int           `yaml:"history_limit"`
}

// RecorderConfig selects result persistence. An empty path disables it.
type RecorderConfig struct {
	DBPath string `yaml:"db_path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Market: MarketConfig{
			Type:      string(symbols.Crypto),
			Symbols:   []string{"BTC", "ETH", "SOL"},
			Timeframe: "7d",
		},
		Ingest: IngestConfig{
			RateLimit: 60,
			CacheTTL:  5 * time.Minute,
		},
		Monitor: MonitorConfig{
			Interval:     10 * time.Second,
			HistoryLimit: 50,
		},
		Recorder: RecorderConfig{
			DBPath: os.Getenv("MARKETMIRROR_DB"),
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Override with environment variables if set
	if db := os.Getenv("MARKETMIRROR_DB"); db != "" {
		cfg.Recorder.DBPath = db
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !symbols.Market(c.Market.Type).Valid() {
		return fmt.Errorf("unknown market type %q", c.Market.Type)
	}
	if len(c.Market.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	if c.Ingest.RateLimit < 1 {
		return fmt.Errorf("rate_limit must be at least 1")
	}
	if c.Monitor.Interval < time.Second {
		return fmt.Errorf("monitor interval must be at least 1s")
	}
	return nil
}
