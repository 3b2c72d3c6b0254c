// Package config provides configuration management for the trading journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	errs "tradejournal/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Journal  JournalConfig  `mapstructure:"journal"`
	Risk     RiskConfig     `mapstructure:"risk"`
	Insights InsightsConfig `mapstructure:"insights"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	UI       UIConfig       `mapstructure:"ui"`
}

// JournalConfig holds journal storage configuration.
type JournalConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// RiskConfig holds risk analysis configuration.
type RiskConfig struct {
	DefaultAccountBalance float64 `mapstructure:"default_account_balance"`
	DefaultInstrument     string  `mapstructure:"default_instrument"`
}

// InsightsConfig holds insight generation configuration.
type InsightsConfig struct {
	OvertradingThreshold int `mapstructure:"overtrading_threshold"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// UIConfig holds CLI output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradejournal"
	}
	return filepath.Join(home, ".config", "tradejournal")
}

// Default returns the documented default configuration.
func Default() *Config {
	dir := DefaultConfigDir()
	return &Config{
		Journal: JournalConfig{
			DatabasePath: filepath.Join(dir, "journal.db"),
		},
		Risk: RiskConfig{
			DefaultAccountBalance: 10000,
			DefaultInstrument:     "EUR/USD",
		},
		Insights: InsightsConfig{
			OvertradingThreshold: 5,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Console:  true,
			File:     true,
			FilePath: filepath.Join(dir, "logs", "journal.log"),
		},
		UI: UIConfig{
			ColorEnabled: true,
			DateFormat:   "2006-01-02",
		},
	}
}

// Load loads configuration from the specified directory, falling back to
// defaults for anything unset. An empty configDir uses the default
// directory; a missing config file is not an error.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("TRADEJOURNAL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config.toml: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for obviously broken values.
func (c *Config) Validate() error {
	if c.Risk.DefaultAccountBalance <= 0 {
		return fmt.Errorf("%w: risk.default_account_balance must be positive, got %v",
			errs.ErrConfigInvalid, c.Risk.DefaultAccountBalance)
	}
	if c.Insights.OvertradingThreshold <= 0 {
		return fmt.Errorf("%w: insights.overtrading_threshold must be positive, got %d",
			errs.ErrConfigInvalid, c.Insights.OvertradingThreshold)
	}
	return nil
}
