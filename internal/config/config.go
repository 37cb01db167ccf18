// Package config loads and saves subtrack's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/store"
)

// Environment overrides, applied after the config file and any .env file.
const (
	EnvDB       = "SUBTRACK_DB"
	EnvAddr     = "SUBTRACK_ADDR"
	EnvTheme    = "SUBTRACK_THEME"
	EnvCurrency = "SUBTRACK_CURRENCY"
)

// Config holds all subtrack configuration.
type Config struct {
	General    GeneralConfig      `toml:"general"`
	Sort       model.SortSettings `toml:"sort"`
	Budget     BudgetConfig       `toml:"budget"`
	Appearance AppearanceConfig   `toml:"appearance"`
	Server     ServerConfig       `toml:"server"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath         string `toml:"db_path,omitempty"`
	ForecastMonths int    `toml:"forecast_months"`
	UpcomingDays   int    `toml:"upcoming_days"`
	Locale         string `toml:"locale"`
	CurrencySymbol string `toml:"currency_symbol"`
}

// BudgetConfig holds the optional monthly spending limit.
type BudgetConfig struct {
	Monthly *float64 `toml:"monthly,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds settings for `subtrack serve`.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	PollInterval string `toml:"poll_interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			ForecastMonths: 6,
			UpcomingDays:   7,
			Locale:         "en",
			CurrencySymbol: "$",
		},
		Sort: model.DefaultSort(),
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8797",
			PollInterval: "15s",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "subtrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "subtrack")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies .env and environment overrides.
func Load() (Config, error) {
	cfg, err := LoadFile(ConfigPath())
	if err != nil {
		return cfg, err
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("reading .env: %w", err)
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads one config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv(EnvCurrency); v != "" {
		cfg.General.CurrencySymbol = v
	}
}

// Validate checks values that would otherwise fail later at use.
func (c Config) Validate() error {
	if err := c.Sort.Validate(); err != nil {
		return err
	}
	if c.General.ForecastMonths < 1 || c.General.ForecastMonths > 12 {
		return fmt.Errorf("forecast_months must be 1-12, got %d", c.General.ForecastMonths)
	}
	if c.Budget.Monthly != nil && *c.Budget.Monthly < 0 {
		return fmt.Errorf("budget.monthly must not be negative")
	}
	if _, err := c.PollInterval(); err != nil {
		return err
	}
	return nil
}

// PollInterval parses Server.PollInterval.
func (c Config) PollInterval() (time.Duration, error) {
	if c.Server.PollInterval == "" {
		return 15 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Server.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("poll_interval: %w", err)
	}
	return d, nil
}

// DBPath returns the configured database path or the default location.
func (c Config) DBPath() string {
	if c.General.DBPath != "" {
		return c.General.DBPath
	}
	return store.DefaultPath()
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes cfg to path, creating parent directories.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Set updates one dotted key, as used by `subtrack config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "general.db_path":
		c.General.DBPath = value
	case "general.forecast_months":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.General.ForecastMonths = n
	case "general.upcoming_days":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.General.UpcomingDays = n
	case "general.locale":
		c.General.Locale = value
	case "general.currency_symbol":
		c.General.CurrencySymbol = value
	case "sort.field":
		f, err := model.ParseSortField(value)
		if err != nil {
			return err
		}
		c.Sort.Field = f
	case "sort.direction":
		c.Sort.Direction = model.SortDirection(value)
	case "budget.monthly":
		if value == "" || value == "none" {
			c.Budget.Monthly = nil
			break
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Budget.Monthly = &v
	case "appearance.theme":
		c.Appearance.Theme = value
	case "server.addr":
		c.Server.Addr = value
	case "server.poll_interval":
		c.Server.PollInterval = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return c.Validate()
}
