// Package config provides configuration management for the trade journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Journal JournalConfig `mapstructure:"journal"`
	Store   StoreConfig   `mapstructure:"store"`
	Import  ImportConfig  `mapstructure:"import"`
	Report  ReportConfig  `mapstructure:"report"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
}

// JournalConfig identifies whose journal the CLI operates on.
type JournalConfig struct {
	Owner string `mapstructure:"owner"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite", "memory"
	Path   string `mapstructure:"path"`
}

// ImportConfig holds import pipeline settings.
type ImportConfig struct {
	Concurrency int `mapstructure:"concurrency"` // parallel row writes
	MaxFileMB   int `mapstructure:"max_file_mb"`
}

// ReportConfig holds statistics presentation settings.
type ReportConfig struct {
	TopScripts    int    `mapstructure:"top_scripts"`
	DefaultPeriod string `mapstructure:"default_period"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-journal"
	}
	return filepath.Join(home, ".config", "trade-journal")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is replaced by the template and loading continues with defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// A .env next to the binary or in the working directory is optional.
	_ = godotenv.Load()

	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.expandPaths(configDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	v := newViper(DefaultConfigDir())
	_ = v.Unmarshal(cfg)
	cfg.expandPaths(DefaultConfigDir())
	return cfg
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	// JOURNAL_STORE_PATH overrides store.path, and so on.
	v.SetEnvPrefix("JOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("journal.owner", "JOURNAL_OWNER")
	_ = v.BindEnv("store.path", "JOURNAL_DB_PATH")
	_ = v.BindEnv("logging.level", "JOURNAL_LOG_LEVEL")
	_ = v.BindEnv("server.addr", "JOURNAL_HTTP_ADDR")

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("journal.owner", "default")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "journal.db")
	v.SetDefault("import.concurrency", 8)
	v.SetDefault("import.max_file_mb", 10)
	v.SetDefault("report.top_scripts", 5)
	v.SetDefault("report.default_period", "all")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join("logs", "journal.log"))
	v.SetDefault("logging.max_size", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
}

// expandPaths anchors relative file paths at the config directory.
func (c *Config) expandPaths(configDir string) {
	if c.Store.Path != "" && c.Store.Path != ":memory:" && !filepath.IsAbs(c.Store.Path) {
		c.Store.Path = filepath.Join(configDir, c.Store.Path)
	}
	if c.Logging.FilePath != "" && !filepath.IsAbs(c.Logging.FilePath) {
		c.Logging.FilePath = filepath.Join(configDir, c.Logging.FilePath)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Journal.Owner) == "" {
		return fmt.Errorf("journal.owner must not be empty")
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite driver")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid store driver: %s (must be 'sqlite' or 'memory')", c.Store.Driver)
	}

	if c.Import.Concurrency < 1 || c.Import.Concurrency > 64 {
		return fmt.Errorf("import.concurrency must be between 1 and 64")
	}
	if c.Import.MaxFileMB < 1 {
		return fmt.Errorf("import.max_file_mb must be positive")
	}
	if c.Report.TopScripts < 1 {
		return fmt.Errorf("report.top_scripts must be positive")
	}

	switch c.Report.DefaultPeriod {
	case "all", "today", "week", "month", "year":
	default:
		return fmt.Errorf("invalid report.default_period: %s", c.Report.DefaultPeriod)
	}

	return nil
}

// MaxFileBytes returns the import size limit in bytes.
func (c *Config) MaxFileBytes() int64 {
	return int64(c.Import.MaxFileMB) << 20
}
