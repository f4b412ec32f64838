package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Prefilter PrefilterConfig `mapstructure:"prefilter"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// PrefilterConfig holds the admission rules applied before searching.
// Exclusion windows are kept as raw strings; see Thresholds.
type PrefilterConfig struct {
	IncludeEpisodes     bool   `mapstructure:"include_episodes"`
	IncludeNonVideos    bool   `mapstructure:"include_non_videos"`
	ExcludeOlder        string `mapstructure:"exclude_older"`
	ExcludeRecentSearch string `mapstructure:"exclude_recent_search"`
	Concurrency         int    `mapstructure:"concurrency"`
}

// SchedulerConfig holds configuration for the recurring admission pass.
type SchedulerConfig struct {
	SearchCadence string `mapstructure:"search_cadence"`
	SearcheeFile  string `mapstructure:"searchee_file"`
	MinInterval   string `mapstructure:"min_interval"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 2468,
		},
		Database: DatabaseConfig{
			Path: "./data/crossmatch.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Prefilter: PrefilterConfig{
			IncludeEpisodes:  false,
			IncludeNonVideos: false,
			Concurrency:      4,
		},
		Scheduler: SchedulerConfig{
			SearchCadence: "0 3 * * *",
			MinInterval:   "1h",
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > .env file > config file > defaults
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.crossmatch")
	}

	v.SetEnvPrefix("CROSSMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	v.SetDefault("prefilter.include_episodes", d.Prefilter.IncludeEpisodes)
	v.SetDefault("prefilter.include_non_videos", d.Prefilter.IncludeNonVideos)
	v.SetDefault("prefilter.exclude_older", "")
	v.SetDefault("prefilter.exclude_recent_search", "")
	v.SetDefault("prefilter.concurrency", d.Prefilter.Concurrency)

	v.SetDefault("scheduler.search_cadence", d.Scheduler.SearchCadence)
	v.SetDefault("scheduler.searchee_file", "")
	v.SetDefault("scheduler.min_interval", d.Scheduler.MinInterval)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Thresholds resolves the exclusion windows. A malformed value resolves to
// Disabled and is reported in the returned error so callers can warn.
func (p PrefilterConfig) Thresholds() (excludeOlder, excludeRecentSearch Threshold, err error) {
	var errs []error

	excludeOlder, parseErr := ParseThreshold(p.ExcludeOlder)
	if parseErr != nil {
		errs = append(errs, fmt.Errorf("exclude_older: %w", parseErr))
	}

	excludeRecentSearch, parseErr = ParseThreshold(p.ExcludeRecentSearch)
	if parseErr != nil {
		errs = append(errs, fmt.Errorf("exclude_recent_search: %w", parseErr))
	}

	return excludeOlder, excludeRecentSearch, errors.Join(errs...)
}
