// Package config loads navkit CLI settings from defaults, an optional YAML
// file and NAVKIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory.
const FileName = "navkit.yaml"

// Config holds CLI settings. Command-line flags override these values.
type Config struct {
	// Format is the output format: text or json.
	Format string `mapstructure:"format"`

	Verbose bool `mapstructure:"verbose"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `mapstructure:"log_level"`

	// Journal is a SQLite path for recording traces. Empty disables it.
	Journal string `mapstructure:"journal"`

	// Routes is the default CUE route table for resolve.
	Routes string `mapstructure:"routes"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Format:   "text",
		LogLevel: "info",
	}
}

// Load reads configuration. A non-empty path must exist and is used
// exclusively; otherwise navkit.yaml in the working directory is read when
// present. It returns the file actually read, or "".
func Load(path string) (*Config, string, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("format", defaults.Format)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("journal", defaults.Journal)
	v.SetDefault("routes", defaults.Routes)

	v.SetConfigType("yaml")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", path)
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
	}

	v.SetEnvPrefix("NAVKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolved := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		resolved = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolved, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", c.Format)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level, forced to debug when Verbose is set.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}
