// Package config loads runtime settings.
//
// Precedence, lowest to highest: built-in defaults, an optional YAML file,
// environment variables. Command-line flags are applied by main on top.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDatabaseURL = "sqlite:data/dokodemo.db"
	DefaultBindAddr    = "127.0.0.1:3000"
	DefaultLogLevel    = "info"
)

// Environment variable names.
const (
	EnvDatabaseURL           = "DATABASE_URL"
	EnvBindAddr              = "BIND_ADDR"
	EnvAPIKey                = "APP_API_KEY"
	EnvTelegramWebhookSecret = "TELEGRAM_WEBHOOK_SECRET"
	EnvLogLevel              = "LOG_LEVEL"
	EnvConfigFile            = "DOKODEMO_CONFIG"
)

// defaultFiles are tried in order when no config path is given.
var defaultFiles = []string{"dokodemo.yaml", "dokodemo.yml"}

type Config struct {
	DatabaseURL           string `yaml:"database_url"`
	BindAddr              string `yaml:"bind_addr"`
	APIKey                string `yaml:"api_key"`
	TelegramWebhookSecret string `yaml:"telegram_webhook_secret"`
	LogLevel              string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		DatabaseURL: DefaultDatabaseURL,
		BindAddr:    DefaultBindAddr,
		LogLevel:    DefaultLogLevel,
	}
}

// Load builds a Config from defaults, the YAML file at path and the
// environment. An empty path falls back to $DOKODEMO_CONFIG and then to
// ./dokodemo.yaml; a missing default file is not an error, a missing explicit
// one is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
		explicit = path != ""
	}
	if !explicit {
		path = findDefaultFile()
	}

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.mergeEnv()
	return cfg, nil
}

func findDefaultFile() string {
	for _, name := range defaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// mergeFile overlays the non-empty fields of a YAML document.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	overlay(&c.DatabaseURL, file.DatabaseURL)
	overlay(&c.BindAddr, file.BindAddr)
	overlay(&c.APIKey, file.APIKey)
	overlay(&c.TelegramWebhookSecret, file.TelegramWebhookSecret)
	overlay(&c.LogLevel, file.LogLevel)
	return nil
}

func (c *Config) mergeEnv() {
	overlay(&c.DatabaseURL, os.Getenv(EnvDatabaseURL))
	overlay(&c.BindAddr, os.Getenv(EnvBindAddr))
	overlay(&c.APIKey, os.Getenv(EnvAPIKey))
	overlay(&c.TelegramWebhookSecret, os.Getenv(EnvTelegramWebhookSecret))
	overlay(&c.LogLevel, os.Getenv(EnvLogLevel))
}

func overlay(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// Validate checks the fields the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("database url is required"))
	}
	if c.BindAddr == "" {
		errs = append(errs, errors.New("bind address is required"))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLogLevel accepts debug, info, warn/warning and error, case-insensitive.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
