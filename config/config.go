// Package config loads the YAML configuration used by the gotcat command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/gotcat"
)

// Environment variables that override file settings.
const (
	EnvCacheURL = "GOTCAT_CACHE_URL"
	EnvLogLevel = "GOTCAT_LOG_LEVEL"
)

// Cache types.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheSQLite = "sqlite"
)

// Config is the top-level configuration.
type Config struct {
	// Domains maps domain names to directories of <locale>.po files.
	Domains       map[string]string `yaml:"domains"`
	DefaultDomain string            `yaml:"default_domain"`
	Locale        string            `yaml:"locale"`
	SnapshotDir   string            `yaml:"snapshot_dir"`

	// PluralForms maps a locale or language to a gettext Plural-Forms header.
	PluralForms map[string]string `yaml:"plural_forms"`

	Cache CacheConfig `yaml:"cache"`
	Log   LogConfig   `yaml:"log"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Type             string `yaml:"type"`
	URL              string `yaml:"url"`        // redis
	Path             string `yaml:"path"`       // sqlite
	KeyPrefix        string `yaml:"key_prefix"` // redis
	TTL              int    `yaml:"ttl"`        // seconds, memory and redis
	RequiresCleaning bool   `yaml:"requires_cleaning"`
	Retries          int    `yaml:"retries"`
}

// LogConfig configures the command's logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Domains: map[string]string{},
		Cache: CacheConfig{
			Type:             CacheMemory,
			RequiresCleaning: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- Only loading a config file
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &gotcat.ConfigError{Message: "failed to parse YAML", Path: path, Cause: err}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, &gotcat.ConfigError{Message: "invalid configuration", Path: path, Cause: err}
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() {
	if url := os.Getenv(EnvCacheURL); url != "" {
		cfg.Cache.URL = url
		if cfg.Cache.Type == CacheMemory || cfg.Cache.Type == CacheNone {
			cfg.Cache.Type = CacheRedis
		}
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
}

// Validate reports every problem found in cfg.
func (cfg *Config) Validate() error {
	var errs []error

	switch cfg.Cache.Type {
	case CacheNone, CacheMemory, CacheSQLite:
	case CacheRedis:
		if cfg.Cache.URL == "" {
			errs = append(errs, errors.New("cache.url is required for the redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache.type %q", cfg.Cache.Type))
	}

	if cfg.Cache.Retries < 0 {
		errs = append(errs, errors.New("cache.retries must not be negative"))
	}

	if _, _, err := gotcat.ParseLocale(cfg.Locale); err != nil {
		errs = append(errs, err)
	}
	for locale, header := range cfg.PluralForms {
		if _, _, err := gotcat.ParseLocale(locale); err != nil {
			errs = append(errs, fmt.Errorf("plural_forms: %w", err))
		}
		if _, err := gotcat.PluralFormsRule(header); err != nil {
			errs = append(errs, fmt.Errorf("plural_forms[%s]: %w", locale, err))
		}
	}

	for name, dir := range cfg.Domains {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("domains: empty domain name"))
		}
		if dir == "" {
			errs = append(errs, fmt.Errorf("domains[%s]: empty directory", name))
		}
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", cfg.Log.Format))
	}

	return errors.Join(errs...)
}

// PluralRule compiles the configured Plural-Forms headers, falling back to
// the default rule for unlisted locales.
func (cfg *Config) PluralRule() (gotcat.PluralRule, error) {
	if len(cfg.PluralForms) == 0 {
		return gotcat.DefaultPluralRule, nil
	}

	rules := make(map[string]gotcat.PluralRule, len(cfg.PluralForms))
	for locale, header := range cfg.PluralForms {
		rule, err := gotcat.PluralFormsRule(header)
		if err != nil {
			return nil, fmt.Errorf("plural_forms[%s]: %w", locale, err)
		}
		rules[gotcat.NormalizeLocale(locale)] = rule
	}
	return gotcat.LocalePluralRules(rules), nil
}
