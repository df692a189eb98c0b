package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaguanLabs/gotcat"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gotcat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, CacheMemory, cfg.Cache.Type)
	assert.True(t, cfg.Cache.RequiresCleaning)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Domains)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
domains:
  dom1: ./i18n/dom1
  qcubed/i18n: ./vendor/qcubed/i18n
default_domain: dom1
locale: es_MX
snapshot_dir: /var/cache/gotcat
plural_forms:
  ru: "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);"
cache:
  type: sqlite
  path: /var/cache/gotcat.db
  requires_cleaning: false
  retries: 2
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./i18n/dom1", cfg.Domains["dom1"])
	assert.Len(t, cfg.Domains, 2)
	assert.Equal(t, "dom1", cfg.DefaultDomain)
	assert.Equal(t, "es_MX", cfg.Locale)
	assert.Equal(t, "/var/cache/gotcat", cfg.SnapshotDir)
	assert.Equal(t, CacheSQLite, cfg.Cache.Type)
	assert.Equal(t, "/var/cache/gotcat.db", cfg.Cache.Path)
	assert.False(t, cfg.Cache.RequiresCleaning)
	assert.Equal(t, 2, cfg.Cache.Retries)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "domains: [unterminated")

	_, err := Load(path)

	var cfgErr *gotcat.ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected *gotcat.ConfigError, got %v", err)
	assert.Equal(t, path, cfgErr.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvCacheURL, "redis://localhost:6379/1")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, CacheRedis, cfg.Cache.Type)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Cache.URL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_EnvURLKeepsSQLite(t *testing.T) {
	t.Setenv(EnvCacheURL, "redis://localhost:6379/1")
	path := writeConfig(t, "cache:\n  type: sqlite\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CacheSQLite, cfg.Cache.Type)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown cache type", func(c *Config) { c.Cache.Type = "memcached" }},
		{"redis without url", func(c *Config) { c.Cache.Type = CacheRedis }},
		{"negative retries", func(c *Config) { c.Cache.Retries = -1 }},
		{"invalid locale", func(c *Config) { c.Locale = "not a locale" }},
		{"bad plural forms", func(c *Config) { c.PluralForms = map[string]string{"ru": "nplurals=3;"} }},
		{"empty domain dir", func(c *Config) { c.Domains["dom1"] = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestPluralRule(t *testing.T) {
	cfg := Default()
	rule, err := cfg.PluralRule()
	require.NoError(t, err)
	assert.Equal(t, 0, rule(1, "es"))
	assert.Equal(t, 1, rule(5, "es"))

	cfg.PluralForms = map[string]string{
		"ru": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	}
	rule, err = cfg.PluralRule()
	require.NoError(t, err)
	assert.Equal(t, 2, rule(5, "ru"))
	assert.Equal(t, 1, rule(3, "ru_RU"))
	assert.Equal(t, 1, rule(5, "es"))
}
