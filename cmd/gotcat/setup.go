package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/ZaguanLabs/gotcat"
	"github.com/ZaguanLabs/gotcat/cache"
	"github.com/ZaguanLabs/gotcat/config"
)

// session is everything a command needs, built from config and flags.
type session struct {
	cfg        *config.Config
	log        zerolog.Logger
	backend    gotcat.Backend
	translator *gotcat.Translator
	closers    []io.Closer
}

func (s *session) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// loadConfig reads the config file and applies global flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if locale := cmd.String("locale"); locale != "" {
		cfg.Locale = locale
	}
	if cacheType := cmd.String("cache"); cacheType != "" {
		cfg.Cache.Type = cacheType
	}
	if dir := cmd.String("snapshot-dir"); dir != "" {
		cfg.SnapshotDir = dir
	}
	if level := cmd.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	for _, bind := range cmd.StringSlice("bind") {
		name, dir, ok := strings.Cut(bind, "=")
		if !ok || name == "" || dir == "" {
			return nil, fmt.Errorf("--bind %q: expected NAME=DIR", bind)
		}
		if cfg.Domains == nil {
			cfg.Domains = map[string]string{}
		}
		cfg.Domains[name] = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, &gotcat.ConfigError{Message: "invalid configuration", Cause: err}
	}
	return cfg, nil
}

// newSession opens the backend, binds domains and activates the locale.
func newSession(cmd *cli.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log, cmd.Root().ErrWriter)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: logger}

	backend, closer, err := openBackend(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		s.closers = append(s.closers, closer)
	}
	s.backend = backend

	rule, err := cfg.PluralRule()
	if err != nil {
		s.Close()
		return nil, err
	}

	opts := []gotcat.TranslatorOption{
		gotcat.WithKeyCleaning(cfg.Cache.RequiresCleaning),
		gotcat.WithLogger(logger),
		gotcat.WithPluralRule(rule),
		gotcat.WithSnapshotDir(cfg.SnapshotDir),
	}
	if backend != nil {
		opts = append(opts, gotcat.WithCache(backend))
	}
	s.translator = gotcat.NewTranslator(opts...)

	names := make([]string, 0, len(cfg.Domains))
	for name := range cfg.Domains {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.translator.BindDomain(name, cfg.Domains[name]); err != nil {
			s.Close()
			return nil, err
		}
	}
	if cfg.DefaultDomain != "" {
		s.translator.SetDefaultDomain(cfg.DefaultDomain)
	}

	return s, nil
}

// activate sets the configured locale, loading every bound domain.
func (s *session) activate() error {
	if s.cfg.Locale == "" {
		return errors.New("no locale: pass --locale or set locale in the config file")
	}
	return s.translator.SetLocale(s.cfg.Locale)
}

// openBackend builds the configured cache. The closer is nil for backends
// without resources.
func openBackend(cfg config.CacheConfig) (gotcat.Backend, io.Closer, error) {
	var (
		backend gotcat.Backend
		closer  io.Closer
	)

	switch cfg.Type {
	case config.CacheNone:
		return nil, nil, nil
	case config.CacheMemory:
		backend = cache.NewInMemoryCache(cfg.TTL)
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			URL:       cfg.URL,
			TTL:       cfg.TTL,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, nil, &gotcat.CacheError{Message: "opening redis cache", Cause: err}
		}
		backend, closer = rc, rc
	case config.CacheSQLite:
		sc, err := cache.NewSQLiteCache(cache.SQLiteConfig{Path: cfg.Path})
		if err != nil {
			return nil, nil, &gotcat.CacheError{Message: "opening sqlite cache", Cause: err}
		}
		backend, closer = sc, sc
	default:
		return nil, nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}

	if cfg.Retries > 0 {
		retry := gotcat.DefaultRetryConfig()
		retry.MaxRetries = cfg.Retries
		backend = gotcat.NewRetryableBackend(backend, retry)
	}
	return backend, closer, nil
}

// newLogger builds a console or JSON logger. Console output is colored only
// when w is a terminal.
func newLogger(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}

	if cfg.Format == "json" {
		return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
	}

	cw := zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w), TimeFormat: time.DateTime}
	return zerolog.New(cw).Level(level).With().Timestamp().Logger(), nil
}

// isTerminal returns true if w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
