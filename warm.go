package gotcat

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// WarmLocales loads every bound domain for each locale into the shared
// backend, running up to concurrency locales in parallel (unlimited when
// concurrency <= 0). The translator's own locale is left unchanged. Warming
// without a backend is a configuration error, since the in-process catalog
// only ever holds one locale.
func (t *Translator) WarmLocales(ctx context.Context, locales []string, concurrency int) error {
	t.mu.Lock()
	if t.backend == nil {
		t.mu.Unlock()
		return &ConfigError{Message: "warming locales requires a cache backend"}
	}
	workers := make([]*Translator, len(locales))
	for i := range locales {
		workers[i] = t.clone()
	}
	t.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, locale := range locales {
		w := workers[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := w.SetLocale(locale); err != nil {
				return fmt.Errorf("warming %s: %w", locale, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// clone copies configuration and bindings into a translator with no active
// locale. Must be called with t.mu held.
func (t *Translator) clone() *Translator {
	domains := make(map[string]string, len(t.domains))
	for name, dir := range t.domains {
		domains[name] = dir
	}

	return &Translator{
		domains:          domains,
		defaultDomain:    t.defaultDomain,
		backend:          t.backend,
		requiresCleaning: t.requiresCleaning,
		snapshots:        t.snapshots,
		reader:           t.reader,
		plural:           t.plural,
		log:              t.log,
		metrics:          t.metrics,
		reported:         make(map[string]struct{}),
	}
}
