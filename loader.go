package gotcat

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/gotcat/cache"
	"github.com/ZaguanLabs/gotcat/catalog"
	"github.com/ZaguanLabs/gotcat/metrics"
)

// SourcePath returns the catalog source file of a locale in a domain directory.
func SourcePath(dir, locale string) string {
	return filepath.Join(dir, locale+catalog.Extension)
}

// BuildCatalog maps entries to cache keys. Singular forms are keyed by msgid;
// plural form i >= 1 is keyed by the plural msgid with offset i. Empty
// translations are skipped.
func BuildCatalog(entries []catalog.Entry, domain, locale string, requiresCleaning bool) map[string]string {
	values := make(map[string]string, len(entries))

	for _, e := range entries {
		if e.MsgID == "" || !e.HasTranslation() {
			continue
		}

		if len(e.Translations) > 0 && e.Translations[0] != "" {
			values[Key(e.MsgID, domain, e.Context, locale, 0, requiresCleaning)] = e.Translations[0]
		}

		if !e.IsPlural() {
			continue
		}
		for i := 1; i < len(e.Translations); i++ {
			if e.Translations[i] == "" {
				continue
			}
			values[Key(e.MsgIDPlural, domain, e.Context, locale, i, requiresCleaning)] = e.Translations[i]
		}
	}

	return values
}

// loadDomain brings domain's catalog for the active locale into the backend
// or the in-process catalog. Tiers are tried in order: a compiled snapshot
// newer than the source, a matching freshness record, then the source
// itself. force skips the freshness checks. Must be called with t.mu held.
func (t *Translator) loadDomain(domain string, force bool) error {
	dir, ok := t.domains[domain]
	if !ok {
		return nil
	}

	log := t.log.With().Str("locale", t.locale).Str("domain", domain).Logger()

	src := SourcePath(dir, t.locale)
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("path", src).Msg("No catalog for locale")
			return nil
		}
		return &LoadError{Domain: domain, Path: src, Cause: err}
	}
	modTime := info.ModTime()

	if t.snapshots != nil {
		if snapTime, ok := t.snapshots.ModTime(t.locale, t.snapshotName(domain)); ok && snapTime.After(modTime) {
			loaded, err := t.loadSnapshot(log, domain, modTime, force)
			if err != nil || loaded {
				return err
			}
		}
	}

	if !force && t.isFresh(domain, modTime) {
		log.Debug().Msg("Cache is fresh")
		t.metrics.Load(metrics.TierFresh, 0)
		return nil
	}

	return t.loadSource(log, domain, src, modTime)
}

// snapshotName is the snapshot file name of domain. Cleaned and raw keys
// differ, so each cleaning mode gets its own snapshot.
func (t *Translator) snapshotName(domain string) string {
	if t.requiresCleaning {
		return domain + ".clean"
	}
	return domain + ".raw"
}

// loadSnapshot loads the compiled snapshot of domain. It reports false when
// the snapshot is unreadable so the caller falls through to the source.
func (t *Translator) loadSnapshot(log zerolog.Logger, domain string, modTime time.Time, force bool) (bool, error) {
	if t.backend != nil && !force && t.isFresh(domain, modTime) {
		log.Debug().Msg("Cache is fresh")
		t.metrics.Load(metrics.TierFresh, 0)
		return true, nil
	}

	values, err := t.snapshots.Read(t.locale, t.snapshotName(domain))
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring unreadable snapshot")
		return false, nil
	}

	if err := t.store(domain, values, modTime); err != nil {
		return false, err
	}

	log.Debug().Int("entries", len(values)).Msg("Loaded snapshot")
	t.metrics.Load(metrics.TierSnapshot, len(values))
	return true, nil
}

// loadSource parses the catalog source and writes it everywhere it belongs.
func (t *Translator) loadSource(log zerolog.Logger, domain, src string, modTime time.Time) error {
	entries, err := t.reader.ReadFile(src)
	if err != nil {
		return &LoadError{Domain: domain, Path: src, Cause: err}
	}

	values := BuildCatalog(entries, domain, t.locale, t.requiresCleaning)
	if err := t.store(domain, values, modTime); err != nil {
		return err
	}

	log.Debug().Int("entries", len(values)).Str("path", src).Msg("Loaded catalog")
	t.metrics.Load(metrics.TierSource, len(values))

	if t.snapshots == nil {
		return nil
	}

	if err := t.snapshots.Write(t.locale, t.snapshotName(domain), values); err != nil {
		var encErr *cache.EncodeError
		if errors.As(err, &encErr) {
			return &SerializationError{Locale: t.locale, Domain: domain, Cause: err}
		}
		log.Warn().Err(err).Msg("Failed to write snapshot")
	}
	return nil
}

// store writes values in one batch followed by the freshness record, or
// merges them into the in-process catalog when there is no backend.
func (t *Translator) store(domain string, values map[string]string, modTime time.Time) error {
	if t.backend == nil {
		if t.fallback == nil {
			t.fallback = make(map[string]string, len(values))
		}
		for key, value := range values {
			t.fallback[key] = value
		}
		return nil
	}

	if err := t.backend.SetMany(values); err != nil {
		return &CacheError{Message: "writing catalog " + domain, Cause: err, Retryable: IsRetryable(err)}
	}
	return t.markFresh(domain, modTime)
}
