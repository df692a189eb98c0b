package gotcat

import (
	"errors"
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ZaguanLabs/gotcat/cache"
	"github.com/ZaguanLabs/gotcat/catalog"
	"github.com/ZaguanLabs/gotcat/metrics"
)

// Translator resolves message ids for the active locale. It is safe for
// concurrent use.
type Translator struct {
	mu sync.Mutex

	domains          map[string]string // cleaned domain name -> catalog directory
	defaultDomain    string
	locale           string
	backend          Backend
	requiresCleaning bool
	fallback         map[string]string // in-process catalog, only without a backend
	snapshots        *cache.SnapshotStore

	reader  catalog.Reader
	plural  PluralRule
	log     zerolog.Logger
	metrics *metrics.Collector

	reported  map[string]struct{}
	selfHeals int
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithCache sets the cache backend. Keys are cleaned for restrictive
// backends unless disabled with WithKeyCleaning.
func WithCache(backend Backend) TranslatorOption {
	return func(t *Translator) {
		t.backend = backend
	}
}

// WithKeyCleaning controls whether cache keys are bounded and made safe for
// restrictive backends. Enabled by default.
func WithKeyCleaning(enabled bool) TranslatorOption {
	return func(t *Translator) {
		t.requiresCleaning = enabled
	}
}

// WithReader sets the catalog source reader.
func WithReader(reader catalog.Reader) TranslatorOption {
	return func(t *Translator) {
		t.reader = reader
	}
}

// WithPluralRule sets the rule mapping counts to plural form offsets.
func WithPluralRule(rule PluralRule) TranslatorOption {
	return func(t *Translator) {
		t.plural = rule
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.log = logger.With().Str("sys", "gotcat").Logger()
	}
}

// WithMetrics records lookups and loads on c.
func WithMetrics(c *metrics.Collector) TranslatorOption {
	return func(t *Translator) {
		t.metrics = c
	}
}

// WithSnapshotDir enables compiled snapshots under dir. Unlike SetTempDir the
// directory is not required to exist; it is created on first write.
func WithSnapshotDir(dir string) TranslatorOption {
	return func(t *Translator) {
		if dir == "" {
			t.snapshots = nil
			return
		}
		t.snapshots = cache.NewSnapshotStore(dir)
	}
}

// NewTranslator creates a Translator with no active locale.
func NewTranslator(opts ...TranslatorOption) *Translator {
	t := &Translator{
		domains:          make(map[string]string),
		requiresCleaning: true,
		reader:           catalog.NewPOReader(),
		plural:           DefaultPluralRule,
		log:              zerolog.Nop(),
		reported:         make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// SetCache replaces the cache backend and discards the in-process catalog.
// A nil backend switches back to the in-process catalog. Bound domains are
// reloaded into the new store if a locale is active.
func (t *Translator) SetCache(backend Backend, requiresCleaning bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend = backend
	t.requiresCleaning = requiresCleaning
	t.fallback = nil

	if t.locale == "" {
		return nil
	}
	return t.loadAll()
}

// BindDomain registers the directory holding <locale>.po files for a domain.
// Rebinding a name replaces its directory. If a locale is active, the domain
// is loaded immediately.
func (t *Translator) BindDomain(domain, dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return &ConfigError{Message: "domain directory not found", Path: dir, Cause: ErrDirNotFound}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	domain = CleanDomain(domain)
	t.domains[domain] = dir

	if t.locale == "" {
		return nil
	}
	return t.loadDomain(domain, false)
}

// SetDefaultDomain sets the domain used when a lookup names none.
func (t *Translator) SetDefaultDomain(domain string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaultDomain = CleanDomain(domain)
}

// SetTempDir enables compiled snapshots under dir, which must exist.
func (t *Translator) SetTempDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return &ConfigError{Message: "snapshot directory not found", Path: dir, Cause: ErrDirNotFound}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshots = cache.NewSnapshotStore(dir)
	return nil
}

// SetLanguage activates a language and optional country. Setting the
// current locale again is a no-op. Otherwise the in-process catalog is
// discarded and every bound domain is loaded for the new locale. An empty
// language disables translation.
func (t *Translator) SetLanguage(language, country string) error {
	locale := ComposeLocale(language, country)

	t.mu.Lock()
	defer t.mu.Unlock()

	if locale == t.locale {
		return nil
	}

	t.locale = locale
	t.fallback = nil
	t.log.Debug().Str("locale", locale).Msg("Locale changed")

	if locale == "" {
		return nil
	}
	return t.loadAll()
}

// SetLocale validates a locale such as "es-MX" or "es_MX" and activates it.
func (t *Translator) SetLocale(locale string) error {
	lang, country, err := ParseLocale(locale)
	if err != nil {
		return &ConfigError{Message: "invalid locale", Cause: err}
	}
	return t.SetLanguage(lang, country)
}

// Locale returns the active locale.
func (t *Translator) Locale() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.locale
}

// Translate returns the translation of msgID, or msgID itself when none exists.
func (t *Translator) Translate(msgID, domain, context string) string {
	return t.Lookup(msgID, domain, context).Text
}

// Lookup is like Translate but reports whether a translation was found.
func (t *Translator) Lookup(msgID, domain, context string) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.locale == "" {
		return Result{Text: msgID}
	}

	domain = t.resolveDomain(domain)
	key := Key(msgID, domain, context, t.locale, 0, t.requiresCleaning)
	return t.getEntry(key, msgID, domain)
}

// TranslatePlural returns the form of a plural message selected by n. When
// no translation exists it returns msgID for n == 1 and msgIDPlural otherwise.
func (t *Translator) TranslatePlural(msgID, msgIDPlural string, n int, domain, context string) string {
	return t.LookupPlural(msgID, msgIDPlural, n, domain, context).Text
}

// LookupPlural is like TranslatePlural but reports whether a translation was found.
func (t *Translator) LookupPlural(msgID, msgIDPlural string, n int, domain, context string) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	fallback := msgIDPlural
	if n == 1 {
		fallback = msgID
	}

	if t.locale == "" {
		return Result{Text: fallback}
	}

	domain = t.resolveDomain(domain)
	offset := t.plural(n, t.locale)

	var key string
	if offset == 0 {
		key = Key(msgID, domain, context, t.locale, 0, t.requiresCleaning)
	} else {
		key = Key(msgIDPlural, domain, context, t.locale, offset, t.requiresCleaning)
	}
	return t.getEntry(key, fallback, domain)
}

// ClearCache discards the in-process catalog and clears the backend.
func (t *Translator) ClearCache() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.fallback = nil
	t.reported = make(map[string]struct{})

	if t.backend == nil {
		return nil
	}
	if err := t.backend.Clear(); err != nil {
		return &CacheError{Message: "clearing cache", Cause: err, Retryable: IsRetryable(err)}
	}
	return nil
}

// Stats returns a snapshot of translator state.
func (t *Translator) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Stats{
		Locale:          t.locale,
		Domains:         len(t.domains),
		FallbackEntries: len(t.fallback),
		SelfHeals:       t.selfHeals,
		Missing:         len(t.reported),
	}
}

// Domains returns the bound domain names in sorted order.
func (t *Translator) Domains() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.domainNames()
}

func (t *Translator) domainNames() []string {
	names := make([]string, 0, len(t.domains))
	for name := range t.domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Translator) resolveDomain(domain string) string {
	if domain == "" {
		return t.defaultDomain
	}
	return CleanDomain(domain)
}

// loadAll loads every bound domain for the active locale. Must be called
// with t.mu held.
func (t *Translator) loadAll() error {
	var errs []error
	for _, domain := range t.domainNames() {
		if err := t.loadDomain(domain, false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// getEntry fetches key, restoring evicted entries by reloading the domain
// once. Must be called with t.mu held.
func (t *Translator) getEntry(key, fallback, domain string) Result {
	if t.backend == nil {
		if len(t.fallback) == 0 {
			t.metrics.Lookup(metrics.ResultMiss)
			return Result{Text: fallback}
		}
		if value, ok := t.fallback[key]; ok {
			t.metrics.Lookup(metrics.ResultHit)
			return Result{Text: value, Found: true}
		}
		t.reportMissing(key)
		return Result{Text: fallback}
	}

	if value, ok := t.backend.Get(key); ok {
		if value == InvalidMarker {
			t.metrics.Lookup(metrics.ResultInvalid)
			return Result{Text: fallback}
		}
		t.metrics.Lookup(metrics.ResultHit)
		return Result{Text: value, Found: true}
	}

	if _, bound := t.domains[domain]; bound {
		t.selfHeals++
		t.metrics.SelfHeal()
		t.log.Warn().
			Str("locale", t.locale).
			Str("domain", domain).
			Str("key", key).
			Msg("Cache miss, reloading domain")

		// The freshness record can outlive evicted entries, so the reload
		// must bypass it.
		if err := t.loadDomain(domain, true); err != nil {
			t.log.Error().Err(err).Str("domain", domain).Msg("Reload failed")
			t.metrics.Lookup(metrics.ResultMiss)
			return Result{Text: fallback}
		}
	}

	// Only a confirmed absence may be marked. A failed read must not
	// overwrite a real translation.
	value, found, err := t.fetch(key)
	if err != nil {
		t.log.Warn().Err(err).Str("key", key).Msg("Cache read failed, leaving key unmarked")
		t.metrics.Lookup(metrics.ResultMiss)
		return Result{Text: fallback}
	}
	if found && value != InvalidMarker {
		t.metrics.Lookup(metrics.ResultHit)
		return Result{Text: value, Found: true}
	}

	if err := t.backend.Set(key, InvalidMarker); err != nil {
		t.log.Warn().Err(err).Str("key", key).Msg("Failed to mark missing key")
	}
	t.reportMissing(key)
	return Result{Text: fallback}
}

// fetch reads key, telling a failed read apart from a missing key when the
// backend supports it.
func (t *Translator) fetch(key string) (string, bool, error) {
	if f, ok := t.backend.(cache.Fetcher); ok {
		return f.Fetch(key)
	}
	value, found := t.backend.Get(key)
	return value, found, nil
}

// reportMissing logs a missing translation once per (locale, key) pair.
func (t *Translator) reportMissing(key string) {
	t.metrics.Lookup(metrics.ResultMiss)

	id := t.locale + "\x00" + key
	if _, seen := t.reported[id]; seen {
		return
	}
	t.reported[id] = struct{}{}
	t.log.Debug().
		Str("locale", t.locale).
		Str("key", key).
		Msg("Missing translation")
}
