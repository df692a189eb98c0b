package gotcat

import "github.com/ZaguanLabs/gotcat/cache"

// Backend is the cache contract the translator writes catalogs into.
type Backend = cache.Backend

// InvalidMarker is stored under a key that stayed missing after a reload, so
// later lookups return the message id without reloading again. It cannot
// appear in a .po catalog.
const InvalidMarker = "\x00gotcat:invalid"

// Result is the outcome of a lookup.
type Result struct {
	Text  string // Translated text, or the untranslated fallback
	Found bool   // Whether Text came from a catalog
}

// Stats summarizes translator state.
type Stats struct {
	Locale          string // Active locale, empty when translation is disabled
	Domains         int    // Number of bound domains
	FallbackEntries int    // Entries in the in-process catalog (no backend only)
	SelfHeals       int    // Miss-triggered reloads since construction
	Missing         int    // Distinct (locale, key) pairs reported missing
}
