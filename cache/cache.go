// Package cache provides translation cache backends and compiled catalog snapshots.
package cache

// Backend is the minimal contract the translator needs from a cache.
type Backend interface {
	// Get retrieves a cached value. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a single value.
	Set(key string, value string) error

	// SetMany stores every pair, overwriting existing keys.
	SetMany(values map[string]string) error

	// Clear removes every value owned by this backend.
	Clear() error
}

// Fetcher is implemented by backends whose reads can fail. Fetch returns a
// nil error with found == false only when the key is known to be absent.
type Fetcher interface {
	Fetch(key string) (value string, found bool, err error)
}
