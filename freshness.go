package gotcat

import (
	"strconv"
	"time"
)

// modStamp encodes a source modification time as stored in a freshness record.
func modStamp(modTime time.Time) string {
	return strconv.FormatInt(modTime.UnixNano(), 10)
}

// isFresh reports whether the backend already holds domain's catalog for the
// active locale as loaded from a source last modified at modTime. Only exact
// equality counts. Without a backend nothing is fresh.
func (t *Translator) isFresh(domain string, modTime time.Time) bool {
	if t.backend == nil {
		return false
	}
	recorded, ok := t.backend.Get(freshnessKey(t.locale, domain))
	return ok && recorded == modStamp(modTime)
}

// markFresh writes the freshness record for domain.
func (t *Translator) markFresh(domain string, modTime time.Time) error {
	if err := t.backend.Set(freshnessKey(t.locale, domain), modStamp(modTime)); err != nil {
		return &CacheError{Message: "writing freshness record", Cause: err, Retryable: IsRetryable(err)}
	}
	return nil
}
