package gotcat

import (
	"crypto/md5" // #nosec G501 - used for key differentiation, not security
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MaxKeyLength is the longest key Key produces when cleaning is required.
	MaxKeyLength = 64

	// truncatedKeyLength leaves room for "." plus a 32 character md5 digest.
	truncatedKeyLength = 31
)

var (
	// strayPrefix is deliberately narrow. Keys that match it are always hashed.
	strayPrefix = regexp.MustCompile(`^[A-Z][a-z][0-9.]\s`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Key generates the cache key for a single translated string.
//
// The components are joined with "." in a fixed order: message id, domain,
// context, locale (with "_" replaced by "."), and the plural offset. Offsets
// of 0 and 1 are not encoded; offset 1 is the default plural form and shares
// its key with an offset-less lookup of the plural message id.
//
// When requiresCleaning is true the key is made safe for restrictive
// backends: whitespace runs become "_" and keys longer than MaxKeyLength are
// truncated and suffixed with the md5 digest of the uncleaned key.
func Key(msgID, domain, context, locale string, pluralOffset int, requiresCleaning bool) string {
	var b strings.Builder
	b.Grow(len(msgID) + len(domain) + len(context) + len(locale) + 8)

	b.WriteString(msgID)
	if domain != "" {
		b.WriteByte('.')
		b.WriteString(domain)
	}
	if context != "" {
		b.WriteByte('.')
		b.WriteString(context)
	}
	if locale != "" {
		b.WriteByte('.')
		b.WriteString(strings.ReplaceAll(locale, "_", "."))
	}
	if pluralOffset > 1 {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(pluralOffset))
	}

	raw := b.String()
	if !requiresCleaning {
		return raw
	}
	return cleanKey(raw)
}

// cleanKey applies the backend-safe transformation to a raw key.
func cleanKey(raw string) string {
	cleaned := raw
	stripped := false
	if loc := strayPrefix.FindStringIndex(cleaned); loc != nil {
		cleaned = cleaned[loc[1]:]
		stripped = true
	}

	cleaned = whitespace.ReplaceAllString(cleaned, "_")

	if stripped || len(cleaned) > MaxKeyLength {
		cleaned = truncateUTF8(cleaned, truncatedKeyLength) + "." + HashKey(raw)
	}

	if cleaned == "" {
		return raw
	}
	return cleaned
}

// HashKey returns the hex md5 digest of s.
func HashKey(s string) string {
	sum := md5.Sum([]byte(s)) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// freshnessKey is the backend key holding the source modification time
// recorded by the last full load of a domain.
func freshnessKey(locale, domain string) string {
	return locale + "." + domain
}
