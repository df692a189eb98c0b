package gotcat

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ComposeLocale joins a language and optional country code into a locale
// string such as "es" or "es_MX". An empty language yields an empty locale,
// which disables translation.
func ComposeLocale(lang, country string) string {
	if lang == "" {
		return ""
	}
	if country != "" {
		return lang + "_" + country
	}
	return lang
}

// NormalizeLocale converts a language code to the catalog file format (e.g., "es-MX" → "es_MX").
func NormalizeLocale(locale string) string {
	return strings.ReplaceAll(locale, "-", "_")
}

// ParseLocale validates locale as a BCP 47 tag and splits it into its
// language and country parts. Case is preserved so the result still names
// the catalog file on disk.
func ParseLocale(locale string) (lang, country string, err error) {
	normalized := NormalizeLocale(strings.TrimSpace(locale))
	if normalized == "" {
		return "", "", nil
	}

	if _, err := language.Parse(strings.ReplaceAll(normalized, "_", "-")); err != nil {
		return "", "", fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	lang, country, _ = strings.Cut(normalized, "_")
	return lang, country, nil
}

// CleanDomain rewrites path separators in a domain name so a package-style
// name like "qcubed/i18n" cannot be mistaken for a directory.
func CleanDomain(domain string) string {
	if domain == "" {
		return domain
	}
	return strings.NewReplacer(`\`, ".", "/", ".").Replace(domain)
}
