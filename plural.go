package gotcat

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leonelquinteros/gotext/plurals"
)

// PluralRule maps a count to a plural form offset for the active locale.
// Offset 0 selects the singular form; offsets from 1 select msgstr[n] of the
// plural message id.
type PluralRule func(n int, locale string) int

// DefaultPluralRule returns 0 for a count of one and 1 otherwise. It is
// correct for English-like languages only.
func DefaultPluralRule(n int, _ string) int {
	if n == 1 {
		return 0
	}
	return 1
}

// PluralFormsRule builds a rule from a gettext Plural-Forms header, for
// example "nplurals=2; plural=(n != 1);". The compiled expression is
// evaluated on the absolute count and clamped to nplurals-1.
func PluralFormsRule(header string) (PluralRule, error) {
	var (
		expr     string
		nplurals int
	)

	for _, part := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(name) {
		case "nplurals":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("parsing nplurals in %q: %w", header, err)
			}
			nplurals = n
		case "plural":
			expr = strings.TrimSpace(value)
		}
	}

	if expr == "" {
		return nil, errors.New("plural forms header has no plural expression")
	}

	compiled, err := plurals.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling plural expression %q: %w", expr, err)
	}

	return func(n int, _ string) int {
		form := compiled.Eval(pluralCount(n))
		if nplurals > 0 && form >= nplurals {
			form = nplurals - 1
		}
		if form < 0 {
			form = 0
		}
		return form
	}, nil
}

// pluralCount maps n onto the uint32 range plural expressions are evaluated
// on. The absolute value is used. Counts too large for uint32 are folded to a
// value that keeps the low six decimal digits and stays at least a million.
func pluralCount(n int) uint32 {
	u := uint64(n)
	if n < 0 {
		u = uint64(-(n + 1)) + 1
	}
	if u > math.MaxUint32 {
		u = u%1_000_000 + 1_000_000
	}
	return uint32(u) // #nosec G115 - bounded above
}

// LocalePluralRules selects a rule by exact locale, then by its language
// part ("es" for "es_MX"), falling back to DefaultPluralRule.
func LocalePluralRules(rules map[string]PluralRule) PluralRule {
	return func(n int, locale string) int {
		if rule, ok := rules[locale]; ok {
			return rule(n, locale)
		}
		lang, _, _ := strings.Cut(locale, "_")
		if rule, ok := rules[lang]; ok {
			return rule(n, locale)
		}
		return DefaultPluralRule(n, locale)
	}
}
