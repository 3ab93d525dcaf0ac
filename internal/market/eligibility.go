// Package market centralizes the rule for which symbols may be newly
// purchased. The buy path and the valuation path both consult it so the
// two can never disagree.
package market

import "strings"

// DefaultSuffix limits new purchases to NSE-listed symbols.
const DefaultSuffix = ".NS"

// Rules is the market-restriction predicate, configured once at startup.
type Rules struct {
	suffix string
}

func NewRules(suffix string) Rules {
	suffix = strings.TrimSpace(suffix)
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return Rules{suffix: strings.ToUpper(suffix)}
}

// Normalize upper-cases and trims a user-supplied ticker.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Eligible reports whether the symbol may be newly purchased. Symbols are
// matched after normalization, so callers may pass raw user input.
func (r Rules) Eligible(symbol string) bool {
	s := Normalize(symbol)
	return len(s) > len(r.suffix) && strings.HasSuffix(s, r.suffix)
}

func (r Rules) Suffix() string {
	return r.suffix
}
