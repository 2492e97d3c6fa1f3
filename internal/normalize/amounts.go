package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a source amount string into a decimal. Currency
// symbols, thousands separators and whitespace are stripped; a value wrapped
// in parentheses is an accounting-style negative whose magnitude is
// returned. Non-numeric input yields zero. The result may still be zero or
// negative; the normalizer rejects those.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)

	parenthesized := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		parenthesized = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		default:
			// currency symbols, thousands separators, whitespace
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	if parenthesized {
		return d.Abs()
	}
	return d
}
