// Package money formats minor-unit amounts for display. Arithmetic stays in
// integer minor units everywhere else; this package only owns the final
// rendering step.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatNTD renders an amount of minor units as a New Taiwan dollar display
// string, e.g. 149000 -> "NT$ 1,490" and 2550 -> "NT$ 25.5".
func FormatNTD(minorUnits int64) string {
	amount := decimal.NewFromInt(minorUnits).Div(hundred)

	s := amount.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString("NT$ ")
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(groupThousands(intPart))
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// groupThousands inserts comma separators into a digit string.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
