package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatTRY formats an amount in Turkish lira as a string like "₺1.299" or "₺12.500,50".
// Uses dot as thousands separator and comma for kuruş, as tr-TR does.
func FormatTRY(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	kurus := int64(math.Round(amount * 100))
	whole := kurus / 100
	frac := kurus % 100

	s := strconv.FormatInt(whole, 10)

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + symbol + decimals
	b.Grow(len(s) + len(s)/3 + 8)
	if neg {
		b.WriteString("-")
	}
	b.WriteString("₺")

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}

	if frac != 0 {
		b.WriteByte(',')
		if frac < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(frac, 10))
	}

	return b.String()
}
