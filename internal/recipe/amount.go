package recipe

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultAmount is used whenever a quantity cannot be read.
const DefaultAmount = 1.0

// parseAmount converts an amount token into a number. The boolean is false
// when the token was unreadable and DefaultAmount was returned instead.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return DefaultAmount, false
	}

	// integer part followed by a vulgar fraction: "1½", "1 ½"
	last, size := utf8.DecodeLastRuneInString(s)
	if frac, ok := vulgarFractions[last]; ok {
		whole := strings.TrimSpace(s[:len(s)-size])
		if whole == "" {
			return frac, true
		}
		n, err := strconv.ParseFloat(whole, 64)
		if err != nil {
			return DefaultAmount, false
		}
		return n + frac, true
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		if len(num) > 2 || len(den) > 2 {
			return DefaultAmount, false
		}
		a, errA := strconv.Atoi(num)
		b, errB := strconv.Atoi(den)
		if errA != nil || errB != nil || b == 0 {
			return DefaultAmount, false
		}
		return float64(a) / float64(b), true
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return DefaultAmount, false
	}
	return n, true
}
