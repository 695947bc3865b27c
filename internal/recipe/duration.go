package recipe

import (
	"regexp"
	"strconv"
)

var (
	reISOHours   = regexp.MustCompile(`(\d+)H`)
	reISOMinutes = regexp.MustCompile(`(\d+)M`)
)

// ParseISODuration converts an ISO-8601 style duration such as "PT1H30M"
// into minutes. The boolean is false when nothing matched or the total is
// zero, so "PT0H0M" reads as unspecified rather than zero minutes.
func ParseISODuration(s string) (int, bool) {
	total := 0
	if m := reISOHours.FindStringSubmatch(s); m != nil {
		if h, err := strconv.Atoi(m[1]); err == nil {
			total += h * 60
		}
	}
	if m := reISOMinutes.FindStringSubmatch(s); m != nil {
		if mins, err := strconv.Atoi(m[1]); err == nil {
			total += mins
		}
	}
	if total <= 0 {
		return 0, false
	}
	return total, true
}
