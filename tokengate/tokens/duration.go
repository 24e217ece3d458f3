package tokens

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned when a duration code cannot be parsed.
var ErrInvalidDuration = errors.New("invalid duration format, use forms like '30d', '12h', '5m'")

// ParseDuration converts a compact duration code ("30d", "12h", "5m", "45s")
// into a time.Duration. The unit letter is case-insensitive. Fractional and
// negative values are rejected.
func ParseDuration(code string) (time.Duration, error) {
	if len(code) < 2 {
		return 0, ErrInvalidDuration
	}

	unit := strings.ToLower(code[len(code)-1:])
	value, err := strconv.Atoi(code[:len(code)-1])
	if err != nil || value < 0 {
		return 0, ErrInvalidDuration
	}

	switch unit {
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "s":
		return time.Duration(value) * time.Second, nil
	}
	return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidDuration, unit)
}

// FormatDuration renders a duration the way claim receipts display it,
// e.g. "30 days", "12 hours".
func FormatDuration(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	case d >= time.Hour && d%time.Hour == 0:
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
