package utils

import (
	"fmt"
	"time"
)

// FormatRemaining renders the time left on a token as "3 days 4 hours".
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	if days == 0 && hours == 0 {
		minutes := int(d % time.Hour / time.Minute)
		return fmt.Sprintf("%d minutes", minutes)
	}
	return fmt.Sprintf("%d days %d hours", days, hours)
}

// DiscordTimestamp renders an instant as a Discord timestamp tag that the
// client localizes for the viewer.
func DiscordTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:f>", t.Unix())
}

// DiscordRelative renders an instant as a relative Discord timestamp
// ("in 3 days").
func DiscordRelative(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}
