// Package ui holds the presentation helpers shared by page handlers and
// templates.
package ui

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// TimeAgo buckets the age of t relative to now into a short human string.
// Ages below one day, and timestamps in the future, read "today".
func TimeAgo(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	delta := now.Sub(t)
	if delta < day {
		return "today"
	}

	days := int(delta / day)
	switch {
	case days < 7:
		return plural(days, "day")
	case days < 30:
		return plural(days/7, "week")
	default:
		return plural(days/30, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
