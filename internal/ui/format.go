package ui

import (
	"fmt"
	"strconv"
	"time"
)

// FormatMoney renders a whole-dollar amount with thousands separators.
func FormatMoney(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.Itoa(amount)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-$" + s
	}
	return "$" + s
}

// FormatSalary renders a salary range. Zero on either side means that bound
// is not set.
func FormatSalary(min, max int) string {
	switch {
	case min > 0 && max > 0 && min == max:
		return FormatMoney(min)
	case min > 0 && max > 0:
		return fmt.Sprintf("%s - %s", FormatMoney(min), FormatMoney(max))
	case min > 0:
		return "From " + FormatMoney(min)
	case max > 0:
		return "Up to " + FormatMoney(max)
	default:
		return "Not specified"
	}
}

// FormatDate renders t as "Jan 2, 2006". The zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// FormatDatePtr is FormatDate for optional dates.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}
