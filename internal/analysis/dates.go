package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	inDaysRe  = regexp.MustCompile(`in (\d+) days?`)
	inWeeksRe = regexp.MustCompile(`in (\d+) weeks?`)
)

// ParseDate finds the first relative-date phrase in text and resolves it
// against now. The returned time is the end of the resolved day in now's
// location. Phrases are checked in a fixed order and the first hit wins.
func ParseDate(text string, now time.Time) (time.Time, bool) {
	t := strings.ToLower(text)
	if t == "" {
		return time.Time{}, false
	}

	switch {
	case strings.Contains(t, "today"):
		return endOfDay(now, 0), true
	case strings.Contains(t, "tomorrow"):
		return endOfDay(now, 1), true
	case strings.Contains(t, "next week"):
		return endOfDay(now, 7), true
	case strings.Contains(t, "this week"),
		strings.Contains(t, "end of week"),
		strings.Contains(t, "eow"):
		return endOfDay(now, daysUntilFriday(now)), true
	case strings.Contains(t, "next month"):
		y, m, d := now.Date()
		return time.Date(y, m+1, d, 23, 59, 59, 999*int(time.Millisecond), now.Location()), true
	}

	if m := inDaysRe.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n <= maxOffsetDays {
			return endOfDay(now, n), true
		}
	}
	if m := inWeeksRe.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n <= maxOffsetDays/7 {
			return endOfDay(now, 7*n), true
		}
	}

	return time.Time{}, false
}

// Larger offsets are treated as no match so day arithmetic cannot overflow.
const maxOffsetDays = 100000

// daysUntilFriday never returns 0: on a Friday the next Friday is a week out.
func daysUntilFriday(now time.Time) int {
	n := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	if n == 0 {
		n = 7
	}
	return n
}

func endOfDay(now time.Time, addDays int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+addDays, 23, 59, 59, 999*int(time.Millisecond), now.Location())
}
