package format

import (
	"strconv"
	"strings"
	"time"
)

// Transaction dates travel as local wall-clock strings in one of two
// shapes: "2006-01-02" or "2006-01-02 15:04:05". They are never
// timezone-shifted; parsing always constructs a local time.

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// ParseWallClock parses either date shape as local time. The zero time and
// false are returned for unparseable input.
func ParseWallClock(raw string) (time.Time, bool) {
	layout := dateLayout
	if strings.Contains(raw, " ") {
		layout = dateTimeLayout
	}
	t, err := time.ParseInLocation(layout, raw, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateTime renders a transaction timestamp in short human form,
// e.g. "Mar 5, 2:30 PM". Date-only values render as midnight. Unparseable
// input is returned unchanged.
func DateTime(raw string) string {
	t, ok := ParseWallClock(raw)
	if !ok {
		return raw
	}
	return t.Format("Jan 2, 3:04 PM")
}

// DateOnly strips any time-of-day portion.
func DateOnly(raw string) string {
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		return raw[:i]
	}
	return raw
}

// GroupLabel names a calendar date relative to now: "Today", "Yesterday",
// or a short month/day form like "Mar 5".
func GroupLabel(date string, now time.Time) string {
	t, ok := ParseWallClock(DateOnly(date))
	if !ok {
		return date
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	switch {
	case t.Equal(today):
		return "Today"
	case t.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	return t.Format("Jan 2")
}

// DateToInputValue converts a stored date string to the form-input shape
// "2006-01-02T15:04". Date-only values get a midnight time component.
func DateToInputValue(raw string) string {
	if strings.Contains(raw, " ") {
		if len(raw) < 16 {
			return raw
		}
		return strings.Replace(raw[:16], " ", "T", 1)
	}
	return raw + "T00:00"
}

// InputValueToDate converts a form-input value back to the stored shape,
// appending zero seconds.
func InputValueToDate(val string) string {
	if strings.Contains(val, "T") {
		return strings.Replace(val, "T", " ", 1) + ":00"
	}
	return val
}

// NowInputValue renders now in the form-input shape.
func NowInputValue(now time.Time) string {
	return now.Format("2006-01-02T15:04")
}

var monthAbbrevs = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// cycleStartDay is the fixed day of month a billing cycle begins on.
const cycleStartDay = 23

// DaysElapsedInCycle returns how many days of the cycle named by a
// "Mar 2024" style label have elapsed as of now, counting the start day
// as day 1. The result is clamped to a minimum of 1; malformed labels
// also yield 1.
func DaysElapsedInCycle(cycle string, now time.Time) int {
	parts := strings.Fields(cycle)
	if len(parts) != 2 {
		return 1
	}
	month, ok := monthAbbrevs[parts[0]]
	if !ok {
		return 1
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year <= 0 {
		return 1
	}

	start := time.Date(year, month, cycleStartDay, 0, 0, 0, 0, time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	days := int(today.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}
