package slots

import (
	"regexp"
	"strconv"
	"strings"
)

// MinutesUnparseable is returned by ClockMinutes for labels that fail to
// parse, large enough that they sort after every valid time of day.
const MinutesUnparseable = int(^uint(0) >> 1)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(?i:(AM|PM))$`)

// Clock is a parsed 12-hour time label in 24-hour form.
type Clock struct {
	Hour   int // 0-23
	Minute int // 0-59
}

// ParseClock parses a "HH:MM AM/PM" label. 12 AM maps to hour 0, 12 PM stays
// 12, other PM hours add 12. Returns ok=false for any other shape; it never
// panics on garbage input.
func ParseClock(raw string) (Clock, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Clock{}, false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return Clock{}, false
	}

	if strings.EqualFold(m[3], "AM") {
		if hour == 12 {
			hour = 0
		}
	} else if hour != 12 {
		hour += 12
	}
	return Clock{Hour: hour, Minute: minute}, true
}

// ClockMinutes converts a time label to minutes since midnight, or
// MinutesUnparseable on failure so malformed labels sort last and are never
// treated as past.
func ClockMinutes(raw string) int {
	c, ok := ParseClock(raw)
	if !ok {
		return MinutesUnparseable
	}
	return c.Hour*60 + c.Minute
}
