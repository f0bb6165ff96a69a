package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// WithinWindow reports whether current falls inside the window [start, end)
// on a 24-hour clock. All arguments are minutes since midnight (0-1439).
//
// When start >= end the window crosses midnight (e.g. 22:00-08:00) and
// membership is current >= start OR current < end. A window with
// start == end therefore covers the whole day.
func WithinWindow(current, start, end int) bool {
	if start < end {
		return current >= start && current < end
	}
	return current >= start || current < end
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into minutes since midnight.
// Seconds are ignored.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}

	return h*60 + m, nil
}

// MinutesOfDay returns the minutes-since-midnight component of hour/minute.
func MinutesOfDay(hour, minute int) int {
	return (hour*60 + minute) % minutesPerDay
}
