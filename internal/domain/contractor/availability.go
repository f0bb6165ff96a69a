package contractor

import (
	"strings"
	"time"
)

// IsCurrentlyAvailable resolves a profile's live availability at the given
// instant. The status flag is necessary but not sufficient: a future
// busy_until or today's working-hours entry can still force unavailable.
// Clock comparisons are on zero-padded "HH:MM" strings in UTC.
func IsCurrentlyAvailable(p *Profile, now time.Time) bool {
	if p.AvailabilityStatus != StatusAvailable {
		return false
	}

	if p.BusyUntil.Valid && now.Before(p.BusyUntil.Time) {
		return false
	}

	hours := p.Schedule()
	if len(hours) == 0 {
		return true
	}

	utc := now.UTC()
	weekday := strings.ToLower(utc.Weekday().String())
	clock := utc.Format("15:04")

	day, ok := hours[weekday]
	if !ok {
		// No entry for today means no constraint.
		return true
	}
	if !day.Enabled {
		return false
	}
	if day.Start != "" && day.End != "" {
		if clock < day.Start || clock > day.End {
			return false
		}
	}

	return true
}
