package domain

import (
	"time"

	"github.com/avelir/CRM-SchedulingService/pkg/types"
)

// DayHours is one weekday's availability window in the weekly template.
type DayHours struct {
	Enabled bool
	Open    types.TimeString
	Close   types.TimeString
}

// Holiday is a tenant-configured non-working date.
type Holiday struct {
	TenantID int64
	Date     time.Time
	Name     string
}

// BusinessHours is a tenant's weekly availability template.
// Days is indexed by time.Weekday (0 = Sunday). The optional weekend
// overrides take precedence over the weekday template for Saturday and
// Sunday, which lets a tenant keep a uniform Mon-Fri template and still
// run shorter weekend hours.
type BusinessHours struct {
	TenantID int64
	Timezone string // IANA name, e.g. "Europe/Berlin"

	Days [7]DayHours

	SaturdayOverride *DayHours
	SundayOverride   *DayHours

	BlockHolidays bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location resolves the tenant's IANA time zone, falling back to UTC
// for an empty or unknown name.
func (b *BusinessHours) Location() *time.Location {
	if b.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HoursFor resolves the availability window for a concrete date.
// Resolution order: holiday block first (when enabled), then the weekend
// override for Saturday/Sunday, then the per-weekday template. The second
// return value is false when the tenant is closed on that date.
func (b *BusinessHours) HoursFor(date time.Time, holidays []Holiday) (DayHours, bool) {
	if b.BlockHolidays && isHoliday(date, holidays) {
		return DayHours{}, false
	}

	weekday := date.Weekday()

	var day DayHours
	switch {
	case weekday == time.Saturday && b.SaturdayOverride != nil:
		day = *b.SaturdayOverride
	case weekday == time.Sunday && b.SundayOverride != nil:
		day = *b.SundayOverride
	default:
		day = b.Days[weekday]
	}

	if !day.Enabled || day.Open.IsZero() || day.Close.IsZero() {
		return DayHours{}, false
	}
	if !day.Open.IsBefore(day.Close) {
		// Malformed entry: enabled window must satisfy open < close
		return DayHours{}, false
	}

	return day, true
}

func isHoliday(date time.Time, holidays []Holiday) bool {
	y, m, d := date.Date()
	for _, h := range holidays {
		hy, hm, hd := h.Date.Date()
		if y == hy && m == hm && d == hd {
			return true
		}
	}
	return false
}
