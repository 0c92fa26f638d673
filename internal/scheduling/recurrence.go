package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

var (
	// ErrInvalidRecurrenceCount is returned for counts outside [2, 52]
	ErrInvalidRecurrenceCount = errors.New("scheduling: recurrence count must be between 2 and 52")

	// ErrInvalidFrequency is returned for an unknown recurrence frequency
	ErrInvalidFrequency = errors.New("scheduling: invalid recurrence frequency")
)

// Expand turns a recurrence config into the ordered list of occurrence
// start times. Occurrence 0 is the request's own start; every occurrence
// keeps the start's time of day and location.
//
// Monthly arithmetic is calendar-based, anchored on the start's
// day-of-month. When a month is too short the day is clamped to the
// month's last day, and later months return to the anchor:
// Jan 31 -> Feb 28 (29 in leap years) -> Mar 31.
//
// Expansion performs no conflict checking: each occurrence must be
// validated independently before booking.
func Expand(start time.Time, cfg domain.RecurrenceConfig) ([]time.Time, error) {
	if cfg.Count < domain.MinRecurrenceCount || cfg.Count > domain.MaxRecurrenceCount {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRecurrenceCount, cfg.Count)
	}
	if !domain.ValidFrequency(cfg.Frequency) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFrequency, cfg.Frequency)
	}

	occurrences := make([]time.Time, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		switch cfg.Frequency {
		case domain.FrequencyWeekly:
			occurrences[i] = start.AddDate(0, 0, 7*i)
		case domain.FrequencyBiweekly:
			occurrences[i] = start.AddDate(0, 0, 14*i)
		case domain.FrequencyMonthly:
			occurrences[i] = addMonthsClamped(start, i)
		}
	}
	return occurrences, nil
}

// EndDate returns the date of the final occurrence. It is derived for
// display only and never gates expansion.
func EndDate(start time.Time, cfg domain.RecurrenceConfig) (time.Time, error) {
	occurrences, err := Expand(start, cfg)
	if err != nil {
		return time.Time{}, err
	}
	return occurrences[len(occurrences)-1], nil
}

// addMonthsClamped shifts t forward by months whole months, clamping the
// anchored day-of-month to the target month's length. time.AddDate is not
// used here because it normalizes Jan 31 + 1 month into Mar 2/3.
func addMonthsClamped(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}

	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	day := t.Day()
	if last := daysInMonth(firstOfTarget); day > last {
		day = last
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(t time.Time) int {
	// Day 0 of the next month is the last day of this month
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
