// Package scheduling contains the pure slot/conflict/recurrence engine.
// Nothing here touches storage or the clock: callers pass configuration,
// the day's appointments and "now" explicitly, which keeps every function
// deterministic and trivially testable.
package scheduling

import (
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

// Window is a concrete availability window on one date, both bounds in
// the tenant's time zone.
type Window struct {
	Open  time.Time
	Close time.Time
}

// Slot is a candidate bookable interval. End covers the service duration
// plus both buffers; a booked appointment stores only the duration span.
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool
}

// BuildWindow anchors a resolved DayHours template onto a concrete date.
func BuildWindow(date time.Time, day domain.DayHours) (Window, error) {
	open, err := day.Open.At(date)
	if err != nil {
		return Window{}, err
	}
	close, err := day.Close.At(date)
	if err != nil {
		return Window{}, err
	}
	return Window{Open: open, Close: close}, nil
}

// GenerateSlots produces the ordered candidate slots for one service
// within a window.
//
// The slot footprint is duration + buffer_before + buffer_after, but the
// cursor advances by the service duration only: buffers create protective
// gaps around bookings without coarsening the start-time granularity.
// A slot whose footprint ends exactly at closing time is included.
func GenerateSlots(window Window, svc *domain.Service) []Slot {
	if svc.DurationMinutes <= 0 {
		return []Slot{}
	}
	if !window.Open.Before(window.Close) {
		return []Slot{}
	}

	span := time.Duration(svc.TotalSpanMinutes()) * time.Minute
	step := time.Duration(svc.DurationMinutes) * time.Minute

	slots := make([]Slot, 0)
	for cursor := window.Open; !cursor.Add(span).After(window.Close); cursor = cursor.Add(step) {
		slots = append(slots, Slot{
			Start: cursor,
			End:   cursor.Add(span),
		})
	}
	return slots
}
