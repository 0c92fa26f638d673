package scheduling

import (
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

// Overlaps is the half-open interval test both availability and booking
// share: [aStart, aEnd) overlaps [bStart, bEnd) iff aStart < bEnd and
// aEnd > bStart. Touching intervals do not overlap; equal starts do.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// HasConflict reports whether the interval [start, end) collides with any
// live appointment occupying the given target. Appointments on a different
// professional or resource never conflict, and terminal statuses
// (completed, cancelled, no_show) never block.
func HasConflict(start, end time.Time, appointments []*domain.Appointment, target domain.AssignmentTarget) bool {
	for _, appt := range appointments {
		if !appt.IsLive() {
			continue
		}
		if !target.Matches(appt) {
			continue
		}
		if Overlaps(start, end, appt.StartTime, appt.EndTime) {
			return true
		}
	}
	return false
}

// Annotate marks each candidate slot as available or blocked against the
// day's appointments for one target. A slot whose start is already in the
// past (now is tenant-local) is always unavailable, independent of
// conflicts.
func Annotate(slots []Slot, appointments []*domain.Appointment, target domain.AssignmentTarget, now time.Time) []Slot {
	annotated := make([]Slot, len(slots))
	for i, slot := range slots {
		slot.Available = !slot.Start.Before(now) &&
			!HasConflict(slot.Start, slot.End, appointments, target)
		annotated[i] = slot
	}
	return annotated
}
