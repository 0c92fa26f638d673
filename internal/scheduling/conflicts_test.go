package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

func appt(t *testing.T, start, end string, status domain.AppointmentStatus, target domain.AssignmentTarget) *domain.Appointment {
	t.Helper()
	return &domain.Appointment{
		TenantID:       1,
		StartTime:      at(t, start),
		EndTime:        at(t, end),
		Status:         status,
		ProfessionalID: target.ProfessionalID(),
		ResourceID:     target.ResourceID(),
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		want                           bool
	}{
		{name: "identical", aStart: "10:00", aEnd: "10:30", bStart: "10:00", bEnd: "10:30", want: true},
		{name: "equal starts different ends", aStart: "10:00", aEnd: "11:00", bStart: "10:00", bEnd: "10:30", want: true},
		{name: "partial overlap", aStart: "10:00", aEnd: "10:30", bStart: "10:15", bEnd: "10:45", want: true},
		{name: "containment", aStart: "10:00", aEnd: "12:00", bStart: "10:30", bEnd: "11:00", want: true},
		{name: "touching end to start", aStart: "10:00", aEnd: "10:30", bStart: "10:30", bEnd: "11:00", want: false},
		{name: "touching start to end", aStart: "10:30", aEnd: "11:00", bStart: "10:00", bEnd: "10:30", want: false},
		{name: "disjoint", aStart: "09:00", aEnd: "09:30", bStart: "11:00", bEnd: "11:30", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(at(t, tt.aStart), at(t, tt.aEnd), at(t, tt.bStart), at(t, tt.bEnd))
			assert.Equal(t, tt.want, got)
			// Symmetry
			assert.Equal(t, tt.want, Overlaps(at(t, tt.bStart), at(t, tt.bEnd), at(t, tt.aStart), at(t, tt.aEnd)))
		})
	}
}

func TestHasConflict_TargetScoping(t *testing.T) {
	existing := []*domain.Appointment{
		appt(t, "10:00", "10:30", domain.StatusConfirmed, domain.ProfessionalTarget(5)),
	}

	// Same professional, overlapping -> conflict
	assert.True(t, HasConflict(at(t, "10:00"), at(t, "10:30"), existing, domain.ProfessionalTarget(5)))

	// Different professional, same time -> no conflict
	assert.False(t, HasConflict(at(t, "10:00"), at(t, "10:30"), existing, domain.ProfessionalTarget(6)))

	// A resource target never collides with a professional's appointment
	assert.False(t, HasConflict(at(t, "10:00"), at(t, "10:30"), existing, domain.ResourceTarget(5)))

	// Untargeted requests only collide with untargeted appointments
	assert.False(t, HasConflict(at(t, "10:00"), at(t, "10:30"), existing, domain.NoTarget()))
	bare := []*domain.Appointment{appt(t, "10:00", "10:30", domain.StatusScheduled, domain.NoTarget())}
	assert.True(t, HasConflict(at(t, "10:00"), at(t, "10:30"), bare, domain.NoTarget()))
}

func TestHasConflict_TerminalStatusesNeverBlock(t *testing.T) {
	target := domain.ProfessionalTarget(5)

	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow} {
		existing := []*domain.Appointment{appt(t, "10:00", "10:30", status, target)}
		assert.False(t, HasConflict(at(t, "10:00"), at(t, "10:30"), existing, target), "status %s must not block", status)
	}

	for _, status := range []domain.AppointmentStatus{domain.StatusScheduled, domain.StatusConfirmed} {
		existing := []*domain.Appointment{appt(t, "10:00", "10:30", status, target)}
		assert.True(t, HasConflict(at(t, "10:00"), at(t, "10:30"), existing, target), "status %s must block", status)
	}
}

func TestAnnotate_BookingBlocksOnlyItsSlot(t *testing.T) {
	// 09:00-12:00, 30min service: booking 10:00 blocks only the 10:00 slot
	target := domain.ProfessionalTarget(5)
	slots := GenerateSlots(testWindow(t, "09:00", "12:00"), svc(30, 0, 0))
	require.Len(t, slots, 6)

	existing := []*domain.Appointment{appt(t, "10:00", "10:30", domain.StatusScheduled, target)}
	now := at(t, "08:00")

	annotated := Annotate(slots, existing, target, now)
	require.Len(t, annotated, 6)

	for i, slot := range annotated {
		if slot.Start.Equal(at(t, "10:00")) {
			assert.False(t, slot.Available, "booked slot %d must be blocked", i)
		} else {
			assert.True(t, slot.Available, "slot %d must stay available", i)
		}
	}
}

func TestAnnotate_PastSlotsAlwaysUnavailable(t *testing.T) {
	slots := GenerateSlots(testWindow(t, "09:00", "12:00"), svc(30, 0, 0))
	now := at(t, "10:15")

	annotated := Annotate(slots, nil, domain.NoTarget(), now)

	for _, slot := range annotated {
		if slot.Start.Before(now) {
			assert.False(t, slot.Available, "past slot %s", slot.Start)
		} else {
			assert.True(t, slot.Available, "future slot %s", slot.Start)
		}
	}
	// 09:00, 09:30, 10:00 are past; 10:30 onward bookable
	assert.False(t, annotated[2].Available)
	assert.True(t, annotated[3].Available)
}

func TestAnnotate_AvailableSlotSurvivesReinsertion(t *testing.T) {
	// Soundness: booking an available slot and re-running annotation
	// against the updated day keeps every other slot's verdict intact.
	target := domain.ProfessionalTarget(7)
	slots := GenerateSlots(testWindow(t, "09:00", "12:00"), svc(30, 0, 0))
	now := at(t, "08:00")

	first := Annotate(slots, nil, target, now)
	require.True(t, first[2].Available)

	booked := appt(t, "10:00", "10:30", domain.StatusScheduled, target)
	second := Annotate(slots, []*domain.Appointment{booked}, target, now)

	for i := range second {
		if i == 2 {
			assert.False(t, second[i].Available)
			continue
		}
		assert.Equal(t, first[i].Available, second[i].Available, "slot %d verdict changed", i)
	}
}

func TestAnnotate_BufferedSlotBlockedByAdjacentBooking(t *testing.T) {
	// A 30min appointment at 10:00 also blocks a buffered candidate
	// whose footprint reaches into it.
	target := domain.ProfessionalTarget(5)
	existing := []*domain.Appointment{appt(t, "10:00", "10:30", domain.StatusConfirmed, target)}

	slots := GenerateSlots(testWindow(t, "09:00", "12:00"), svc(30, 0, 15))
	now := at(t, "08:00")
	annotated := Annotate(slots, existing, target, now)

	// 09:30 slot spans 09:30-10:15 with its trailing buffer -> blocked
	for _, slot := range annotated {
		if slot.Start.Equal(at(t, "09:30")) {
			assert.False(t, slot.Available)
		}
		if slot.Start.Equal(at(t, "09:00")) {
			assert.True(t, slot.Available)
		}
	}
}
