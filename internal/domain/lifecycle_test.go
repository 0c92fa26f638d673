package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{name: "scheduled to confirmed", from: StatusScheduled, to: StatusConfirmed, want: true},
		{name: "scheduled to completed", from: StatusScheduled, to: StatusCompleted, want: true},
		{name: "scheduled to cancelled", from: StatusScheduled, to: StatusCancelled, want: true},
		{name: "scheduled to no_show", from: StatusScheduled, to: StatusNoShow, want: true},
		{name: "confirmed to completed", from: StatusConfirmed, to: StatusCompleted, want: true},
		{name: "confirmed to cancelled", from: StatusConfirmed, to: StatusCancelled, want: true},
		{name: "confirmed to no_show", from: StatusConfirmed, to: StatusNoShow, want: true},
		{name: "confirmed back to scheduled", from: StatusConfirmed, to: StatusScheduled, want: false},
		{name: "completed is terminal", from: StatusCompleted, to: StatusScheduled, want: false},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusScheduled, want: false},
		{name: "cancelled cannot be confirmed", from: StatusCancelled, to: StatusConfirmed, want: false},
		{name: "no_show is terminal", from: StatusNoShow, to: StatusCompleted, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransition_Confirm(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	appt := &Appointment{Status: StatusScheduled}

	require.NoError(t, Transition(appt, StatusConfirmed, now, nil))

	assert.Equal(t, StatusConfirmed, appt.Status)
	require.NotNil(t, appt.ConfirmedAt)
	assert.Equal(t, now, *appt.ConfirmedAt)
	assert.Nil(t, appt.CancelledAt)
}

func TestTransition_CancelSetsReasonAndTimestamp(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	reason := "client requested"
	appt := &Appointment{Status: StatusConfirmed}

	require.NoError(t, Transition(appt, StatusCancelled, now, &reason))

	assert.Equal(t, StatusCancelled, appt.Status)
	require.NotNil(t, appt.CancelledAt)
	assert.Equal(t, now, *appt.CancelledAt)
	require.NotNil(t, appt.CancelReason)
	assert.Equal(t, reason, *appt.CancelReason)

	// Cancellation is not reversible through the machine
	err := Transition(appt, StatusScheduled, now, nil)
	assert.ErrorIs(t, err, ErrTerminalState)
}

func TestTransition_InvalidTransition(t *testing.T) {
	now := time.Now()
	appt := &Appointment{Status: StatusConfirmed}

	err := Transition(appt, StatusScheduled, now, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusConfirmed, appt.Status)
}

func TestTransition_DoesNotTouchTimeSpan(t *testing.T) {
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	appt := &Appointment{Status: StatusScheduled, ServiceID: 7, StartTime: start, EndTime: end}

	require.NoError(t, Transition(appt, StatusConfirmed, time.Now(), nil))

	assert.Equal(t, start, appt.StartTime)
	assert.Equal(t, end, appt.EndTime)
	assert.Equal(t, int64(7), appt.ServiceID)
}

func TestAppointment_IsLive(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusScheduled}).IsLive())
	assert.True(t, (&Appointment{Status: StatusConfirmed}).IsLive())
	assert.False(t, (&Appointment{Status: StatusCompleted}).IsLive())
	assert.False(t, (&Appointment{Status: StatusCancelled}).IsLive())
	assert.False(t, (&Appointment{Status: StatusNoShow}).IsLive())
}
