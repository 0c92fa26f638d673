package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTransition is returned for a status change the lifecycle forbids
	ErrInvalidTransition = errors.New("domain: invalid appointment status transition")

	// ErrTerminalState is returned when transitioning out of a terminal status
	ErrTerminalState = errors.New("domain: appointment is in a terminal state")
)

// allowedTransitions is the appointment lifecycle:
//
//	scheduled -> confirmed -> completed
//	scheduled|confirmed -> cancelled
//	scheduled|confirmed -> no_show
//
// completed, cancelled and no_show are terminal. Rescheduling is not a
// transition: it is cancel plus a new appointment, so every live
// appointment keeps an immutable time span.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled: {StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// CanTransition reports whether the lifecycle permits from -> to.
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition applies a status change to the appointment, setting the
// status-specific timestamps. The machine itself never reads wall-clock
// time: `now` is supplied by the caller (a handler or a reminder job),
// which also owns any time-based guard such as "no_show only after start".
func Transition(appt *Appointment, to AppointmentStatus, now time.Time, cancelReason *string) error {
	if appt.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTerminalState, appt.Status)
	}
	if !CanTransition(appt.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, to)
	}

	switch to {
	case StatusConfirmed:
		appt.ConfirmedAt = &now
	case StatusCancelled:
		appt.CancelledAt = &now
		appt.CancelReason = cancelReason
	}

	appt.Status = to
	return nil
}

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}
