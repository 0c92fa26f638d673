package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// CreatedBy identifies which actor created an appointment
type CreatedBy string

const (
	CreatedBySystem CreatedBy = "system"
	CreatedByAdmin  CreatedBy = "admin"
	CreatedByClient CreatedBy = "client"
	CreatedByAI     CreatedBy = "ai"
)

// Appointment represents a booked service slot for a tenant.
// StartTime and EndTime are stored in the tenant's time zone; the stored
// span covers only the service duration, never the buffers around it.
type Appointment struct {
	ID       int64
	PublicID uuid.UUID
	TenantID int64

	ServiceID      int64
	ProfessionalID *int64
	ResourceID     *int64
	ClientID       *int64

	StartTime time.Time
	EndTime   time.Time

	Status    AppointmentStatus
	CreatedBy CreatedBy

	// SeriesID links the occurrences of one recurring series
	SeriesID *uuid.UUID

	// Denormalized for history and event payloads
	ServiceName string

	CancelReason   *string
	CancelledAt    *time.Time
	ConfirmedAt    *time.Time
	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLive returns true if the appointment still blocks its time span.
// Only scheduled and confirmed appointments participate in conflict checks.
func (a *Appointment) IsLive() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// IsTerminal returns true once the appointment can no longer change state.
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// CanBeCancelled returns true if the appointment may still be cancelled.
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// Target returns the assignment target this appointment occupies.
func (a *Appointment) Target() AssignmentTarget {
	switch {
	case a.ProfessionalID != nil:
		return ProfessionalTarget(*a.ProfessionalID)
	case a.ResourceID != nil:
		return ResourceTarget(*a.ResourceID)
	default:
		return NoTarget()
	}
}

// TenantAppointmentsFilter is the flexible filter for tenant-scoped
// appointment listings. TenantID is mandatory; everything else narrows.
type TenantAppointmentsFilter struct {
	TenantID        int64
	ProfessionalID  *int64
	ResourceID      *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *AppointmentStatus
	IncludeTerminal bool // include completed/cancelled/no_show rows
}
