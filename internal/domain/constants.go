package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Recurrence bounds
const (
	MinRecurrenceCount = 2
	MaxRecurrenceCount = 52
)

// Business validation constants
const (
	MinServiceDurationMinutes = 1
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxBufferMinutes          = 120
	MaxCancelReasonLength     = 500
)

// LiveStatuses are the statuses that block a time span in conflict checks
var LiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
}

// TerminalStatuses никогда не участвуют в проверке конфликтов,
// но сохраняются для истории и биллинга
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
