package get_calendar

import (
	"context"

	"github.com/avelir/CRM-SchedulingService/internal/service/calendar/models"
)

type CalendarService interface {
	GetCalendar(ctx context.Context, tenantID int64) (*models.CalendarResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
