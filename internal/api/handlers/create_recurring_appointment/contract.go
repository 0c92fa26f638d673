package create_recurring_appointment

import (
	"context"

	createRecurring "github.com/avelir/CRM-SchedulingService/internal/usecase/create_recurring_appointment"
)

type CreateRecurringAppointmentUseCase interface {
	Execute(ctx context.Context, req *createRecurring.Request) (*createRecurring.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
