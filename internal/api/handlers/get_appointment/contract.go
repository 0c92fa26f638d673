package get_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/avelir/CRM-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByID(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error)
	GetByPublicID(ctx context.Context, tenantID int64, publicID uuid.UUID) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
