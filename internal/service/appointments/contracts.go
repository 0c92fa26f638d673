package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/internal/infra/events"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Appointment, error)
	GetByPublicID(ctx context.Context, tenantID int64, publicID uuid.UUID) (*domain.Appointment, error)
	ListWithFilter(ctx context.Context, filter domain.TenantAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, status domain.AppointmentStatus, confirmedAt *time.Time) error
	Cancel(ctx context.Context, tenantID, id int64, cancelledAt time.Time, reason *string) error
}

// EventPublisher интерфейс публикации событий жизненного цикла записей
type EventPublisher interface {
	Publish(ctx context.Context, event events.AppointmentEvent) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
