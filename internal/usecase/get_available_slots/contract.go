package get_available_slots

import (
	"context"
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListLiveForRange получает живые записи цели назначения за интервал времени
	ListLiveForRange(ctx context.Context, tenantID int64, from, to time.Time, target domain.AssignmentTarget) ([]*domain.Appointment, error)
}

// CalendarRepository интерфейс репозитория календаря тенанта
type CalendarRepository interface {
	GetBusinessHours(ctx context.Context, tenantID int64) (*domain.BusinessHours, error)
	ListHolidays(ctx context.Context, tenantID int64) ([]domain.Holiday, error)
}

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error)
	GetProfessional(ctx context.Context, tenantID, professionalID int64) (*domain.Professional, error)
	GetResource(ctx context.Context, tenantID, resourceID int64) (*domain.Resource, error)
	ProfessionalPerformsService(ctx context.Context, tenantID, serviceID, professionalID int64) (bool, error)
	ResourceServesService(ctx context.Context, tenantID, serviceID, resourceID int64) (bool, error)
	ListResourcesForService(ctx context.Context, tenantID, serviceID int64) ([]domain.Resource, error)
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
