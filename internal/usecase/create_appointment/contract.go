package create_appointment

import (
	"context"
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/internal/infra/events"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	// ListLiveForRange получает живые записи цели назначения за интервал времени.
	// Внутри транзакции берет блокировку FOR UPDATE
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
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotLocker кратковременное удержание слота в Redis на время оформления
type SlotLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
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
