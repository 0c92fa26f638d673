package calendar

import (
	"context"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

// CalendarRepository интерфейс репозитория календаря тенанта
type CalendarRepository interface {
	GetBusinessHours(ctx context.Context, tenantID int64) (*domain.BusinessHours, error)
	ListHolidays(ctx context.Context, tenantID int64) ([]domain.Holiday, error)
	UpsertBusinessHours(ctx context.Context, hours *domain.BusinessHours) error
	ReplaceHolidays(ctx context.Context, tenantID int64, holidays []domain.Holiday) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
