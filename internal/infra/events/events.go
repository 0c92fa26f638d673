package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Типы событий жизненного цикла записи
const (
	TypeAppointmentCreated   = "appointment.created"
	TypeAppointmentConfirmed = "appointment.confirmed"
	TypeAppointmentCompleted = "appointment.completed"
	TypeAppointmentCancelled = "appointment.cancelled"
	TypeAppointmentNoShow    = "appointment.no_show"
)

// AppointmentEvent полезная нагрузка события для внешних потребителей
// (напоминания, аналитика). Ключ партиционирования — public_id записи
type AppointmentEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	TenantID  int64     `json:"tenant_id"`
	PublicID  uuid.UUID `json:"public_id"`
	ServiceID int64     `json:"service_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	EmittedAt time.Time `json:"emitted_at"`
}

// Publisher публикует события жизненного цикла записей.
// Ошибка публикации не должна откатывать уже закоммиченную запись
type Publisher interface {
	Publish(ctx context.Context, event AppointmentEvent) error
}

// NoopPublisher заглушка при отключенном Kafka
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (n *NoopPublisher) Publish(_ context.Context, _ AppointmentEvent) error {
	return nil
}
