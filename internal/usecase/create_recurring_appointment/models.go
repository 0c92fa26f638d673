package create_recurring_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

// Статусы вхождений серии в ответе
const (
	OccurrenceBooked = "booked"
	OccurrenceFailed = "failed"
)

// Причины отказа по вхождению
const (
	ReasonClosed      = "tenant_closed"
	ReasonConflict    = "slot_taken"
	ReasonInvalidSlot = "invalid_slot"
	ReasonInPast      = "start_in_past"
	ReasonAborted     = "series_aborted"
)

// Request модель запроса на создание серии повторяющихся записей
type Request struct {
	TenantID       int64                   // ID тенанта
	ServiceID      int64                   // ID услуги
	StartTime      time.Time               // Начало первого вхождения
	ProfessionalID *int64                  // ID специалиста (опционально)
	ResourceID     *int64                  // ID ресурса (опционально)
	ClientID       *int64                  // ID клиента (опционально)
	CreatedBy      domain.CreatedBy        // Кто создает серию
	Recurrence     domain.RecurrenceConfig // Частота, количество, политика
}

// Response модель ответа с результатом по каждому вхождению серии
type Response struct {
	TenantID    int64        // ID тенанта
	ServiceID   int64        // ID услуги
	SeriesID    uuid.UUID    // Общий идентификатор серии
	BookedCount int          // Сколько вхождений записано
	FailedCount int          // Сколько вхождений отклонено
	Occurrences []Occurrence // Результат по каждому вхождению по порядку
}

// Occurrence результат бронирования одного вхождения серии
type Occurrence struct {
	Index         int        // Порядковый номер вхождения, начиная с 0
	StartTime     time.Time  // Запрошенное начало вхождения
	Status        string     // booked | failed
	AppointmentID *int64     // ID созданной записи (только для booked)
	PublicID      *uuid.UUID // Публичный идентификатор записи (только для booked)
	FailReason    *string    // Причина отказа (только для failed)
}
