package create_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	TenantID       int64            // ID тенанта
	ServiceID      int64            // ID услуги
	StartTime      time.Time        // Начало записи
	ProfessionalID *int64           // ID специалиста (опционально)
	ResourceID     *int64           // ID ресурса (опционально)
	ClientID       *int64           // ID клиента (опционально)
	CreatedBy      domain.CreatedBy // Кто создает запись
}

// Response модель ответа с созданной записью
type Response struct {
	ID             int64     // ID созданной записи
	PublicID       uuid.UUID // Публичный идентификатор
	TenantID       int64     // ID тенанта
	ServiceID      int64     // ID услуги
	ProfessionalID *int64    // ID специалиста
	ResourceID     *int64    // ID ресурса
	ClientID       *int64    // ID клиента
	StartTime      time.Time // Начало записи (часовой пояс тенанта)
	EndTime        time.Time // Конец записи (только длительность, без буферов)
	Status         string    // Статус записи
	CreatedBy      string    // Кто создал запись

	// Денормализованные данные
	ServiceName string // Название услуги

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}

func toResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:             appt.ID,
		PublicID:       appt.PublicID,
		TenantID:       appt.TenantID,
		ServiceID:      appt.ServiceID,
		ProfessionalID: appt.ProfessionalID,
		ResourceID:     appt.ResourceID,
		ClientID:       appt.ClientID,
		StartTime:      appt.StartTime,
		EndTime:        appt.EndTime,
		Status:         string(appt.Status),
		CreatedBy:      string(appt.CreatedBy),
		ServiceName:    appt.ServiceName,
		CreatedAt:      appt.CreatedAt,
		UpdatedAt:      appt.UpdatedAt,
	}
}
