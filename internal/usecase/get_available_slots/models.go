package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID       int64     // ID тенанта
	ServiceID      int64     // ID услуги
	Date           time.Time // Дата для получения слотов (без времени)
	ProfessionalID *int64    // ID специалиста (опционально)
	ResourceID     *int64    // ID ресурса (опционально)
}

// Response модель ответа со списком слотов на дату
type Response struct {
	Date      time.Time // Дата, на которую запрашивались слоты
	TenantID  int64     // ID тенанта
	ServiceID int64     // ID услуги
	Timezone  string    // Часовой пояс тенанта (IANA)
	Slots     []Slot    // Все слоты дня с признаком доступности
}

// Slot модель временного слота
type Slot struct {
	StartTime time.Time // Начало слота в часовом поясе тенанта
	EndTime   time.Time // Конец слота (длительность + буферы)
	Available bool      // Свободен ли слот
}
