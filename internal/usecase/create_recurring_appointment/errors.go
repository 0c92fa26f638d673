package create_recurring_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена у тенанта
	ErrServiceNotFound = errors.New("create_recurring_appointment: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("create_recurring_appointment: service is inactive")

	// ErrProfessionalNotFound возвращается, когда специалист не найден
	ErrProfessionalNotFound = errors.New("create_recurring_appointment: professional not found")

	// ErrProfessionalNotAvailable возвращается, когда специалист неактивен или не оказывает услугу
	ErrProfessionalNotAvailable = errors.New("create_recurring_appointment: professional does not perform this service")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("create_recurring_appointment: resource not found")

	// ErrResourceNotAvailable возвращается, когда ресурс неактивен или не обслуживает услугу
	ErrResourceNotAvailable = errors.New("create_recurring_appointment: resource does not serve this service")

	// ErrResourceRequired возвращается, когда услуга требует ресурс, а он не указан
	ErrResourceRequired = errors.New("create_recurring_appointment: service requires a resource")

	// ErrCalendarNotConfigured возвращается, когда у тенанта нет настроек календаря
	ErrCalendarNotConfigured = errors.New("create_recurring_appointment: tenant calendar is not configured")

	// ErrStartTimeInPast возвращается при попытке серии, начинающейся в прошлом
	ErrStartTimeInPast = errors.New("create_recurring_appointment: start time is in the past")

	// ErrInvalidRecurrence возвращается при некорректной конфигурации повторения
	ErrInvalidRecurrence = errors.New("create_recurring_appointment: invalid recurrence config")

	// ErrOccurrenceFailed возвращается в режиме all_or_nothing,
	// когда хотя бы одно вхождение серии не может быть записано
	ErrOccurrenceFailed = errors.New("create_recurring_appointment: occurrence cannot be booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_recurring_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_recurring_appointment: internal error")
)
