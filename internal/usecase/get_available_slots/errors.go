package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена у тенанта
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("get_available_slots: service is inactive")

	// ErrProfessionalNotFound возвращается, когда специалист не найден
	ErrProfessionalNotFound = errors.New("get_available_slots: professional not found")

	// ErrProfessionalNotAvailable возвращается, когда специалист неактивен или не оказывает услугу
	ErrProfessionalNotAvailable = errors.New("get_available_slots: professional does not perform this service")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("get_available_slots: resource not found")

	// ErrResourceNotAvailable возвращается, когда ресурс неактивен или не обслуживает услугу
	ErrResourceNotAvailable = errors.New("get_available_slots: resource does not serve this service")

	// ErrCalendarNotConfigured возвращается, когда у тенанта нет настроек календаря
	ErrCalendarNotConfigured = errors.New("get_available_slots: tenant calendar is not configured")

	// ErrInvalidDate возвращается при некорректной дате запроса
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
