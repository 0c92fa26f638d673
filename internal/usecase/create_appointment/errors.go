package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена у тенанта
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("create_appointment: service is inactive")

	// ErrProfessionalNotFound возвращается, когда специалист не найден
	ErrProfessionalNotFound = errors.New("create_appointment: professional not found")

	// ErrProfessionalNotAvailable возвращается, когда специалист неактивен или не оказывает услугу
	ErrProfessionalNotAvailable = errors.New("create_appointment: professional does not perform this service")

	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("create_appointment: resource not found")

	// ErrResourceNotAvailable возвращается, когда ресурс неактивен или не обслуживает услугу
	ErrResourceNotAvailable = errors.New("create_appointment: resource does not serve this service")

	// ErrResourceRequired возвращается, когда услуга требует ресурс, а он не указан
	ErrResourceRequired = errors.New("create_appointment: service requires a resource")

	// ErrCalendarNotConfigured возвращается, когда у тенанта нет настроек календаря
	ErrCalendarNotConfigured = errors.New("create_appointment: tenant calendar is not configured")

	// ErrTenantClosed возвращается, когда тенант закрыт в указанную дату
	ErrTenantClosed = errors.New("create_appointment: tenant is closed on this date")

	// ErrStartTimeInPast возвращается при попытке записи на прошедшее время
	ErrStartTimeInPast = errors.New("create_appointment: start time is in the past")

	// ErrInvalidTimeSlot возвращается, когда время начала не совпадает ни с одним кандидатным слотом
	ErrInvalidTimeSlot = errors.New("create_appointment: start time does not match any candidate slot")

	// ErrSlotTaken возвращается, когда слот уже занят или оформляется другим клиентом
	ErrSlotTaken = errors.New("create_appointment: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
