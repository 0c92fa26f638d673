package calendar

import "errors"

var (
	// ErrCalendarNotFound возвращается, когда у тенанта нет настроек календаря
	ErrCalendarNotFound = errors.New("calendar not found")

	// ErrInvalidTimezone возвращается при неизвестном часовом поясе
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrInvalidWindow возвращается, когда открытие не раньше закрытия
	ErrInvalidWindow = errors.New("invalid business hours window")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
