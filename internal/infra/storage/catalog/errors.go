package catalog

import "errors"

var (
	// ErrServiceNotFound услуга не найдена или не принадлежит тенанту
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrProfessionalNotFound специалист не найден или не принадлежит тенанту
	ErrProfessionalNotFound = errors.New("catalog.repository: professional not found")

	// ErrResourceNotFound ресурс не найден или не принадлежит тенанту
	ErrResourceNotFound = errors.New("catalog.repository: resource not found")

	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery ошибка выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow ошибка сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
