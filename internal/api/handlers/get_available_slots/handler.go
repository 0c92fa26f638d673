package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avelir/CRM-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/avelir/CRM-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidTenantID         = "некорректный ID тенанта"
	msgInvalidServiceID        = "некорректный ID услуги"
	msgMissingServiceID        = "ID услуги обязателен"
	msgMissingDate             = "дата обязательна"
	msgInvalidDate             = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidProfessionalID   = "некорректный ID специалиста"
	msgInvalidResourceID       = "некорректный ID ресурса"
	msgInvalidParams           = "укажите либо специалиста, либо ресурс, но не оба"
	msgServiceNotFound         = "услуга не найдена"
	msgServiceInactive         = "услуга недоступна"
	msgProfessionalNotFound    = "специалист не найден"
	msgProfessionalUnavailable = "специалист не оказывает эту услугу"
	msgResourceNotFound        = "ресурс не найден"
	msgResourceUnavailable     = "ресурс не обслуживает эту услугу"
	msgCalendarNotConfigured   = "календарь тенанта не настроен"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD),
// professionalId | resourceId (опционально, взаимоисключающие)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем tenantId из URL
	tenantIDStr := vars["tenantId"]
	tenantID, err := strconv.ParseInt(tenantIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	// Извлекаем serviceId из query параметров
	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /tenants/{id}/available-slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /tenants/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Опциональная цель назначения: специалист или ресурс
	var professionalID *int64
	if s := r.URL.Query().Get("professionalId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid professional ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProfessionalID)
			return
		}
		professionalID = &id
	}

	var resourceID *int64
	if s := r.URL.Query().Get("resourceId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid resource ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidResourceID)
			return
		}
		resourceID = &id
	}

	// Формируем запрос к use case (с парсингом даты)
	useCaseReq, err := ToUseCaseRequest(tenantID, serviceID, dateStr, professionalID, resourceID)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /tenants/{id}/available-slots - Service not found: tenant_id=%d, service_id=%d",
				tenantID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /tenants/{id}/available-slots - Service inactive: tenant_id=%d, service_id=%d",
				tenantID, serviceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrProfessionalNotFound):
			h.logger.Warn("GET /tenants/{id}/available-slots - Professional not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, getAvailableSlots.ErrProfessionalNotAvailable):
			h.logger.Warn("GET /tenants/{id}/available-slots - Professional not available: tenant_id=%d, service_id=%d",
				tenantID, serviceID)
			handlers.RespondBadRequest(w, msgProfessionalUnavailable)

		case errors.Is(err, getAvailableSlots.ErrResourceNotFound):
			h.logger.Warn("GET /tenants/{id}/available-slots - Resource not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getAvailableSlots.ErrResourceNotAvailable):
			h.logger.Warn("GET /tenants/{id}/available-slots - Resource not available: tenant_id=%d, service_id=%d",
				tenantID, serviceID)
			handlers.RespondBadRequest(w, msgResourceUnavailable)

		case errors.Is(err, getAvailableSlots.ErrCalendarNotConfigured):
			h.logger.Warn("GET /tenants/{id}/available-slots - Calendar not configured: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgCalendarNotConfigured)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /tenants/{id}/available-slots - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /tenants/{id}/available-slots - Failed to get slots: tenant_id=%d, service_id=%d, error=%v",
				tenantID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /tenants/{id}/available-slots - Slots retrieved successfully: tenant_id=%d, service_id=%d, slots_count=%d",
		tenantID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
