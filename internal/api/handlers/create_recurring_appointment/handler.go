package create_recurring_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avelir/CRM-SchedulingService/internal/api/handlers"
	createRecurring "github.com/avelir/CRM-SchedulingService/internal/usecase/create_recurring_appointment"
)

const (
	msgInvalidTenantID         = "некорректный ID тенанта"
	msgInvalidRequestBody      = "некорректное тело запроса"
	msgInvalidStartTime        = "некорректный формат времени начала, ожидается RFC3339"
	msgInvalidRecurrence       = "некорректная конфигурация повторения"
	msgOccurrenceFailed        = "часть вхождений серии не может быть записана"
	msgServiceNotFound         = "услуга не найдена"
	msgServiceInactive         = "услуга недоступна"
	msgProfessionalNotFound    = "специалист не найден"
	msgProfessionalUnavailable = "специалист не оказывает эту услугу"
	msgResourceNotFound        = "ресурс не найден"
	msgResourceUnavailable     = "ресурс не обслуживает эту услугу"
	msgResourceRequired        = "услуга требует указания ресурса"
	msgCalendarNotConfigured   = "календарь тенанта не настроен"
	msgStartTimeInPast         = "время начала уже прошло"
	msgInvalidData             = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateRecurringAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateRecurringAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/appointments/recurring
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tenantId из URL
	vars := mux.Vars(r)
	tenantIDStr := vars["tenantId"]

	tenantID, err := strconv.ParseInt(tenantIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/appointments/recurring - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req CreateRecurringAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/appointments/recurring - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(tenantID)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/appointments/recurring - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createRecurring.ErrOccurrenceFailed):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Occurrence failed, series aborted: tenant_id=%d, service_id=%d",
				tenantID, req.ServiceID)
			handlers.RespondError(w, http.StatusConflict, msgOccurrenceFailed)

		case errors.Is(err, createRecurring.ErrInvalidRecurrence):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Invalid recurrence: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRecurrence)

		case errors.Is(err, createRecurring.ErrServiceNotFound):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Service not found: tenant_id=%d, service_id=%d",
				tenantID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createRecurring.ErrServiceInactive):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Service inactive: tenant_id=%d, service_id=%d",
				tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createRecurring.ErrProfessionalNotFound):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Professional not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createRecurring.ErrProfessionalNotAvailable):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Professional not available: tenant_id=%d, service_id=%d",
				tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgProfessionalUnavailable)

		case errors.Is(err, createRecurring.ErrResourceNotFound):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Resource not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createRecurring.ErrResourceNotAvailable):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Resource not available: tenant_id=%d, service_id=%d",
				tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgResourceUnavailable)

		case errors.Is(err, createRecurring.ErrResourceRequired):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Resource required: tenant_id=%d, service_id=%d",
				tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgResourceRequired)

		case errors.Is(err, createRecurring.ErrCalendarNotConfigured):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Calendar not configured: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgCalendarNotConfigured)

		case errors.Is(err, createRecurring.ErrStartTimeInPast):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Start time in past: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgStartTimeInPast)

		case errors.Is(err, createRecurring.ErrInvalidInput):
			h.logger.Warn("POST /tenants/{id}/appointments/recurring - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /tenants/{id}/appointments/recurring - Failed to create series: tenant_id=%d, service_id=%d, error=%v",
				tenantID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /tenants/{id}/appointments/recurring - Series created: series_id=%s, tenant_id=%d, booked=%d, failed=%d",
		result.SeriesID, tenantID, result.BookedCount, result.FailedCount)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
