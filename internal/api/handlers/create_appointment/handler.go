package create_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avelir/CRM-SchedulingService/internal/api/handlers"
	createAppointment "github.com/avelir/CRM-SchedulingService/internal/usecase/create_appointment"
)

const (
	msgInvalidTenantID         = "некорректный ID тенанта"
	msgInvalidRequestBody      = "некорректное тело запроса"
	msgInvalidStartTime        = "некорректный формат времени начала, ожидается RFC3339"
	msgSlotTaken               = "выбранный временной слот уже занят"
	msgServiceNotFound         = "услуга не найдена"
	msgServiceInactive         = "услуга недоступна"
	msgProfessionalNotFound    = "специалист не найден"
	msgProfessionalUnavailable = "специалист не оказывает эту услугу"
	msgResourceNotFound        = "ресурс не найден"
	msgResourceUnavailable     = "ресурс не обслуживает эту услугу"
	msgResourceRequired        = "услуга требует указания ресурса"
	msgCalendarNotConfigured   = "календарь тенанта не настроен"
	msgTenantClosed            = "тенант закрыт в выбранную дату"
	msgStartTimeInPast         = "время начала уже прошло"
	msgInvalidTimeSlot         = "время начала не совпадает ни с одним слотом"
	msgInvalidData             = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/tenants/{tenantId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tenantId из URL
	vars := mux.Vars(r)
	tenantIDStr := vars["tenantId"]

	tenantID, err := strconv.ParseInt(tenantIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/appointments - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /tenants/{id}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом времени)
	useCaseReq, err := req.ToUseCaseRequest(tenantID)
	if err != nil {
		h.logger.Warn("POST /tenants/{id}/appointments - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createAppointment.ErrSlotTaken):
			h.logger.Warn("POST /tenants/{id}/appointments - Slot taken: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /tenants/{id}/appointments - Service not found: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrServiceInactive):
			h.logger.Warn("POST /tenants/{id}/appointments - Service inactive: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createAppointment.ErrProfessionalNotFound):
			h.logger.Warn("POST /tenants/{id}/appointments - Professional not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, createAppointment.ErrProfessionalNotAvailable):
			h.logger.Warn("POST /tenants/{id}/appointments - Professional not available: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgProfessionalUnavailable)

		case errors.Is(err, createAppointment.ErrResourceNotFound):
			h.logger.Warn("POST /tenants/{id}/appointments - Resource not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createAppointment.ErrResourceNotAvailable):
			h.logger.Warn("POST /tenants/{id}/appointments - Resource not available: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgResourceUnavailable)

		case errors.Is(err, createAppointment.ErrResourceRequired):
			h.logger.Warn("POST /tenants/{id}/appointments - Resource required: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgResourceRequired)

		case errors.Is(err, createAppointment.ErrCalendarNotConfigured):
			h.logger.Warn("POST /tenants/{id}/appointments - Calendar not configured: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgCalendarNotConfigured)

		case errors.Is(err, createAppointment.ErrTenantClosed):
			h.logger.Warn("POST /tenants/{id}/appointments - Tenant closed: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgTenantClosed)

		case errors.Is(err, createAppointment.ErrStartTimeInPast):
			h.logger.Warn("POST /tenants/{id}/appointments - Start time in past: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgStartTimeInPast)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /tenants/{id}/appointments - Invalid time slot: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /tenants/{id}/appointments - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /tenants/{id}/appointments - Failed to create appointment: tenant_id=%d, service_id=%d, error=%v",
				tenantID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /tenants/{id}/appointments - Appointment created successfully: appointment_id=%d, tenant_id=%d, service_id=%d",
		result.ID, tenantID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
