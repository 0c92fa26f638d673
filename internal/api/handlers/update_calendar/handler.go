package update_calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avelir/CRM-SchedulingService/internal/api/handlers"
	"github.com/avelir/CRM-SchedulingService/internal/service/calendar"
	"github.com/avelir/CRM-SchedulingService/internal/service/calendar/models"
)

const (
	msgInvalidTenantID    = "некорректный ID тенанта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTimezone    = "некорректный часовой пояс"
	msgInvalidWindow      = "время открытия должно быть раньше времени закрытия"
	msgInvalidData        = "некорректные данные календаря"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/tenants/{tenantId}/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем tenantId из URL
	vars := mux.Vars(r)
	tenantIDStr := vars["tenantId"]

	tenantID, err := strconv.ParseInt(tenantIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /tenants/{id}/calendar - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	var req models.UpdateCalendarRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tenants/{id}/calendar - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Полностью заменяем календарь тенанта
	result, err := h.service.UpdateCalendar(r.Context(), tenantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidTimezone):
			h.logger.Warn("PUT /tenants/{id}/calendar - Invalid timezone: tenant_id=%d, timezone=%s",
				tenantID, req.Timezone)
			handlers.RespondBadRequest(w, msgInvalidTimezone)

		case errors.Is(err, calendar.ErrInvalidWindow):
			h.logger.Warn("PUT /tenants/{id}/calendar - Invalid window: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("PUT /tenants/{id}/calendar - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /tenants/{id}/calendar - Failed to update calendar: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /tenants/{id}/calendar - Calendar updated successfully: tenant_id=%d", tenantID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
