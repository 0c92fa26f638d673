package get_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/avelir/CRM-SchedulingService/internal/api/handlers"
	"github.com/avelir/CRM-SchedulingService/internal/service/appointments"
	"github.com/avelir/CRM-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidTenantID      = "некорректный ID тенанта"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgNotFound             = "запись не найдена"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/appointments/{appointmentId}
// Принимает внутренний числовой ID или публичный UUID
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// Извлекаем tenantId из URL
	tenantIDStr := vars["tenantId"]
	tenantID, err := strconv.ParseInt(tenantIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /tenants/{id}/appointments/{id} - Invalid tenant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	// Извлекаем appointmentId из URL: число или UUID
	appointmentIDStr := vars["appointmentId"]

	var appointment *models.AppointmentResponse
	if appointmentID, parseErr := strconv.ParseInt(appointmentIDStr, 10, 64); parseErr == nil {
		appointment, err = h.service.GetByID(r.Context(), tenantID, appointmentID)
	} else if publicID, uuidErr := uuid.Parse(appointmentIDStr); uuidErr == nil {
		appointment, err = h.service.GetByPublicID(r.Context(), tenantID, publicID)
	} else {
		h.logger.Warn("GET /tenants/{id}/appointments/{id} - Invalid appointment ID: %s", appointmentIDStr)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /tenants/{id}/appointments/{id} - Appointment not found: tenant_id=%d, appointment_id=%s",
				tenantID, appointmentIDStr)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /tenants/{id}/appointments/{id} - Failed to get appointment: tenant_id=%d, appointment_id=%s, error=%v",
				tenantID, appointmentIDStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tenants/{id}/appointments/{id} - Appointment retrieved successfully: tenant_id=%d, appointment_id=%d",
		tenantID, appointment.ID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
