package get_tenant_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	tenantID int64,
	professionalIDStr string,
	resourceIDStr string,
	statusStr string,
	fromStr string,
	toStr string,
	includeTerminalStr string,
) (*models.GetTenantAppointmentsRequest, error) {
	req := &models.GetTenantAppointmentsRequest{
		TenantID:        tenantID,
		IncludeTerminal: false, // По умолчанию только живые записи
	}

	// Парсим professionalId если указан
	if professionalIDStr != "" {
		professionalID, err := strconv.ParseInt(professionalIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ProfessionalID = &professionalID
	}

	// Парсим resourceId если указан
	if resourceIDStr != "" {
		resourceID, err := strconv.ParseInt(resourceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ResourceID = &resourceID
	}

	// Парсим status если указан
	if statusStr != "" {
		req.Status = &statusStr
	}

	// Парсим границы периода если указаны
	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &from
	}

	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &to
	}

	// Парсим includeTerminal если указан
	if includeTerminalStr != "" {
		includeTerminal, err := strconv.ParseBool(includeTerminalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeTerminal value: %w", err)
		}
		req.IncludeTerminal = includeTerminal
	}

	return req, nil
}
