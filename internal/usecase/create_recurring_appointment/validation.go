package create_recurring_appointment

import (
	"fmt"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Цель назначения не может быть двойной
	if req.ProfessionalID != nil && req.ResourceID != nil {
		return fmt.Errorf("%w: professionalID and resourceID are mutually exclusive", ErrInvalidInput)
	}

	if req.ProfessionalID != nil && *req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.ResourceID != nil && *req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.ClientID != nil && *req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if !validCreatedBy(req.CreatedBy) {
		return fmt.Errorf("%w: unknown createdBy %q", ErrInvalidInput, req.CreatedBy)
	}

	if !domain.ValidFrequency(req.Recurrence.Frequency) {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRecurrence, req.Recurrence.Frequency)
	}

	if req.Recurrence.Count < domain.MinRecurrenceCount || req.Recurrence.Count > domain.MaxRecurrenceCount {
		return fmt.Errorf("%w: count must be between %d and %d",
			ErrInvalidRecurrence, domain.MinRecurrenceCount, domain.MaxRecurrenceCount)
	}

	if req.Recurrence.Policy != "" && !domain.ValidPolicy(req.Recurrence.Policy) {
		return fmt.Errorf("%w: unknown policy %q", ErrInvalidRecurrence, req.Recurrence.Policy)
	}

	return nil
}

func validCreatedBy(c domain.CreatedBy) bool {
	switch c {
	case domain.CreatedBySystem, domain.CreatedByAdmin, domain.CreatedByClient, domain.CreatedByAI:
		return true
	}
	return false
}
