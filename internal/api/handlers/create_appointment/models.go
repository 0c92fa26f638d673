package create_appointment

import (
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	createAppointment "github.com/avelir/CRM-SchedulingService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID      int64  `json:"serviceId"`
	StartTime      string `json:"startTime"` // RFC3339, например "2026-09-03T10:00:00+03:00"
	ProfessionalID *int64 `json:"professionalId,omitempty"`
	ResourceID     *int64 `json:"resourceId,omitempty"`
	ClientID       *int64 `json:"clientId,omitempty"`
	CreatedBy      string `json:"createdBy,omitempty"` // system | admin | client | ai
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID             int64  `json:"id"`
	PublicID       string `json:"publicId"`
	TenantID       int64  `json:"tenantId"`
	ServiceID      int64  `json:"serviceId"`
	ProfessionalID *int64 `json:"professionalId,omitempty"`
	ResourceID     *int64 `json:"resourceId,omitempty"`
	ClientID       *int64 `json:"clientId,omitempty"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Status         string `json:"status"`
	CreatedBy      string `json:"createdBy"`
	ServiceName    string `json:"serviceName"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(tenantID int64) (*createAppointment.Request, error) {
	// Парсим время начала (со смещением)
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	createdBy := domain.CreatedBy(r.CreatedBy)
	if r.CreatedBy == "" {
		createdBy = domain.CreatedByClient
	}

	return &createAppointment.Request{
		TenantID:       tenantID,
		ServiceID:      r.ServiceID,
		StartTime:      startTime,
		ProfessionalID: r.ProfessionalID,
		ResourceID:     r.ResourceID,
		ClientID:       r.ClientID,
		CreatedBy:      createdBy,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:             resp.ID,
		PublicID:       resp.PublicID.String(),
		TenantID:       resp.TenantID,
		ServiceID:      resp.ServiceID,
		ProfessionalID: resp.ProfessionalID,
		ResourceID:     resp.ResourceID,
		ClientID:       resp.ClientID,
		StartTime:      resp.StartTime.Format(time.RFC3339),
		EndTime:        resp.EndTime.Format(time.RFC3339),
		Status:         resp.Status,
		CreatedBy:      resp.CreatedBy,
		ServiceName:    resp.ServiceName,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
