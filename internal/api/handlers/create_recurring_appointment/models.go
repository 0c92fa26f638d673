package create_recurring_appointment

import (
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	createRecurring "github.com/avelir/CRM-SchedulingService/internal/usecase/create_recurring_appointment"
)

// RecurrenceDTO конфигурация повторения в HTTP запросе
type RecurrenceDTO struct {
	Frequency string `json:"frequency"`        // weekly | biweekly | monthly
	Count     int    `json:"count"`            // количество вхождений серии
	Policy    string `json:"policy,omitempty"` // best_effort | all_or_nothing
}

// CreateRecurringAppointmentRequest HTTP request model
type CreateRecurringAppointmentRequest struct {
	ServiceID      int64         `json:"serviceId"`
	StartTime      string        `json:"startTime"` // RFC3339, начало первого вхождения
	ProfessionalID *int64        `json:"professionalId,omitempty"`
	ResourceID     *int64        `json:"resourceId,omitempty"`
	ClientID       *int64        `json:"clientId,omitempty"`
	CreatedBy      string        `json:"createdBy,omitempty"`
	Recurrence     RecurrenceDTO `json:"recurrence"`
}

// OccurrenceResponse результат по одному вхождению серии
type OccurrenceResponse struct {
	Index         int     `json:"index"`
	StartTime     string  `json:"startTime"`
	Status        string  `json:"status"` // booked | failed
	AppointmentID *int64  `json:"appointmentId,omitempty"`
	PublicID      *string `json:"publicId,omitempty"`
	FailReason    *string `json:"failReason,omitempty"`
}

// RecurringAppointmentResponse HTTP response model
type RecurringAppointmentResponse struct {
	TenantID    int64                `json:"tenantId"`
	ServiceID   int64                `json:"serviceId"`
	SeriesID    string               `json:"seriesId"`
	BookedCount int                  `json:"bookedCount"`
	FailedCount int                  `json:"failedCount"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateRecurringAppointmentRequest) ToUseCaseRequest(tenantID int64) (*createRecurring.Request, error) {
	// Парсим время начала первого вхождения
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	createdBy := domain.CreatedBy(r.CreatedBy)
	if r.CreatedBy == "" {
		createdBy = domain.CreatedByClient
	}

	return &createRecurring.Request{
		TenantID:       tenantID,
		ServiceID:      r.ServiceID,
		StartTime:      startTime,
		ProfessionalID: r.ProfessionalID,
		ResourceID:     r.ResourceID,
		ClientID:       r.ClientID,
		CreatedBy:      createdBy,
		Recurrence: domain.RecurrenceConfig{
			Frequency: domain.RecurrenceFrequency(r.Recurrence.Frequency),
			Count:     r.Recurrence.Count,
			Policy:    domain.RecurrencePolicy(r.Recurrence.Policy),
		},
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createRecurring.Response) *RecurringAppointmentResponse {
	occurrences := make([]OccurrenceResponse, len(resp.Occurrences))
	for i, occ := range resp.Occurrences {
		occResp := OccurrenceResponse{
			Index:         occ.Index,
			StartTime:     occ.StartTime.Format(time.RFC3339),
			Status:        occ.Status,
			AppointmentID: occ.AppointmentID,
			FailReason:    occ.FailReason,
		}
		if occ.PublicID != nil {
			publicStr := occ.PublicID.String()
			occResp.PublicID = &publicStr
		}
		occurrences[i] = occResp
	}

	return &RecurringAppointmentResponse{
		TenantID:    resp.TenantID,
		ServiceID:   resp.ServiceID,
		SeriesID:    resp.SeriesID.String(),
		BookedCount: resp.BookedCount,
		FailedCount: resp.FailedCount,
		Occurrences: occurrences,
	}
}
