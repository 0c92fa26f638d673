package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/internal/infra/events"
	appointmentRepo "github.com/avelir/CRM-SchedulingService/internal/infra/storage/appointment"
	"github.com/avelir/CRM-SchedulingService/internal/service/appointments/models"
)

// Service сервис для работы с существующими записями:
// чтение, фильтрация и переводы по жизненному циклу
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID в рамках тенанта
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for tenant=%d", id, tenantID)

	appt, err := s.appointmentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetByPublicID получает запись по внешнему UUID в рамках тенанта
func (s *Service) GetByPublicID(ctx context.Context, tenantID int64, publicID uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByPublicID: fetching appointment public_id=%s for tenant=%d", publicID, tenantID)

	appt, err := s.appointmentRepo.GetByPublicID(ctx, tenantID, publicID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByPublicID: appointment public_id=%s not found", publicID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByPublicID: repository error for public_id=%s: %v", publicID, err)
		return nil, fmt.Errorf("%w: GetByPublicID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// GetTenantAppointments получает записи тенанта с гибкой фильтрацией.
// Поддерживает фильтрацию по специалисту, ресурсу, периоду, статусу
// и включение терминальных записей.
//
// Примеры использования:
// - Все живые записи: GetTenantAppointments(ctx, &GetTenantAppointmentsRequest{TenantID: 123})
// - Записи специалиста: указать ProfessionalID
// - Записи на дату: StartDate начало дня, EndDate начало следующего
// - Полная история клиента: IncludeTerminal = true
func (s *Service) GetTenantAppointments(ctx context.Context, req *models.GetTenantAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetTenantAppointments: fetching appointments for tenant=%d", req.TenantID)

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTenantAppointments: invalid filter for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTenantAppointments: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: GetTenantAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTenantAppointments: successfully fetched %d appointments for tenant=%d",
		len(appointments), req.TenantID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись. Отменить можно только живую запись
// (scheduled или confirmed); отмена необратима
func (s *Service) Cancel(ctx context.Context, tenantID, id int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d for tenant=%d", id, tenantID)

	appt, err := s.appointmentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
		return ErrCannotCancel
	}

	now := s.timeProvider.Now()
	if err := s.appointmentRepo.Cancel(ctx, tenantID, id, now, req.Reason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)

	appt.Status = domain.StatusCancelled
	s.publishLifecycle(ctx, appt, events.TypeAppointmentCancelled)

	return nil
}

// UpdateStatus переводит запись по жизненному циклу:
// confirmed, completed или no_show. Допустимость перехода
// проверяет доменная машина состояний
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s for tenant=%d",
		id, req.Status, tenantID)

	appt, err := s.appointmentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	// Отмена идёт через Cancel: там фиксируется причина
	if newStatus == domain.StatusCancelled {
		s.logger.Warn("UpdateStatus: cancellation requested via status update for appointment id=%d", id)
		return nil, fmt.Errorf("%w: use the cancel endpoint for cancellations", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	if err := domain.Transition(appt, newStatus, now, nil); err != nil {
		s.logger.Warn("UpdateStatus: transition rejected for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, tenantID, id, newStatus, appt.ConfirmedAt); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)

	s.publishLifecycle(ctx, appt, lifecycleEventType(newStatus))

	return models.FromDomainAppointment(appt), nil
}

// Вспомогательные методы

// publishLifecycle публикует событие смены статуса. Статус уже сохранён,
// поэтому ошибка публикации только логируется
func (s *Service) publishLifecycle(ctx context.Context, appt *domain.Appointment, eventType string) {
	if eventType == "" {
		return
	}

	event := events.AppointmentEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		TenantID:  appt.TenantID,
		PublicID:  appt.PublicID,
		ServiceID: appt.ServiceID,
		StartTime: appt.StartTime,
		EndTime:   appt.EndTime,
		Status:    string(appt.Status),
		EmittedAt: s.timeProvider.Now(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("publishLifecycle: failed to publish %s for appointment id=%d: %v",
			eventType, appt.ID, err)
	}
}

func lifecycleEventType(status domain.AppointmentStatus) string {
	switch status {
	case domain.StatusConfirmed:
		return events.TypeAppointmentConfirmed
	case domain.StatusCompleted:
		return events.TypeAppointmentCompleted
	case domain.StatusCancelled:
		return events.TypeAppointmentCancelled
	case domain.StatusNoShow:
		return events.TypeAppointmentNoShow
	default:
		return ""
	}
}
