package create_recurring_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/internal/infra/events"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/appointment"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/catalog"
	"github.com/avelir/CRM-SchedulingService/internal/scheduling"
	"github.com/avelir/CRM-SchedulingService/pkg/ptr"
)

// UseCase use case для создания серии повторяющихся записей
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания серии.
// В best_effort каждое вхождение бронируется в собственной сериализуемой
// транзакции и неудачные помечаются в ответе; в all_or_nothing вся серия
// идёт одной транзакцией и любой отказ откатывает её целиком
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateRecurring: tenant=%d, service=%d, start=%s, freq=%s, count=%d, policy=%s",
		req.TenantID, req.ServiceID, req.StartTime.Format(time.RFC3339),
		req.Recurrence.Frequency, req.Recurrence.Count, req.Recurrence.Policy)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateRecurring: validation failed: %v", err)
		return nil, err
	}

	// Политика по умолчанию — best_effort
	if req.Recurrence.Policy == "" {
		req.Recurrence.Policy = domain.PolicyBestEffort
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("CreateRecurring: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateRecurring: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateRecurring: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Разрешаем цель назначения и проверяем её связь с услугой
	target, err := uc.resolveTarget(ctx, req, service)
	if err != nil {
		return nil, err
	}

	// 5. Получаем календарь тенанта
	hours, err := uc.calendarRepo.GetBusinessHours(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, calendar.ErrCalendarNotFound) {
			uc.logger.Warn("CreateRecurring: tenant id=%d has no calendar", req.TenantID)
			return nil, ErrCalendarNotConfigured
		}
		uc.logger.Error("CreateRecurring: failed to get calendar: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	holidays, err := uc.calendarRepo.ListHolidays(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("CreateRecurring: failed to get holidays: %v", err)
		return nil, fmt.Errorf("%w: failed to get holidays: %v", ErrInternal, err)
	}

	// 6. Первое вхождение не может быть в прошлом
	loc := hours.Location()
	startLocal := req.StartTime.In(loc)
	if startLocal.Before(now.In(loc)) {
		uc.logger.Warn("CreateRecurring: start time %s is in the past", startLocal.Format(time.RFC3339))
		return nil, ErrStartTimeInPast
	}

	// 7. Разворачиваем серию в список времён начала
	starts, err := scheduling.Expand(startLocal, req.Recurrence)
	if err != nil {
		uc.logger.Warn("CreateRecurring: expansion failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}

	seriesID := uuid.New()
	occurrences := make([]Occurrence, len(starts))
	var booked []*domain.Appointment

	// 8. Бронируем вхождения согласно политике серии
	if req.Recurrence.Policy == domain.PolicyAllOrNothing {
		booked, err = uc.bookSeriesAtomic(ctx, req, service, target, hours, holidays, seriesID, starts, now.In(loc), occurrences)
	} else {
		booked, err = uc.bookSeriesBestEffort(ctx, req, service, target, hours, holidays, seriesID, starts, now.In(loc), occurrences)
	}
	if err != nil {
		return nil, err
	}

	// 9. Публикуем события по записанным вхождениям. Серия уже
	// закоммичена, ошибки публикации только логируются
	for _, appt := range booked {
		uc.publishCreated(ctx, appt)
	}

	bookedCount := len(booked)
	uc.logger.Info("CreateRecurring: series %s booked %d/%d occurrences",
		seriesID, bookedCount, len(starts))

	return &Response{
		TenantID:    req.TenantID,
		ServiceID:   req.ServiceID,
		SeriesID:    seriesID,
		BookedCount: bookedCount,
		FailedCount: len(starts) - bookedCount,
		Occurrences: occurrences,
	}, nil
}

// bookSeriesAtomic бронирует всю серию в одной сериализуемой транзакции:
// любой отказ по любому вхождению откатывает её целиком
func (uc *UseCase) bookSeriesAtomic(
	ctx context.Context,
	req *Request,
	service *domain.Service,
	target domain.AssignmentTarget,
	hours *domain.BusinessHours,
	holidays []domain.Holiday,
	seriesID uuid.UUID,
	starts []time.Time,
	now time.Time,
	occurrences []Occurrence,
) ([]*domain.Appointment, error) {
	var booked []*domain.Appointment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booked = booked[:0]

		for i, start := range starts {
			occurrences[i] = Occurrence{Index: i, StartTime: start, Status: OccurrenceFailed}

			reason, appt, err := uc.bookOccurrence(txCtx, req, service, target, hours, holidays, seriesID, start, now)
			if err != nil {
				return err
			}

			if reason != "" {
				uc.logger.Warn("CreateRecurring: occurrence %d at %s failed: %s",
					i, start.Format(time.RFC3339), reason)
				return fmt.Errorf("%w: occurrence %d at %s: %s",
					ErrOccurrenceFailed, i, start.Format(time.RFC3339), reason)
			}

			occurrences[i].Status = OccurrenceBooked
			occurrences[i].AppointmentID = ptr.Ptr(appt.ID)
			occurrences[i].PublicID = ptr.Ptr(appt.PublicID)
			booked = append(booked, appt)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return booked, nil
}

// bookSeriesBestEffort бронирует каждое вхождение в собственной
// сериализуемой транзакции: вхождения независимы, отказ одного
// (включая проигранную гонку на вставке) не откатывает остальные
func (uc *UseCase) bookSeriesBestEffort(
	ctx context.Context,
	req *Request,
	service *domain.Service,
	target domain.AssignmentTarget,
	hours *domain.BusinessHours,
	holidays []domain.Holiday,
	seriesID uuid.UUID,
	starts []time.Time,
	now time.Time,
	occurrences []Occurrence,
) ([]*domain.Appointment, error) {
	var booked []*domain.Appointment

	for i, start := range starts {
		occurrences[i] = Occurrence{Index: i, StartTime: start, Status: OccurrenceFailed}

		var (
			reason string
			appt   *domain.Appointment
		)
		err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			var bookErr error
			reason, appt, bookErr = uc.bookOccurrence(txCtx, req, service, target, hours, holidays, seriesID, start, now)
			return bookErr
		})
		if err != nil {
			// Уникальный индекс сработал после проверки конфликтов:
			// откатилась только транзакция этого вхождения
			if errors.Is(err, ErrOccurrenceFailed) {
				reason = ReasonConflict
			} else {
				return nil, err
			}
		}

		if reason != "" {
			uc.logger.Warn("CreateRecurring: occurrence %d at %s failed: %s",
				i, start.Format(time.RFC3339), reason)
			occurrences[i].FailReason = ptr.Ptr(reason)
			continue
		}

		occurrences[i].Status = OccurrenceBooked
		occurrences[i].AppointmentID = ptr.Ptr(appt.ID)
		occurrences[i].PublicID = ptr.Ptr(appt.PublicID)
		booked = append(booked, appt)
	}

	return booked, nil
}

// bookOccurrence пытается записать одно вхождение серии.
// Возвращает причину отказа для штатных отказов (закрыто, занято)
// и ошибку только при сбое инфраструктуры
func (uc *UseCase) bookOccurrence(
	ctx context.Context,
	req *Request,
	service *domain.Service,
	target domain.AssignmentTarget,
	hours *domain.BusinessHours,
	holidays []domain.Holiday,
	seriesID uuid.UUID,
	start time.Time,
	now time.Time,
) (string, *domain.Appointment, error) {
	if start.Before(now) {
		return ReasonInPast, nil, nil
	}

	date := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	day, open := hours.HoursFor(date, holidays)
	if !open {
		return ReasonClosed, nil, nil
	}

	window, err := scheduling.BuildWindow(date, day)
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to build window: %v", ErrInternal, err)
	}

	slot, ok := findSlot(scheduling.GenerateSlots(window, service), start)
	if !ok {
		return ReasonInvalidSlot, nil, nil
	}

	// Живые записи цели на день с блокировкой FOR UPDATE
	dayEnd := date.AddDate(0, 0, 1)
	appointments, err := uc.appointmentRepo.ListLiveForRange(ctx, req.TenantID, date, dayEnd, target)
	if err != nil {
		return "", nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	if scheduling.HasConflict(slot.Start, slot.End, appointments, target) {
		return ReasonConflict, nil, nil
	}

	appt := &domain.Appointment{
		PublicID:       uuid.New(),
		TenantID:       req.TenantID,
		ServiceID:      req.ServiceID,
		ProfessionalID: target.ProfessionalID(),
		ResourceID:     target.ResourceID(),
		ClientID:       req.ClientID,
		StartTime:      slot.Start,
		EndTime:        slot.Start.Add(time.Duration(service.DurationMinutes) * time.Minute),
		Status:         domain.StatusScheduled,
		CreatedBy:      req.CreatedBy,
		SeriesID:       &seriesID,
		ServiceName:    service.Name,
	}

	created, err := uc.appointmentRepo.Create(ctx, appt)
	if err != nil {
		// Уникальный индекс сработал после проверки конфликтов: текущая
		// транзакция испорчена, интерпретацию решает политика серии
		if errors.Is(err, appointment.ErrSlotTaken) {
			return "", nil, fmt.Errorf("%w: occurrence at %s: slot taken during insert",
				ErrOccurrenceFailed, start.Format(time.RFC3339))
		}
		return "", nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}

	return "", created, nil
}

func (uc *UseCase) publishCreated(ctx context.Context, appt *domain.Appointment) {
	event := events.AppointmentEvent{
		EventID:   uuid.NewString(),
		EventType: events.TypeAppointmentCreated,
		TenantID:  appt.TenantID,
		PublicID:  appt.PublicID,
		ServiceID: appt.ServiceID,
		StartTime: appt.StartTime,
		EndTime:   appt.EndTime,
		Status:    string(appt.Status),
		EmittedAt: uc.timeProvider.Now(),
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateRecurring: failed to publish event for appointment id=%d: %v", appt.ID, err)
	}
}

// findSlot ищет кандидатный слот с точным совпадением времени начала
func findSlot(slots []scheduling.Slot, start time.Time) (scheduling.Slot, bool) {
	for _, slot := range slots {
		if slot.Start.Equal(start) {
			return slot, true
		}
	}
	return scheduling.Slot{}, false
}

// resolveTarget превращает опциональные ID запроса в цель назначения
// и проверяет, что цель активна и привязана к услуге
func (uc *UseCase) resolveTarget(ctx context.Context, req *Request, service *domain.Service) (domain.AssignmentTarget, error) {
	switch {
	case req.ProfessionalID != nil:
		professional, err := uc.catalogRepo.GetProfessional(ctx, req.TenantID, *req.ProfessionalID)
		if err != nil {
			if errors.Is(err, catalog.ErrProfessionalNotFound) {
				return domain.AssignmentTarget{}, ErrProfessionalNotFound
			}
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
		}
		if !professional.IsActive {
			return domain.AssignmentTarget{}, ErrProfessionalNotAvailable
		}

		performs, err := uc.catalogRepo.ProfessionalPerformsService(ctx, req.TenantID, req.ServiceID, *req.ProfessionalID)
		if err != nil {
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to check professional link: %v", ErrInternal, err)
		}
		if !performs {
			return domain.AssignmentTarget{}, ErrProfessionalNotAvailable
		}

		return domain.ProfessionalTarget(*req.ProfessionalID), nil

	case req.ResourceID != nil:
		resource, err := uc.catalogRepo.GetResource(ctx, req.TenantID, *req.ResourceID)
		if err != nil {
			if errors.Is(err, catalog.ErrResourceNotFound) {
				return domain.AssignmentTarget{}, ErrResourceNotFound
			}
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}
		if !resource.IsActive {
			return domain.AssignmentTarget{}, ErrResourceNotAvailable
		}

		serves, err := uc.catalogRepo.ResourceServesService(ctx, req.TenantID, req.ServiceID, *req.ResourceID)
		if err != nil {
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to check resource link: %v", ErrInternal, err)
		}
		if !serves {
			return domain.AssignmentTarget{}, ErrResourceNotAvailable
		}

		return domain.ResourceTarget(*req.ResourceID), nil

	default:
		if service.RequiresResource {
			return domain.AssignmentTarget{}, ErrResourceRequired
		}
		return domain.NoTarget(), nil
	}
}
