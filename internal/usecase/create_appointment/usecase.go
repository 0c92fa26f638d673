package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/internal/infra/events"
	"github.com/avelir/CRM-SchedulingService/internal/infra/lock"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/appointment"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/catalog"
	"github.com/avelir/CRM-SchedulingService/internal/scheduling"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	slotLocker      SlotLocker
	publisher       EventPublisher
	holdTTL         time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	slotLocker SlotLocker,
	publisher EventPublisher,
	holdTTL time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
		slotLocker:      slotLocker,
		publisher:       publisher,
		holdTTL:         holdTTL,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Гонку за слот разрешают три уровня: удержание в Redis на время оформления,
// сериализуемая транзакция с перепроверкой конфликтов под FOR UPDATE
// и частичный уникальный индекс в БД как последний рубеж
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: tenant=%d, service=%d, start=%s, created_by=%s",
		req.TenantID, req.ServiceID, req.StartTime.Format(time.RFC3339), req.CreatedBy)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
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
			uc.logger.Warn("CreateAppointment: tenant id=%d has no calendar", req.TenantID)
			return nil, ErrCalendarNotConfigured
		}
		uc.logger.Error("CreateAppointment: failed to get calendar: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	holidays, err := uc.calendarRepo.ListHolidays(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get holidays: %v", err)
		return nil, fmt.Errorf("%w: failed to get holidays: %v", ErrInternal, err)
	}

	// 6. Переносим начало записи в часовой пояс тенанта
	loc := hours.Location()
	startLocal := req.StartTime.In(loc)
	date := time.Date(startLocal.Year(), startLocal.Month(), startLocal.Day(), 0, 0, 0, 0, loc)

	// 7. Запись в прошлое запрещена
	if startLocal.Before(now.In(loc)) {
		uc.logger.Warn("CreateAppointment: start time %s is in the past", startLocal.Format(time.RFC3339))
		return nil, ErrStartTimeInPast
	}

	// 8. Проверяем, что тенант открыт в эту дату
	day, open := hours.HoursFor(date, holidays)
	if !open {
		uc.logger.Warn("CreateAppointment: tenant id=%d is closed on %s",
			req.TenantID, date.Format(domain.DateFormat))
		return nil, ErrTenantClosed
	}

	// 9. Время начала должно совпадать с одним из кандидатных слотов
	window, err := scheduling.BuildWindow(date, day)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to build window: %v", err)
		return nil, fmt.Errorf("%w: failed to build window: %v", ErrInternal, err)
	}

	slot, ok := findSlot(scheduling.GenerateSlots(window, service), startLocal)
	if !ok {
		uc.logger.Warn("CreateAppointment: start time %s does not match any slot", startLocal.Format(time.RFC3339))
		return nil, ErrInvalidTimeSlot
	}

	// 10. Удерживаем слот в Redis на время оформления
	holdKey := lock.SlotKey(req.TenantID, target, slot.Start)
	held, err := uc.slotLocker.Acquire(ctx, holdKey, uc.holdTTL)
	if err != nil {
		// Недоступность Redis не блокирует запись: гонку разрешит БД
		uc.logger.Error("CreateAppointment: failed to acquire slot hold: %v", err)
	} else if !held {
		uc.logger.Warn("CreateAppointment: slot %s is being booked by someone else", holdKey)
		return nil, ErrSlotTaken
	} else {
		defer func() {
			if err := uc.slotLocker.Release(context.WithoutCancel(ctx), holdKey); err != nil {
				uc.logger.Error("CreateAppointment: failed to release slot hold: %v", err)
			}
		}()
	}

	var result *domain.Appointment

	// 11. Проверка конфликтов и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 11.1. Живые записи цели на день с блокировкой FOR UPDATE
		dayEnd := date.AddDate(0, 0, 1)
		appointments, err := uc.appointmentRepo.ListLiveForRange(txCtx, req.TenantID, date, dayEnd, target)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 11.2. Конфликт проверяется по полному футпринту слота, включая буферы
		if scheduling.HasConflict(slot.Start, slot.End, appointments, target) {
			uc.logger.Warn("CreateAppointment: slot %s is already taken", startLocal.Format(time.RFC3339))
			return ErrSlotTaken
		}

		// 11.3. Создаем запись: хранится только длительность услуги, без буферов
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
			ServiceName:    service.Name,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, appointment.ErrSlotTaken) {
				uc.logger.Warn("CreateAppointment: unique index rejected slot %s", startLocal.Format(time.RFC3339))
				return ErrSlotTaken
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d public_id=%s",
		result.ID, result.PublicID)

	// 12. Публикуем событие создания. Запись уже закоммичена,
	// поэтому ошибка публикации только логируется
	uc.publishCreated(ctx, result)

	return toResponse(result), nil
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
		uc.logger.Error("CreateAppointment: failed to publish event for appointment id=%d: %v", appt.ID, err)
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
				uc.logger.Warn("CreateAppointment: professional id=%d not found", *req.ProfessionalID)
				return domain.AssignmentTarget{}, ErrProfessionalNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get professional id=%d: %v", *req.ProfessionalID, err)
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
		}
		if !professional.IsActive {
			return domain.AssignmentTarget{}, ErrProfessionalNotAvailable
		}

		performs, err := uc.catalogRepo.ProfessionalPerformsService(ctx, req.TenantID, req.ServiceID, *req.ProfessionalID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to check professional link: %v", err)
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to check professional link: %v", ErrInternal, err)
		}
		if !performs {
			uc.logger.Warn("CreateAppointment: professional id=%d does not perform service id=%d",
				*req.ProfessionalID, req.ServiceID)
			return domain.AssignmentTarget{}, ErrProfessionalNotAvailable
		}

		return domain.ProfessionalTarget(*req.ProfessionalID), nil

	case req.ResourceID != nil:
		resource, err := uc.catalogRepo.GetResource(ctx, req.TenantID, *req.ResourceID)
		if err != nil {
			if errors.Is(err, catalog.ErrResourceNotFound) {
				uc.logger.Warn("CreateAppointment: resource id=%d not found", *req.ResourceID)
				return domain.AssignmentTarget{}, ErrResourceNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get resource id=%d: %v", *req.ResourceID, err)
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}
		if !resource.IsActive {
			return domain.AssignmentTarget{}, ErrResourceNotAvailable
		}

		serves, err := uc.catalogRepo.ResourceServesService(ctx, req.TenantID, req.ServiceID, *req.ResourceID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to check resource link: %v", err)
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to check resource link: %v", ErrInternal, err)
		}
		if !serves {
			uc.logger.Warn("CreateAppointment: resource id=%d does not serve service id=%d",
				*req.ResourceID, req.ServiceID)
			return domain.AssignmentTarget{}, ErrResourceNotAvailable
		}

		return domain.ResourceTarget(*req.ResourceID), nil

	default:
		// Услуга, требующая ресурс, не может быть записана без него
		if service.RequiresResource {
			uc.logger.Warn("CreateAppointment: service id=%d requires a resource", req.ServiceID)
			return domain.AssignmentTarget{}, ErrResourceRequired
		}
		return domain.NoTarget(), nil
	}
}
