package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/catalog"
	"github.com/avelir/CRM-SchedulingService/internal/scheduling"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	catalogRepo     CatalogRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		catalogRepo:     catalogRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%d, service=%d, date=%s",
		req.TenantID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Разрешаем цель назначения и проверяем её связь с услугой
	target, err := uc.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Получаем календарь тенанта
	hours, err := uc.calendarRepo.GetBusinessHours(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, calendar.ErrCalendarNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant id=%d has no calendar", req.TenantID)
			return nil, ErrCalendarNotConfigured
		}
		uc.logger.Error("GetAvailableSlots: failed to get calendar: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar: %v", ErrInternal, err)
	}

	holidays, err := uc.calendarRepo.ListHolidays(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get holidays: %v", err)
		return nil, fmt.Errorf("%w: failed to get holidays: %v", ErrInternal, err)
	}

	// 6. Переносим дату в часовой пояс тенанта и разрешаем окно дня
	loc := hours.Location()
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)

	day, open := hours.HoursFor(date, holidays)
	if !open {
		uc.logger.Info("GetAvailableSlots: tenant id=%d is closed on %s",
			req.TenantID, date.Format(domain.DateFormat))
		return &Response{
			Date:      date,
			TenantID:  req.TenantID,
			ServiceID: req.ServiceID,
			Timezone:  hours.Timezone,
			Slots:     []Slot{},
		}, nil
	}

	// 7. Генерируем кандидатные слоты
	window, err := scheduling.BuildWindow(date, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build window: %v", err)
		return nil, fmt.Errorf("%w: failed to build window: %v", ErrInternal, err)
	}

	candidates := scheduling.GenerateSlots(window, service)

	// 8-9. Получаем живые записи и размечаем доступность.
	// Услуга с требованием ресурса без явного resourceId размечается
	// по всем привязанным ресурсам
	dayEnd := date.AddDate(0, 0, 1)

	var annotated []scheduling.Slot
	if target.Kind == domain.TargetNone && service.RequiresResource {
		annotated, err = uc.annotateAcrossResources(ctx, req, candidates, date, dayEnd, now.In(loc))
	} else {
		annotated, err = uc.annotateForTarget(ctx, req, candidates, target, date, dayEnd, now.In(loc))
	}
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, len(annotated))
	for i, s := range annotated {
		slots[i] = Slot{StartTime: s.Start, EndTime: s.End, Available: s.Available}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for tenant=%d, service=%d, target=%s, date=%s",
		len(slots), req.TenantID, req.ServiceID, target, date.Format(domain.DateFormat))

	return &Response{
		Date:      date,
		TenantID:  req.TenantID,
		ServiceID: req.ServiceID,
		Timezone:  hours.Timezone,
		Slots:     slots,
	}, nil
}

// annotateForTarget размечает кандидатные слоты по живым записям одной цели:
// конфликт с живой записью либо прошедшее время делает слот недоступным
func (uc *UseCase) annotateForTarget(
	ctx context.Context,
	req *Request,
	candidates []scheduling.Slot,
	target domain.AssignmentTarget,
	from, to time.Time,
	now time.Time,
) ([]scheduling.Slot, error) {
	appointments, err := uc.appointmentRepo.ListLiveForRange(ctx, req.TenantID, from, to, target)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	return scheduling.Annotate(candidates, appointments, target, now), nil
}

// annotateAcrossResources размечает слоты услуги с требованием ресурса,
// когда конкретный ресурс не запрошен: слот доступен, если свободен хотя бы
// один привязанный активный ресурс. Услуга без привязанных активных
// ресурсов недоступна целиком
func (uc *UseCase) annotateAcrossResources(
	ctx context.Context,
	req *Request,
	candidates []scheduling.Slot,
	from, to time.Time,
	now time.Time,
) ([]scheduling.Slot, error) {
	resources, err := uc.catalogRepo.ListResourcesForService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list resources for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to list resources: %v", ErrInternal, err)
	}

	if len(resources) == 0 {
		uc.logger.Warn("GetAvailableSlots: service id=%d requires a resource but has none linked", req.ServiceID)
		return []scheduling.Slot{}, nil
	}

	merged := make([]scheduling.Slot, len(candidates))
	copy(merged, candidates)
	for i := range merged {
		merged[i].Available = false
	}

	for _, resource := range resources {
		resourceTarget := domain.ResourceTarget(resource.ID)
		annotated, err := uc.annotateForTarget(ctx, req, candidates, resourceTarget, from, to, now)
		if err != nil {
			return nil, err
		}
		for i, slot := range annotated {
			if slot.Available {
				merged[i].Available = true
			}
		}
	}

	return merged, nil
}

// resolveTarget превращает опциональные ID запроса в цель назначения
// и проверяет, что цель активна и привязана к услуге
func (uc *UseCase) resolveTarget(ctx context.Context, req *Request) (domain.AssignmentTarget, error) {
	switch {
	case req.ProfessionalID != nil:
		professional, err := uc.catalogRepo.GetProfessional(ctx, req.TenantID, *req.ProfessionalID)
		if err != nil {
			if errors.Is(err, catalog.ErrProfessionalNotFound) {
				uc.logger.Warn("GetAvailableSlots: professional id=%d not found", *req.ProfessionalID)
				return domain.AssignmentTarget{}, ErrProfessionalNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get professional id=%d: %v", *req.ProfessionalID, err)
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to get professional: %v", ErrInternal, err)
		}
		if !professional.IsActive {
			return domain.AssignmentTarget{}, ErrProfessionalNotAvailable
		}

		performs, err := uc.catalogRepo.ProfessionalPerformsService(ctx, req.TenantID, req.ServiceID, *req.ProfessionalID)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to check professional link: %v", err)
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to check professional link: %v", ErrInternal, err)
		}
		if !performs {
			uc.logger.Warn("GetAvailableSlots: professional id=%d does not perform service id=%d",
				*req.ProfessionalID, req.ServiceID)
			return domain.AssignmentTarget{}, ErrProfessionalNotAvailable
		}

		return domain.ProfessionalTarget(*req.ProfessionalID), nil

	case req.ResourceID != nil:
		resource, err := uc.catalogRepo.GetResource(ctx, req.TenantID, *req.ResourceID)
		if err != nil {
			if errors.Is(err, catalog.ErrResourceNotFound) {
				uc.logger.Warn("GetAvailableSlots: resource id=%d not found", *req.ResourceID)
				return domain.AssignmentTarget{}, ErrResourceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get resource id=%d: %v", *req.ResourceID, err)
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}
		if !resource.IsActive {
			return domain.AssignmentTarget{}, ErrResourceNotAvailable
		}

		serves, err := uc.catalogRepo.ResourceServesService(ctx, req.TenantID, req.ServiceID, *req.ResourceID)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to check resource link: %v", err)
			return domain.AssignmentTarget{}, fmt.Errorf("%w: failed to check resource link: %v", ErrInternal, err)
		}
		if !serves {
			uc.logger.Warn("GetAvailableSlots: resource id=%d does not serve service id=%d",
				*req.ResourceID, req.ServiceID)
			return domain.AssignmentTarget{}, ErrResourceNotAvailable
		}

		return domain.ResourceTarget(*req.ResourceID), nil

	default:
		return domain.NoTarget(), nil
	}
}
