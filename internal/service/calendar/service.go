package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	calendarRepo "github.com/avelir/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/avelir/CRM-SchedulingService/internal/service/calendar/models"
)

// Service сервис для работы с календарём тенанта:
// недельный шаблон, weekend-переопределения и праздники
type Service struct {
	calendarRepo CalendarRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	calendarRepo CalendarRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetCalendar получает календарь тенанта вместе с праздниками
func (s *Service) GetCalendar(ctx context.Context, tenantID int64) (*models.CalendarResponse, error) {
	s.logger.Info("GetCalendar: fetching calendar for tenant=%d", tenantID)

	hours, err := s.calendarRepo.GetBusinessHours(ctx, tenantID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrCalendarNotFound) {
			s.logger.Warn("GetCalendar: calendar for tenant=%d not found", tenantID)
			return nil, ErrCalendarNotFound
		}
		s.logger.Error("GetCalendar: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetCalendar - repository error: %v", ErrInternal, err)
	}

	holidays, err := s.calendarRepo.ListHolidays(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetCalendar: failed to get holidays for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetCalendar - failed to get holidays: %v", ErrInternal, err)
	}

	s.logger.Info("GetCalendar: successfully fetched calendar for tenant=%d", tenantID)
	return models.FromDomainCalendar(hours, holidays), nil
}

// UpdateCalendar полностью заменяет календарь тенанта.
// Шаблон и праздники сохраняются в одной транзакции
func (s *Service) UpdateCalendar(ctx context.Context, tenantID int64, req *models.UpdateCalendarRequest) (*models.CalendarResponse, error) {
	s.logger.Info("UpdateCalendar: updating calendar for tenant=%d, timezone=%s", tenantID, req.Timezone)

	// 1. Валидация запроса
	if err := s.validateRequest(req); err != nil {
		s.logger.Warn("UpdateCalendar: validation failed for tenant=%d: %v", tenantID, err)
		return nil, err
	}

	// 2. Конвертируем в domain модели
	hours := req.ToDomainHours(tenantID)

	loc, err := time.LoadLocation(req.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, req.Timezone)
	}

	holidays, err := req.ToDomainHolidays(tenantID, loc)
	if err != nil {
		s.logger.Warn("UpdateCalendar: invalid holiday date for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: invalid holiday date: %v", ErrInvalidInput, err)
	}

	// 3. Сохраняем шаблон и праздники атомарно
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.calendarRepo.UpsertBusinessHours(txCtx, hours); err != nil {
			return fmt.Errorf("%w: UpdateCalendar - failed to save hours: %v", ErrInternal, err)
		}
		if err := s.calendarRepo.ReplaceHolidays(txCtx, tenantID, holidays); err != nil {
			return fmt.Errorf("%w: UpdateCalendar - failed to save holidays: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateCalendar: transaction failed for tenant=%d: %v", tenantID, err)
		return nil, err
	}

	s.logger.Info("UpdateCalendar: successfully updated calendar for tenant=%d", tenantID)
	return models.FromDomainCalendar(hours, holidays), nil
}

// Вспомогательные методы

// validateRequest валидирует запрос на обновление календаря
func (s *Service) validateRequest(req *models.UpdateCalendarRequest) error {
	if req.Timezone == "" {
		return fmt.Errorf("%w: timezone is required", ErrInvalidInput)
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, req.Timezone)
	}

	days := map[string]models.DayHoursDTO{
		"monday":    req.Monday,
		"tuesday":   req.Tuesday,
		"wednesday": req.Wednesday,
		"thursday":  req.Thursday,
		"friday":    req.Friday,
		"saturday":  req.Saturday,
		"sunday":    req.Sunday,
	}
	for name, day := range days {
		if err := s.validateDay(name, day); err != nil {
			return err
		}
	}

	if req.SaturdayOverride != nil {
		if err := s.validateDay("saturdayOverride", *req.SaturdayOverride); err != nil {
			return err
		}
	}
	if req.SundayOverride != nil {
		if err := s.validateDay("sundayOverride", *req.SundayOverride); err != nil {
			return err
		}
	}

	for _, h := range req.Holidays {
		if _, err := time.Parse(domain.DateFormat, h.Date); err != nil {
			return fmt.Errorf("%w: invalid holiday date %q", ErrInvalidInput, h.Date)
		}
	}

	return nil
}

// validateDay проверяет одно окно доступности:
// у включенного дня открытие должно быть строго раньше закрытия
func (s *Service) validateDay(name string, day models.DayHoursDTO) error {
	if !day.Enabled {
		return nil
	}

	d := day.ToDomainDay()
	if err := d.Open.Validate(); err != nil {
		return fmt.Errorf("%w: %s open: %v", ErrInvalidInput, name, err)
	}
	if err := d.Close.Validate(); err != nil {
		return fmt.Errorf("%w: %s close: %v", ErrInvalidInput, name, err)
	}
	if !d.Open.IsBefore(d.Close) {
		return fmt.Errorf("%w: %s: open %s must be before close %s", ErrInvalidWindow, name, d.Open, d.Close)
	}

	return nil
}
