package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/catalog"
	"github.com/avelir/CRM-SchedulingService/pkg/ptr"
	"github.com/avelir/CRM-SchedulingService/pkg/types"
)

type fakeLogger struct{}

func (fakeLogger) Info(string, ...interface{})  {}
func (fakeLogger) Warn(string, ...interface{})  {}
func (fakeLogger) Error(string, ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeAppointmentRepo struct {
	appointments []*domain.Appointment
	byTarget     map[string][]*domain.Appointment
	err          error
}

func (r *fakeAppointmentRepo) ListLiveForRange(_ context.Context, _ int64, _, _ time.Time, target domain.AssignmentTarget) ([]*domain.Appointment, error) {
	if r.byTarget != nil {
		return r.byTarget[target.String()], r.err
	}
	return r.appointments, r.err
}

type fakeCalendarRepo struct {
	hours    *domain.BusinessHours
	hoursErr error
	holidays []domain.Holiday
}

func (r *fakeCalendarRepo) GetBusinessHours(_ context.Context, _ int64) (*domain.BusinessHours, error) {
	if r.hoursErr != nil {
		return nil, r.hoursErr
	}
	return r.hours, nil
}

func (r *fakeCalendarRepo) ListHolidays(_ context.Context, _ int64) ([]domain.Holiday, error) {
	return r.holidays, nil
}

type fakeCatalogRepo struct {
	service      *domain.Service
	professional *domain.Professional
	resource     *domain.Resource
	resources    []domain.Resource
	performs     bool
	serves       bool
}

func (r *fakeCatalogRepo) GetService(_ context.Context, _, _ int64) (*domain.Service, error) {
	if r.service == nil {
		return nil, catalog.ErrServiceNotFound
	}
	return r.service, nil
}

func (r *fakeCatalogRepo) GetProfessional(_ context.Context, _, _ int64) (*domain.Professional, error) {
	if r.professional == nil {
		return nil, catalog.ErrProfessionalNotFound
	}
	return r.professional, nil
}

func (r *fakeCatalogRepo) GetResource(_ context.Context, _, _ int64) (*domain.Resource, error) {
	if r.resource == nil {
		return nil, catalog.ErrResourceNotFound
	}
	return r.resource, nil
}

func (r *fakeCatalogRepo) ProfessionalPerformsService(_ context.Context, _, _, _ int64) (bool, error) {
	return r.performs, nil
}

func (r *fakeCatalogRepo) ResourceServesService(_ context.Context, _, _, _ int64) (bool, error) {
	return r.serves, nil
}

func (r *fakeCatalogRepo) ListResourcesForService(_ context.Context, _, _ int64) ([]domain.Resource, error) {
	return r.resources, nil
}

func allWeekHours() *domain.BusinessHours {
	hours := &domain.BusinessHours{
		TenantID: 1,
		Timezone: "UTC",
	}
	for i := range hours.Days {
		hours.Days[i] = domain.DayHours{
			Enabled: true,
			Open:    types.TimeString("09:00"),
			Close:   types.TimeString("18:00"),
		}
	}
	return hours
}

func activeService() *domain.Service {
	return &domain.Service{
		ID:              10,
		TenantID:        1,
		Name:            "Консультация",
		DurationMinutes: 60,
		IsActive:        true,
	}
}

func newTestUseCase(apptRepo *fakeAppointmentRepo, calRepo *fakeCalendarRepo, catRepo *fakeCatalogRepo, now time.Time) *UseCase {
	uc := NewUseCase(apptRepo, calRepo, catRepo, fakeLogger{})
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func TestExecute_FullOpenDay(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeCalendarRepo{hours: allWeekHours()},
		&fakeCatalogRepo{service: activeService()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
	require.NoError(t, err)

	// 09:00-18:00 с часовым шагом: 9 слотов, все доступны
	require.Len(t, resp.Slots, 9)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
	}
	assert.Equal(t, time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC), resp.Slots[0].StartTime)
	assert.Equal(t, time.Date(2026, 9, 2, 17, 0, 0, 0, time.UTC), resp.Slots[8].StartTime)
	assert.Equal(t, "UTC", resp.Timezone)
}

func TestExecute_ConflictMarksSlotUnavailable(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	existing := &domain.Appointment{
		TenantID:       1,
		ProfessionalID: ptr.Ptr(int64(5)),
		StartTime:      time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
		Status:         domain.StatusConfirmed,
	}

	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: []*domain.Appointment{existing}},
		&fakeCalendarRepo{hours: allWeekHours()},
		&fakeCatalogRepo{
			service:      activeService(),
			professional: &domain.Professional{ID: 5, TenantID: 1, IsActive: true},
			performs:     true,
		},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:       1,
		ServiceID:      10,
		Date:           date,
		ProfessionalID: ptr.Ptr(int64(5)),
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 9)

	for _, slot := range resp.Slots {
		if slot.StartTime.Hour() == 10 {
			assert.False(t, slot.Available, "занятый слот должен быть недоступен")
		} else {
			assert.True(t, slot.Available, "слот %s должен быть доступен", slot.StartTime)
		}
	}
}

func TestExecute_PastSlotsUnavailable(t *testing.T) {
	// Запрос на сегодня в середине дня: утренние слоты уже прошли
	now := time.Date(2026, 9, 2, 12, 30, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeCalendarRepo{hours: allWeekHours()},
		&fakeCatalogRepo{service: activeService()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
	require.NoError(t, err)

	for _, slot := range resp.Slots {
		if slot.StartTime.Before(now) {
			assert.False(t, slot.Available, "прошедший слот %s должен быть недоступен", slot.StartTime)
		} else {
			assert.True(t, slot.Available)
		}
	}
}

func TestExecute_ClosedDayReturnsEmpty(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	// 2026-09-06 — воскресенье
	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

	hours := allWeekHours()
	hours.Days[time.Sunday].Enabled = false

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeCalendarRepo{hours: hours},
		&fakeCatalogRepo{service: activeService()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: sunday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_HolidayReturnsEmpty(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	hours := allWeekHours()
	hours.BlockHolidays = true

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeCalendarRepo{
			hours:    hours,
			holidays: []domain.Holiday{{TenantID: 1, Date: date, Name: "Выходной"}},
		},
		&fakeCatalogRepo{service: activeService()},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ServiceErrors(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	t.Run("not found", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCalendarRepo{hours: allWeekHours()}, &fakeCatalogRepo{}, now)
		_, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("inactive", func(t *testing.T) {
		svc := activeService()
		svc.IsActive = false
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCalendarRepo{hours: allWeekHours()}, &fakeCatalogRepo{service: svc}, now)
		_, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
		assert.ErrorIs(t, err, ErrServiceInactive)
	})
}

func TestExecute_TargetResolution(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	t.Run("professional not found", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCalendarRepo{hours: allWeekHours()},
			&fakeCatalogRepo{service: activeService()}, now)
		_, err := uc.Execute(context.Background(), &Request{
			TenantID: 1, ServiceID: 10, Date: date, ProfessionalID: ptr.Ptr(int64(5)),
		})
		assert.ErrorIs(t, err, ErrProfessionalNotFound)
	})

	t.Run("professional does not perform service", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCalendarRepo{hours: allWeekHours()},
			&fakeCatalogRepo{
				service:      activeService(),
				professional: &domain.Professional{ID: 5, TenantID: 1, IsActive: true},
				performs:     false,
			}, now)
		_, err := uc.Execute(context.Background(), &Request{
			TenantID: 1, ServiceID: 10, Date: date, ProfessionalID: ptr.Ptr(int64(5)),
		})
		assert.ErrorIs(t, err, ErrProfessionalNotAvailable)
	})

	t.Run("inactive resource", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCalendarRepo{hours: allWeekHours()},
			&fakeCatalogRepo{
				service:  activeService(),
				resource: &domain.Resource{ID: 7, TenantID: 1, IsActive: false},
				serves:   true,
			}, now)
		_, err := uc.Execute(context.Background(), &Request{
			TenantID: 1, ServiceID: 10, Date: date, ResourceID: ptr.Ptr(int64(7)),
		})
		assert.ErrorIs(t, err, ErrResourceNotAvailable)
	})

	t.Run("both targets rejected", func(t *testing.T) {
		uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeCalendarRepo{hours: allWeekHours()},
			&fakeCatalogRepo{service: activeService()}, now)
		_, err := uc.Execute(context.Background(), &Request{
			TenantID: 1, ServiceID: 10, Date: date,
			ProfessionalID: ptr.Ptr(int64(5)), ResourceID: ptr.Ptr(int64(7)),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_CalendarNotConfigured(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(&fakeAppointmentRepo{},
		&fakeCalendarRepo{hoursErr: calendar.ErrCalendarNotFound},
		&fakeCatalogRepo{service: activeService()}, now)

	_, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
	assert.ErrorIs(t, err, ErrCalendarNotConfigured)
}

func TestExecute_BuffersWidenFootprint(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	svc := activeService()
	svc.DurationMinutes = 30
	svc.BufferBeforeMinutes = 15
	svc.BufferAfterMinutes = 15

	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeCalendarRepo{hours: allWeekHours()},
		&fakeCatalogRepo{service: svc},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)

	// Футпринт слота — длительность плюс оба буфера
	first := resp.Slots[0]
	assert.Equal(t, time.Hour, first.EndTime.Sub(first.StartTime))
}

func TestExecute_ResourceRequiredAggregatesLinkedResources(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	svc := activeService()
	svc.RequiresResource = true

	busyAtTen := func(resourceID int64) *domain.Appointment {
		return &domain.Appointment{
			TenantID:   1,
			ResourceID: ptr.Ptr(resourceID),
			StartTime:  time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC),
			EndTime:    time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
			Status:     domain.StatusConfirmed,
		}
	}

	t.Run("slot free while any resource is free", func(t *testing.T) {
		// Ресурс 7 занят в 10:00, ресурс 8 свободен весь день
		apptRepo := &fakeAppointmentRepo{byTarget: map[string][]*domain.Appointment{
			"resource:7": {busyAtTen(7)},
		}}
		catRepo := &fakeCatalogRepo{
			service: svc,
			resources: []domain.Resource{
				{ID: 7, TenantID: 1, IsActive: true},
				{ID: 8, TenantID: 1, IsActive: true},
			},
		}

		uc := newTestUseCase(apptRepo, &fakeCalendarRepo{hours: allWeekHours()}, catRepo, now)

		resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
		require.NoError(t, err)
		require.Len(t, resp.Slots, 9)
		for _, slot := range resp.Slots {
			assert.True(t, slot.Available, "слот %s должен быть доступен", slot.StartTime)
		}
	})

	t.Run("slot busy when every resource is busy", func(t *testing.T) {
		apptRepo := &fakeAppointmentRepo{byTarget: map[string][]*domain.Appointment{
			"resource:7": {busyAtTen(7)},
			"resource:8": {busyAtTen(8)},
		}}
		catRepo := &fakeCatalogRepo{
			service: svc,
			resources: []domain.Resource{
				{ID: 7, TenantID: 1, IsActive: true},
				{ID: 8, TenantID: 1, IsActive: true},
			},
		}

		uc := newTestUseCase(apptRepo, &fakeCalendarRepo{hours: allWeekHours()}, catRepo, now)

		resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
		require.NoError(t, err)
		require.Len(t, resp.Slots, 9)
		for _, slot := range resp.Slots {
			if slot.StartTime.Hour() == 10 {
				assert.False(t, slot.Available)
			} else {
				assert.True(t, slot.Available)
			}
		}
	})
}

func TestExecute_ResourceRequiredWithoutLinkedResources(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	svc := activeService()
	svc.RequiresResource = true

	// Услуга требует ресурс, но ни один не привязан: доступности нет
	uc := newTestUseCase(
		&fakeAppointmentRepo{},
		&fakeCalendarRepo{hours: allWeekHours()},
		&fakeCatalogRepo{service: svc},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 10, Date: date})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}
