package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	calendarRepo "github.com/avelir/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/avelir/CRM-SchedulingService/internal/service/calendar/models"
	"github.com/avelir/CRM-SchedulingService/pkg/types"
)

type fakeLogger struct{}

func (fakeLogger) Info(string, ...interface{})  {}
func (fakeLogger) Warn(string, ...interface{})  {}
func (fakeLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	hours    *domain.BusinessHours
	holidays []domain.Holiday

	upserted *domain.BusinessHours
	replaced []domain.Holiday
}

func (r *fakeRepo) GetBusinessHours(_ context.Context, _ int64) (*domain.BusinessHours, error) {
	if r.hours == nil {
		return nil, calendarRepo.ErrCalendarNotFound
	}
	return r.hours, nil
}

func (r *fakeRepo) ListHolidays(_ context.Context, _ int64) ([]domain.Holiday, error) {
	return r.holidays, nil
}

func (r *fakeRepo) UpsertBusinessHours(_ context.Context, hours *domain.BusinessHours) error {
	r.upserted = hours
	return nil
}

func (r *fakeRepo) ReplaceHolidays(_ context.Context, _ int64, holidays []domain.Holiday) error {
	r.replaced = holidays
	return nil
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func workday() models.DayHoursDTO {
	return models.DayHoursDTO{Enabled: true, Open: "09:00", Close: "18:00"}
}

func validUpdateRequest() *models.UpdateCalendarRequest {
	return &models.UpdateCalendarRequest{
		Timezone:  "Europe/Moscow",
		Monday:    workday(),
		Tuesday:   workday(),
		Wednesday: workday(),
		Thursday:  workday(),
		Friday:    workday(),
		Saturday:  models.DayHoursDTO{Enabled: false},
		Sunday:    models.DayHoursDTO{Enabled: false},
	}
}

func TestGetCalendar(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		hours := &domain.BusinessHours{TenantID: 1, Timezone: "Europe/Moscow"}
		hours.Days[time.Monday] = domain.DayHours{
			Enabled: true,
			Open:    types.TimeString("09:00"),
			Close:   types.TimeString("18:00"),
		}
		holidays := []domain.Holiday{
			{TenantID: 1, Date: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), Name: "Новый год"},
		}

		svc := NewService(&fakeRepo{hours: hours, holidays: holidays}, &fakeTxManager{}, fakeLogger{})

		resp, err := svc.GetCalendar(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Europe/Moscow", resp.Timezone)
		assert.True(t, resp.Monday.Enabled)
		assert.Equal(t, "09:00", resp.Monday.Open)
		require.Len(t, resp.Holidays, 1)
		assert.Equal(t, "2026-12-31", resp.Holidays[0].Date)
	})

	t.Run("not configured", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, &fakeTxManager{}, fakeLogger{})

		_, err := svc.GetCalendar(context.Background(), 1)
		assert.ErrorIs(t, err, ErrCalendarNotFound)
	})
}

func TestUpdateCalendar(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeRepo{}
		tx := &fakeTxManager{}
		svc := NewService(repo, tx, fakeLogger{})

		req := validUpdateRequest()
		req.BlockHolidays = true
		req.Holidays = []models.HolidayDTO{{Date: "2026-12-31", Name: "Новый год"}}
		req.SaturdayOverride = &models.DayHoursDTO{Enabled: true, Open: "10:00", Close: "14:00"}

		resp, err := svc.UpdateCalendar(context.Background(), 1, req)
		require.NoError(t, err)

		// Шаблон и праздники сохранены в одной транзакции
		assert.Equal(t, 1, tx.calls)
		require.NotNil(t, repo.upserted)
		assert.Equal(t, int64(1), repo.upserted.TenantID)
		assert.True(t, repo.upserted.BlockHolidays)
		require.NotNil(t, repo.upserted.SaturdayOverride)
		require.Len(t, repo.replaced, 1)

		// Праздник парсится в часовом поясе тенанта
		moscow, err := time.LoadLocation("Europe/Moscow")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, moscow), repo.replaced[0].Date)

		assert.Equal(t, "10:00", resp.SaturdayOverride.Open)
		assert.Equal(t, "2026-12-31", resp.Holidays[0].Date)
	})

	t.Run("missing timezone", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, &fakeTxManager{}, fakeLogger{})

		req := validUpdateRequest()
		req.Timezone = ""
		_, err := svc.UpdateCalendar(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, &fakeTxManager{}, fakeLogger{})

		req := validUpdateRequest()
		req.Timezone = "Mars/Olympus"
		_, err := svc.UpdateCalendar(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrInvalidTimezone)
	})

	t.Run("open not before close", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, &fakeTxManager{}, fakeLogger{})

		req := validUpdateRequest()
		req.Tuesday = models.DayHoursDTO{Enabled: true, Open: "18:00", Close: "09:00"}
		_, err := svc.UpdateCalendar(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("malformed window time", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, &fakeTxManager{}, fakeLogger{})

		req := validUpdateRequest()
		req.Friday = models.DayHoursDTO{Enabled: true, Open: "9am", Close: "18:00"}
		_, err := svc.UpdateCalendar(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("disabled day skips window validation", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, &fakeTxManager{}, fakeLogger{})

		req := validUpdateRequest()
		req.Sunday = models.DayHoursDTO{Enabled: false, Open: "", Close: ""}
		_, err := svc.UpdateCalendar(context.Background(), 1, req)
		require.NoError(t, err)
	})

	t.Run("bad holiday date", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo, &fakeTxManager{}, fakeLogger{})

		req := validUpdateRequest()
		req.Holidays = []models.HolidayDTO{{Date: "31.12.2026"}}
		_, err := svc.UpdateCalendar(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, repo.upserted)
	})

	t.Run("bad override window", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, &fakeTxManager{}, fakeLogger{})

		req := validUpdateRequest()
		req.SundayOverride = &models.DayHoursDTO{Enabled: true, Open: "12:00", Close: "12:00"}
		_, err := svc.UpdateCalendar(context.Background(), 1, req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}
