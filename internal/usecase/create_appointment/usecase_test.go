package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/internal/infra/events"
	"github.com/avelir/CRM-SchedulingService/internal/infra/storage/appointment"
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
	existing  []*domain.Appointment
	createErr error
	created   []*domain.Appointment
	nextID    int64
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	appt.ID = r.nextID
	r.created = append(r.created, appt)
	return appt, nil
}

func (r *fakeAppointmentRepo) ListLiveForRange(_ context.Context, _ int64, _, _ time.Time, _ domain.AssignmentTarget) ([]*domain.Appointment, error) {
	return r.existing, nil
}

type fakeCalendarRepo struct {
	hours    *domain.BusinessHours
	holidays []domain.Holiday
}

func (r *fakeCalendarRepo) GetBusinessHours(_ context.Context, _ int64) (*domain.BusinessHours, error) {
	return r.hours, nil
}

func (r *fakeCalendarRepo) ListHolidays(_ context.Context, _ int64) ([]domain.Holiday, error) {
	return r.holidays, nil
}

type fakeCatalogRepo struct {
	service      *domain.Service
	professional *domain.Professional
	resource     *domain.Resource
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

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLocker struct {
	held     bool
	err      error
	acquired []string
	released []string
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.acquired = append(l.acquired, key)
	return l.held, l.err
}

func (l *fakeLocker) Release(_ context.Context, key string) error {
	l.released = append(l.released, key)
	return nil
}

type fakePublisher struct {
	events []events.AppointmentEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event events.AppointmentEvent) error {
	p.events = append(p.events, event)
	return p.err
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

type fixture struct {
	uc        *UseCase
	apptRepo  *fakeAppointmentRepo
	locker    *fakeLocker
	publisher *fakePublisher
}

func newFixture(catRepo *fakeCatalogRepo, calRepo *fakeCalendarRepo, apptRepo *fakeAppointmentRepo, now time.Time) *fixture {
	locker := &fakeLocker{held: true}
	publisher := &fakePublisher{}

	uc := NewUseCase(apptRepo, calRepo, catRepo, fakeTxManager{}, locker, publisher, 30*time.Second, fakeLogger{})
	uc.timeProvider = fixedClock{now: now}

	return &fixture{uc: uc, apptRepo: apptRepo, locker: locker, publisher: publisher}
}

func validRequest(start time.Time) *Request {
	return &Request{
		TenantID:       1,
		ServiceID:      10,
		StartTime:      start,
		ProfessionalID: ptr.Ptr(int64(5)),
		ClientID:       ptr.Ptr(int64(100)),
		CreatedBy:      domain.CreatedByClient,
	}
}

func catalogWithProfessional() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		service:      activeService(),
		professional: &domain.Professional{ID: 5, TenantID: 1, IsActive: true},
		performs:     true,
	}
}

func TestExecute_Success(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	f := newFixture(catalogWithProfessional(), &fakeCalendarRepo{hours: allWeekHours()}, &fakeAppointmentRepo{}, now)

	resp, err := f.uc.Execute(context.Background(), validRequest(start))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, start, resp.StartTime)
	// Хранится только длительность услуги, без буферов
	assert.Equal(t, start.Add(time.Hour), resp.EndTime)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	assert.Equal(t, "Консультация", resp.ServiceName)

	// Удержание взято и отпущено, событие опубликовано
	require.Len(t, f.locker.acquired, 1)
	assert.Equal(t, f.locker.acquired, f.locker.released)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.TypeAppointmentCreated, f.publisher.events[0].EventType)
	assert.Equal(t, resp.PublicID, f.publisher.events[0].PublicID)
}

func TestExecute_UntargetedBooking(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	// Услуга без требования ресурса: запись без цели допустима
	catRepo := &fakeCatalogRepo{service: activeService()}
	f := newFixture(catRepo, &fakeCalendarRepo{hours: allWeekHours()}, &fakeAppointmentRepo{}, now)

	req := validRequest(start)
	req.ProfessionalID = nil
	req.ResourceID = nil

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	require.Len(t, f.apptRepo.created, 1)
	assert.Nil(t, f.apptRepo.created[0].ProfessionalID)
	assert.Nil(t, f.apptRepo.created[0].ResourceID)
}

func TestExecute_DurationOnlySpanStored(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)

	catRepo := catalogWithProfessional()
	catRepo.service.DurationMinutes = 30
	catRepo.service.BufferBeforeMinutes = 15
	catRepo.service.BufferAfterMinutes = 15

	f := newFixture(catRepo, &fakeCalendarRepo{hours: allWeekHours()}, &fakeAppointmentRepo{}, now)

	resp, err := f.uc.Execute(context.Background(), validRequest(start))
	require.NoError(t, err)

	// Футпринт слота 60 минут, но у записи хранится интервал услуги: 30 минут
	assert.Equal(t, 30*time.Minute, resp.EndTime.Sub(resp.StartTime))
}

func TestExecute_StartTimeInPast(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	f := newFixture(catalogWithProfessional(), &fakeCalendarRepo{hours: allWeekHours()}, &fakeAppointmentRepo{}, now)

	_, err := f.uc.Execute(context.Background(), validRequest(start))
	assert.ErrorIs(t, err, ErrStartTimeInPast)
}

func TestExecute_MisalignedStartTime(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	// 10:17 не совпадает ни с одним кандидатным слотом
	start := time.Date(2026, 9, 2, 10, 17, 0, 0, time.UTC)

	f := newFixture(catalogWithProfessional(), &fakeCalendarRepo{hours: allWeekHours()}, &fakeAppointmentRepo{}, now)

	_, err := f.uc.Execute(context.Background(), validRequest(start))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_TenantClosed(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	// 2026-09-06 — воскресенье
	start := time.Date(2026, 9, 6, 10, 0, 0, 0, time.UTC)

	hours := allWeekHours()
	hours.Days[time.Sunday].Enabled = false

	f := newFixture(catalogWithProfessional(), &fakeCalendarRepo{hours: hours}, &fakeAppointmentRepo{}, now)

	_, err := f.uc.Execute(context.Background(), validRequest(start))
	assert.ErrorIs(t, err, ErrTenantClosed)
}

func TestExecute_ConflictInTransaction(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	existing := &domain.Appointment{
		TenantID:       1,
		ProfessionalID: ptr.Ptr(int64(5)),
		StartTime:      time.Date(2026, 9, 2, 10, 30, 0, 0, time.UTC),
		EndTime:        time.Date(2026, 9, 2, 11, 30, 0, 0, time.UTC),
		Status:         domain.StatusScheduled,
	}

	f := newFixture(catalogWithProfessional(), &fakeCalendarRepo{hours: allWeekHours()},
		&fakeAppointmentRepo{existing: []*domain.Appointment{existing}}, now)

	_, err := f.uc.Execute(context.Background(), validRequest(start))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, f.apptRepo.created)
}

func TestExecute_HoldBusy(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	f := newFixture(catalogWithProfessional(), &fakeCalendarRepo{hours: allWeekHours()}, &fakeAppointmentRepo{}, now)
	f.locker.held = false

	_, err := f.uc.Execute(context.Background(), validRequest(start))
	assert.ErrorIs(t, err, ErrSlotTaken)
	// До транзакции дело не дошло
	assert.Empty(t, f.apptRepo.created)
}

func TestExecute_LockerFailureDoesNotBlock(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	f := newFixture(catalogWithProfessional(), &fakeCalendarRepo{hours: allWeekHours()}, &fakeAppointmentRepo{}, now)
	// Недоступность Redis не должна мешать записи
	f.locker.held = false
	f.locker.err = errors.New("connection refused")

	resp, err := f.uc.Execute(context.Background(), validRequest(start))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestExecute_UniqueIndexViolation(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	f := newFixture(catalogWithProfessional(), &fakeCalendarRepo{hours: allWeekHours()},
		&fakeAppointmentRepo{createErr: appointment.ErrSlotTaken}, now)

	_, err := f.uc.Execute(context.Background(), validRequest(start))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_ResourceRequired(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	svc := activeService()
	svc.RequiresResource = true

	f := newFixture(&fakeCatalogRepo{service: svc}, &fakeCalendarRepo{hours: allWeekHours()}, &fakeAppointmentRepo{}, now)

	req := validRequest(start)
	req.ProfessionalID = nil

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrResourceRequired)
}

func TestExecute_PublishFailureDoesNotFailBooking(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	f := newFixture(catalogWithProfessional(), &fakeCalendarRepo{hours: allWeekHours()}, &fakeAppointmentRepo{}, now)
	f.publisher.err = errors.New("broker unavailable")

	resp, err := f.uc.Execute(context.Background(), validRequest(start))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestExecute_Validation(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	f := newFixture(catalogWithProfessional(), &fakeCalendarRepo{hours: allWeekHours()}, &fakeAppointmentRepo{}, now)

	t.Run("both targets", func(t *testing.T) {
		req := validRequest(start)
		req.ResourceID = ptr.Ptr(int64(7))
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown created_by", func(t *testing.T) {
		req := validRequest(start)
		req.CreatedBy = "robot"
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero start time", func(t *testing.T) {
		req := validRequest(time.Time{})
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
