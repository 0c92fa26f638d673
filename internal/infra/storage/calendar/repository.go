package calendar

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/pkg/dbmetrics"
	"github.com/avelir/CRM-SchedulingService/pkg/psqlbuilder"
	"github.com/avelir/CRM-SchedulingService/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий настроек календаря тенанта:
// недельный шаблон, weekend-переопределения, праздники, часовой пояс
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusinessHours собирает полный календарь тенанта: строку настроек
// и семь строк недельного шаблона
func (r *Repository) GetBusinessHours(ctx context.Context, tenantID int64) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"tenant_id",
		"timezone",
		"block_holidays",
		"saturday_enabled",
		"saturday_open",
		"saturday_close",
		"sunday_enabled",
		"sunday_open",
		"sunday_close",
		"created_at",
		"updated_at",
	).
		From("calendar_settings").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build settings query: %v", ErrBuildQuery, err)
	}

	var hours domain.BusinessHours
	var satEnabled, sunEnabled sql.NullBool
	var satOpen, satClose, sunOpen, sunClose types.TimeString
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hours.TenantID,
		&hours.Timezone,
		&hours.BlockHolidays,
		&satEnabled,
		&satOpen,
		&satClose,
		&sunEnabled,
		&sunOpen,
		&sunClose,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCalendarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - scan settings: %v", ErrScanRow, err)
	}

	hours.CreatedAt = createdAt.Time
	hours.UpdatedAt = updatedAt.Time

	// Переопределение существует, только если его флаг не NULL
	if satEnabled.Valid {
		hours.SaturdayOverride = &domain.DayHours{Enabled: satEnabled.Bool, Open: satOpen, Close: satClose}
	}
	if sunEnabled.Valid {
		hours.SundayOverride = &domain.DayHours{Enabled: sunEnabled.Bool, Open: sunOpen, Close: sunClose}
	}

	if err := r.loadWeekTemplate(ctx, executor, &hours); err != nil {
		return nil, err
	}

	return &hours, nil
}

func (r *Repository) loadWeekTemplate(ctx context.Context, executor DBExecutor, hours *domain.BusinessHours) error {
	query, args, err := psqlbuilder.Select(
		"weekday",
		"enabled",
		"open_time",
		"close_time",
	).
		From("business_hours").
		Where(squirrel.Eq{"tenant_id": hours.TenantID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadWeekTemplate - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadWeekTemplate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day domain.DayHours

		if err := rows.Scan(&weekday, &day.Enabled, &day.Open, &day.Close); err != nil {
			return fmt.Errorf("%w: loadWeekTemplate - scan row: %v", ErrScanRow, err)
		}
		if weekday >= 0 && weekday < 7 {
			hours.Days[weekday] = day
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadWeekTemplate - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// ListHolidays получает праздники тенанта
func (r *Repository) ListHolidays(ctx context.Context, tenantID int64) ([]domain.Holiday, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("tenant_id", "holiday_date", "name").
		From("holidays").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("holiday_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holidays := make([]domain.Holiday, 0)
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.TenantID, &h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("%w: ListHolidays - scan row: %v", ErrScanRow, err)
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListHolidays - rows error: %v", ErrScanRow, err)
	}

	return holidays, nil
}

// UpsertBusinessHours сохраняет настройки календаря и недельный шаблон.
// Предполагается вызов внутри транзакции (см. service/calendar)
func (r *Repository) UpsertBusinessHours(ctx context.Context, hours *domain.BusinessHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var satEnabled, sunEnabled interface{}
	var satOpen, satClose, sunOpen, sunClose interface{}
	if hours.SaturdayOverride != nil {
		satEnabled = hours.SaturdayOverride.Enabled
		satOpen = hours.SaturdayOverride.Open
		satClose = hours.SaturdayOverride.Close
	}
	if hours.SundayOverride != nil {
		sunEnabled = hours.SundayOverride.Enabled
		sunOpen = hours.SundayOverride.Open
		sunClose = hours.SundayOverride.Close
	}

	query, args, err := psqlbuilder.Insert("calendar_settings").
		Columns(
			"tenant_id",
			"timezone",
			"block_holidays",
			"saturday_enabled",
			"saturday_open",
			"saturday_close",
			"sunday_enabled",
			"sunday_open",
			"sunday_close",
		).
		Values(
			hours.TenantID,
			hours.Timezone,
			hours.BlockHolidays,
			satEnabled,
			satOpen,
			satClose,
			sunEnabled,
			sunOpen,
			sunClose,
		).
		Suffix(`ON CONFLICT (tenant_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			block_holidays = EXCLUDED.block_holidays,
			saturday_enabled = EXCLUDED.saturday_enabled,
			saturday_open = EXCLUDED.saturday_open,
			saturday_close = EXCLUDED.saturday_close,
			sunday_enabled = EXCLUDED.sunday_enabled,
			sunday_open = EXCLUDED.sunday_open,
			sunday_close = EXCLUDED.sunday_close,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpsertBusinessHours - build settings upsert: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpsertBusinessHours - execute settings upsert: %v", ErrExecQuery, err)
	}

	return r.replaceWeekTemplate(ctx, executor, hours)
}

func (r *Repository) replaceWeekTemplate(ctx context.Context, executor DBExecutor, hours *domain.BusinessHours) error {
	query, args, err := psqlbuilder.Delete("business_hours").
		Where(squirrel.Eq{"tenant_id": hours.TenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWeekTemplate - build delete: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceWeekTemplate - execute delete: %v", ErrExecQuery, err)
	}

	insertBuilder := psqlbuilder.Insert("business_hours").
		Columns("tenant_id", "weekday", "enabled", "open_time", "close_time")

	for weekday, day := range hours.Days {
		var open, close interface{}
		if !day.Open.IsZero() {
			open = day.Open
		}
		if !day.Close.IsZero() {
			close = day.Close
		}
		insertBuilder = insertBuilder.Values(hours.TenantID, weekday, day.Enabled, open, close)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceWeekTemplate - build insert: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceWeekTemplate - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ReplaceHolidays заменяет список праздников тенанта
func (r *Repository) ReplaceHolidays(ctx context.Context, tenantID int64, holidays []domain.Holiday) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("holidays").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceHolidays - build delete: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceHolidays - execute delete: %v", ErrExecQuery, err)
	}

	if len(holidays) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("holidays").
		Columns("tenant_id", "holiday_date", "name")
	for _, h := range holidays {
		insertBuilder = insertBuilder.Values(tenantID, h.Date, h.Name)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceHolidays - build insert: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceHolidays - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
