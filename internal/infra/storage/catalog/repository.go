package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/avelir/CRM-SchedulingService/internal/domain"
	"github.com/avelir/CRM-SchedulingService/pkg/dbmetrics"
	"github.com/avelir/CRM-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий каталога: услуги, специалисты, ресурсы
// и связи между ними
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var serviceColumns = []string{
	"id",
	"tenant_id",
	"name",
	"duration_minutes",
	"buffer_before_minutes",
	"buffer_after_minutes",
	"requires_resource",
	"is_active",
	"is_public",
	"created_at",
	"updated_at",
}

// GetService получает услугу тенанта по ID
func (r *Repository) GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build query: %v", ErrBuildQuery, err)
	}

	var svc domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID,
		&svc.TenantID,
		&svc.Name,
		&svc.DurationMinutes,
		&svc.BufferBeforeMinutes,
		&svc.BufferAfterMinutes,
		&svc.RequiresResource,
		&svc.IsActive,
		&svc.IsPublic,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan row: %v", ErrScanRow, err)
	}

	return &svc, nil
}

// GetProfessional получает специалиста тенанта по ID
func (r *Repository) GetProfessional(ctx context.Context, tenantID, professionalID int64) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "tenant_id", "name", "is_active", "created_at", "updated_at").
		From("professionals").
		Where(squirrel.Eq{"id": professionalID, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - build query: %v", ErrBuildQuery, err)
	}

	var p domain.Professional
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.TenantID,
		&p.Name,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - scan row: %v", ErrScanRow, err)
	}

	return &p, nil
}

// GetResource получает ресурс тенанта по ID
func (r *Repository) GetResource(ctx context.Context, tenantID, resourceID int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "tenant_id", "name", "is_active", "created_at", "updated_at").
		From("resources").
		Where(squirrel.Eq{"id": resourceID, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - build query: %v", ErrBuildQuery, err)
	}

	var res domain.Resource
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&res.TenantID,
		&res.Name,
		&res.IsActive,
		&res.CreatedAt,
		&res.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - scan row: %v", ErrScanRow, err)
	}

	return &res, nil
}

// ProfessionalPerformsService проверяет, что активный специалист
// привязан к услуге
func (r *Repository) ProfessionalPerformsService(ctx context.Context, tenantID, serviceID, professionalID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("service_professionals sp").
		Join("professionals p ON p.id = sp.professional_id").
		Where(squirrel.Eq{
			"sp.service_id":      serviceID,
			"sp.professional_id": professionalID,
			"p.tenant_id":        tenantID,
			"p.is_active":        true,
		}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ProfessionalPerformsService - build query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ProfessionalPerformsService - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// ResourceServesService проверяет, что активный ресурс привязан к услуге
func (r *Repository) ResourceServesService(ctx context.Context, tenantID, serviceID, resourceID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("service_resources sr").
		Join("resources res ON res.id = sr.resource_id").
		Where(squirrel.Eq{
			"sr.service_id":  serviceID,
			"sr.resource_id": resourceID,
			"res.tenant_id":  tenantID,
			"res.is_active":  true,
		}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ResourceServesService - build query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ResourceServesService - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// ListResourcesForService получает активные ресурсы услуги
func (r *Repository) ListResourcesForService(ctx context.Context, tenantID, serviceID int64) ([]domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("res.id", "res.tenant_id", "res.name", "res.is_active", "res.created_at", "res.updated_at").
		From("resources res").
		Join("service_resources sr ON sr.resource_id = res.id").
		Where(squirrel.Eq{
			"sr.service_id": serviceID,
			"res.tenant_id": tenantID,
			"res.is_active": true,
		}).
		OrderBy("res.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListResourcesForService - build query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListResourcesForService - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]domain.Resource, 0)
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(&res.ID, &res.TenantID, &res.Name, &res.IsActive, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListResourcesForService - scan row: %v", ErrScanRow, err)
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListResourcesForService - rows error: %v", ErrScanRow, err)
	}

	return resources, nil
}
