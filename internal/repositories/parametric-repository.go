package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"nutripae-rh/internal/entities"
	"nutripae-rh/pkg/utils"
)

// Catalog names one of the id/name lookup tables. Only these values ever reach SQL.
type Catalog string

const (
	CatalogDocumentTypes        Catalog = "document_types"
	CatalogGenders              Catalog = "genders"
	CatalogAvailabilityStatuses Catalog = "availability_statuses"

	operationalRoleTable = "operational_roles"
)

func (c Catalog) Valid() bool {
	switch c {
	case CatalogDocumentTypes, CatalogGenders, CatalogAvailabilityStatuses:
		return true
	}
	return false
}

type ParametricRepositoryInterface interface {
	ListCatalog(ctx context.Context, catalog Catalog, limit uint64) ([]entities.CatalogItem, error)
	ListOperationalRolesWithCount(ctx context.Context, limit uint64) ([]entities.OperationalRoleWithCount, error)
}

type parametricRepository struct {
	storage Storage
	logger  *zap.Logger
}

func NewParametricRepository(storage Storage, logger *zap.Logger) ParametricRepositoryInterface {
	return &parametricRepository{storage: storage, logger: logger}
}

func (r *parametricRepository) ListCatalog(ctx context.Context, catalog Catalog, limit uint64) ([]entities.CatalogItem, error) {
	if !catalog.Valid() {
		return nil, fmt.Errorf("unknown catalog %q", catalog)
	}

	query, args, err := psql.Select("id", "name").
		From(string(catalog)).
		OrderBy("id").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s query: %w", catalog, err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", catalog, err)
	}
	defer rows.Close()

	items := make([]entities.CatalogItem, 0)
	for rows.Next() {
		var item entities.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", catalog, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", catalog, err)
	}
	return items, nil
}

func (r *parametricRepository) ListOperationalRolesWithCount(ctx context.Context, limit uint64) ([]entities.OperationalRoleWithCount, error) {
	query, args, err := psql.Select("r.id", "r.name", "r.description", "COUNT(e.id) AS employee_count").
		From(operationalRoleTable + " r").
		LeftJoin("employees e ON e.operational_role_id = r.id").
		GroupBy("r.id", "r.name", "r.description").
		OrderBy("r.id").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build operational roles query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list operational roles: %w", err)
	}
	defer rows.Close()

	roles := make([]entities.OperationalRoleWithCount, 0)
	for rows.Next() {
		var (
			role        entities.OperationalRoleWithCount
			description sql.NullString
		)
		if err := rows.Scan(&role.ID, &role.Name, &description, &role.EmployeeCount); err != nil {
			return nil, fmt.Errorf("failed to scan operational role: %w", err)
		}
		role.Description = utils.NullStringToStrPtr(description)
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate operational roles: %w", err)
	}
	return roles, nil
}
