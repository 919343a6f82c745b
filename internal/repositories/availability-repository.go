package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"nutripae-rh/internal/entities"
	apperrors "nutripae-rh/pkg/errors"
	"nutripae-rh/pkg/utils"
)

const (
	availabilityTable        = "daily_availabilities"
	availabilitySelectFields = "a.id, a.employee_id, a.date, a.status_id, a.notes, a.created_at, a.updated_at, s.name"
	availabilityDetailFields = availabilitySelectFields + ", e.full_name, e.document_number, r.id, r.name"

	availabilityStatusFK   = "daily_availabilities_status_id_fkey"
	availabilityEmployeeFK = "daily_availabilities_employee_id_fkey"
)

type AvailabilityRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id int64) (*entities.DailyAvailability, error)
	FindByEmployeeAndDate(ctx context.Context, tx pgx.Tx, employeeID int64, date time.Time) (*entities.DailyAvailability, error)
	// ListByEmployee pages in the database: ORDER BY id with OFFSET skip and LIMIT limit.
	ListByEmployee(ctx context.Context, employeeID int64, skip, limit uint64) ([]entities.DailyAvailability, error)
	ListDetailed(ctx context.Context, filter entities.AvailabilityRangeFilter) ([]entities.AvailabilityDetails, error)
	Create(ctx context.Context, tx pgx.Tx, a entities.DailyAvailability) (int64, error)
	Update(ctx context.Context, tx pgx.Tx, a entities.DailyAvailability) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}

type availabilityRepository struct {
	storage Storage
	logger  *zap.Logger
}

func NewAvailabilityRepository(storage Storage, logger *zap.Logger) AvailabilityRepositoryInterface {
	return &availabilityRepository{storage: storage, logger: logger}
}

func (r *availabilityRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(availabilitySelectFields).
		From(availabilityTable + " a").
		Join("availability_statuses s ON s.id = a.status_id")
}

func availabilityScanTargets(a *entities.DailyAvailability, notes *sql.NullString, statusName *string) []interface{} {
	return []interface{}{&a.ID, &a.EmployeeID, &a.Date, &a.StatusID, notes, &a.CreatedAt, &a.UpdatedAt, statusName}
}

func scanAvailability(row pgx.Row) (*entities.DailyAvailability, error) {
	var (
		a          entities.DailyAvailability
		notes      sql.NullString
		statusName string
	)
	if err := row.Scan(availabilityScanTargets(&a, &notes, &statusName)...); err != nil {
		return nil, err
	}
	a.Notes = utils.NullStringToStrPtr(notes)
	a.Status = &entities.AvailabilityStatus{ID: a.StatusID, Name: statusName}
	return &a, nil
}

func (r *availabilityRepository) findOne(ctx context.Context, querier Querier, builder sq.SelectBuilder) (*entities.DailyAvailability, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build availability query: %w", err)
	}

	a, err := scanAvailability(querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan availability: %w", err)
	}
	return a, nil
}

func (r *availabilityRepository) FindByID(ctx context.Context, tx pgx.Tx, id int64) (*entities.DailyAvailability, error) {
	return r.findOne(ctx, querierFor(r.storage, tx), r.selectBuilder().Where(sq.Eq{"a.id": id}))
}

func (r *availabilityRepository) FindByEmployeeAndDate(ctx context.Context, tx pgx.Tx, employeeID int64, date time.Time) (*entities.DailyAvailability, error) {
	builder := r.selectBuilder().
		Where(sq.Eq{"a.employee_id": employeeID}).
		Where(sq.Eq{"a.date": date}).
		Limit(1)
	return r.findOne(ctx, querierFor(r.storage, tx), builder)
}

func (r *availabilityRepository) ListByEmployee(ctx context.Context, employeeID int64, skip, limit uint64) ([]entities.DailyAvailability, error) {
	query, args, err := r.selectBuilder().
		Where(sq.Eq{"a.employee_id": employeeID}).
		OrderBy("a.id").
		Offset(skip).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build availability list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list availabilities: %w", err)
	}
	defer rows.Close()

	result := make([]entities.DailyAvailability, 0)
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate availabilities: %w", err)
	}
	return result, nil
}

// ListDetailed returns availabilities in [StartDate, EndDate] joined with their employee and status,
// ordered by date and then employee name.
func (r *availabilityRepository) ListDetailed(ctx context.Context, filter entities.AvailabilityRangeFilter) ([]entities.AvailabilityDetails, error) {
	builder := psql.Select(availabilityDetailFields).
		From(availabilityTable + " a").
		Join("availability_statuses s ON s.id = a.status_id").
		Join("employees e ON e.id = a.employee_id").
		Join("operational_roles r ON r.id = e.operational_role_id").
		Where(sq.GtOrEq{"a.date": filter.StartDate}).
		Where(sq.LtOrEq{"a.date": filter.EndDate})
	if filter.EmployeeID != nil {
		builder = builder.Where(sq.Eq{"a.employee_id": *filter.EmployeeID})
	}

	query, args, err := builder.OrderBy("a.date ASC", "e.full_name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build detailed availability query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list detailed availabilities: %w", err)
	}
	defer rows.Close()

	result := make([]entities.AvailabilityDetails, 0)
	for rows.Next() {
		var (
			d          entities.AvailabilityDetails
			notes      sql.NullString
			statusName string
		)
		targets := availabilityScanTargets(&d.DailyAvailability, &notes, &statusName)
		targets = append(targets, &d.Employee.FullName, &d.Employee.DocumentNumber, &d.Employee.OperationalRole.ID, &d.Employee.OperationalRole.Name)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan detailed availability: %w", err)
		}
		d.Notes = utils.NullStringToStrPtr(notes)
		d.Status = &entities.AvailabilityStatus{ID: d.StatusID, Name: statusName}
		d.Employee.ID = d.EmployeeID
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate detailed availabilities: %w", err)
	}
	return result, nil
}

func (r *availabilityRepository) Create(ctx context.Context, tx pgx.Tx, a entities.DailyAvailability) (int64, error) {
	query, args, err := psql.Insert(availabilityTable).
		Columns("employee_id", "date", "status_id", "notes").
		Values(a.EmployeeID, a.Date, a.StatusID, a.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build availability insert: %w", err)
	}

	var id int64
	if err := querierFor(r.storage, tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, r.translateWriteError(err, a)
	}
	return id, nil
}

func (r *availabilityRepository) Update(ctx context.Context, tx pgx.Tx, a entities.DailyAvailability) error {
	query, args, err := psql.Update(availabilityTable).
		Set("date", a.Date).
		Set("status_id", a.StatusID).
		Set("notes", a.Notes).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build availability update: %w", err)
	}

	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return r.translateWriteError(err, a)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	query, args, err := psql.Delete(availabilityTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build availability delete: %w", err)
	}

	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete availability %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// translateWriteError turns constraint violations into domain errors. The (employee_id, date)
// unique constraint is the final word on duplicates, whatever the service checked before.
func (r *availabilityRepository) translateWriteError(err error, a entities.DailyAvailability) error {
	if _, ok := pgError(err, pgUniqueViolation); ok {
		return apperrors.Wrap(apperrors.KindConflict,
			fmt.Sprintf("Availability for this employee on %s already exists.", utils.FormatDate(a.Date)), err)
	}
	if pgErr, ok := pgError(err, pgForeignKeyViolation); ok {
		switch pgErr.ConstraintName {
		case availabilityEmployeeFK:
			return apperrors.Wrap(apperrors.KindNotFound, fmt.Sprintf("Employee with id %d not found.", a.EmployeeID), err)
		case availabilityStatusFK:
			return apperrors.Wrap(apperrors.KindNotFound, fmt.Sprintf("Availability status with id %d not found.", a.StatusID), err)
		default:
			return apperrors.Wrap(apperrors.KindNotFound, "Referenced record not found.", err)
		}
	}
	r.logger.Error("availability write failed", zap.Int64("employee_id", a.EmployeeID), zap.Error(err))
	return fmt.Errorf("failed to write availability: %w", err)
}
