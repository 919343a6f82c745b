package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"nutripae-rh/internal/entities"
	apperrors "nutripae-rh/pkg/errors"
	"nutripae-rh/pkg/utils"
)

const (
	employeeTable        = "employees"
	employeeSelectFields = `e.id, e.document_number, e.full_name, e.birth_date, e.hire_date,
		e.document_type_id, e.gender_id, e.operational_role_id,
		e.identity_document_path, e.address, e.phone_number, e.personal_email,
		e.emergency_contact_name, e.emergency_contact_phone, e.emergency_contact_relation,
		e.is_active, e.termination_date, e.reason_for_termination, e.created_at, e.updated_at,
		dt.name, g.name, r.name, r.description`
)

// employeeForeignKeys maps FK constraint names to the lookup they point at.
var employeeForeignKeys = map[string]string{
	"employees_document_type_id_fkey":    "Document type",
	"employees_gender_id_fkey":           "Gender",
	"employees_operational_role_id_fkey": "Operational role",
}

type EmployeeRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id int64) (*entities.Employee, error)
	FindByDocumentNumber(ctx context.Context, tx pgx.Tx, documentNumber string) (*entities.Employee, error)
	GetAll(ctx context.Context, filter entities.EmployeeFilter) ([]entities.Employee, error)
	Create(ctx context.Context, tx pgx.Tx, e entities.Employee) (int64, error)
	Update(ctx context.Context, tx pgx.Tx, e entities.Employee) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}

type employeeRepository struct {
	storage Storage
	logger  *zap.Logger
}

func NewEmployeeRepository(storage Storage, logger *zap.Logger) EmployeeRepositoryInterface {
	return &employeeRepository{storage: storage, logger: logger}
}

func (r *employeeRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(employeeSelectFields).
		From(employeeTable + " e").
		Join("document_types dt ON dt.id = e.document_type_id").
		Join("genders g ON g.id = e.gender_id").
		Join("operational_roles r ON r.id = e.operational_role_id")
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var (
		e                                          entities.Employee
		documentPath, address, phone, email        sql.NullString
		contactName, contactPhone, contactRelation sql.NullString
		terminationReason, roleDescription         sql.NullString
		terminationDate                            sql.NullTime
		documentTypeName, genderName, roleName     string
	)

	err := row.Scan(
		&e.ID, &e.DocumentNumber, &e.FullName, &e.BirthDate, &e.HireDate,
		&e.DocumentTypeID, &e.GenderID, &e.OperationalRoleID,
		&documentPath, &address, &phone, &email,
		&contactName, &contactPhone, &contactRelation,
		&e.IsActive, &terminationDate, &terminationReason, &e.CreatedAt, &e.UpdatedAt,
		&documentTypeName, &genderName, &roleName, &roleDescription,
	)
	if err != nil {
		return nil, err
	}

	e.IdentityDocumentPath = utils.NullStringToStrPtr(documentPath)
	e.Address = utils.NullStringToStrPtr(address)
	e.PhoneNumber = utils.NullStringToStrPtr(phone)
	e.PersonalEmail = utils.NullStringToStrPtr(email)
	e.EmergencyContactName = utils.NullStringToStrPtr(contactName)
	e.EmergencyContactPhone = utils.NullStringToStrPtr(contactPhone)
	e.EmergencyContactRelation = utils.NullStringToStrPtr(contactRelation)
	e.TerminationDate = utils.NullTimeToTimePtr(terminationDate)
	e.ReasonForTermination = utils.NullStringToStrPtr(terminationReason)

	e.DocumentType = &entities.DocumentType{ID: e.DocumentTypeID, Name: documentTypeName}
	e.Gender = &entities.Gender{ID: e.GenderID, Name: genderName}
	e.OperationalRole = &entities.OperationalRole{
		ID:          e.OperationalRoleID,
		Name:        roleName,
		Description: utils.NullStringToStrPtr(roleDescription),
	}

	return &e, nil
}

func (r *employeeRepository) findOne(ctx context.Context, querier Querier, column string, value interface{}) (*entities.Employee, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{column: value}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build employee query: %w", err)
	}

	e, err := scanEmployee(querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepository) FindByID(ctx context.Context, tx pgx.Tx, id int64) (*entities.Employee, error) {
	return r.findOne(ctx, querierFor(r.storage, tx), "e.id", id)
}

func (r *employeeRepository) FindByDocumentNumber(ctx context.Context, tx pgx.Tx, documentNumber string) (*entities.Employee, error) {
	return r.findOne(ctx, querierFor(r.storage, tx), "e.document_number", documentNumber)
}

func (r *employeeRepository) GetAll(ctx context.Context, filter entities.EmployeeFilter) ([]entities.Employee, error) {
	builder := r.selectBuilder()
	if filter.Search != "" {
		builder = builder.Where(sq.ILike{"e.full_name": "%" + filter.Search + "%"})
	}
	if filter.OnlyActive != nil {
		builder = builder.Where(sq.Eq{"e.is_active": *filter.OnlyActive})
	}
	builder = builder.OrderBy("e.id").Offset(filter.Skip)
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build employee list query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]entities.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

func (r *employeeRepository) Create(ctx context.Context, tx pgx.Tx, e entities.Employee) (int64, error) {
	query, args, err := psql.Insert(employeeTable).
		Columns(
			"document_number", "full_name", "birth_date", "hire_date",
			"document_type_id", "gender_id", "operational_role_id",
			"identity_document_path", "address", "phone_number", "personal_email",
			"emergency_contact_name", "emergency_contact_phone", "emergency_contact_relation",
			"is_active",
		).
		Values(
			e.DocumentNumber, e.FullName, e.BirthDate, e.HireDate,
			e.DocumentTypeID, e.GenderID, e.OperationalRoleID,
			e.IdentityDocumentPath, e.Address, e.PhoneNumber, e.PersonalEmail,
			e.EmergencyContactName, e.EmergencyContactPhone, e.EmergencyContactRelation,
			e.IsActive,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build employee insert: %w", err)
	}

	var id int64
	if err := querierFor(r.storage, tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, r.translateWriteError(err, e)
	}
	return id, nil
}

func (r *employeeRepository) Update(ctx context.Context, tx pgx.Tx, e entities.Employee) error {
	query, args, err := psql.Update(employeeTable).
		Set("document_number", e.DocumentNumber).
		Set("full_name", e.FullName).
		Set("birth_date", e.BirthDate).
		Set("hire_date", e.HireDate).
		Set("document_type_id", e.DocumentTypeID).
		Set("gender_id", e.GenderID).
		Set("operational_role_id", e.OperationalRoleID).
		Set("identity_document_path", e.IdentityDocumentPath).
		Set("address", e.Address).
		Set("phone_number", e.PhoneNumber).
		Set("personal_email", e.PersonalEmail).
		Set("emergency_contact_name", e.EmergencyContactName).
		Set("emergency_contact_phone", e.EmergencyContactPhone).
		Set("emergency_contact_relation", e.EmergencyContactRelation).
		Set("is_active", e.IsActive).
		Set("termination_date", e.TerminationDate).
		Set("reason_for_termination", e.ReasonForTermination).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build employee update: %w", err)
	}

	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return r.translateWriteError(err, e)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	query, args, err := psql.Delete(employeeTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build employee delete: %w", err)
	}

	tag, err := querierFor(r.storage, tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *employeeRepository) translateWriteError(err error, e entities.Employee) error {
	if _, ok := pgError(err, pgUniqueViolation); ok {
		return apperrors.Wrap(apperrors.KindConflict,
			fmt.Sprintf("Employee with document number %s already exists.", e.DocumentNumber), err)
	}
	if pgErr, ok := pgError(err, pgForeignKeyViolation); ok {
		label, known := employeeForeignKeys[pgErr.ConstraintName]
		if !known {
			label = "Referenced record"
		}
		return apperrors.Wrap(apperrors.KindNotFound, label+" not found.", err)
	}
	r.logger.Error("employee write failed", zap.Int64("employee_id", e.ID), zap.Error(err))
	return fmt.Errorf("failed to write employee: %w", err)
}
