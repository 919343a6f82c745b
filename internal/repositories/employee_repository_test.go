package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutripae-rh/internal/entities"
	apperrors "nutripae-rh/pkg/errors"
)

var employeeColumns = []string{
	"id", "document_number", "full_name", "birth_date", "hire_date",
	"document_type_id", "gender_id", "operational_role_id",
	"identity_document_path", "address", "phone_number", "personal_email",
	"emergency_contact_name", "emergency_contact_phone", "emergency_contact_relation",
	"is_active", "termination_date", "reason_for_termination", "created_at", "updated_at",
	"document_type_name", "gender_name", "role_name", "role_description",
}

func employeeRow(rows *pgxmock.Rows, id int64, name string, active bool) *pgxmock.Rows {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var terminated, reason interface{}
	if !active {
		terminated = time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
		reason = "Renuncia"
	}
	return rows.AddRow(
		id, "10203040", name, time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC),
		int64(1), int64(2), int64(3),
		nil, "Calle 1", "+57 3001234567", nil,
		nil, nil, nil,
		active, terminated, reason, now, now,
		"Cédula de Ciudadanía (CC)", "Femenino", "Conductor", nil,
	)
}

func newEmployeeRepoMock(t *testing.T) (pgxmock.PgxPoolIface, EmployeeRepositoryInterface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewEmployeeRepository(mock, zap.NewNop())
}

func TestEmployeeRepository_FindByID(t *testing.T) {
	mock, repo := newEmployeeRepoMock(t)

	mock.ExpectQuery(`SELECT .+ FROM employees e JOIN document_types dt .+ WHERE e.id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(employeeRow(pgxmock.NewRows(employeeColumns), 7, "Ana Pérez", true))

	e, err := repo.FindByID(context.Background(), nil, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), e.ID)
	assert.Equal(t, "Ana Pérez", e.FullName)
	assert.True(t, e.IsActive)
	assert.Nil(t, e.TerminationDate)
	assert.Nil(t, e.PersonalEmail)
	require.NotNil(t, e.Address)
	assert.Equal(t, "Calle 1", *e.Address)
	assert.Equal(t, "Conductor", e.OperationalRole.Name)
	assert.Equal(t, int64(3), e.OperationalRole.ID)
	assert.Equal(t, "Femenino", e.Gender.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_FindByID_Inactive(t *testing.T) {
	mock, repo := newEmployeeRepoMock(t)

	mock.ExpectQuery(`FROM employees e`).
		WithArgs(int64(8)).
		WillReturnRows(employeeRow(pgxmock.NewRows(employeeColumns), 8, "Luis Gómez", false))

	e, err := repo.FindByID(context.Background(), nil, 8)

	require.NoError(t, err)
	assert.False(t, e.IsActive)
	require.NotNil(t, e.TerminationDate)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), *e.TerminationDate)
	assert.Equal(t, "Renuncia", *e.ReasonForTermination)
}

func TestEmployeeRepository_FindByID_NotFound(t *testing.T) {
	mock, repo := newEmployeeRepoMock(t)

	mock.ExpectQuery(`FROM employees e`).
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(employeeColumns))

	_, err := repo.FindByID(context.Background(), nil, 99)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_GetAll_WithFilters(t *testing.T) {
	mock, repo := newEmployeeRepoMock(t)
	active := true

	rows := pgxmock.NewRows(employeeColumns)
	employeeRow(rows, 1, "Ana Pérez", true)
	employeeRow(rows, 2, "Ana María Ruiz", true)

	mock.ExpectQuery(`WHERE e.full_name ILIKE \$1 AND e.is_active = \$2 ORDER BY e.id LIMIT 50 OFFSET 10`).
		WithArgs("%Ana%", true).
		WillReturnRows(rows)

	list, err := repo.GetAll(context.Background(), entities.EmployeeFilter{Skip: 10, Limit: 50, Search: "Ana", OnlyActive: &active})

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create_DuplicateDocument(t *testing.T) {
	mock, repo := newEmployeeRepoMock(t)

	mock.ExpectQuery(`INSERT INTO employees .+ RETURNING id`).
		WithArgs(anyArgs(15)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "employees_document_number_key"})

	_, err := repo.Create(context.Background(), nil, entities.Employee{DocumentNumber: "10203040", FullName: "Ana"})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "10203040")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create_UnknownRole(t *testing.T) {
	mock, repo := newEmployeeRepoMock(t)

	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs(anyArgs(15)...).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "employees_operational_role_id_fkey"})

	_, err := repo.Create(context.Background(), nil, entities.Employee{DocumentNumber: "1", OperationalRoleID: 42})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Operational role not found.", appErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create(t *testing.T) {
	mock, repo := newEmployeeRepoMock(t)

	birth := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)
	hire := time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC)
	args := append([]interface{}{"1", "Ana", birth, hire, int64(1), int64(2), int64(3)}, anyArgs(7)...)
	args = append(args, true)

	mock.ExpectQuery(`INSERT INTO employees \(document_number,full_name,.+,is_active\) VALUES \(\$1,.+,\$15\) RETURNING id`).
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(15)))

	id, err := repo.Create(context.Background(), nil, entities.Employee{
		DocumentNumber:    "1",
		FullName:          "Ana",
		BirthDate:         birth,
		HireDate:          hire,
		DocumentTypeID:    1,
		GenderID:          2,
		OperationalRoleID: 3,
		IsActive:          true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(15), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Update_NotFound(t *testing.T) {
	mock, repo := newEmployeeRepoMock(t)

	mock.ExpectExec(`UPDATE employees SET .+ WHERE id = \$18`).
		WithArgs(append(anyArgs(17), int64(3))...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), nil, entities.Employee{ID: 3})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Delete(t *testing.T) {
	mock, repo := newEmployeeRepoMock(t)

	mock.ExpectExec(`DELETE FROM employees WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM employees WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), nil, 3))
	assert.ErrorIs(t, repo.Delete(context.Background(), nil, 4), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
