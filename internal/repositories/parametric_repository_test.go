package repositories

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutripae-rh/internal/entities"
)

func TestParametricRepository_ListCatalog(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewParametricRepository(mock, zap.NewNop())

	mock.ExpectQuery(`SELECT id, name FROM genders ORDER BY id LIMIT 200`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), "Masculino").
			AddRow(int64(2), "Femenino"))

	items, err := repo.ListCatalog(context.Background(), CatalogGenders, 200)

	require.NoError(t, err)
	assert.Equal(t, []entities.CatalogItem{{ID: 1, Name: "Masculino"}, {ID: 2, Name: "Femenino"}}, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParametricRepository_ListCatalog_RejectsUnknownTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewParametricRepository(mock, zap.NewNop())

	_, err = repo.ListCatalog(context.Background(), Catalog("employees; DROP TABLE employees"), 10)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParametricRepository_ListOperationalRolesWithCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewParametricRepository(mock, zap.NewNop())

	mock.ExpectQuery(`SELECT r.id, r.name, r.description, COUNT\(e.id\) AS employee_count FROM operational_roles r LEFT JOIN employees e ON e.operational_role_id = r.id GROUP BY r.id, r.name, r.description ORDER BY r.id LIMIT 200`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "employee_count"}).
			AddRow(int64(1), "Manipulador de Alimentos", "Preparación", int64(12)).
			AddRow(int64(2), "Conductor", nil, int64(0)))

	roles, err := repo.ListOperationalRolesWithCount(context.Background(), 200)

	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, int64(12), roles[0].EmployeeCount)
	require.NotNil(t, roles[0].Description)
	assert.Nil(t, roles[1].Description)
	assert.Equal(t, int64(0), roles[1].EmployeeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
