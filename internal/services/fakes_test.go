package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"nutripae-rh/internal/entities"
	"nutripae-rh/internal/repositories"
	apperrors "nutripae-rh/pkg/errors"
	"nutripae-rh/pkg/utils"
)

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	return fn(nil)
}

type fakeEmployeeRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entities.Employee
}

func newFakeEmployeeRepo(seed ...entities.Employee) *fakeEmployeeRepo {
	r := &fakeEmployeeRepo{nextID: 100, rows: make(map[int64]entities.Employee)}
	for _, e := range seed {
		r.rows[e.ID] = e
	}
	return r
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, _ pgx.Tx, id int64) (*entities.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r *fakeEmployeeRepo) FindByDocumentNumber(_ context.Context, _ pgx.Tx, documentNumber string) (*entities.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.DocumentNumber == documentNumber {
			found := e
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEmployeeRepo) GetAll(_ context.Context, filter entities.EmployeeFilter) ([]entities.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Employee, 0)
	for _, e := range r.rows {
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.FullName), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.OnlyActive != nil && e.IsActive != *filter.OnlyActive {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEmployeeRepo) Create(_ context.Context, _ pgx.Tx, e entities.Employee) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.DocumentNumber == e.DocumentNumber {
			return 0, apperrors.NewConflict("Employee with document number %s already exists.", e.DocumentNumber)
		}
	}
	r.nextID++
	e.ID = r.nextID
	r.rows[e.ID] = e
	return e.ID, nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, _ pgx.Tx, e entities.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[e.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.rows[e.ID] = e
	return nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, _ pgx.Tx, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// fakeAvailabilityRepo keeps the (employee_id, date) uniqueness the database enforces.
// hideDuplicates makes the pre-check miss, as a concurrent insert would.
type fakeAvailabilityRepo struct {
	mu             sync.Mutex
	nextID         int64
	rows           map[int64]entities.DailyAvailability
	employees      *fakeEmployeeRepo
	statuses       map[int64]string
	hideDuplicates bool
}

func newFakeAvailabilityRepo(employees *fakeEmployeeRepo) *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{
		rows:      make(map[int64]entities.DailyAvailability),
		employees: employees,
		statuses:  map[int64]string{1: "Disponible", 2: "No disponible", 3: "Vacaciones"},
	}
}

func (r *fakeAvailabilityRepo) withStatus(a entities.DailyAvailability) entities.DailyAvailability {
	a.Status = &entities.AvailabilityStatus{ID: a.StatusID, Name: r.statuses[a.StatusID]}
	return a
}

func (r *fakeAvailabilityRepo) FindByID(_ context.Context, _ pgx.Tx, id int64) (*entities.DailyAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	a = r.withStatus(a)
	return &a, nil
}

func (r *fakeAvailabilityRepo) FindByEmployeeAndDate(_ context.Context, _ pgx.Tx, employeeID int64, date time.Time) (*entities.DailyAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideDuplicates {
		return nil, apperrors.ErrNotFound
	}
	for _, a := range r.rows {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			found := r.withStatus(a)
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeAvailabilityRepo) sorted() []entities.DailyAvailability {
	out := make([]entities.DailyAvailability, 0, len(r.rows))
	for _, a := range r.rows {
		out = append(out, r.withStatus(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeAvailabilityRepo) ListByEmployee(_ context.Context, employeeID int64, skip, limit uint64) ([]entities.DailyAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.DailyAvailability, 0)
	var seen uint64
	for _, a := range r.sorted() {
		if a.EmployeeID != employeeID {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if uint64(len(out)) == limit {
			break
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) ListDetailed(_ context.Context, filter entities.AvailabilityRangeFilter) ([]entities.AvailabilityDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.AvailabilityDetails, 0)
	for _, a := range r.sorted() {
		if a.Date.Before(filter.StartDate) || a.Date.After(filter.EndDate) {
			continue
		}
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		e := r.employees.rows[a.EmployeeID]
		out = append(out, entities.AvailabilityDetails{
			DailyAvailability: a,
			Employee: entities.AvailabilityEmployee{
				ID:              e.ID,
				FullName:        e.FullName,
				DocumentNumber:  e.DocumentNumber,
				OperationalRole: entities.CatalogItem{ID: e.OperationalRoleID, Name: "Conductor"},
			},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Employee.FullName < out[j].Employee.FullName
	})
	return out, nil
}

func (r *fakeAvailabilityRepo) checkConstraints(a entities.DailyAvailability) error {
	if _, ok := r.statuses[a.StatusID]; !ok {
		return apperrors.NewNotFound("Availability status with id %d not found.", a.StatusID)
	}
	for _, existing := range r.rows {
		if existing.ID != a.ID && existing.EmployeeID == a.EmployeeID && existing.Date.Equal(a.Date) {
			return apperrors.Wrap(apperrors.KindConflict,
				fmt.Sprintf("Availability for this employee on %s already exists.", utils.FormatDate(a.Date)),
				fmt.Errorf("duplicate key value violates unique constraint"))
		}
	}
	return nil
}

func (r *fakeAvailabilityRepo) Create(_ context.Context, _ pgx.Tx, a entities.DailyAvailability) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkConstraints(a); err != nil {
		return 0, err
	}
	r.nextID++
	a.ID = r.nextID
	r.rows[a.ID] = a
	return a.ID, nil
}

func (r *fakeAvailabilityRepo) Update(_ context.Context, _ pgx.Tx, a entities.DailyAvailability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[a.ID]; !ok {
		return apperrors.ErrNotFound
	}
	if err := r.checkConstraints(a); err != nil {
		return err
	}
	a.Status = nil
	r.rows[a.ID] = a
	return nil
}

func (r *fakeAvailabilityRepo) Delete(_ context.Context, _ pgx.Tx, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type mockParametricRepo struct {
	mock.Mock
}

func (m *mockParametricRepo) ListCatalog(ctx context.Context, catalog repositories.Catalog, limit uint64) ([]entities.CatalogItem, error) {
	args := m.Called(ctx, catalog, limit)
	items, _ := args.Get(0).([]entities.CatalogItem)
	return items, args.Error(1)
}

func (m *mockParametricRepo) ListOperationalRolesWithCount(ctx context.Context, limit uint64) ([]entities.OperationalRoleWithCount, error) {
	args := m.Called(ctx, limit)
	roles, _ := args.Get(0).([]entities.OperationalRoleWithCount)
	return roles, args.Error(1)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateOperationalRoles(context.Context) { c.calls++ }

var (
	_ repositories.EmployeeRepositoryInterface     = (*fakeEmployeeRepo)(nil)
	_ repositories.AvailabilityRepositoryInterface = (*fakeAvailabilityRepo)(nil)
	_ repositories.CacheRepositoryInterface        = (*mockCache)(nil)
	_ repositories.ParametricRepositoryInterface   = (*mockParametricRepo)(nil)
	_ repositories.TxManagerInterface              = (*fakeTxManager)(nil)
)
