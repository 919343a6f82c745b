package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"nutripae-rh/internal/dto"
	"nutripae-rh/internal/entities"
	"nutripae-rh/internal/repositories"
	apperrors "nutripae-rh/pkg/errors"
	"nutripae-rh/pkg/utils"
)

type AvailabilityServiceInterface interface {
	Create(ctx context.Context, d dto.CreateAvailabilityDTO) (*dto.AvailabilityDTO, error)
	Get(ctx context.Context, id int64) (*dto.AvailabilityDTO, error)
	ListByEmployee(ctx context.Context, employeeID int64, skip, limit uint64) ([]dto.AvailabilityDTO, error)
	ListDetailed(ctx context.Context, q dto.AvailabilityRangeQuery) ([]dto.AvailabilityDetailsDTO, error)
	Export(ctx context.Context, q dto.AvailabilityRangeQuery) (*excelize.File, error)
	Update(ctx context.Context, id int64, d dto.UpdateAvailabilityDTO, rawBody []byte) (*dto.AvailabilityDTO, error)
	Delete(ctx context.Context, id int64) (*dto.AvailabilityDTO, error)
}

// AvailabilityService owns the rules around daily availability records.
// "Today" is the current day in loc as reported by clock.
type AvailabilityService struct {
	txManager        repositories.TxManagerInterface
	employeeRepo     repositories.EmployeeRepositoryInterface
	availabilityRepo repositories.AvailabilityRepositoryInterface
	clock            Clock
	loc              *time.Location
	logger           *zap.Logger
}

func NewAvailabilityService(
	txManager repositories.TxManagerInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	availabilityRepo repositories.AvailabilityRepositoryInterface,
	clock Clock,
	loc *time.Location,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		txManager:        txManager,
		employeeRepo:     employeeRepo,
		availabilityRepo: availabilityRepo,
		clock:            clock,
		loc:              loc,
		logger:           logger,
	}
}

func catalogItemToDTO(item *entities.CatalogItem) *dto.CatalogItemDTO {
	if item == nil {
		return nil
	}
	return &dto.CatalogItemDTO{ID: item.ID, Name: item.Name}
}

func availabilityEntityToDTO(a *entities.DailyAvailability) *dto.AvailabilityDTO {
	if a == nil {
		return nil
	}
	return &dto.AvailabilityDTO{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Date:       utils.FormatDate(a.Date),
		StatusID:   a.StatusID,
		Notes:      a.Notes,
		Status:     catalogItemToDTO(a.Status),
		CreatedAt:  a.CreatedAt.Format(timestampLayout),
		UpdatedAt:  a.UpdatedAt.Format(timestampLayout),
	}
}

func availabilityDetailsToDTO(d entities.AvailabilityDetails) dto.AvailabilityDetailsDTO {
	return dto.AvailabilityDetailsDTO{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		Date:       utils.FormatDate(d.Date),
		StatusID:   d.StatusID,
		Notes:      d.Notes,
		Status:     catalogItemToDTO(d.Status),
		Employee: dto.AvailabilityEmployeeDTO{
			ID:              d.Employee.ID,
			FullName:        d.Employee.FullName,
			DocumentNumber:  d.Employee.DocumentNumber,
			OperationalRole: dto.CatalogItemDTO{ID: d.Employee.OperationalRole.ID, Name: d.Employee.OperationalRole.Name},
		},
	}
}

func availabilityNotFound(id int64) error {
	return apperrors.NewNotFound("Availability with id %d not found.", id)
}

func (s *AvailabilityService) today() time.Time {
	return utils.DateOf(s.clock.Now(), s.loc)
}

func (s *AvailabilityService) findAvailability(ctx context.Context, tx pgx.Tx, id int64) (*entities.DailyAvailability, error) {
	a, err := s.availabilityRepo.FindByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, availabilityNotFound(id)
		}
		return nil, err
	}
	return a, nil
}

// CreateAvailability registers the status of an employee for one day. The checks run in order
// and the first failure wins: unknown employee, inactive employee, past date, existing record.
// The (employee_id, date) unique constraint still rejects a concurrent duplicate at insert time.
func (s *AvailabilityService) CreateAvailability(ctx context.Context, employeeID int64, date time.Time, statusID int64, notes *string) (*entities.DailyAvailability, error) {
	var created *entities.DailyAvailability
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		employee, err := s.employeeRepo.FindByID(ctx, tx, employeeID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return employeeNotFound(employeeID)
			}
			return err
		}

		if !employee.IsActive {
			return apperrors.NewInvalidState("Cannot register availability for inactive employee %s.", employee.FullName)
		}

		if date.Before(s.today()) {
			return apperrors.NewInvalidState("Cannot register availability for a past date.")
		}

		_, err = s.availabilityRepo.FindByEmployeeAndDate(ctx, tx, employeeID, date)
		switch {
		case err == nil:
			return apperrors.NewConflict("Availability for this employee on %s already exists.", utils.FormatDate(date))
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		id, err := s.availabilityRepo.Create(ctx, tx, entities.DailyAvailability{
			EmployeeID: employeeID,
			Date:       date,
			StatusID:   statusID,
			Notes:      notes,
		})
		if err != nil {
			return err
		}
		created, err = s.findAvailability(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("availability was not registered",
			zap.Int64("employee_id", employeeID),
			zap.String("date", utils.FormatDate(date)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("availability registered",
		zap.Int64("availability_id", created.ID),
		zap.Int64("employee_id", employeeID),
		zap.String("date", utils.FormatDate(date)),
	)
	return created, nil
}

func (s *AvailabilityService) Create(ctx context.Context, d dto.CreateAvailabilityDTO) (*dto.AvailabilityDTO, error) {
	date, err := utils.ParseDate("date", d.Date)
	if err != nil {
		return nil, err
	}
	created, err := s.CreateAvailability(ctx, d.EmployeeID, date, d.StatusID, d.Notes.Ptr())
	if err != nil {
		return nil, err
	}
	return availabilityEntityToDTO(created), nil
}

func (s *AvailabilityService) Get(ctx context.Context, id int64) (*dto.AvailabilityDTO, error) {
	a, err := s.findAvailability(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return availabilityEntityToDTO(a), nil
}

// GetAvailabilitiesByEmployee pages through one employee's records, ordered by id. Paging
// happens in the database (LIMIT/OFFSET), not in memory.
func (s *AvailabilityService) GetAvailabilitiesByEmployee(ctx context.Context, employeeID int64, skip, limit uint64) ([]entities.DailyAvailability, error) {
	if _, err := s.employeeRepo.FindByID(ctx, nil, employeeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, employeeNotFound(employeeID)
		}
		return nil, err
	}
	return s.availabilityRepo.ListByEmployee(ctx, employeeID, skip, limit)
}

func (s *AvailabilityService) ListByEmployee(ctx context.Context, employeeID int64, skip, limit uint64) ([]dto.AvailabilityDTO, error) {
	list, err := s.GetAvailabilitiesByEmployee(ctx, employeeID, skip, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]dto.AvailabilityDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, *availabilityEntityToDTO(&list[i]))
	}
	return dtos, nil
}

// GetDetailedAvailabilities lists records in [start, end] with their employee, ordered by
// date and employee name.
func (s *AvailabilityService) GetDetailedAvailabilities(ctx context.Context, start, end time.Time, employeeID *int64) ([]entities.AvailabilityDetails, error) {
	if start.After(end) {
		return nil, apperrors.NewInvalidArgument("start_date must be before or equal to end_date")
	}
	return s.availabilityRepo.ListDetailed(ctx, entities.AvailabilityRangeFilter{
		StartDate:  start,
		EndDate:    end,
		EmployeeID: employeeID,
	})
}

func (s *AvailabilityService) detailedFromQuery(ctx context.Context, q dto.AvailabilityRangeQuery) ([]entities.AvailabilityDetails, error) {
	start, err := utils.ParseDate("start_date", q.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := utils.ParseDate("end_date", q.EndDate)
	if err != nil {
		return nil, err
	}
	return s.GetDetailedAvailabilities(ctx, start, end, q.EmployeeID)
}

func (s *AvailabilityService) ListDetailed(ctx context.Context, q dto.AvailabilityRangeQuery) ([]dto.AvailabilityDetailsDTO, error) {
	list, err := s.detailedFromQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	dtos := make([]dto.AvailabilityDetailsDTO, 0, len(list))
	for _, d := range list {
		dtos = append(dtos, availabilityDetailsToDTO(d))
	}
	return dtos, nil
}

func (s *AvailabilityService) Export(ctx context.Context, q dto.AvailabilityRangeQuery) (*excelize.File, error) {
	list, err := s.detailedFromQuery(ctx, q)
	if err != nil {
		return nil, err
	}
	f, err := buildAvailabilityWorkbook(list)
	if err != nil {
		s.logger.Error("failed to build availability workbook", zap.Error(err))
		return nil, err
	}
	return f, nil
}

// Update changes date, status or notes as sent. The create-time rules are not re-run; the
// unique constraint still turns a colliding date into a Conflict.
func (s *AvailabilityService) Update(ctx context.Context, id int64, d dto.UpdateAvailabilityDTO, rawBody []byte) (*dto.AvailabilityDTO, error) {
	changes, err := patchChanges(rawBody)
	if err != nil {
		return nil, err
	}

	var updated *entities.DailyAvailability
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.findAvailability(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := patchDate(&existing.Date, d.Date, "date"); err != nil {
			return err
		}
		if d.StatusID.Valid {
			existing.StatusID = d.StatusID.Int64
		}
		patchOptionalString(&existing.Notes, d.Notes, changes, "notes")

		if err := s.availabilityRepo.Update(ctx, tx, *existing); err != nil {
			return err
		}
		updated, err = s.findAvailability(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("availability updated", zap.Int64("availability_id", id))
	return availabilityEntityToDTO(updated), nil
}

// Delete removes the record and returns it as it was.
func (s *AvailabilityService) Delete(ctx context.Context, id int64) (*dto.AvailabilityDTO, error) {
	var removed *entities.DailyAvailability
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.findAvailability(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.availabilityRepo.Delete(ctx, tx, id); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return availabilityNotFound(id)
			}
			return err
		}
		removed = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("availability deleted", zap.Int64("availability_id", id))
	return availabilityEntityToDTO(removed), nil
}
