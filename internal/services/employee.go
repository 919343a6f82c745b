package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"nutripae-rh/internal/dto"
	"nutripae-rh/internal/entities"
	"nutripae-rh/internal/repositories"
	apperrors "nutripae-rh/pkg/errors"
	"nutripae-rh/pkg/utils"
)

const timestampLayout = "2006-01-02 15:04:05"

type EmployeeServiceInterface interface {
	Create(ctx context.Context, d dto.CreateEmployeeDTO) (*dto.EmployeeDTO, error)
	Get(ctx context.Context, id int64) (*dto.EmployeeDTO, error)
	List(ctx context.Context, filter entities.EmployeeFilter) ([]dto.EmployeeDTO, error)
	Update(ctx context.Context, id int64, d dto.UpdateEmployeeDTO, rawBody []byte) (*dto.EmployeeDTO, error)
	Terminate(ctx context.Context, id int64, d dto.TerminateEmployeeDTO) (*dto.EmployeeDTO, error)
	Delete(ctx context.Context, id int64) (*dto.EmployeeDTO, error)
}

// RoleCountInvalidator drops cached per-role employee counts after employee writes.
type RoleCountInvalidator interface {
	InvalidateOperationalRoles(ctx context.Context)
}

type EmployeeService struct {
	txManager    repositories.TxManagerInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	roleCounts   RoleCountInvalidator
	clock        Clock
	loc          *time.Location
	logger       *zap.Logger
}

func NewEmployeeService(
	txManager repositories.TxManagerInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	roleCounts RoleCountInvalidator,
	clock Clock,
	loc *time.Location,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		txManager:    txManager,
		employeeRepo: employeeRepo,
		roleCounts:   roleCounts,
		clock:        clock,
		loc:          loc,
		logger:       logger,
	}
}

func employeeEntityToDTO(e *entities.Employee) *dto.EmployeeDTO {
	if e == nil {
		return nil
	}

	out := &dto.EmployeeDTO{
		ID:                       e.ID,
		DocumentNumber:           e.DocumentNumber,
		FullName:                 e.FullName,
		BirthDate:                utils.FormatDate(e.BirthDate),
		HireDate:                 utils.FormatDate(e.HireDate),
		DocumentTypeID:           e.DocumentTypeID,
		GenderID:                 e.GenderID,
		OperationalRoleID:        e.OperationalRoleID,
		IdentityDocumentPath:     e.IdentityDocumentPath,
		Address:                  e.Address,
		PhoneNumber:              e.PhoneNumber,
		PersonalEmail:            e.PersonalEmail,
		EmergencyContactName:     e.EmergencyContactName,
		EmergencyContactPhone:    e.EmergencyContactPhone,
		EmergencyContactRelation: e.EmergencyContactRelation,
		IsActive:                 e.IsActive,
		TerminationDate:          utils.FormatDatePtr(e.TerminationDate),
		ReasonForTermination:     e.ReasonForTermination,
		CreatedAt:                e.CreatedAt.Format(timestampLayout),
		UpdatedAt:                e.UpdatedAt.Format(timestampLayout),
	}
	if e.DocumentType != nil {
		out.DocumentType = &dto.CatalogItemDTO{ID: e.DocumentType.ID, Name: e.DocumentType.Name}
	}
	if e.Gender != nil {
		out.Gender = &dto.CatalogItemDTO{ID: e.Gender.ID, Name: e.Gender.Name}
	}
	if e.OperationalRole != nil {
		out.OperationalRole = &dto.OperationalRoleDTO{
			ID:          e.OperationalRole.ID,
			Name:        e.OperationalRole.Name,
			Description: e.OperationalRole.Description,
		}
	}
	return out
}

func employeeEntitiesToDTOs(list []entities.Employee) []dto.EmployeeDTO {
	dtos := make([]dto.EmployeeDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, *employeeEntityToDTO(&list[i]))
	}
	return dtos
}

func employeeNotFound(id int64) error {
	return apperrors.NewNotFound("Employee with id %d not found.", id)
}

// findEmployee turns a bare repository miss into the message clients see.
func (s *EmployeeService) findEmployee(ctx context.Context, tx pgx.Tx, id int64) (*entities.Employee, error) {
	e, err := s.employeeRepo.FindByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, employeeNotFound(id)
		}
		return nil, err
	}
	return e, nil
}

// ensureDocumentNumberFree fails with Conflict when another employee already holds documentNumber.
func (s *EmployeeService) ensureDocumentNumberFree(ctx context.Context, tx pgx.Tx, documentNumber string, selfID int64) error {
	existing, err := s.employeeRepo.FindByDocumentNumber(ctx, tx, documentNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperrors.NewConflict("Employee with document number %s already exists.", documentNumber)
	}
	return nil
}

func (s *EmployeeService) Create(ctx context.Context, d dto.CreateEmployeeDTO) (*dto.EmployeeDTO, error) {
	birthDate, err := utils.ParseDate("birth_date", d.BirthDate)
	if err != nil {
		return nil, err
	}
	hireDate, err := utils.ParseDate("hire_date", d.HireDate)
	if err != nil {
		return nil, err
	}
	if hireDate.Before(birthDate) {
		return nil, apperrors.NewInvalidArgument("hire_date cannot be before birth_date")
	}

	employee := entities.Employee{
		DocumentNumber:           d.DocumentNumber,
		FullName:                 d.FullName,
		BirthDate:                birthDate,
		HireDate:                 hireDate,
		DocumentTypeID:           d.DocumentTypeID,
		GenderID:                 d.GenderID,
		OperationalRoleID:        d.OperationalRoleID,
		IdentityDocumentPath:     d.IdentityDocumentPath.Ptr(),
		Address:                  d.Address.Ptr(),
		PhoneNumber:              d.PhoneNumber.Ptr(),
		PersonalEmail:            d.PersonalEmail.Ptr(),
		EmergencyContactName:     d.EmergencyContactName.Ptr(),
		EmergencyContactPhone:    d.EmergencyContactPhone.Ptr(),
		EmergencyContactRelation: d.EmergencyContactRelation.Ptr(),
		IsActive:                 true,
	}

	var created *entities.Employee
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.ensureDocumentNumberFree(ctx, tx, d.DocumentNumber, 0); err != nil {
			return err
		}
		id, err := s.employeeRepo.Create(ctx, tx, employee)
		if err != nil {
			return err
		}
		created, err = s.findEmployee(ctx, tx, id)
		return err
	})
	if err != nil {
		s.logger.Warn("employee was not created", zap.String("document_number", d.DocumentNumber), zap.Error(err))
		return nil, err
	}

	s.roleCounts.InvalidateOperationalRoles(ctx)
	s.logger.Info("employee created", zap.Int64("employee_id", created.ID))
	return employeeEntityToDTO(created), nil
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*dto.EmployeeDTO, error) {
	e, err := s.findEmployee(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return employeeEntityToDTO(e), nil
}

func (s *EmployeeService) List(ctx context.Context, filter entities.EmployeeFilter) ([]dto.EmployeeDTO, error) {
	list, err := s.employeeRepo.GetAll(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list employees", zap.Error(err))
		return nil, err
	}
	return employeeEntitiesToDTOs(list), nil
}

func (s *EmployeeService) Update(ctx context.Context, id int64, d dto.UpdateEmployeeDTO, rawBody []byte) (*dto.EmployeeDTO, error) {
	changes, err := patchChanges(rawBody)
	if err != nil {
		return nil, err
	}

	var updated *entities.Employee
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.findEmployee(ctx, tx, id)
		if err != nil {
			return err
		}

		if d.DocumentNumber.Valid && d.DocumentNumber.String != existing.DocumentNumber {
			if err := s.ensureDocumentNumberFree(ctx, tx, d.DocumentNumber.String, id); err != nil {
				return err
			}
			existing.DocumentNumber = d.DocumentNumber.String
		}
		if err := s.applyEmployeePatch(existing, d, changes); err != nil {
			return err
		}

		if err := s.employeeRepo.Update(ctx, tx, *existing); err != nil {
			return err
		}
		updated, err = s.findEmployee(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.roleCounts.InvalidateOperationalRoles(ctx)
	s.logger.Info("employee updated", zap.Int64("employee_id", id))
	return employeeEntityToDTO(updated), nil
}

// applyEmployeePatch copies the sent fields onto e and keeps the termination fields set exactly
// when the employee is inactive. Activating clears them; deactivating needs a reason and takes
// today as the termination date unless one is sent.
func (s *EmployeeService) applyEmployeePatch(e *entities.Employee, d dto.UpdateEmployeeDTO, changes map[string]json.RawMessage) error {
	if d.FullName.Valid {
		e.FullName = d.FullName.String
	}
	if err := patchDate(&e.BirthDate, d.BirthDate, "birth_date"); err != nil {
		return err
	}
	if err := patchDate(&e.HireDate, d.HireDate, "hire_date"); err != nil {
		return err
	}
	if e.HireDate.Before(e.BirthDate) {
		return apperrors.NewInvalidArgument("hire_date cannot be before birth_date")
	}
	if d.DocumentTypeID.Valid {
		e.DocumentTypeID = d.DocumentTypeID.Int64
	}
	if d.GenderID.Valid {
		e.GenderID = d.GenderID.Int64
	}
	if d.OperationalRoleID.Valid {
		e.OperationalRoleID = d.OperationalRoleID.Int64
	}

	patchOptionalString(&e.IdentityDocumentPath, d.IdentityDocumentPath, changes, "identity_document_path")
	patchOptionalString(&e.Address, d.Address, changes, "address")
	patchOptionalString(&e.PhoneNumber, d.PhoneNumber, changes, "phone_number")
	patchOptionalString(&e.PersonalEmail, d.PersonalEmail, changes, "personal_email")
	patchOptionalString(&e.EmergencyContactName, d.EmergencyContactName, changes, "emergency_contact_name")
	patchOptionalString(&e.EmergencyContactPhone, d.EmergencyContactPhone, changes, "emergency_contact_phone")
	patchOptionalString(&e.EmergencyContactRelation, d.EmergencyContactRelation, changes, "emergency_contact_relation")
	patchOptionalString(&e.ReasonForTermination, d.ReasonForTermination, changes, "reason_for_termination")

	if d.TerminationDate.Valid {
		terminated, err := utils.ParseDate("termination_date", d.TerminationDate.String)
		if err != nil {
			return err
		}
		e.TerminationDate = &terminated
	} else if sent(changes, "termination_date") {
		e.TerminationDate = nil
	}

	if d.IsActive.Valid {
		e.IsActive = d.IsActive.Bool
		if e.IsActive {
			e.TerminationDate = nil
			e.ReasonForTermination = nil
		} else if e.TerminationDate == nil {
			e.TerminationDate = utils.ToPtr(utils.DateOf(s.clock.Now(), s.loc))
		}
	}

	if e.IsActive {
		if e.TerminationDate != nil || e.ReasonForTermination != nil {
			return apperrors.NewInvalidArgument("termination_date and reason_for_termination can only be set on an inactive employee")
		}
		return nil
	}
	if e.TerminationDate == nil {
		return apperrors.NewInvalidArgument("termination_date is required for an inactive employee")
	}
	if e.ReasonForTermination == nil {
		return apperrors.NewInvalidArgument("reason_for_termination is required for an inactive employee")
	}
	if e.TerminationDate.Before(e.HireDate) {
		return apperrors.NewInvalidArgument("termination_date cannot be before hire_date")
	}
	return nil
}

// Terminate is the logical delete: the employee stays on record, inactive.
func (s *EmployeeService) Terminate(ctx context.Context, id int64, d dto.TerminateEmployeeDTO) (*dto.EmployeeDTO, error) {
	terminationDate := utils.DateOf(s.clock.Now(), s.loc)
	if d.TerminationDate.Valid {
		parsed, err := utils.ParseDate("termination_date", d.TerminationDate.String)
		if err != nil {
			return nil, err
		}
		terminationDate = parsed
	}

	var terminated *entities.Employee
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.findEmployee(ctx, tx, id)
		if err != nil {
			return err
		}
		if !existing.IsActive {
			return apperrors.NewConflict("Employee with id %d is already inactive.", id)
		}
		if terminationDate.Before(existing.HireDate) {
			return apperrors.NewInvalidArgument("termination_date cannot be before hire_date")
		}

		existing.IsActive = false
		existing.TerminationDate = &terminationDate
		existing.ReasonForTermination = utils.ToPtr(d.ReasonForTermination)
		if err := s.employeeRepo.Update(ctx, tx, *existing); err != nil {
			return err
		}
		terminated, err = s.findEmployee(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee terminated",
		zap.Int64("employee_id", id),
		zap.String("termination_date", utils.FormatDate(terminationDate)),
	)
	return employeeEntityToDTO(terminated), nil
}

// Delete removes the employee and, through the foreign key, their availabilities.
// It returns the employee as it was before removal.
func (s *EmployeeService) Delete(ctx context.Context, id int64) (*dto.EmployeeDTO, error) {
	var removed *entities.Employee
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.findEmployee(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.employeeRepo.Delete(ctx, tx, id); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return employeeNotFound(id)
			}
			return err
		}
		removed = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.roleCounts.InvalidateOperationalRoles(ctx)
	s.logger.Info("employee deleted", zap.Int64("employee_id", id))
	return employeeEntityToDTO(removed), nil
}
