package entities

import (
	"time"

	"nutripae-rh/pkg/types"
)

type Employee struct {
	ID                       int64
	DocumentNumber           string
	FullName                 string
	BirthDate                time.Time
	HireDate                 time.Time
	DocumentTypeID           int64
	GenderID                 int64
	OperationalRoleID        int64
	IdentityDocumentPath     *string
	Address                  *string
	PhoneNumber              *string
	PersonalEmail            *string
	EmergencyContactName     *string
	EmergencyContactPhone    *string
	EmergencyContactRelation *string
	IsActive                 bool
	TerminationDate          *time.Time
	ReasonForTermination     *string

	// Filled by reads that join the lookup tables.
	DocumentType    *DocumentType
	Gender          *Gender
	OperationalRole *OperationalRole

	types.BaseEntity
}

// EmployeeFilter narrows the employee listing.
type EmployeeFilter struct {
	Skip       uint64
	Limit      uint64
	Search     string
	OnlyActive *bool
}
