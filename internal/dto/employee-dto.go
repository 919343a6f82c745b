package dto

import "github.com/aarondl/null/v8"

type CreateEmployeeDTO struct {
	DocumentNumber           string      `json:"document_number" validate:"required,document_number"`
	FullName                 string      `json:"full_name" validate:"required,min=3,max=255"`
	BirthDate                string      `json:"birth_date" validate:"required,iso_date"`
	HireDate                 string      `json:"hire_date" validate:"required,iso_date"`
	DocumentTypeID           int64       `json:"document_type_id" validate:"required,gt=0"`
	GenderID                 int64       `json:"gender_id" validate:"required,gt=0"`
	OperationalRoleID        int64       `json:"operational_role_id" validate:"required,gt=0"`
	IdentityDocumentPath     null.String `json:"identity_document_path" validate:"omitempty,max=500"`
	Address                  null.String `json:"address" validate:"omitempty,max=255"`
	PhoneNumber              null.String `json:"phone_number" validate:"omitempty,phone"`
	PersonalEmail            null.String `json:"personal_email" validate:"omitempty,custom_email,max=100"`
	EmergencyContactName     null.String `json:"emergency_contact_name" validate:"omitempty,max=255"`
	EmergencyContactPhone    null.String `json:"emergency_contact_phone" validate:"omitempty,phone"`
	EmergencyContactRelation null.String `json:"emergency_contact_relation" validate:"omitempty,max=100"`
}

// UpdateEmployeeDTO is a partial update. A key sent as null clears optional fields.
type UpdateEmployeeDTO struct {
	DocumentNumber           null.String `json:"document_number" validate:"omitempty,document_number"`
	FullName                 null.String `json:"full_name" validate:"omitempty,min=3,max=255"`
	BirthDate                null.String `json:"birth_date" validate:"omitempty,iso_date"`
	HireDate                 null.String `json:"hire_date" validate:"omitempty,iso_date"`
	DocumentTypeID           null.Int64  `json:"document_type_id" validate:"omitempty,gt=0"`
	GenderID                 null.Int64  `json:"gender_id" validate:"omitempty,gt=0"`
	OperationalRoleID        null.Int64  `json:"operational_role_id" validate:"omitempty,gt=0"`
	IdentityDocumentPath     null.String `json:"identity_document_path" validate:"omitempty,max=500"`
	Address                  null.String `json:"address" validate:"omitempty,max=255"`
	PhoneNumber              null.String `json:"phone_number" validate:"omitempty,phone"`
	PersonalEmail            null.String `json:"personal_email" validate:"omitempty,custom_email,max=100"`
	EmergencyContactName     null.String `json:"emergency_contact_name" validate:"omitempty,max=255"`
	EmergencyContactPhone    null.String `json:"emergency_contact_phone" validate:"omitempty,phone"`
	EmergencyContactRelation null.String `json:"emergency_contact_relation" validate:"omitempty,max=100"`
	IsActive                 null.Bool   `json:"is_active"`
	TerminationDate          null.String `json:"termination_date" validate:"omitempty,iso_date"`
	ReasonForTermination     null.String `json:"reason_for_termination" validate:"omitempty,max=500"`
}

type TerminateEmployeeDTO struct {
	TerminationDate      null.String `json:"termination_date" validate:"omitempty,iso_date"`
	ReasonForTermination string      `json:"reason_for_termination" validate:"required,min=3,max=500"`
}

type EmployeeDTO struct {
	ID                       int64               `json:"id"`
	DocumentNumber           string              `json:"document_number"`
	FullName                 string              `json:"full_name"`
	BirthDate                string              `json:"birth_date"`
	HireDate                 string              `json:"hire_date"`
	DocumentTypeID           int64               `json:"document_type_id"`
	GenderID                 int64               `json:"gender_id"`
	OperationalRoleID        int64               `json:"operational_role_id"`
	IdentityDocumentPath     *string             `json:"identity_document_path"`
	Address                  *string             `json:"address"`
	PhoneNumber              *string             `json:"phone_number"`
	PersonalEmail            *string             `json:"personal_email"`
	EmergencyContactName     *string             `json:"emergency_contact_name"`
	EmergencyContactPhone    *string             `json:"emergency_contact_phone"`
	EmergencyContactRelation *string             `json:"emergency_contact_relation"`
	IsActive                 bool                `json:"is_active"`
	TerminationDate          *string             `json:"termination_date"`
	ReasonForTermination     *string             `json:"reason_for_termination"`
	DocumentType             *CatalogItemDTO     `json:"document_type,omitempty"`
	Gender                   *CatalogItemDTO     `json:"gender,omitempty"`
	OperationalRole          *OperationalRoleDTO `json:"operational_role,omitempty"`
	CreatedAt                string              `json:"created_at"`
	UpdatedAt                string              `json:"updated_at"`
}
