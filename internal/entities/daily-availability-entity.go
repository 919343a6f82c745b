package entities

import (
	"time"

	"nutripae-rh/pkg/types"
)

// DailyAvailability is the status of one employee on one calendar day.
// (EmployeeID, Date) is unique.
type DailyAvailability struct {
	ID         int64
	EmployeeID int64
	Date       time.Time
	StatusID   int64
	Notes      *string

	Status *AvailabilityStatus

	types.BaseEntity
}

// AvailabilityEmployee is the slice of an employee shown next to an availability.
type AvailabilityEmployee struct {
	ID              int64
	FullName        string
	DocumentNumber  string
	OperationalRole CatalogItem
}

type AvailabilityDetails struct {
	DailyAvailability
	Employee AvailabilityEmployee
}

type AvailabilityRangeFilter struct {
	StartDate  time.Time
	EndDate    time.Time
	EmployeeID *int64
}
