package entities

// CatalogItem is a row of one of the id/name lookup tables (document types, genders,
// availability statuses).
type CatalogItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type DocumentType = CatalogItem

type Gender = CatalogItem

type AvailabilityStatus = CatalogItem

type OperationalRole struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type OperationalRoleWithCount struct {
	OperationalRole
	EmployeeCount int64 `json:"employee_count"`
}
