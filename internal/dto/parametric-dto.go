package dto

type CatalogItemDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type OperationalRoleDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type OperationalRoleWithCountDTO struct {
	OperationalRoleDTO
	EmployeeCount int64 `json:"employee_count"`
}
