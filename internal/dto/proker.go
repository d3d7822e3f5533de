package dto

// ProkerRequest creates or updates a work programme. A department admin may
// omit DepartmentID; it is forced to their own department.
type ProkerRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	DepartmentID int    `json:"department_id" validate:"omitempty,min=1,max=8"`
	LogoURL      string `json:"logo_url" validate:"omitempty,url"`
}
