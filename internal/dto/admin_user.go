package dto

import "github.com/znlumins/webkalenderaihmpsti/internal/models"

// CreateAdminUserRequest provisions an identity and its profile.
type CreateAdminUserRequest struct {
	Email        string      `json:"email" validate:"required,email"`
	Password     string      `json:"password" validate:"required,min=6"`
	Role         models.Role `json:"role" validate:"required,oneof=super_admin dept_admin"`
	DepartmentID *int        `json:"department_id" validate:"omitempty,min=1,max=8"`
}

// ResetPasswordRequest overwrites the credential of an identity.
type ResetPasswordRequest struct {
	ID          string `json:"id"`
	NewPassword string `json:"newPassword"`
}

// AdminMessage is the bare success body of the admin user routes.
type AdminMessage struct {
	Message string `json:"message"`
}

// AdminError is the bare failure body of the admin user routes.
type AdminError struct {
	Error string `json:"error"`
}
