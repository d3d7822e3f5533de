package models

import "time"

// Proker is a work programme owned by exactly one department.
type Proker struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DepartmentID int       `db:"department_id" json:"department_id"`
	LogoURL      string    `db:"logo_url" json:"logo_url"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
