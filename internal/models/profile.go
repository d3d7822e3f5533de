package models

import "time"

// Role is the administrative role attached to a profile.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleDeptAdmin  Role = "dept_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleDeptAdmin
}

// Identity is a login credential. Profiles reference it and are removed with it.
type Identity struct {
	ID               string     `db:"id" json:"id"`
	Email            string     `db:"email" json:"email"`
	PasswordHash     string     `db:"password_hash" json:"-"`
	EmailConfirmedAt *time.Time `db:"email_confirmed_at" json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile carries the role and department of an identity.
// DepartmentID is nil for super admins.
type Profile struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Role         Role      `db:"role" json:"role"`
	DepartmentID *int      `db:"department_id" json:"department_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Actor is the authenticated caller as seen by the services. A nil *Actor is anonymous.
type Actor struct {
	UserID       string
	Email        string
	Role         Role
	DepartmentID *int
	IP           string
	UserAgent    string
}
