package service

import (
	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
)

// Capabilities is what a caller may do, derived only from role and department.
type Capabilities struct {
	Authenticated  bool
	AllDepartments bool
	Department     *int
	ManageUsers    bool
}

// CapabilitiesFor maps an actor to its capabilities. A nil actor is a read-only viewer.
func CapabilitiesFor(actor *models.Actor) Capabilities {
	if actor == nil {
		return Capabilities{}
	}
	switch actor.Role {
	case models.RoleSuperAdmin:
		return Capabilities{Authenticated: true, AllDepartments: true, ManageUsers: true}
	case models.RoleDeptAdmin:
		caps := Capabilities{Authenticated: true}
		if actor.DepartmentID != nil {
			dept := *actor.DepartmentID
			caps.Department = &dept
		}
		return caps
	default:
		return Capabilities{Authenticated: true}
	}
}

// CanManageDepartment reports whether prokers and events of departmentID may be changed.
func (c Capabilities) CanManageDepartment(departmentID int) bool {
	if c.AllDepartments {
		return true
	}
	return c.Department != nil && *c.Department == departmentID
}

// CanManageUsers reports access to the privileged user operations.
func (c Capabilities) CanManageUsers() bool {
	return c.ManageUsers
}

// CanDeleteAccount reports whether an account with targetRole may be removed.
// Super admin accounts can never be deleted.
func (c Capabilities) CanDeleteAccount(targetRole models.Role) bool {
	return c.ManageUsers && targetRole != models.RoleSuperAdmin
}

// ForcedDepartment is the department a new proker must belong to, or nil when the caller may choose.
func (c Capabilities) ForcedDepartment() *int {
	if c.AllDepartments {
		return nil
	}
	return c.Department
}

// authorizeDepartment fails with 401 for anonymous callers and 403 outside their scope.
func authorizeDepartment(actor *models.Actor, departmentID int) error {
	caps := CapabilitiesFor(actor)
	if !caps.Authenticated {
		return appErrors.Clone(appErrors.ErrUnauthorized, "login required")
	}
	if !caps.CanManageDepartment(departmentID) {
		return appErrors.Clone(appErrors.ErrForbidden, "you can only manage your own department")
	}
	return nil
}

func requireActor(actor *models.Actor) error {
	if !CapabilitiesFor(actor).Authenticated {
		return appErrors.Clone(appErrors.ErrUnauthorized, "login required")
	}
	return nil
}
