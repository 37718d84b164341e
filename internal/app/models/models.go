package models

import "strings"

// Role defines the user role type
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleFaculty Role = "FACULTY"
	RoleStudent Role = "STUDENT"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleFaculty, RoleStudent}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// PortalPath is the dashboard root for the role, e.g. /portal/admin.
func (r Role) PortalPath() string {
	return "/portal/" + strings.ToLower(string(r))
}
