// Package authorization holds the attendance roles and the guard for
// admin-only routes.
package authorization

import "slices"

type UserRole string

const (
	RoleEmployee UserRole = "employee"
	RoleAdmin    UserRole = "admin"
)

var knownRoles = []UserRole{RoleEmployee, RoleAdmin}

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsAdmin() bool { return r == RoleAdmin }

func (r UserRole) IsValid() bool { return slices.Contains(knownRoles, r) }

// Roles lists the assignable roles, least privileged first.
func Roles() []UserRole {
	return slices.Clone(knownRoles)
}

// ParseUserRole maps unknown roles to the least privileged one.
func ParseUserRole(s string) UserRole {
	if role := UserRole(s); role.IsValid() {
		return role
	}
	return RoleEmployee
}
