// Package entity contains the core business objects of the project.
package entity

import (
	"slices"

	"github.com/google/uuid"
)

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleAdmin moderates listings and manages users.
	RoleAdmin Role = "admin"
	// RoleOwner lists properties.
	RoleOwner Role = "owner"
	// RoleUser indicates a regular user role.
	RoleUser Role = "user"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleUser:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string for JWT compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RolesFromStrings converts []string to Roles, filtering out invalid role strings.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(s)
		if role.IsValid() {
			result = append(result, role)
		}
	}

	return result
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID     uuid.UUID
	Role   Role
	Name   string
	Active bool
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleOwner, RoleUser:
		return false
	default:
		return false
	}
}

// CanModify reports whether the actor may mutate a resource owned or authored by ownerID.
// Unknown roles are never granted access, not even on their own resources.
func (a Actor) CanModify(ownerID uuid.UUID) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleOwner, RoleUser:
		return a.ID == ownerID
	default:
		return false
	}
}

// HasAnyRole reports whether the actor's role is one of roles.
func (a Actor) HasAnyRole(roles ...Role) bool {
	if !a.Role.IsValid() {
		return false
	}

	return slices.Contains(roles, a.Role)
}
