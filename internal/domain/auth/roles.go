package auth

import (
	"fmt"

	"hrperf/internal/domain/apperr"
)

const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

var Roles = []string{RoleEmployee, RoleHR, RoleAdmin}

// PrivilegedRoles may read every record and manage reviews.
var PrivilegedRoles = []string{RoleHR, RoleAdmin}

func ValidRole(role string) bool {
	for _, candidate := range Roles {
		if candidate == role {
			return true
		}
	}
	return false
}

func IsPrivileged(role string) bool {
	return role == RoleHR || role == RoleAdmin
}

// RequireRole fails with apperr.ErrForbidden when the identity's role is not allowed.
// An empty allowed set permits every authenticated identity.
func RequireRole(identity Identity, allowed ...string) error {
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return fmt.Errorf("role %q: %w", identity.Role, apperr.ErrForbidden)
}
