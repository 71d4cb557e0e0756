// internal/app/system/authz/roles.go
package authz

import "strings"

// Role values stored on users.
const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"

	// SectorRolePrefix marks a sector-scoped role: "setor_agricultura" may
	// manage the content of the sector whose slug is "agricultura".
	SectorRolePrefix = "setor_"
)

// IsAdmin reports whether role grants full back-office access.
func IsAdmin(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	return role == RoleAdmin || role == RoleSuperAdmin
}

// IsSuperAdmin reports whether role is the bootstrap superadmin.
func IsSuperAdmin(role string) bool {
	return strings.ToLower(strings.TrimSpace(role)) == RoleSuperAdmin
}

// IsSectorRole reports whether role is scoped to a single sector.
func IsSectorRole(role string) bool {
	return SectorOf(role) != ""
}

// SectorOf returns the sector slug of a sector role, or "".
func SectorOf(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if !strings.HasPrefix(role, SectorRolePrefix) {
		return ""
	}
	return strings.TrimPrefix(role, SectorRolePrefix)
}

// SectorRole builds the role name for a sector slug.
func SectorRole(slug string) string {
	return SectorRolePrefix + strings.ToLower(strings.TrimSpace(slug))
}

// CanManageSector reports whether role may edit the content of the sector
// with the given slug. Admins may edit every sector.
func CanManageSector(role, slug string) bool {
	if IsAdmin(role) {
		return true
	}
	s := SectorOf(role)
	return s != "" && s == strings.ToLower(strings.TrimSpace(slug))
}

// ValidRole reports whether role is one of the assignable role shapes.
func ValidRole(role string) bool {
	return IsAdmin(role) || IsSectorRole(role)
}
