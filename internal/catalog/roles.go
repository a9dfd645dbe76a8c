package catalog

import "strings"

// RoleKey identifies one of the six fixed job functions.
type RoleKey string

const (
	RoleWorker      RoleKey = "worker"
	RoleCoordinator RoleKey = "coordinator"
	RoleOffice      RoleKey = "office"
	RoleSales       RoleKey = "sales"
	RoleAccounting  RoleKey = "accounting"
	RoleOwner       RoleKey = "owner"
)

// Role pairs a key with its display label.
type Role struct {
	Key   RoleKey
	Label string
}

var roles = []Role{
	{RoleWorker, "Field worker"},
	{RoleCoordinator, "Coordinator (OP)"},
	{RoleOffice, "Office / admin"},
	{RoleSales, "Sales"},
	{RoleAccounting, "Accounting"},
	{RoleOwner, "Owner / executive"},
}

// Roles returns the full role catalog in display order.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// RoleByKey resolves a role key, case-insensitively.
func RoleByKey(key RoleKey) (Role, bool) {
	normalized := RoleKey(strings.ToLower(strings.TrimSpace(string(key))))
	for _, role := range roles {
		if role.Key == normalized {
			return role, true
		}
	}
	return Role{}, false
}

// ValidRole reports whether key names a catalog role.
func ValidRole(key RoleKey) bool {
	_, ok := RoleByKey(key)
	return ok
}
