package model

import "fmt"

// Role is a named privilege tier. Comparisons use Level only; Name is the
// identifier carried inside tokens.
type Role struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

var (
	RoleViewer    = Role{Name: "viewer", Level: 0}
	RoleDeveloper = Role{Name: "developer", Level: 1}
	RoleAdmin     = Role{Name: "admin", Level: 2}
)

// rolesByName is fixed at process start. Roles are never created or deleted
// at runtime.
var rolesByName = map[string]Role{
	RoleViewer.Name:    RoleViewer,
	RoleDeveloper.Name: RoleDeveloper,
	RoleAdmin.Name:     RoleAdmin,
}

// ResolveRole looks a role up by name. An unknown name is a configuration
// fault, not a per-request condition: every seeded user carries one of the
// standing roles.
func ResolveRole(name string) (Role, error) {
	role, ok := rolesByName[name]
	if !ok {
		return Role{}, fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
	return role, nil
}

// Satisfies reports whether r carries at least the privilege of required.
func (r Role) Satisfies(required Role) bool {
	return r.Level >= required.Level
}
