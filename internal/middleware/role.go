package middleware // middleware provides shared request processing for handlers

import "github.com/iliyamo/realestate-listing/internal/model"

// RoleRequirement is the set of roles allowed to call a route.  The zero
// value means nothing was declared, which lets a controller-level default
// apply.  A declared requirement with no roles marks the route public.
type RoleRequirement struct {
	declared bool
	allowed  map[model.Role]bool
}

// Roles declares a requirement.  Roles() with no arguments declares a
// public route that overrides any controller default.
func Roles(roles ...model.Role) RoleRequirement {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return RoleRequirement{declared: true, allowed: allowed}
}

// Declared reports whether the requirement was set explicitly.
func (r RoleRequirement) Declared() bool { return r.declared }

// Public reports whether the route needs no identity at all.
func (r RoleRequirement) Public() bool { return len(r.allowed) == 0 }

// Allows reports set membership of role.
func (r RoleRequirement) Allows(role model.Role) bool { return r.allowed[role] }

// List returns the allowed roles in privilege order.
func (r RoleRequirement) List() []model.Role {
	out := make([]model.Role, 0, len(r.allowed))
	for _, role := range model.AllRoles {
		if r.allowed[role] {
			out = append(out, role)
		}
	}
	return out
}

// ResolveRequirement picks the most specific declaration: the route's own
// requirement when declared, otherwise the controller default.
func ResolveRequirement(route, controller RoleRequirement) RoleRequirement {
	if route.Declared() {
		return route
	}
	return controller
}
