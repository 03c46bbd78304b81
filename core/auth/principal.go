// Package auth is the authorization core: it verifies session tokens,
// guards the deployment gateway and evaluates role permissions. The
// Principal it produces is an immutable value threaded explicitly into
// every downstream call; nothing here keeps per-request state.
package auth

import (
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/scope"
)

// Principal is the verified identity and claim set driving authorization
// decisions for one request.
type Principal struct {
	UserID       string
	TenantID     string
	BranchID     string // empty = HQ
	IsSuperAdmin bool
	Role         RoleRef
}

// Tenant returns the principal's tenant key. A principal only ever comes
// out of a verified token, whose tenant claim is non-empty.
func (p Principal) Tenant() scope.TenantKey {
	key, _ := scope.NewKey(p.TenantID)
	return key
}

// Actor adapts the principal for the scope filter builder.
func (p Principal) Actor() scope.Actor {
	return scope.Actor{
		UserID:     p.UserID,
		Tenant:     p.Tenant(),
		BranchID:   p.BranchID,
		SuperAdmin: p.IsSuperAdmin,
		RoleID:     p.Role.ID(),
	}
}

// RoleRef carries a principal's role either as a bare identifier or as a
// snapshot embedded at token issuance. Whatever the form, permissions are
// re-resolved from the store before use; a snapshot is display data, not
// an authority.
type RoleRef struct {
	id       string
	snapshot *role.Role
}

func RoleByID(id string) RoleRef {
	return RoleRef{id: id}
}

func InlineRole(r role.Role) RoleRef {
	return RoleRef{id: r.ID, snapshot: &r}
}

func (r RoleRef) ID() string           { return r.id }
func (r RoleRef) Snapshot() *role.Role { return r.snapshot }
func (r RoleRef) IsZero() bool         { return r.id == "" }
