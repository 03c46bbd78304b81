// Package scope derives the mandatory query predicate (tenant, branch,
// relationship) that every store read/write must honor. A Filter cannot
// be built without an explicit TenantKey, so a tenant-less query is a
// compile-time impossibility rather than a code-review hope.
package scope

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

// TenantKey is a validated, explicit tenant identity. The zero value is
// unusable: every constructor rejects an empty id and every store match
// fails closed on it.
type TenantKey struct {
	id string
}

func NewKey(tenantID string) (TenantKey, error) {
	if tenantID == "" {
		return TenantKey{}, core.ErrInvalidID
	}
	return TenantKey{id: tenantID}, nil
}

func (k TenantKey) ID() string   { return k.id }
func (k TenantKey) IsZero() bool { return k.id == "" }

// Actor is the minimal view of an authenticated principal the builder
// needs. The auth package adapts its Principal into one.
type Actor struct {
	UserID     string
	Tenant     TenantKey
	BranchID   string // empty = HQ, no branch restriction
	SuperAdmin bool
	RoleID     string // empty = no role assigned
}

// Kind names the resource a filter is being built for; relationship
// narrowing is resource-specific.
type Kind int

const (
	KindUser Kind = iota
	KindRole
	KindBranch
	KindStudent
	KindClass
	KindPerformance
)

// RoleNamer resolves a role id to its name within a tenant. Lookups must
// fail closed: a role belonging to another tenant is core.ErrNotFound.
type RoleNamer interface {
	RoleName(ctx context.Context, tenant TenantKey, roleID string) (string, error)
}

// roleNameParent triggers relationship narrowing on students: a parent
// sees only their own children, whatever their branch.
const roleNameParent = "Parent"

// Filter is the mandatory base predicate. Stores intersect it (logical
// AND) with any caller-supplied arguments before touching documents.
type Filter struct {
	tenant   TenantKey
	branchID string
	byBranch bool
	ownerID  string
	byOwner  bool
}

func NewFilter(tenant TenantKey) Filter {
	return Filter{tenant: tenant}
}

func (f Filter) Tenant() TenantKey { return f.tenant }

func (f Filter) Branch() (string, bool) { return f.branchID, f.byBranch }

func (f Filter) Owner() (string, bool) { return f.ownerID, f.byOwner }

// Doc is any stored document the filter can be matched against.
// Resources without a branch or owner report null.
type Doc interface {
	DocTenantID() string
	DocBranchID() null.String
	DocOwnerID() null.String
}

// Matches reports whether doc falls inside the filter's scope. A zero
// tenant key matches nothing.
func (f Filter) Matches(doc Doc) bool {
	if f.tenant.IsZero() || doc.DocTenantID() != f.tenant.id {
		return false
	}
	if f.byBranch {
		if b := doc.DocBranchID(); !b.Valid || b.String != f.branchID {
			return false
		}
	}
	if f.byOwner {
		if o := doc.DocOwnerID(); !o.Valid || o.String != f.ownerID {
			return false
		}
	}
	return true
}

// Where renders the filter as SQL conditions with "?" placeholders;
// callers rebind for their driver. Columns are fixed: tenant_id,
// branch_id, parent_id.
func (f Filter) Where() (conds []string, args []interface{}) {
	conds = append(conds, "tenant_id = ?")
	args = append(args, f.tenant.id)
	if f.byBranch {
		conds = append(conds, "branch_id = ?")
		args = append(args, f.branchID)
	}
	if f.byOwner {
		conds = append(conds, "parent_id = ?")
		args = append(args, f.ownerID)
	}
	return conds, args
}

// BuildFilter derives the mandatory predicate for an actor querying a
// resource kind:
//  1. always constrain to the actor's tenant;
//  2. non-superadmins with a branch are confined to that branch;
//  3. a Parent querying students is confined to their own children.
func BuildFilter(ctx context.Context, a Actor, kind Kind, roles RoleNamer) (Filter, error) {
	if a.Tenant.IsZero() {
		return Filter{}, core.ErrInvalidID
	}
	flt := Filter{tenant: a.Tenant}

	if !a.SuperAdmin && a.BranchID != "" {
		flt.branchID = a.BranchID
		flt.byBranch = true
	}

	if kind == KindStudent && !a.SuperAdmin && a.RoleID != "" {
		name, err := roles.RoleName(ctx, a.Tenant, a.RoleID)
		if err != nil {
			return Filter{}, err
		}
		if name == roleNameParent {
			flt.ownerID = a.UserID
			flt.byOwner = true
		}
	}
	return flt, nil
}

// Ownership carries the defaulted ownership fields stamped onto a
// created or updated document.
type Ownership struct {
	Tenant   TenantKey
	BranchID null.String
}

// OwnFields determines the ownership of a written record. The tenant is
// always the actor's; a payload asserting a different tenant is rejected,
// never silently trusted. The branch defaults to the actor's; an actor
// without a branch (HQ) may target any branch via the payload.
func OwnFields(a Actor, payloadTenantID, payloadBranchID string) (Ownership, error) {
	if a.Tenant.IsZero() {
		return Ownership{}, core.ErrInvalidID
	}
	if payloadTenantID != "" && payloadTenantID != a.Tenant.id {
		return Ownership{}, core.NewValidationError(nil, core.FieldError{
			Field: "tenant_id",
			Error: "cannot write records outside your tenant",
		})
	}
	own := Ownership{Tenant: a.Tenant}
	switch {
	case a.BranchID != "":
		own.BranchID = null.StringFrom(a.BranchID)
	case payloadBranchID != "":
		own.BranchID = null.StringFrom(payloadBranchID)
	}
	return own, nil
}
