package auth

import (
	"context"
	"fmt"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/role"
)

// Rules recorded on a Decision. The first two allow, the rest deny.
const (
	RuleSuperAdminBypass  = "superadmin_bypass"
	RuleGranted           = "permission_granted"
	RuleNoRoleAssigned    = "no_role_assigned"
	RuleRoleNotFound      = "role_not_found"
	RuleNoPermissionEntry = "no_permission_entry"
	RuleActionNotGranted  = "action_not_granted"
)

// Decision is the structured trace of one permission evaluation. It is
// returned to the caller, which may log or sample it; the evaluator
// itself has no logging side channel.
type Decision struct {
	UserID   string      `json:"user_id"`
	TenantID string      `json:"tenant_id"`
	Page     string      `json:"page"`
	Action   role.Action `json:"action"`
	Role     string      `json:"role,omitempty"`
	Rule     string      `json:"rule"`
	Allowed  bool        `json:"allowed"`
}

// PermissionError is a denied Decision as an error, for transports that
// surface denials through the error path.
type PermissionError struct {
	Decision Decision
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Decision.Rule)
}

// Evaluator decides allow/deny for a (principal, page, action) triple
// against the tenant's role permission matrix. It is a pure function of
// its inputs plus durable role data, safe for concurrent use.
type Evaluator struct {
	roles role.Repository
}

func NewEvaluator(roles role.Repository) *Evaluator {
	return &Evaluator{roles: roles}
}

// Allow evaluates the permission matrix:
//  1. superadmins bypass unconditionally;
//  2. the principal's role must resolve within its tenant (an inline
//     snapshot is re-fetched, never trusted as current);
//  3. the role must carry an entry for the page;
//  4. the entry's flag for the action must be exactly true.
//
// A returned error means the evaluation itself failed (store trouble);
// denials come back as a Decision with Allowed=false.
func (e *Evaluator) Allow(ctx context.Context, p Principal, page string, action role.Action) (Decision, error) {
	dec := Decision{
		UserID:   p.UserID,
		TenantID: p.TenantID,
		Page:     page,
		Action:   action,
	}

	if p.IsSuperAdmin {
		dec.Allowed = true
		dec.Rule = RuleSuperAdminBypass
		return dec, nil
	}

	if p.Role.IsZero() {
		dec.Rule = RuleNoRoleAssigned
		return dec, nil
	}

	r, err := e.resolveRole(ctx, p)
	if err != nil {
		if err == core.ErrNotFound {
			dec.Rule = RuleRoleNotFound
			return dec, nil
		}
		return dec, err
	}
	dec.Role = r.Name

	perm, ok := r.Permission(page)
	if !ok {
		dec.Rule = RuleNoPermissionEntry
		return dec, nil
	}
	if !perm.Can(action) {
		dec.Rule = RuleActionNotGranted
		return dec, nil
	}

	dec.Allowed = true
	dec.Rule = RuleGranted
	return dec, nil
}

// resolveRole is the single path for both RoleRef forms. The role is
// always re-fetched with the principal's tenant key: permissions may have
// changed since token issuance, and a role id that exists under another
// tenant must fail closed as not found.
func (e *Evaluator) resolveRole(ctx context.Context, p Principal) (role.Role, error) {
	return e.roles.GetRole(ctx, role.GetFilter{Tenant: p.Tenant(), ID: p.Role.ID()})
}
