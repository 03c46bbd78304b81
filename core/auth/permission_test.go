package auth

import (
	"context"
	"testing"
	"time"

	"github.com/shulehq/shule/core/role"
	inmemdb "github.com/shulehq/shule/storage/database/inmem"
)

func TestEvaluator_Allow(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.NewDB()
	roles := inmemdb.NewRoleRepository(db)

	now := time.Now().UTC()
	teacher := role.Role{
		ID:       "ROL-teacher",
		TenantID: "TEN-1",
		Name:     "Teacher",
		Permissions: []role.Permission{
			{Page: "students", CanView: true, CanEdit: true},
			{Page: "performance", CanView: true, CanAdd: true},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := roles.CreateRole(ctx, teacher); err != nil {
		t.Fatalf("CreateRole() failed: %v", err)
	}

	evaluator := NewEvaluator(roles)

	tests := []struct {
		name      string
		principal Principal
		page      string
		action    role.Action
		wantAllow bool
		wantRule  string
	}{
		{
			name:      "superadmin bypasses everything",
			principal: Principal{UserID: "USR-1", TenantID: "TEN-1", IsSuperAdmin: true},
			page:      "anything", action: role.ActionDelete,
			wantAllow: true, wantRule: RuleSuperAdminBypass,
		},
		{
			name:      "no role assigned",
			principal: Principal{UserID: "USR-2", TenantID: "TEN-1"},
			page:      "students", action: role.ActionView,
			wantRule: RuleNoRoleAssigned,
		},
		{
			name:      "granted",
			principal: Principal{UserID: "USR-3", TenantID: "TEN-1", Role: RoleByID(teacher.ID)},
			page:      "students", action: role.ActionView,
			wantAllow: true, wantRule: RuleGranted,
		},
		{
			name:      "no permission entry for page",
			principal: Principal{UserID: "USR-3", TenantID: "TEN-1", Role: RoleByID(teacher.ID)},
			page:      "roles", action: role.ActionView,
			wantRule: RuleNoPermissionEntry,
		},
		{
			name:      "action not granted",
			principal: Principal{UserID: "USR-3", TenantID: "TEN-1", Role: RoleByID(teacher.ID)},
			page:      "students", action: role.ActionDelete,
			wantRule: RuleActionNotGranted,
		},
		{
			name:      "role from another tenant fails closed",
			principal: Principal{UserID: "USR-4", TenantID: "TEN-2", Role: RoleByID(teacher.ID)},
			page:      "students", action: role.ActionView,
			wantRule: RuleRoleNotFound,
		},
		{
			name:      "unknown role id",
			principal: Principal{UserID: "USR-5", TenantID: "TEN-1", Role: RoleByID("ROL-ghost")},
			page:      "students", action: role.ActionView,
			wantRule: RuleRoleNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := evaluator.Allow(ctx, tt.principal, tt.page, tt.action)
			if err != nil {
				t.Fatalf("Allow() failed: %v", err)
			}
			if dec.Allowed != tt.wantAllow {
				t.Errorf("Allowed = %v, want %v", dec.Allowed, tt.wantAllow)
			}
			if dec.Rule != tt.wantRule {
				t.Errorf("Rule = %v, want %v", dec.Rule, tt.wantRule)
			}
		})
	}
}

// A stale snapshot embedded in a token must never outrank the stored role.
func TestEvaluator_Allow_staleSnapshot(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.NewDB()
	roles := inmemdb.NewRoleRepository(db)

	now := time.Now().UTC()
	clerk := role.Role{
		ID:          "ROL-clerk",
		TenantID:    "TEN-1",
		Name:        "Clerk",
		Permissions: []role.Permission{{Page: "students", CanView: true, CanDelete: true}},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := roles.CreateRole(ctx, clerk); err != nil {
		t.Fatalf("CreateRole() failed: %v", err)
	}

	// token was issued while delete was still granted
	principal := Principal{UserID: "USR-1", TenantID: "TEN-1", Role: InlineRole(clerk)}

	// permissions are narrowed after issuance
	key := principal.Tenant()
	if _, err := roles.ReplacePermissions(ctx, key, clerk.ID, []role.Permission{{Page: "students", CanView: true}}); err != nil {
		t.Fatalf("ReplacePermissions() failed: %v", err)
	}

	evaluator := NewEvaluator(roles)

	dec, err := evaluator.Allow(ctx, principal, "students", role.ActionDelete)
	if err != nil {
		t.Fatalf("Allow() failed: %v", err)
	}
	if dec.Allowed {
		t.Error("Allowed = true, want false; stale snapshot was trusted")
	}
	if dec.Rule != RuleActionNotGranted {
		t.Errorf("Rule = %v, want %v", dec.Rule, RuleActionNotGranted)
	}

	dec, err = evaluator.Allow(ctx, principal, "students", role.ActionView)
	if err != nil {
		t.Fatalf("Allow() failed: %v", err)
	}
	if !dec.Allowed {
		t.Error("Allowed = false, want true")
	}
}
