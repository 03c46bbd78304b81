package scope

import (
	"context"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

type roleNamerStub map[string]string

func (s roleNamerStub) RoleName(_ context.Context, _ TenantKey, roleID string) (string, error) {
	if name, ok := s[roleID]; ok {
		return name, nil
	}
	return "", core.ErrNotFound
}

type docStub struct {
	tenantID string
	branchID null.String
	ownerID  null.String
}

func (d docStub) DocTenantID() string      { return d.tenantID }
func (d docStub) DocBranchID() null.String { return d.branchID }
func (d docStub) DocOwnerID() null.String  { return d.ownerID }

func mustNewKey(t *testing.T, id string) TenantKey {
	t.Helper()
	key, err := NewKey(id)
	if err != nil {
		t.Fatalf("NewKey(%q) failed: %v", id, err)
	}
	return key
}

func TestNewKey_rejectsEmpty(t *testing.T) {
	if _, err := NewKey(""); err != core.ErrInvalidID {
		t.Errorf("NewKey(\"\") error = %v, want %v", err, core.ErrInvalidID)
	}
}

func TestBuildFilter(t *testing.T) {
	ctx := context.Background()
	names := roleNamerStub{"ROL-parent": "Parent", "ROL-teacher": "Teacher"}
	ten := mustNewKey(t, "TEN-1")

	tests := []struct {
		name       string
		actor      Actor
		kind       Kind
		wantBranch string
		wantOwner  string
	}{
		{
			name:  "tenant only",
			actor: Actor{UserID: "USR-1", Tenant: ten},
			kind:  KindClass,
		},
		{
			name:       "branch user is confined to branch",
			actor:      Actor{UserID: "USR-1", Tenant: ten, BranchID: "BRN-1", RoleID: "ROL-teacher"},
			kind:       KindClass,
			wantBranch: "BRN-1",
		},
		{
			name:  "superadmin ignores branch",
			actor: Actor{UserID: "USR-1", Tenant: ten, BranchID: "BRN-1", SuperAdmin: true},
			kind:  KindClass,
		},
		{
			name:      "parent querying students sees own children only",
			actor:     Actor{UserID: "USR-p", Tenant: ten, RoleID: "ROL-parent"},
			kind:      KindStudent,
			wantOwner: "USR-p",
		},
		{
			name:  "parent querying classes gets no owner narrowing",
			actor: Actor{UserID: "USR-p", Tenant: ten, RoleID: "ROL-parent"},
			kind:  KindClass,
		},
		{
			name:  "teacher querying students gets no owner narrowing",
			actor: Actor{UserID: "USR-t", Tenant: ten, RoleID: "ROL-teacher"},
			kind:  KindStudent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flt, err := BuildFilter(ctx, tt.actor, tt.kind, names)
			if err != nil {
				t.Fatalf("BuildFilter() failed: %v", err)
			}
			if flt.Tenant() != ten {
				t.Errorf("Tenant() = %v, want %v", flt.Tenant(), ten)
			}
			branch, byBranch := flt.Branch()
			if byBranch != (tt.wantBranch != "") || branch != tt.wantBranch {
				t.Errorf("Branch() = %q, %v; want %q", branch, byBranch, tt.wantBranch)
			}
			owner, byOwner := flt.Owner()
			if byOwner != (tt.wantOwner != "") || owner != tt.wantOwner {
				t.Errorf("Owner() = %q, %v; want %q", owner, byOwner, tt.wantOwner)
			}
		})
	}
}

func TestBuildFilter_zeroTenant(t *testing.T) {
	if _, err := BuildFilter(context.Background(), Actor{UserID: "USR-1"}, KindUser, roleNamerStub{}); err != core.ErrInvalidID {
		t.Errorf("BuildFilter() error = %v, want %v", err, core.ErrInvalidID)
	}
}

func TestFilter_Matches(t *testing.T) {
	ten := mustNewKey(t, "TEN-1")

	branchFlt := NewFilter(ten)
	branchFlt.branchID = "BRN-1"
	branchFlt.byBranch = true

	ownerFlt := NewFilter(ten)
	ownerFlt.ownerID = "USR-p"
	ownerFlt.byOwner = true

	tests := []struct {
		name string
		flt  Filter
		doc  docStub
		want bool
	}{
		{name: "same tenant", flt: NewFilter(ten), doc: docStub{tenantID: "TEN-1"}, want: true},
		{name: "other tenant", flt: NewFilter(ten), doc: docStub{tenantID: "TEN-2"}},
		{name: "zero filter matches nothing", flt: Filter{}, doc: docStub{tenantID: ""}},
		{name: "branch match", flt: branchFlt, doc: docStub{tenantID: "TEN-1", branchID: null.StringFrom("BRN-1")}, want: true},
		{name: "branch mismatch", flt: branchFlt, doc: docStub{tenantID: "TEN-1", branchID: null.StringFrom("BRN-2")}},
		{name: "null branch fails closed", flt: branchFlt, doc: docStub{tenantID: "TEN-1"}},
		{name: "owner match", flt: ownerFlt, doc: docStub{tenantID: "TEN-1", ownerID: null.StringFrom("USR-p")}, want: true},
		{name: "null owner fails closed", flt: ownerFlt, doc: docStub{tenantID: "TEN-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flt.Matches(tt.doc); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Where(t *testing.T) {
	ten := mustNewKey(t, "TEN-1")
	flt := NewFilter(ten)
	flt.branchID = "BRN-1"
	flt.byBranch = true
	flt.ownerID = "USR-p"
	flt.byOwner = true

	conds, args := flt.Where()
	wantConds := []string{"tenant_id = ?", "branch_id = ?", "parent_id = ?"}
	if len(conds) != len(wantConds) {
		t.Fatalf("Where() conds = %v, want %v", conds, wantConds)
	}
	for i, c := range wantConds {
		if conds[i] != c {
			t.Errorf("conds[%d] = %q, want %q", i, conds[i], c)
		}
	}
	wantArgs := []interface{}{"TEN-1", "BRN-1", "USR-p"}
	for i, a := range wantArgs {
		if args[i] != a {
			t.Errorf("args[%d] = %v, want %v", i, args[i], a)
		}
	}
}

func TestOwnFields(t *testing.T) {
	ten := mustNewKey(t, "TEN-1")

	t.Run("payload asserting foreign tenant is rejected", func(t *testing.T) {
		_, err := OwnFields(Actor{UserID: "USR-1", Tenant: ten}, "TEN-2", "")
		vErr, ok := err.(*core.ValidationError)
		if !ok {
			t.Fatalf("OwnFields() error = %v, want *core.ValidationError", err)
		}
		if len(vErr.Fields) == 0 || vErr.Fields[0].Field != "tenant_id" {
			t.Errorf("Fields = %+v, want tenant_id error", vErr.Fields)
		}
	})

	t.Run("actor branch wins over payload branch", func(t *testing.T) {
		own, err := OwnFields(Actor{UserID: "USR-1", Tenant: ten, BranchID: "BRN-1"}, "TEN-1", "BRN-2")
		if err != nil {
			t.Fatalf("OwnFields() failed: %v", err)
		}
		if own.BranchID.String != "BRN-1" {
			t.Errorf("BranchID = %v, want BRN-1", own.BranchID)
		}
	})

	t.Run("HQ actor may target a payload branch", func(t *testing.T) {
		own, err := OwnFields(Actor{UserID: "USR-1", Tenant: ten}, "", "BRN-2")
		if err != nil {
			t.Fatalf("OwnFields() failed: %v", err)
		}
		if own.BranchID.String != "BRN-2" {
			t.Errorf("BranchID = %v, want BRN-2", own.BranchID)
		}
	})

	t.Run("no branch anywhere stays null", func(t *testing.T) {
		own, err := OwnFields(Actor{UserID: "USR-1", Tenant: ten}, "", "")
		if err != nil {
			t.Fatalf("OwnFields() failed: %v", err)
		}
		if own.BranchID.Valid {
			t.Errorf("BranchID = %v, want null", own.BranchID)
		}
	})
}
