package tenant_test

import (
	"context"
	"net/mail"
	"strings"
	"testing"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/tenant"
	"github.com/shulehq/shule/core/user"
	emailsvc "github.com/shulehq/shule/services/email"
	inmemdb "github.com/shulehq/shule/storage/database/inmem"
)

func setup(t *testing.T) (*tenant.Service, user.Repository, *emailsvc.ConsoleServiceMock) {
	t.Helper()
	conf := &core.Config{
		AppName:          "Shule",
		DefaultFromEmail: mail.Address{Name: "Shule", Address: "noreply@shule.test"},
	}
	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	mailer := emailsvc.NewConsoleServiceMock(conf)
	return tenant.NewService(inmemdb.NewTenantRepository(db), usrRepo, mailer, conf), usrRepo, mailer
}

func TestService_Register(t *testing.T) {
	svc, usrRepo, mailer := setup(t)
	ctx := context.Background()

	ten, admin, err := svc.Register(ctx, tenant.Register{
		OrganizationName: "Mwangaza Academy",
		AdminName:        "Grace",
		AdminEmail:       "grace@mwangaza.cd",
		AdminPassword:    "s3cret-pwd",
		BranchName:       "Main Campus",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if !strings.HasPrefix(ten.ID, "TEN-") {
		t.Errorf("tenant ID = %q, want TEN- prefix", ten.ID)
	}
	if len(ten.Branches) != 1 || !strings.HasPrefix(ten.Branches[0].ID, "BRN-") {
		t.Fatalf("Branches = %+v, want one BRN- branch", ten.Branches)
	}

	if !strings.HasPrefix(admin.ID, "USR-") {
		t.Errorf("admin ID = %q, want USR- prefix", admin.ID)
	}
	if !admin.IsSuperAdmin {
		t.Error("IsSuperAdmin = false, want true")
	}
	if admin.BranchID.Valid {
		t.Errorf("BranchID = %v, want null; first superadmin stays HQ scoped", admin.BranchID)
	}
	if admin.RoleID.Valid {
		t.Errorf("RoleID = %v, want null; superadmins carry no role", admin.RoleID)
	}

	stored, err := usrRepo.GetUser(ctx, user.GetFilter{Email: "grace@mwangaza.cd"})
	if err != nil {
		t.Fatalf("GetUser() failed: %v", err)
	}
	if err = stored.CheckPassword("s3cret-pwd"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}

	sent := mailer.SentMessages()
	if len(sent) != 1 {
		t.Fatalf("len(SentMessages()) = %d, want 1", len(sent))
	}
	if sent[0].To[0].Address != "grace@mwangaza.cd" {
		t.Errorf("To = %v, want admin address", sent[0].To)
	}
	if !strings.Contains(sent[0].Body, ten.ID) {
		t.Errorf("Body = %q, want it to mention the new tenant id", sent[0].Body)
	}
}

func TestService_Register_duplicateOrganization(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	reg := tenant.Register{
		OrganizationName: "Mwangaza Academy",
		AdminName:        "Grace",
		AdminEmail:       "grace@mwangaza.cd",
		AdminPassword:    "s3cret-pwd",
	}
	if _, _, err := svc.Register(ctx, reg); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	reg.AdminEmail = "other@mwangaza.cd"
	_, _, err := svc.Register(ctx, reg)
	if _, ok := err.(*core.DuplicateError); !ok {
		t.Errorf("Register() error = %v, want *core.DuplicateError", err)
	}
}

func TestService_AddBranch(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	ten, _, err := svc.Register(ctx, tenant.Register{
		OrganizationName: "Mwangaza Academy",
		AdminName:        "Grace",
		AdminEmail:       "grace@mwangaza.cd",
		AdminPassword:    "s3cret-pwd",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if ten.HasBranches() {
		t.Fatal("HasBranches() = true before any branch was added")
	}

	key, err := scope.NewKey(ten.ID)
	if err != nil {
		t.Fatalf("NewKey() failed: %v", err)
	}
	if _, err = svc.AddBranch(ctx, key, tenant.NewBranch{Name: "Westside", Location: "Goma"}); err != nil {
		t.Fatalf("AddBranch() failed: %v", err)
	}

	_, err = svc.AddBranch(ctx, key, tenant.NewBranch{Name: "Westside"})
	if _, ok := err.(*core.DuplicateError); !ok {
		t.Errorf("AddBranch() error = %v, want *core.DuplicateError", err)
	}

	got, err := svc.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !got.HasBranches() || len(got.Branches) != 1 {
		t.Errorf("Branches = %+v, want the single Westside branch", got.Branches)
	}
}
