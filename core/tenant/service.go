package tenant

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/user"
)

type (
	Repository interface {
		CreateTenant(ctx context.Context, t Tenant) (Tenant, error)
		// GetTenant returns the tenant with its branches.
		GetTenant(ctx context.Context, id string) (Tenant, error)
		CreateBranch(ctx context.Context, b Branch) (Branch, error)
		QueryBranches(ctx context.Context, tenant scope.TenantKey) ([]Branch, error)
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, usrRepo user.Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, usrRepo: usrRepo, mailSvc: mailSvc, conf: conf}
}

// Register creates the tenant, its optional first branch and its first
// superadmin. The steps are compensable, not transactional: a failure
// leaves the prior steps in place and reports the step that failed.
func (svc *Service) Register(ctx context.Context, reg Register) (Tenant, user.User, error) {
	now := time.Now().UTC()
	t := Tenant{
		ID:               core.NewID("TEN"),
		OrganizationName: reg.OrganizationName,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	t, err := svc.repo.CreateTenant(ctx, t)
	if err != nil {
		return Tenant{}, user.User{}, err
	}

	if reg.BranchName != "" {
		b := Branch{
			ID:        core.NewID("BRN"),
			TenantID:  t.ID,
			Name:      reg.BranchName,
			CreatedAt: now,
		}
		if b, err = svc.repo.CreateBranch(ctx, b); err != nil {
			return Tenant{}, user.User{}, err
		}
		t.Branches = append(t.Branches, b)
	}

	// superadmins carry the flag and no role; the first one stays
	// HQ-scoped even when a first branch was created
	admin := user.User{
		ID:           core.NewID("USR"),
		TenantID:     t.ID,
		Name:         reg.AdminName,
		Email:        reg.AdminEmail,
		IsSuperAdmin: true,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = admin.SetPassword(reg.AdminPassword); err != nil {
		return Tenant{}, user.User{}, err
	}
	if admin, err = svc.usrRepo.CreateUser(ctx, admin); err != nil {
		return Tenant{}, user.User{}, err
	}

	svc.sendWelcomeEmail(t, admin)
	return t, admin, nil
}

func (svc *Service) Get(ctx context.Context, tenant scope.TenantKey) (Tenant, error) {
	return svc.repo.GetTenant(ctx, tenant.ID())
}

func (svc *Service) AddBranch(ctx context.Context, tenant scope.TenantKey, nb NewBranch) (Branch, error) {
	b := Branch{
		ID:        core.NewID("BRN"),
		TenantID:  tenant.ID(),
		Name:      nb.Name,
		Location:  nb.Location,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateBranch(ctx, b)
}

func (svc *Service) QueryBranches(ctx context.Context, tenant scope.TenantKey) ([]Branch, error) {
	return svc.repo.QueryBranches(ctx, tenant)
}

func (svc *Service) sendWelcomeEmail(t Tenant, admin user.User) {
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: admin.Name, Address: admin.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour organization %q has been registered (tenant %s).\n"+
				"You can now sign in as superadmin and set up roles, branches and users.\n",
			admin.Name, t.OrganizationName, t.ID,
		),
	}
	svc.mailSvc.SendMessages(msg)
}
