package user

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/scope"
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		// GetUser applies AND on available GetFilter fields.
		GetUser(ctx context.Context, filter GetFilter) (User, error)
		FilterUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo  Repository
		roles role.Repository
	}
)

func NewService(repo Repository, roles role.Repository) *Service {
	return &Service{repo: repo, roles: roles}
}

// Create makes a role-based (or superadmin-less) user inside the caller's
// scope. The role, when given, must resolve within the owning tenant.
func (svc *Service) Create(ctx context.Context, own scope.Ownership, nu NewUser) (User, error) {
	var roleID null.String
	if nu.RoleID != "" {
		r, err := svc.roles.GetRole(ctx, role.GetFilter{Tenant: own.Tenant, ID: nu.RoleID})
		if err != nil {
			if err == core.ErrNotFound {
				return User{}, core.NewValidationError(nil, core.FieldError{Field: "role_id", Error: "role not found"})
			}
			return User{}, err
		}
		roleID = null.StringFrom(r.ID)
	}

	now := time.Now().UTC()
	usr := User{
		ID:        core.NewID("USR"),
		TenantID:  own.Tenant.ID(),
		BranchID:  own.BranchID,
		Name:      nu.Name,
		Email:     nu.Email,
		RoleID:    roleID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, tenant scope.TenantKey, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Tenant: tenant, ID: id})
}

// GetByEmail is unscoped; it serves login, which has no tenant yet.
func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]User, error) {
	filter.Search = core.CleanString(filter.Search)
	return svc.repo.FilterUsers(ctx, filter)
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}
