package role

import (
	"context"
	"time"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
)

type (
	Repository interface {
		CreateRole(ctx context.Context, r Role) (Role, error)
		// GetRole applies AND on available GetFilter fields; the tenant key
		// is mandatory.
		GetRole(ctx context.Context, filter GetFilter) (Role, error)
		QueryRoles(ctx context.Context, tenant scope.TenantKey) ([]Role, error)
		ReplacePermissions(ctx context.Context, tenant scope.TenantKey, id string, perms []Permission) (Role, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, tenant scope.TenantKey, nr NewRole) (Role, error) {
	now := time.Now().UTC()
	r := Role{
		ID:          core.NewID("ROL"),
		TenantID:    tenant.ID(),
		Name:        nr.Name,
		Permissions: nr.Permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateRole(ctx, r)
}

func (svc *Service) Query(ctx context.Context, tenant scope.TenantKey) ([]Role, error) {
	return svc.repo.QueryRoles(ctx, tenant)
}

func (svc *Service) GetByID(ctx context.Context, tenant scope.TenantKey, id string) (Role, error) {
	return svc.repo.GetRole(ctx, GetFilter{Tenant: tenant, ID: id})
}

func (svc *Service) GetByName(ctx context.Context, tenant scope.TenantKey, name string) (Role, error) {
	return svc.repo.GetRole(ctx, GetFilter{Tenant: tenant, Name: name})
}

func (svc *Service) Replace(ctx context.Context, tenant scope.TenantKey, id string, up UpdatePermissions) (Role, error) {
	return svc.repo.ReplacePermissions(ctx, tenant, id, up.Permissions)
}

// RoleName implements scope.RoleNamer.
func (svc *Service) RoleName(ctx context.Context, tenant scope.TenantKey, roleID string) (string, error) {
	r, err := svc.repo.GetRole(ctx, GetFilter{Tenant: tenant, ID: roleID})
	if err != nil {
		return "", err
	}
	return r.Name, nil
}
