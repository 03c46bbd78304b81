package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/scope"
)

type roleRepository struct {
	db *DB
}

func NewRoleRepository(db *DB) role.Repository {
	return &roleRepository{db: db}
}

func (repo *roleRepository) CreateRole(ctx context.Context, r role.Role) (role.Role, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.roles {
		if existing.TenantID == r.TenantID && strings.EqualFold(existing.Name, r.Name) {
			return role.Role{}, &core.DuplicateError{Field: "role_name", Value: r.Name}
		}
	}
	repo.db.roles[r.ID] = &r
	return r, nil
}

func (repo *roleRepository) GetRole(ctx context.Context, filter role.GetFilter) (role.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.getRole(filter)
}

func (repo *roleRepository) getRole(filter role.GetFilter) (role.Role, error) {
	if filter.Tenant.IsZero() {
		return role.Role{}, core.ErrNotFound
	}
	for _, r := range repo.db.roles {
		if r.TenantID != filter.Tenant.ID() {
			continue
		}
		if filter.ID != "" && r.ID != filter.ID {
			continue
		}
		if filter.Name != "" && !strings.EqualFold(r.Name, filter.Name) {
			continue
		}
		return *r, nil
	}
	return role.Role{}, core.ErrNotFound
}

func (repo *roleRepository) QueryRoles(ctx context.Context, tenant scope.TenantKey) ([]role.Role, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	roles := make([]role.Role, 0)
	for _, r := range repo.db.roles {
		if r.TenantID == tenant.ID() {
			roles = append(roles, *r)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].CreatedAt.Before(roles[j].CreatedAt) })
	return roles, nil
}

func (repo *roleRepository) ReplacePermissions(ctx context.Context, tenant scope.TenantKey, id string, perms []role.Permission) (role.Role, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r, err := repo.getRole(role.GetFilter{Tenant: tenant, ID: id})
	if err != nil {
		return role.Role{}, err
	}
	r.Permissions = perms
	r.UpdatedAt = time.Now().UTC()
	repo.db.roles[r.ID] = &r
	return r, nil
}
