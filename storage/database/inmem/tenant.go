package inmemdb

import (
	"context"
	"sort"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/tenant"
)

type tenantRepository struct {
	db *DB
}

func NewTenantRepository(db *DB) tenant.Repository {
	return &tenantRepository{db: db}
}

func (repo *tenantRepository) CreateTenant(ctx context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.tenants {
		if existing.OrganizationName == t.OrganizationName {
			return tenant.Tenant{}, &core.DuplicateError{Field: "organization_name", Value: t.OrganizationName}
		}
	}
	t.Branches = nil
	repo.db.tenants[t.ID] = &t
	return t, nil
}

func (repo *tenantRepository) GetTenant(ctx context.Context, id string) (tenant.Tenant, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	t, ok := repo.db.tenants[id]
	if !ok {
		return tenant.Tenant{}, core.ErrNotFound
	}
	res := *t
	res.Branches = repo.queryBranches(id)
	return res, nil
}

func (repo *tenantRepository) CreateBranch(ctx context.Context, b tenant.Branch) (tenant.Branch, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.tenants[b.TenantID]; !ok {
		return tenant.Branch{}, core.ErrNotFound
	}
	for _, existing := range repo.db.branches {
		if existing.TenantID == b.TenantID && existing.Name == b.Name {
			return tenant.Branch{}, &core.DuplicateError{Field: "name", Value: b.Name}
		}
	}
	repo.db.branches[b.ID] = &b
	return b, nil
}

func (repo *tenantRepository) QueryBranches(ctx context.Context, key scope.TenantKey) ([]tenant.Branch, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryBranches(key.ID()), nil
}

func (repo *tenantRepository) queryBranches(tenantID string) []tenant.Branch {
	branches := make([]tenant.Branch, 0)
	for _, b := range repo.db.branches {
		if b.TenantID == tenantID {
			branches = append(branches, *b)
		}
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].CreatedAt.Before(branches[j].CreatedAt) })
	return branches
}
