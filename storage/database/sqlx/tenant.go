package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/tenant"
)

type tenantRepository struct {
	db *sqlx.DB
}

func NewTenantRepository(db *sqlx.DB) tenant.Repository {
	return &tenantRepository{db: db}
}

func (repo *tenantRepository) CreateTenant(ctx context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	const q = `
		INSERT INTO tenant (id, organization_name, created_at, updated_at)
		VALUES (:id, :organization_name, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, t); err != nil {
		if uniqueViolation(err, "tenant_organization_name_key") {
			return tenant.Tenant{}, &core.DuplicateError{Field: "organization_name", Value: t.OrganizationName}
		}
		return tenant.Tenant{}, err
	}
	return t, nil
}

func (repo *tenantRepository) GetTenant(ctx context.Context, id string) (tenant.Tenant, error) {
	var t tenant.Tenant
	err := repo.db.GetContext(ctx, &t, `SELECT * FROM tenant WHERE id = $1`, id)
	if err != nil {
		return tenant.Tenant{}, wrapNotFound(err)
	}
	key, err := scope.NewKey(t.ID)
	if err != nil {
		return tenant.Tenant{}, err
	}
	if t.Branches, err = repo.QueryBranches(ctx, key); err != nil {
		return tenant.Tenant{}, err
	}
	return t, nil
}

func (repo *tenantRepository) CreateBranch(ctx context.Context, b tenant.Branch) (tenant.Branch, error) {
	const q = `
		INSERT INTO branch (id, tenant_id, name, location, created_at)
		VALUES (:id, :tenant_id, :name, :location, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, b); err != nil {
		if uniqueViolation(err, "branch_tenant_id_name_key") {
			return tenant.Branch{}, &core.DuplicateError{Field: "name", Value: b.Name}
		}
		return tenant.Branch{}, err
	}
	return b, nil
}

func (repo *tenantRepository) QueryBranches(ctx context.Context, key scope.TenantKey) ([]tenant.Branch, error) {
	branches := make([]tenant.Branch, 0)
	const q = `SELECT * FROM branch WHERE tenant_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &branches, q, key.ID()); err != nil {
		return nil, err
	}
	return branches, nil
}
