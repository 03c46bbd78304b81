package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/scope"
)

type roleRepository struct {
	db *sqlx.DB
}

func NewRoleRepository(db *sqlx.DB) role.Repository {
	return &roleRepository{db: db}
}

// roleRow carries the JSONB permissions column alongside the model.
type roleRow struct {
	role.Role
	PermissionsJSON []byte `db:"permissions"`
}

func newRoleRow(r role.Role) (roleRow, error) {
	perms, err := json.Marshal(r.Permissions)
	if err != nil {
		return roleRow{}, errors.Wrap(err, "encoding permissions")
	}
	return roleRow{Role: r, PermissionsJSON: perms}, nil
}

func (row roleRow) model() (role.Role, error) {
	r := row.Role
	if len(row.PermissionsJSON) > 0 {
		if err := json.Unmarshal(row.PermissionsJSON, &r.Permissions); err != nil {
			return role.Role{}, errors.Wrap(err, "decoding permissions")
		}
	}
	return r, nil
}

func (repo *roleRepository) CreateRole(ctx context.Context, r role.Role) (role.Role, error) {
	row, err := newRoleRow(r)
	if err != nil {
		return role.Role{}, err
	}
	const q = `
		INSERT INTO role (id, tenant_id, name, permissions, created_at, updated_at)
		VALUES (:id, :tenant_id, :name, :permissions, :created_at, :updated_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		if uniqueViolation(err, "role_tenant_id_name_key") {
			return role.Role{}, &core.DuplicateError{Field: "role_name", Value: r.Name}
		}
		return role.Role{}, err
	}
	return r, nil
}

func (repo *roleRepository) GetRole(ctx context.Context, filter role.GetFilter) (role.Role, error) {
	if filter.Tenant.IsZero() {
		return role.Role{}, core.ErrNotFound
	}
	conds := []string{"tenant_id = ?"}
	args := []interface{}{filter.Tenant.ID()}
	if filter.ID != "" {
		conds = append(conds, "id = ?")
		args = append(args, filter.ID)
	}
	if filter.Name != "" {
		conds = append(conds, "lower(name) = lower(?)")
		args = append(args, filter.Name)
	}

	q := repo.db.Rebind(`SELECT * FROM role WHERE ` + joinAnd(conds))
	var row roleRow
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return role.Role{}, wrapNotFound(err)
	}
	return row.model()
}

func (repo *roleRepository) QueryRoles(ctx context.Context, tenant scope.TenantKey) ([]role.Role, error) {
	rows := make([]roleRow, 0)
	const q = `SELECT * FROM role WHERE tenant_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, q, tenant.ID()); err != nil {
		return nil, err
	}
	roles := make([]role.Role, 0, len(rows))
	for _, row := range rows {
		r, err := row.model()
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

func (repo *roleRepository) ReplacePermissions(ctx context.Context, tenant scope.TenantKey, id string, perms []role.Permission) (role.Role, error) {
	encoded, err := json.Marshal(perms)
	if err != nil {
		return role.Role{}, errors.Wrap(err, "encoding permissions")
	}
	const q = `
		UPDATE role SET permissions = $1, updated_at = $2
		WHERE id = $3 AND tenant_id = $4`
	res, err := repo.db.ExecContext(ctx, q, encoded, time.Now().UTC(), id, tenant.ID())
	if err != nil {
		return role.Role{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return role.Role{}, core.ErrNotFound
	}
	return repo.GetRole(ctx, role.GetFilter{Tenant: tenant, ID: id})
}
