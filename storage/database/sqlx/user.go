package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
		INSERT INTO "user" (id, tenant_id, branch_id, name, email, password_hash,
			is_superadmin, role_id, is_active, created_at, updated_at, last_login)
		VALUES (:id, :tenant_id, :branch_id, :name, :email, :password_hash,
			:is_superadmin, :role_id, :is_active, :created_at, :updated_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, q, usr); err != nil {
		if uniqueViolation(err, "user_email_key") {
			return user.User{}, &core.DuplicateError{Field: "email", Value: usr.Email}
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if filter.ID != "" {
		conds = append(conds, "id = ?")
		args = append(args, filter.ID)
	}
	if filter.Email != "" {
		conds = append(conds, "lower(email) = lower(?)")
		args = append(args, filter.Email)
	}
	if !filter.Tenant.IsZero() {
		conds = append(conds, "tenant_id = ?")
		args = append(args, filter.Tenant.ID())
	}
	if len(conds) == 0 {
		return user.User{}, core.ErrNotFound
	}

	q := repo.db.Rebind(`SELECT * FROM "user" WHERE ` + joinAnd(conds))
	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, q, args...); err != nil {
		return user.User{}, wrapNotFound(err)
	}
	return usr, nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if filter.RoleID != "" {
		conds = append(conds, "role_id = ?")
		args = append(args, filter.RoleID)
	}
	if filter.IsActive != nil {
		conds = append(conds, "is_active = ?")
		args = append(args, *filter.IsActive)
	}
	if filter.Search != "" {
		conds = append(conds, "(name ILIKE ? OR email ILIKE ?)")
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	where, args := scopeWhere(filter.Scope, conds, args)

	q := repo.db.Rebind(`SELECT * FROM "user" WHERE ` + where + ` ORDER BY created_at`)
	users := make([]user.User, 0)
	if err := repo.db.SelectContext(ctx, &users, q, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
		UPDATE "user"
		SET branch_id = :branch_id, name = :name, email = :email,
			password_hash = :password_hash, role_id = :role_id,
			is_active = :is_active, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id AND tenant_id = :tenant_id`
	res, err := repo.db.NamedExecContext(ctx, q, usr)
	if err != nil {
		return user.User{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, core.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	_, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...)
	return err
}
