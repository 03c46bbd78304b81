package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/class"
)

type classRepository struct {
	db *sqlx.DB
}

func NewClassRepository(db *sqlx.DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(ctx context.Context, c class.Class) (class.Class, error) {
	const q = `
		INSERT INTO class (id, tenant_id, branch_id, name, form_level, stream,
			year, teacher_id, created_at, updated_at)
		VALUES (:id, :tenant_id, :branch_id, :name, :form_level, :stream,
			:year, :teacher_id, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, c); err != nil {
		if uniqueViolation(err, "class_tenant_id_year_name_key") {
			return class.Class{}, &core.DuplicateError{Field: "name", Value: c.Name}
		}
		return class.Class{}, err
	}
	return c, nil
}

func (repo *classRepository) GetClass(ctx context.Context, filter class.GetFilter) (class.Class, error) {
	where, args := scopeWhere(filter.Scope, []string{"id = ?"}, []interface{}{filter.ID})
	q := repo.db.Rebind(`SELECT * FROM class WHERE ` + where)
	var c class.Class
	if err := repo.db.GetContext(ctx, &c, q, args...); err != nil {
		return class.Class{}, wrapNotFound(err)
	}
	return c, nil
}

func (repo *classRepository) FilterClasses(ctx context.Context, filter class.QueryFilter) ([]class.Class, error) {
	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if filter.Year != 0 {
		conds = append(conds, "year = ?")
		args = append(args, filter.Year)
	}
	if filter.FormLevel != 0 {
		conds = append(conds, "form_level = ?")
		args = append(args, filter.FormLevel)
	}
	if filter.Stream != "" {
		conds = append(conds, "lower(stream) = lower(?)")
		args = append(args, filter.Stream)
	}
	where, args := scopeWhere(filter.Scope, conds, args)

	q := repo.db.Rebind(`SELECT * FROM class WHERE ` + where + ` ORDER BY created_at`)
	classes := make([]class.Class, 0)
	if err := repo.db.SelectContext(ctx, &classes, q, args...); err != nil {
		return nil, err
	}
	return classes, nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, c class.Class) (class.Class, error) {
	const q = `
		UPDATE class
		SET name = :name, form_level = :form_level, stream = :stream,
			year = :year, teacher_id = :teacher_id, updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`
	res, err := repo.db.NamedExecContext(ctx, q, c)
	if err != nil {
		if uniqueViolation(err, "class_tenant_id_year_name_key") {
			return class.Class{}, &core.DuplicateError{Field: "name", Value: c.Name}
		}
		return class.Class{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return class.Class{}, core.ErrNotFound
	}
	return c, nil
}

func (repo *classRepository) DeleteClass(ctx context.Context, filter class.GetFilter) error {
	c, err := repo.GetClass(ctx, filter)
	if err != nil {
		return err
	}
	_, err = repo.db.ExecContext(ctx, `DELETE FROM class WHERE id = $1`, c.ID)
	return err
}
