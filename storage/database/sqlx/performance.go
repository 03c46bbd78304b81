package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/performance"
)

type performanceRepository struct {
	db *sqlx.DB
}

func NewPerformanceRepository(db *sqlx.DB) performance.Repository {
	return &performanceRepository{db: db}
}

func (repo *performanceRepository) CreatePerformance(ctx context.Context, p performance.Performance) (performance.Performance, error) {
	const q = `
		INSERT INTO performance (id, tenant_id, branch_id, student_id, class_id,
			term, year, subject, score, grade, remarks, created_at, updated_at)
		VALUES (:id, :tenant_id, :branch_id, :student_id, :class_id,
			:term, :year, :subject, :score, :grade, :remarks, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, p); err != nil {
		if uniqueViolation(err, "performance_natural_key") {
			return performance.Performance{}, &core.DuplicateError{Field: "subject", Value: p.Subject}
		}
		return performance.Performance{}, err
	}
	return p, nil
}

func (repo *performanceRepository) GetPerformance(ctx context.Context, filter performance.GetFilter) (performance.Performance, error) {
	where, args := scopeWhere(filter.Scope, []string{"id = ?"}, []interface{}{filter.ID})
	q := repo.db.Rebind(`SELECT * FROM performance WHERE ` + where)
	var p performance.Performance
	if err := repo.db.GetContext(ctx, &p, q, args...); err != nil {
		return performance.Performance{}, wrapNotFound(err)
	}
	return p, nil
}

func (repo *performanceRepository) FilterPerformances(ctx context.Context, filter performance.QueryFilter) ([]performance.Performance, error) {
	conds := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	if filter.StudentID != "" {
		conds = append(conds, "student_id = ?")
		args = append(args, filter.StudentID)
	}
	if filter.ClassID != "" {
		conds = append(conds, "class_id = ?")
		args = append(args, filter.ClassID)
	}
	if filter.Term != "" {
		conds = append(conds, "lower(term) = lower(?)")
		args = append(args, filter.Term)
	}
	if filter.Year != 0 {
		conds = append(conds, "year = ?")
		args = append(args, filter.Year)
	}
	where, args := scopeWhere(filter.Scope, conds, args)

	q := repo.db.Rebind(`SELECT * FROM performance WHERE ` + where + ` ORDER BY created_at, id`)
	perfs := make([]performance.Performance, 0)
	if err := repo.db.SelectContext(ctx, &perfs, q, args...); err != nil {
		return nil, err
	}
	return perfs, nil
}

func (repo *performanceRepository) UpdatePerformance(ctx context.Context, p performance.Performance) (performance.Performance, error) {
	const q = `
		UPDATE performance
		SET score = :score, grade = :grade, remarks = :remarks, updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`
	res, err := repo.db.NamedExecContext(ctx, q, p)
	if err != nil {
		return performance.Performance{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return performance.Performance{}, core.ErrNotFound
	}
	return p, nil
}

func (repo *performanceRepository) DeletePerformance(ctx context.Context, filter performance.GetFilter) error {
	p, err := repo.GetPerformance(ctx, filter)
	if err != nil {
		return err
	}
	_, err = repo.db.ExecContext(ctx, `DELETE FROM performance WHERE id = $1`, p.ID)
	return err
}
