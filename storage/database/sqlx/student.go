package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	const q = `
		INSERT INTO student (id, tenant_id, branch_id, user_id, class_id, parent_id,
			name, email, admission_number, date_of_birth, gender,
			guardian_name, guardian_phone, guardian_email, created_at, updated_at)
		VALUES (:id, :tenant_id, :branch_id, :user_id, :class_id, :parent_id,
			:name, :email, :admission_number, :date_of_birth, :gender,
			:guardian_name, :guardian_phone, :guardian_email, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, s); err != nil {
		if uniqueViolation(err, "student_tenant_id_admission_number_key") {
			return student.Student{}, &core.DuplicateError{Field: "admission_number", Value: s.AdmissionNumber.String}
		}
		return student.Student{}, err
	}
	return s, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	where, args := scopeWhere(filter.Scope, []string{"id = ?"}, []interface{}{filter.ID})
	q := repo.db.Rebind(`SELECT * FROM student WHERE ` + where)
	var s student.Student
	if err := repo.db.GetContext(ctx, &s, q, args...); err != nil {
		return student.Student{}, wrapNotFound(err)
	}
	return s, nil
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if filter.ClassID != "" {
		conds = append(conds, "class_id = ?")
		args = append(args, filter.ClassID)
	}
	if filter.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Search != "" {
		conds = append(conds, "(name ILIKE ? OR admission_number ILIKE ?)")
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	where, args := scopeWhere(filter.Scope, conds, args)

	q := repo.db.Rebind(`SELECT * FROM student WHERE ` + where + ` ORDER BY created_at`)
	students := make([]student.Student, 0)
	if err := repo.db.SelectContext(ctx, &students, q, args...); err != nil {
		return nil, err
	}
	return students, nil
}

func (repo *studentRepository) GetStudentsByID(ctx context.Context, tenant scope.TenantKey, ids ...string) ([]student.Student, error) {
	if len(ids) == 0 {
		return []student.Student{}, nil
	}
	q, args, err := sqlx.In(`SELECT * FROM student WHERE tenant_id = ? AND id IN (?)`, tenant.ID(), ids)
	if err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(ids))
	if err = repo.db.SelectContext(ctx, &students, repo.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	const q = `
		UPDATE student
		SET class_id = :class_id, parent_id = :parent_id, name = :name,
			email = :email, admission_number = :admission_number,
			date_of_birth = :date_of_birth, gender = :gender,
			guardian_name = :guardian_name, guardian_phone = :guardian_phone,
			guardian_email = :guardian_email, updated_at = :updated_at
		WHERE id = :id AND tenant_id = :tenant_id`
	res, err := repo.db.NamedExecContext(ctx, q, s)
	if err != nil {
		if uniqueViolation(err, "student_tenant_id_admission_number_key") {
			return student.Student{}, &core.DuplicateError{Field: "admission_number", Value: s.AdmissionNumber.String}
		}
		return student.Student{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, core.ErrNotFound
	}
	return s, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	s, err := repo.GetStudent(ctx, filter)
	if err != nil {
		return student.Student{}, err
	}
	if _, err = repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, s.ID); err != nil {
		return student.Student{}, err
	}
	return s, nil
}
