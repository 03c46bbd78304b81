package inmemdb

import (
	"context"
	"sort"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/student"
)

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if s.AdmissionNumber.Valid {
		for _, existing := range repo.db.students {
			if existing.TenantID == s.TenantID &&
				existing.AdmissionNumber.Valid &&
				existing.AdmissionNumber.String == s.AdmissionNumber.String {
				return student.Student{}, &core.DuplicateError{Field: "admission_number", Value: s.AdmissionNumber.String}
			}
		}
	}
	repo.db.students[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.getStudent(filter)
}

func (repo *studentRepository) getStudent(filter student.GetFilter) (student.Student, error) {
	s, ok := repo.db.students[filter.ID]
	if !ok || !filter.Scope.Matches(s) {
		return student.Student{}, core.ErrNotFound
	}
	return *s, nil
}

func (repo *studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0)
	for _, s := range repo.db.students {
		if !filter.Scope.Matches(s) {
			continue
		}
		if filter.ClassID != "" && (!s.ClassID.Valid || s.ClassID.String != filter.ClassID) {
			continue
		}
		if filter.UserID != "" && (!s.UserID.Valid || s.UserID.String != filter.UserID) {
			continue
		}
		if filter.Search != "" && !matchSearch(filter.Search, s.Name, s.AdmissionNumber.String) {
			continue
		}
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].CreatedAt.Before(students[j].CreatedAt) })
	return students, nil
}

func (repo *studentRepository) GetStudentsByID(ctx context.Context, tenant scope.TenantKey, ids ...string) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0, len(ids))
	for _, id := range ids {
		if s, ok := repo.db.students[id]; ok && s.TenantID == tenant.ID() {
			students = append(students, *s)
		}
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[s.ID]; !ok {
		return student.Student{}, core.ErrNotFound
	}
	repo.db.students[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, err := repo.getStudent(filter)
	if err != nil {
		return student.Student{}, err
	}
	delete(repo.db.students, s.ID)
	return s, nil
}
