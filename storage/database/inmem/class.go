package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/class"
)

type classRepository struct {
	db *DB
}

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(ctx context.Context, c class.Class) (class.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.checkUnique(c); err != nil {
		return class.Class{}, err
	}
	repo.db.classes[c.ID] = &c
	return c, nil
}

// checkUnique enforces one (name, year) per tenant.
func (repo *classRepository) checkUnique(c class.Class) error {
	for _, existing := range repo.db.classes {
		if existing.ID == c.ID {
			continue
		}
		if existing.TenantID == c.TenantID &&
			existing.Year == c.Year &&
			strings.EqualFold(existing.Name, c.Name) {
			return &core.DuplicateError{Field: "name", Value: c.Name}
		}
	}
	return nil
}

func (repo *classRepository) GetClass(ctx context.Context, filter class.GetFilter) (class.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.getClass(filter)
}

func (repo *classRepository) getClass(filter class.GetFilter) (class.Class, error) {
	c, ok := repo.db.classes[filter.ID]
	if !ok || !filter.Scope.Matches(c) {
		return class.Class{}, core.ErrNotFound
	}
	return *c, nil
}

func (repo *classRepository) FilterClasses(ctx context.Context, filter class.QueryFilter) ([]class.Class, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	classes := make([]class.Class, 0)
	for _, c := range repo.db.classes {
		if !filter.Scope.Matches(c) {
			continue
		}
		if filter.Year != 0 && c.Year != filter.Year {
			continue
		}
		if filter.FormLevel != 0 && c.FormLevel != filter.FormLevel {
			continue
		}
		if filter.Stream != "" && (!c.Stream.Valid || !strings.EqualFold(c.Stream.String, filter.Stream)) {
			continue
		}
		classes = append(classes, *c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].CreatedAt.Before(classes[j].CreatedAt) })
	return classes, nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, c class.Class) (class.Class, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.classes[c.ID]; !ok {
		return class.Class{}, core.ErrNotFound
	}
	if err := repo.checkUnique(c); err != nil {
		return class.Class{}, err
	}
	repo.db.classes[c.ID] = &c
	return c, nil
}

func (repo *classRepository) DeleteClass(ctx context.Context, filter class.GetFilter) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	c, err := repo.getClass(filter)
	if err != nil {
		return err
	}
	delete(repo.db.classes, c.ID)
	return nil
}
