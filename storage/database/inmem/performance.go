package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/performance"
)

type performanceRepository struct {
	db *DB
}

func NewPerformanceRepository(db *DB) performance.Repository {
	return &performanceRepository{db: db}
}

func (repo *performanceRepository) CreatePerformance(ctx context.Context, p performance.Performance) (performance.Performance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// one score per (student, class, term, year, subject)
	for _, existing := range repo.db.performances {
		if existing.TenantID == p.TenantID &&
			existing.StudentID == p.StudentID &&
			existing.ClassID == p.ClassID &&
			existing.Year == p.Year &&
			strings.EqualFold(existing.Term, p.Term) &&
			strings.EqualFold(existing.Subject, p.Subject) {
			return performance.Performance{}, &core.DuplicateError{Field: "subject", Value: p.Subject}
		}
	}
	repo.db.performances[p.ID] = &p
	return p, nil
}

func (repo *performanceRepository) GetPerformance(ctx context.Context, filter performance.GetFilter) (performance.Performance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.getPerformance(filter)
}

func (repo *performanceRepository) getPerformance(filter performance.GetFilter) (performance.Performance, error) {
	p, ok := repo.db.performances[filter.ID]
	if !ok || !filter.Scope.Matches(p) {
		return performance.Performance{}, core.ErrNotFound
	}
	return *p, nil
}

func (repo *performanceRepository) FilterPerformances(ctx context.Context, filter performance.QueryFilter) ([]performance.Performance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	perfs := make([]performance.Performance, 0)
	for _, p := range repo.db.performances {
		if !filter.Scope.Matches(p) {
			continue
		}
		if filter.StudentID != "" && p.StudentID != filter.StudentID {
			continue
		}
		if filter.ClassID != "" && p.ClassID != filter.ClassID {
			continue
		}
		if filter.Term != "" && !strings.EqualFold(p.Term, filter.Term) {
			continue
		}
		if filter.Year != 0 && p.Year != filter.Year {
			continue
		}
		perfs = append(perfs, *p)
	}
	// deterministic insertion order for the aggregator
	sort.Slice(perfs, func(i, j int) bool {
		if !perfs[i].CreatedAt.Equal(perfs[j].CreatedAt) {
			return perfs[i].CreatedAt.Before(perfs[j].CreatedAt)
		}
		return perfs[i].ID < perfs[j].ID
	})
	return perfs, nil
}

func (repo *performanceRepository) UpdatePerformance(ctx context.Context, p performance.Performance) (performance.Performance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.performances[p.ID]; !ok {
		return performance.Performance{}, core.ErrNotFound
	}
	repo.db.performances[p.ID] = &p
	return p, nil
}

func (repo *performanceRepository) DeletePerformance(ctx context.Context, filter performance.GetFilter) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, err := repo.getPerformance(filter)
	if err != nil {
		return err
	}
	delete(repo.db.performances, p.ID)
	return nil
}
