package class

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
)

type (
	Repository interface {
		CreateClass(ctx context.Context, c Class) (Class, error)
		GetClass(ctx context.Context, filter GetFilter) (Class, error)
		FilterClasses(ctx context.Context, filter QueryFilter) ([]Class, error)
		UpdateClass(ctx context.Context, c Class) (Class, error)
		DeleteClass(ctx context.Context, filter GetFilter) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, own scope.Ownership, nc NewClass) (Class, error) {
	now := time.Now().UTC()
	c := Class{
		ID:        core.NewID("CLS"),
		TenantID:  own.Tenant.ID(),
		BranchID:  own.BranchID,
		Name:      nc.Name,
		FormLevel: nc.FormLevel,
		Stream:    null.NewString(nc.Stream, nc.Stream != ""),
		Year:      nc.Year,
		TeacherID: null.NewString(nc.TeacherID, nc.TeacherID != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateClass(ctx, c)
}

func (svc *Service) Get(ctx context.Context, filter GetFilter) (Class, error) {
	return svc.repo.GetClass(ctx, filter)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Class, error) {
	return svc.repo.FilterClasses(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, filter GetFilter, uc UpdateClass) (Class, error) {
	c, err := svc.repo.GetClass(ctx, filter)
	if err != nil {
		return Class{}, err
	}

	if uc.Name != "" {
		c.Name = uc.Name
	}
	if uc.FormLevel != 0 {
		c.FormLevel = uc.FormLevel
	}
	if uc.Stream != "" {
		c.Stream = null.StringFrom(uc.Stream)
	}
	if uc.Year != 0 {
		c.Year = uc.Year
	}
	if uc.TeacherID != "" {
		c.TeacherID = null.StringFrom(uc.TeacherID)
	}
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClass(ctx, c)
}

func (svc *Service) Delete(ctx context.Context, filter GetFilter) error {
	return svc.repo.DeleteClass(ctx, filter)
}
