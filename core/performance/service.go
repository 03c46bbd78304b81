package performance

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/student"
)

// unknownStudentName is shown in rankings when the student record behind
// a score no longer resolves within the caller's scope.
const unknownStudentName = "Unknown"

type (
	Repository interface {
		CreatePerformance(ctx context.Context, p Performance) (Performance, error)
		GetPerformance(ctx context.Context, filter GetFilter) (Performance, error)
		FilterPerformances(ctx context.Context, filter QueryFilter) ([]Performance, error)
		UpdatePerformance(ctx context.Context, p Performance) (Performance, error)
		DeletePerformance(ctx context.Context, filter GetFilter) error
	}

	Service struct {
		repo     Repository
		students student.Repository
	}
)

func NewService(repo Repository, students student.Repository) *Service {
	return &Service{repo: repo, students: students}
}

func (svc *Service) Add(ctx context.Context, own scope.Ownership, np NewPerformance) (Performance, error) {
	now := time.Now().UTC()
	p := Performance{
		ID:        core.NewID("PRF"),
		TenantID:  own.Tenant.ID(),
		BranchID:  own.BranchID,
		StudentID: np.StudentID,
		ClassID:   np.ClassID,
		Term:      np.Term,
		Year:      np.Year,
		Subject:   np.Subject,
		Score:     np.Score,
		Grade:     null.NewString(np.Grade, np.Grade != ""),
		Remarks:   null.NewString(np.Remarks, np.Remarks != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreatePerformance(ctx, p)
}

func (svc *Service) Get(ctx context.Context, filter GetFilter) (Performance, error) {
	return svc.repo.GetPerformance(ctx, filter)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Performance, error) {
	return svc.repo.FilterPerformances(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, filter GetFilter, up UpdatePerformance) (Performance, error) {
	p, err := svc.repo.GetPerformance(ctx, filter)
	if err != nil {
		return Performance{}, err
	}

	if up.Score != nil {
		p.Score = *up.Score
	}
	if up.Grade != "" {
		p.Grade = null.StringFrom(up.Grade)
	}
	if up.Remarks != "" {
		p.Remarks = null.StringFrom(up.Remarks)
	}
	p.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdatePerformance(ctx, p)
}

func (svc *Service) Delete(ctx context.Context, filter GetFilter) error {
	return svc.repo.DeletePerformance(ctx, filter)
}

// ClassRanking builds the ranking table for one class, term and year,
// resolving student names within the caller's scope. Scores whose
// student cannot be resolved still rank, under a placeholder name.
func (svc *Service) ClassRanking(ctx context.Context, sf scope.Filter, classID, term string, year int) ([]RankRow, error) {
	scores, err := svc.repo.FilterPerformances(ctx, QueryFilter{
		Scope:   sf,
		ClassID: classID,
		Term:    term,
		Year:    year,
	})
	if err != nil {
		return nil, err
	}

	rows := Rank(scores)
	if len(rows) == 0 {
		return rows, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.StudentID)
	}
	studs, err := svc.students.GetStudentsByID(ctx, sf.Tenant(), ids...)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]student.Student, len(studs))
	for _, s := range studs {
		byID[s.ID] = s
	}

	for i := range rows {
		if s, ok := byID[rows[i].StudentID]; ok {
			rows[i].Name = s.Name
			rows[i].AdmissionNumber = s.AdmissionNumber.String
		} else {
			rows[i].Name = unknownStudentName
		}
	}
	return rows, nil
}
