package performance_test

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/performance"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/student"
	inmemdb "github.com/shulehq/shule/storage/database/inmem"
)

func setup(t *testing.T) (*performance.Service, student.Repository, performance.Repository) {
	t.Helper()
	db := inmemdb.NewDB()
	perfRepo := inmemdb.NewPerformanceRepository(db)
	studentRepo := inmemdb.NewStudentRepository(db)
	return performance.NewService(perfRepo, studentRepo), studentRepo, perfRepo
}

func mustKey(t *testing.T, id string) scope.TenantKey {
	t.Helper()
	key, err := scope.NewKey(id)
	if err != nil {
		t.Fatalf("NewKey(%q) failed: %v", id, err)
	}
	return key
}

func createStudent(t *testing.T, repo student.Repository, id, tenantID, name, admission string, at time.Time) {
	t.Helper()
	_, err := repo.CreateStudent(context.Background(), student.Student{
		ID:              id,
		TenantID:        tenantID,
		Name:            name,
		AdmissionNumber: null.NewString(admission, admission != ""),
		CreatedAt:       at,
		UpdatedAt:       at,
	})
	if err != nil {
		t.Fatalf("CreateStudent(%s) failed: %v", id, err)
	}
}

func addScore(t *testing.T, svc *performance.Service, own scope.Ownership, studentID, subject string, val float64) {
	t.Helper()
	_, err := svc.Add(context.Background(), own, performance.NewPerformance{
		StudentID: studentID,
		ClassID:   "CLS-1",
		Term:      "Term 1",
		Year:      2026,
		Subject:   subject,
		Score:     val,
	})
	if err != nil {
		t.Fatalf("Add(%s %s) failed: %v", studentID, subject, err)
	}
}

func TestService_ClassRanking(t *testing.T) {
	svc, studentRepo, _ := setup(t)
	ctx := context.Background()
	ten := mustKey(t, "TEN-1")
	own := scope.Ownership{Tenant: ten}
	now := time.Now().UTC()

	createStudent(t, studentRepo, "STU-a", "TEN-1", "Asha", "ADM-001", now)
	createStudent(t, studentRepo, "STU-b", "TEN-1", "Brian", "ADM-002", now.Add(time.Second))

	addScore(t, svc, own, "STU-a", "Math", 60)
	addScore(t, svc, own, "STU-b", "Math", 90)
	addScore(t, svc, own, "STU-a", "English", 80)
	addScore(t, svc, own, "STU-ghost", "Math", 100) // student record is gone

	rows, err := svc.ClassRanking(ctx, scope.NewFilter(ten), "CLS-1", "Term 1", 2026)
	if err != nil {
		t.Fatalf("ClassRanking() failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}

	if rows[0].StudentID != "STU-ghost" || rows[0].Name != "Unknown" {
		t.Errorf("rows[0] = %+v, want unresolvable student ranked under Unknown", rows[0])
	}
	if rows[1].StudentID != "STU-b" || rows[1].Name != "Brian" || rows[1].AdmissionNumber != "ADM-002" {
		t.Errorf("rows[1] = %+v, want Brian ADM-002", rows[1])
	}
	if rows[2].StudentID != "STU-a" || rows[2].Name != "Asha" || rows[2].Average != 70 {
		t.Errorf("rows[2] = %+v, want Asha avg 70", rows[2])
	}
}

func TestService_ClassRanking_scoped(t *testing.T) {
	svc, studentRepo, _ := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	createStudent(t, studentRepo, "STU-a", "TEN-1", "Asha", "", now)
	createStudent(t, studentRepo, "STU-x", "TEN-2", "Xeno", "", now)

	addScore(t, svc, scope.Ownership{Tenant: mustKey(t, "TEN-1")}, "STU-a", "Math", 60)
	addScore(t, svc, scope.Ownership{Tenant: mustKey(t, "TEN-2")}, "STU-x", "Math", 99)

	rows, err := svc.ClassRanking(ctx, scope.NewFilter(mustKey(t, "TEN-1")), "CLS-1", "Term 1", 2026)
	if err != nil {
		t.Fatalf("ClassRanking() failed: %v", err)
	}
	if len(rows) != 1 || rows[0].StudentID != "STU-a" {
		t.Errorf("rows = %+v, want only TEN-1 scores", rows)
	}
}

func TestService_Add_duplicateNaturalKey(t *testing.T) {
	svc, _, _ := setup(t)
	own := scope.Ownership{Tenant: mustKey(t, "TEN-1")}

	addScore(t, svc, own, "STU-a", "Math", 60)

	_, err := svc.Add(context.Background(), own, performance.NewPerformance{
		StudentID: "STU-a",
		ClassID:   "CLS-1",
		Term:      "Term 1",
		Year:      2026,
		Subject:   "Math",
		Score:     75,
	})
	if _, ok := err.(*core.DuplicateError); !ok {
		t.Errorf("Add() error = %v, want *core.DuplicateError", err)
	}
}

func TestService_ClassRanking_empty(t *testing.T) {
	svc, _, _ := setup(t)

	rows, err := svc.ClassRanking(context.Background(), scope.NewFilter(mustKey(t, "TEN-1")), "CLS-1", "Term 1", 2026)
	if err != nil {
		t.Fatalf("ClassRanking() failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %+v, want empty", rows)
	}
}
