package student

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/user"
)

// roleNameStudent is the tenant role attached to lazily created login
// accounts.
const roleNameStudent = "Student"

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudent(ctx context.Context, filter GetFilter) (Student, error)
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		// GetStudentsByID fetches by id within a tenant; missing ids are
		// simply absent from the result.
		GetStudentsByID(ctx context.Context, tenant scope.TenantKey, ids ...string) ([]Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		// DeleteStudent returns the deleted document so linked records can
		// be cascaded.
		DeleteStudent(ctx context.Context, filter GetFilter) (Student, error)
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
		roles   role.Repository
	}
)

func NewService(repo Repository, usrRepo user.Repository, roles role.Repository) *Service {
	return &Service{repo: repo, usrRepo: usrRepo, roles: roles}
}

// Create makes a student and, when credentials are supplied, its linked
// login account. The user+student sequence is compensable, not atomic:
// if the student write fails the user stays behind, and a retry with the
// same email finds and re-links it instead of failing on a duplicate.
func (svc *Service) Create(ctx context.Context, own scope.Ownership, ns NewStudent) (Student, error) {
	now := time.Now().UTC()

	var userID null.String
	if ns.Email != "" && ns.Password != "" {
		usr, err := svc.ensureLoginAccount(ctx, own, ns, now)
		if err != nil {
			return Student{}, err
		}
		userID = null.StringFrom(usr.ID)
	}

	s := Student{
		ID:            core.NewID("STU"),
		TenantID:      own.Tenant.ID(),
		BranchID:      own.BranchID,
		UserID:        userID,
		ClassID:       null.NewString(ns.ClassID, ns.ClassID != ""),
		ParentID:      null.NewString(ns.ParentID, ns.ParentID != ""),
		Name:          ns.Name,
		Email:         null.NewString(ns.Email, ns.Email != ""),
		Gender:        ns.Gender,
		GuardianName:  ns.GuardianName,
		GuardianPhone: ns.GuardianPhone,
		GuardianEmail: ns.GuardianEmail,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if ns.AdmissionNumber != "" {
		s.AdmissionNumber = null.StringFrom(ns.AdmissionNumber)
	}
	if ns.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", ns.DateOfBirth)
		if err != nil {
			return Student{}, core.NewValidationError(nil, core.FieldError{
				Field: "date_of_birth",
				Error: "must be a YYYY-MM-DD date",
			})
		}
		s.DateOfBirth = null.TimeFrom(dob)
	}
	return svc.repo.CreateStudent(ctx, s)
}

// ensureLoginAccount creates the linked user, or adopts an orphan left by
// a previously failed create with the same email.
func (svc *Service) ensureLoginAccount(ctx context.Context, own scope.Ownership, ns NewStudent, now time.Time) (user.User, error) {
	studentRole, err := svc.roles.GetRole(ctx, role.GetFilter{Tenant: own.Tenant, Name: roleNameStudent})
	if err != nil {
		if err == core.ErrNotFound {
			return user.User{}, core.NewValidationError(nil, core.FieldError{
				Field: "role",
				Error: "student role not found; create a Student role first",
			})
		}
		return user.User{}, err
	}

	existing, err := svc.usrRepo.GetUser(ctx, user.GetFilter{Email: ns.Email})
	if err == nil {
		if existing.TenantID != own.Tenant.ID() {
			return user.User{}, &core.DuplicateError{Field: "email", Value: ns.Email}
		}
		linked, err := svc.repo.FilterStudents(ctx, QueryFilter{
			Scope:  scope.NewFilter(own.Tenant),
			UserID: existing.ID,
		})
		if err != nil {
			return user.User{}, err
		}
		if len(linked) > 0 {
			return user.User{}, &core.DuplicateError{Field: "email", Value: ns.Email}
		}
		return existing, nil
	}
	if err != core.ErrNotFound {
		return user.User{}, err
	}

	usr := user.User{
		ID:        core.NewID("USR"),
		TenantID:  own.Tenant.ID(),
		BranchID:  own.BranchID,
		Name:      ns.Name,
		Email:     ns.Email,
		RoleID:    null.StringFrom(studentRole.ID),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(ns.Password); err != nil {
		return user.User{}, err
	}
	return svc.usrRepo.CreateUser(ctx, usr)
}

func (svc *Service) Get(ctx context.Context, filter GetFilter) (Student, error) {
	return svc.repo.GetStudent(ctx, filter)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Student, error) {
	filter.Search = core.CleanString(filter.Search)
	return svc.repo.FilterStudents(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, filter GetFilter, us UpdateStudent) (Student, error) {
	s, err := svc.repo.GetStudent(ctx, filter)
	if err != nil {
		return Student{}, err
	}

	if us.Name != "" {
		s.Name = us.Name
	}
	if us.ClassID != "" {
		s.ClassID = null.StringFrom(us.ClassID)
	}
	if us.ParentID != "" {
		s.ParentID = null.StringFrom(us.ParentID)
	}
	if us.AdmissionNumber != "" {
		s.AdmissionNumber = null.StringFrom(us.AdmissionNumber)
	}
	if us.Gender != "" {
		s.Gender = us.Gender
	}
	if us.GuardianName != "" {
		s.GuardianName = us.GuardianName
	}
	if us.GuardianPhone != "" {
		s.GuardianPhone = us.GuardianPhone
	}
	if us.GuardianEmail != "" {
		s.GuardianEmail = us.GuardianEmail
	}
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, s)
}

// Delete removes a student and cascades to its linked login account.
func (svc *Service) Delete(ctx context.Context, filter GetFilter) error {
	s, err := svc.repo.DeleteStudent(ctx, filter)
	if err != nil {
		return err
	}
	if s.UserID.Valid {
		return svc.usrRepo.DeleteUsersByID(ctx, s.UserID.String)
	}
	return nil
}
