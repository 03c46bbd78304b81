package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
)

type Student struct {
	ID              string      `json:"id" db:"id"`
	TenantID        string      `json:"tenant_id" db:"tenant_id"`
	BranchID        null.String `json:"branch_id" db:"branch_id"`
	UserID          null.String `json:"user_id" db:"user_id"` // linked login account, created lazily
	ClassID         null.String `json:"class_id" db:"class_id"`
	ParentID        null.String `json:"parent_id" db:"parent_id"` // guardian User
	Name            string      `json:"name" db:"name"`
	Email           null.String `json:"email" db:"email"`
	AdmissionNumber null.String `json:"admission_number" db:"admission_number"`
	DateOfBirth     null.Time   `json:"date_of_birth" db:"date_of_birth"`
	Gender          string      `json:"gender" db:"gender"`
	GuardianName    string      `json:"guardian_name" db:"guardian_name"`
	GuardianPhone   string      `json:"guardian_phone" db:"guardian_phone"`
	GuardianEmail   string      `json:"guardian_email" db:"guardian_email"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// scope.Doc

func (s Student) DocTenantID() string      { return s.TenantID }
func (s Student) DocBranchID() null.String { return s.BranchID }
func (s Student) DocOwnerID() null.String  { return s.ParentID }

// NewStudent contains information needed to create a new Student. When
// Email and Password are both present a linked login account is created
// under the tenant's "Student" role.
type NewStudent struct {
	TenantID        string `json:"tenant_id"` // checked against the caller's tenant
	BranchID        string `json:"branch_id"`
	ClassID         string `json:"class_id"`
	ParentID        string `json:"parent_id"`
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"omitempty,min=8"`
	AdmissionNumber string `json:"admission_number"`
	DateOfBirth     string `json:"date_of_birth"` // RFC3339 date, optional
	Gender          string `json:"gender"`
	GuardianName    string `json:"guardian_name"`
	GuardianPhone   string `json:"guardian_phone"`
	GuardianEmail   string `json:"guardian_email" validate:"omitempty,email"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.AdmissionNumber = core.CleanString(ns.AdmissionNumber)
	ns.GuardianEmail = core.CleanString(ns.GuardianEmail, true /* lower */)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Ownership fields are immutable.
type UpdateStudent struct {
	Name            string `json:"name"`
	ClassID         string `json:"class_id"`
	ParentID        string `json:"parent_id"`
	AdmissionNumber string `json:"admission_number"`
	Gender          string `json:"gender"`
	GuardianName    string `json:"guardian_name"`
	GuardianPhone   string `json:"guardian_phone"`
	GuardianEmail   string `json:"guardian_email" validate:"omitempty,email"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.GuardianEmail = core.CleanString(us.GuardianEmail, true /* lower */)
	return core.Validate.Struct(us)
}

// GetFilter specifies which single Student to fetch; the scope filter is
// mandatory and already carries tenant/branch/parent narrowing.
type GetFilter struct {
	Scope scope.Filter
	ID    string
}

// QueryFilter applies AND on available fields on top of the mandatory
// scope filter.
type QueryFilter struct {
	Scope   scope.Filter
	ClassID string
	UserID  string
	Search  string // case-insensitive match on Name or AdmissionNumber
}
