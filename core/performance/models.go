package performance

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
)

// Performance is a single score a student obtained in a subject for a
// given class, term and year. (student, class, term, year, subject) is
// unique.
type Performance struct {
	ID        string      `json:"id" db:"id"`
	TenantID  string      `json:"tenant_id" db:"tenant_id"`
	BranchID  null.String `json:"branch_id" db:"branch_id"`
	StudentID string      `json:"student_id" db:"student_id"`
	ClassID   string      `json:"class_id" db:"class_id"`
	Term      string      `json:"term" db:"term"`
	Year      int         `json:"year" db:"year"`
	Subject   string      `json:"subject" db:"subject"`
	Score     float64     `json:"score" db:"score"`
	Grade     null.String `json:"grade" db:"grade"`
	Remarks   null.String `json:"remarks" db:"remarks"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// scope.Doc

func (p Performance) DocTenantID() string      { return p.TenantID }
func (p Performance) DocBranchID() null.String { return p.BranchID }
func (p Performance) DocOwnerID() null.String  { return null.String{} }

// NewPerformance contains information needed to record a new score.
type NewPerformance struct {
	TenantID  string  `json:"tenant_id"` // checked against the caller's tenant
	BranchID  string  `json:"branch_id"`
	StudentID string  `json:"student_id" validate:"required"`
	ClassID   string  `json:"class_id" validate:"required"`
	Term      string  `json:"term" validate:"required"`
	Year      int     `json:"year" validate:"required,min=2000"`
	Subject   string  `json:"subject" validate:"required"`
	Score     float64 `json:"score" validate:"min=0,max=100"`
	Grade     string  `json:"grade"`
	Remarks   string  `json:"remarks"`
}

func (np *NewPerformance) Validate() error {
	np.Term = core.CleanString(np.Term)
	np.Subject = core.CleanString(np.Subject)
	np.Grade = core.CleanString(np.Grade)
	return core.Validate.Struct(np)
}

// UpdatePerformance defines what information may be provided to modify an
// existing score. Natural key fields are immutable.
type UpdatePerformance struct {
	Score   *float64 `json:"score" validate:"omitempty,min=0,max=100"`
	Grade   string   `json:"grade"`
	Remarks string   `json:"remarks"`
}

func (up *UpdatePerformance) Validate() error {
	up.Grade = core.CleanString(up.Grade)
	return core.Validate.Struct(up)
}

// GetFilter specifies which single Performance to fetch.
type GetFilter struct {
	Scope scope.Filter
	ID    string
}

// QueryFilter applies AND on available fields on top of the mandatory
// scope filter.
type QueryFilter struct {
	Scope     scope.Filter
	StudentID string
	ClassID   string
	Term      string
	Year      int
}
