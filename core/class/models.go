package class

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
)

type Class struct {
	ID        string      `json:"id" db:"id"`
	TenantID  string      `json:"tenant_id" db:"tenant_id"`
	BranchID  null.String `json:"branch_id" db:"branch_id"`
	Name      string      `json:"name" db:"name"`
	FormLevel int         `json:"form_level" db:"form_level"`
	Stream    null.String `json:"stream" db:"stream"`
	Year      int         `json:"year" db:"year"`
	TeacherID null.String `json:"teacher_id" db:"teacher_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// scope.Doc

func (c Class) DocTenantID() string      { return c.TenantID }
func (c Class) DocBranchID() null.String { return c.BranchID }
func (c Class) DocOwnerID() null.String  { return null.String{} }

// NewClass contains information needed to create a new Class.
// (tenant, year, name) must be unique.
type NewClass struct {
	TenantID  string `json:"tenant_id"` // checked against the caller's tenant
	BranchID  string `json:"branch_id"`
	Name      string `json:"name" validate:"required"`
	FormLevel int    `json:"form_level" validate:"required,min=1"`
	Stream    string `json:"stream"`
	Year      int    `json:"year" validate:"required,min=2000"`
	TeacherID string `json:"teacher_id"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Stream = core.CleanString(nc.Stream)
	return core.Validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify an
// existing Class.
type UpdateClass struct {
	Name      string `json:"name"`
	FormLevel int    `json:"form_level" validate:"omitempty,min=1"`
	Stream    string `json:"stream"`
	Year      int    `json:"year" validate:"omitempty,min=2000"`
	TeacherID string `json:"teacher_id"`
}

func (uc *UpdateClass) Validate() error {
	uc.Name = core.CleanString(uc.Name)
	uc.Stream = core.CleanString(uc.Stream)
	return core.Validate.Struct(uc)
}

// GetFilter specifies which single Class to fetch.
type GetFilter struct {
	Scope scope.Filter
	ID    string
}

// QueryFilter applies AND on available fields on top of the mandatory
// scope filter.
type QueryFilter struct {
	Scope     scope.Filter
	Year      int
	FormLevel int
	Stream    string
}
