package tenant

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

type Branch struct {
	ID        string    `json:"id" db:"id"`
	TenantID  string    `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Location  string    `json:"location" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
}

// scope.Doc

func (b Branch) DocTenantID() string      { return b.TenantID }
func (b Branch) DocBranchID() null.String { return null.String{} }
func (b Branch) DocOwnerID() null.String  { return null.String{} }

type Tenant struct {
	ID               string    `json:"id" db:"id"`
	OrganizationName string    `json:"organization_name" db:"organization_name"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"` // UTC
	Branches         []Branch  `json:"branches" db:"-"`
}

// HasBranches is the single branch-gating policy: a tenant with any
// branch requires non-superadmin users to carry one at login.
func (t Tenant) HasBranches() bool { return len(t.Branches) > 0 }

// IsMultiBranch is display data only; gating never keys on it.
func (t Tenant) IsMultiBranch() bool { return len(t.Branches) > 1 }

// Register contains information needed to create a new Tenant along with
// its first superadmin and, optionally, its first branch.
type Register struct {
	OrganizationName string `json:"organization_name" validate:"required"`
	AdminName        string `json:"admin_name" validate:"required"`
	AdminEmail       string `json:"admin_email" validate:"required,email"`
	AdminPassword    string `json:"admin_password" validate:"required,min=8"`
	BranchName       string `json:"branch_name"`
}

func (r *Register) Validate() error {
	r.OrganizationName = core.CleanString(r.OrganizationName)
	r.AdminName = core.CleanString(r.AdminName)
	r.AdminEmail = core.CleanString(r.AdminEmail, true /* lower */)
	r.BranchName = core.CleanString(r.BranchName)
	return core.Validate.Struct(r)
}

// NewBranch contains information needed to add a Branch to a tenant.
type NewBranch struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
}

func (nb *NewBranch) Validate() error {
	nb.Name = core.CleanString(nb.Name)
	nb.Location = core.CleanString(nb.Location)
	return core.Validate.Struct(nb)
}
