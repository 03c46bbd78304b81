package user

import (
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
)

type User struct {
	ID           string      `json:"id" db:"id"`
	TenantID     string      `json:"tenant_id" db:"tenant_id"`
	BranchID     null.String `json:"branch_id" db:"branch_id"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	PasswordHash []byte      `json:"-" db:"password_hash"`
	IsSuperAdmin bool        `json:"is_superadmin" db:"is_superadmin"`
	RoleID       null.String `json:"role_id" db:"role_id"`
	IsActive     bool        `json:"is_active" db:"is_active"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"` // UTC
	LastLogin    time.Time   `json:"last_login" db:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// scope.Doc

func (u User) DocTenantID() string      { return u.TenantID }
func (u User) DocBranchID() null.String { return u.BranchID }
func (u User) DocOwnerID() null.String  { return null.String{} }

// NewUser contains information needed to create a new User.
// Ownership (tenant, branch) is stamped by the service from the caller's
// scope, never taken from the payload as-is.
type NewUser struct {
	TenantID string `json:"tenant_id"` // checked against the caller's tenant
	BranchID string `json:"branch_id"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   string `json:"role_id"`
}

func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return core.Validate.Struct(nu)
}

// GetFilter specifies which single User to fetch. Email lookups are
// unscoped (emails are globally unique, and login has no tenant yet);
// everything else requires the tenant key.
type GetFilter struct {
	ID     string
	Email  string
	Tenant scope.TenantKey
}

// QueryFilter applies AND on available fields on top of the mandatory
// scope filter.
type QueryFilter struct {
	Scope    scope.Filter
	Search   string // case-insensitive match on Name or Email
	RoleID   string
	IsActive *bool
}
