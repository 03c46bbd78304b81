package role

import (
	"time"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
)

// Action is one of the four guarded operations a permission entry can grant.
type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Permission grants actions on one page. Pages are unique within a role.
type Permission struct {
	Page      string `json:"page" validate:"required"`
	CanView   bool   `json:"canView"`
	CanAdd    bool   `json:"canAdd"`
	CanEdit   bool   `json:"canEdit"`
	CanDelete bool   `json:"canDelete"`
}

// Can reports whether the entry grants the action. Anything but an exact
// true is a denial.
func (p Permission) Can(action Action) bool {
	switch action {
	case ActionView:
		return p.CanView
	case ActionAdd:
		return p.CanAdd
	case ActionEdit:
		return p.CanEdit
	case ActionDelete:
		return p.CanDelete
	}
	return false
}

type Role struct {
	ID          string       `json:"id" db:"id"`
	TenantID    string       `json:"tenant_id" db:"tenant_id"`
	Name        string       `json:"role_name" db:"name"`
	Permissions []Permission `json:"permissions" db:"-"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"` // UTC
}

// Permission returns the entry for the given page, if any.
func (r Role) Permission(page string) (Permission, bool) {
	for _, p := range r.Permissions {
		if p.Page == page {
			return p, true
		}
	}
	return Permission{}, false
}

// NewRole contains information needed to create a new Role.
type NewRole struct {
	Name        string       `json:"role_name" validate:"required"`
	Permissions []Permission `json:"permissions" validate:"required,dive"`
}

func (nr *NewRole) Validate() error {
	nr.Name = core.CleanString(nr.Name)
	if err := core.Validate.Struct(nr); err != nil {
		return err
	}
	return checkUniquePages(nr.Permissions)
}

// UpdatePermissions replaces a role's permission entries wholesale.
type UpdatePermissions struct {
	Permissions []Permission `json:"permissions" validate:"required,dive"`
}

func (up *UpdatePermissions) Validate() error {
	if err := core.Validate.Struct(up); err != nil {
		return err
	}
	return checkUniquePages(up.Permissions)
}

func checkUniquePages(perms []Permission) error {
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		if _, ok := seen[p.Page]; ok {
			return core.NewValidationError(nil, core.FieldError{
				Field: "permissions",
				Error: "duplicate permission entry for page " + p.Page,
			})
		}
		seen[p.Page] = struct{}{}
	}
	return nil
}

// GetFilter specifies which single Role to fetch. Lookups are always
// tenant-scoped; a role belonging to another tenant is core.ErrNotFound.
type GetFilter struct {
	Tenant scope.TenantKey
	ID     string
	Name   string
}
