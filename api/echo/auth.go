package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/auth"
	"github.com/shulehq/shule/core/tenant"
	"github.com/shulehq/shule/core/user"
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		BranchID string `json:"branch_id"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	RegisterResponse struct {
		Tenant tenant.Tenant `json:"tenant"`
		Admin  user.User     `json:"admin"`
	}
)

func (r *LoginRequest) Validate() error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return core.Validate.Struct(r)
}

type authApi struct {
	deps *ServerDeps
}

func registerAuthAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *ServerDeps) {
	api := authApi{deps: deps}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
}

// login authenticates any account type through the single credential
// path; the issued token embeds the tenant, branch and role claims that
// drive all later scoping.
func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	usr, err := api.deps.UserSvc.GetByEmail(reqCtx, data.Email)
	if err != nil {
		if errors.Cause(err) == core.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(data.Password); err != nil {
		return errAuthenticationFailed
	}
	if !usr.IsActive {
		return errAccountDeactivated
	}

	t, err := api.deps.TenantSvc.Get(reqCtx, mustKey(usr.TenantID))
	if err != nil {
		return errors.Wrap(err, "finding tenant")
	}

	branchID, err := effectiveBranch(usr, t, data.BranchID)
	if err != nil {
		return err
	}

	principal := auth.Principal{
		UserID:       usr.ID,
		TenantID:     usr.TenantID,
		BranchID:     branchID,
		IsSuperAdmin: usr.IsSuperAdmin,
	}
	if usr.RoleID.Valid {
		r, err := api.deps.RoleSvc.GetByID(reqCtx, principal.Tenant(), usr.RoleID.String)
		if err != nil {
			if errors.Cause(err) == core.ErrNotFound {
				// dangling role reference; token carries no role
				principal.Role = auth.RoleRef{}
			} else {
				return errors.Wrap(err, "finding user role")
			}
		} else {
			principal.Role = auth.InlineRole(r)
		}
	}

	if usr, err = api.deps.UserSvc.SetLastLogin(reqCtx, usr); err != nil {
		return errors.Wrap(err, "setting lastLogin")
	}

	token, err := api.deps.TokenSvc.Issue(principal)
	if err != nil {
		return errors.Wrap(err, "issuing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

// effectiveBranch resolves the branch claim for a login. Superadmins stay
// HQ-scoped unless they pick a branch. Other users are pinned to their
// assigned branch; when the tenant has branches and the account has none,
// the request must name one.
func effectiveBranch(usr user.User, t tenant.Tenant, requested string) (string, error) {
	if usr.IsSuperAdmin {
		if requested == "" {
			return "", nil
		}
		if !hasBranch(t, requested) {
			return "", core.NewValidationError(nil, core.FieldError{Field: "branch_id", Error: "branch not found"})
		}
		return requested, nil
	}

	if usr.BranchID.Valid {
		return usr.BranchID.String, nil
	}
	if !t.HasBranches() {
		return "", nil
	}
	if requested == "" {
		return "", core.NewValidationError(nil, core.FieldError{Field: "branch_id", Error: "branch_id is required"})
	}
	if !hasBranch(t, requested) {
		return "", core.NewValidationError(nil, core.FieldError{Field: "branch_id", Error: "branch not found"})
	}
	return requested, nil
}

func hasBranch(t tenant.Tenant, branchID string) bool {
	for _, b := range t.Branches {
		if b.ID == branchID {
			return true
		}
	}
	return false
}
