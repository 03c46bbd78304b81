package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core/role"
)

const pageRoles = "roles"

type roleApi struct {
	deps *ServerDeps
}

func registerRoleAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *ServerDeps) {
	api := roleApi{deps: deps}

	rg := g.Group("/roles", authed)
	rg.POST("", api.create, permissionMiddleware(deps.Evaluator, pageRoles, role.ActionAdd))
	rg.GET("", api.query, permissionMiddleware(deps.Evaluator, pageRoles, role.ActionView))
	rg.GET("/:id", api.retrieve, permissionMiddleware(deps.Evaluator, pageRoles, role.ActionView))
	rg.PUT("/:id/permissions", api.replacePermissions, permissionMiddleware(deps.Evaluator, pageRoles, role.ActionEdit))
}

func (api *roleApi) create(ctx echo.Context) error {
	var data role.NewRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRole")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	r, err := api.deps.RoleSvc.Create(ctx.Request().Context(), principal.Tenant(), data)
	if err != nil {
		return errors.Wrap(err, "creating role")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *roleApi) query(ctx echo.Context) error {
	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	roles, err := api.deps.RoleSvc.Query(ctx.Request().Context(), principal.Tenant())
	if err != nil {
		return errors.Wrap(err, "querying roles")
	}
	return ctx.JSON(http.StatusOK, roles)
}

func (api *roleApi) retrieve(ctx echo.Context) error {
	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	r, err := api.deps.RoleSvc.GetByID(ctx.Request().Context(), principal.Tenant(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding role")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *roleApi) replacePermissions(ctx echo.Context) error {
	var data role.UpdatePermissions
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePermissions")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	r, err := api.deps.RoleSvc.Replace(ctx.Request().Context(), principal.Tenant(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "replacing permissions")
	}
	return ctx.JSON(http.StatusOK, r)
}
