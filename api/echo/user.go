package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/user"
)

const pageUsers = "users"

type userApi struct {
	deps *ServerDeps
}

func registerUserAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *ServerDeps) {
	api := userApi{deps: deps}

	ug := g.Group("/users", authed)
	ug.POST("", api.create, permissionMiddleware(deps.Evaluator, pageUsers, role.ActionAdd))
	ug.GET("", api.query, permissionMiddleware(deps.Evaluator, pageUsers, role.ActionView))
	ug.GET("/:id", api.retrieve, permissionMiddleware(deps.Evaluator, pageUsers, role.ActionView))
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	own, err := contextOwnership(ctx, data.TenantID, data.BranchID)
	if err != nil {
		return err
	}
	usr, err := api.deps.UserSvc.Create(ctx.Request().Context(), own, data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	sf, err := contextScope(ctx, scope.KindUser, api.deps.RoleSvc)
	if err != nil {
		return err
	}
	filter := user.QueryFilter{
		Scope:  sf,
		Search: ctx.QueryParam("search"),
		RoleID: ctx.QueryParam("role_id"),
	}
	users, err := api.deps.UserSvc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	usr, err := api.deps.UserSvc.GetByID(ctx.Request().Context(), principal.Tenant(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding user")
	}
	return ctx.JSON(http.StatusOK, usr)
}
