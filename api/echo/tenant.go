package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/tenant"
)

const pageBranches = "branches"

type tenantApi struct {
	deps *ServerDeps
}

func registerTenantAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *ServerDeps) {
	api := tenantApi{deps: deps}

	// registration happens before any identity exists; only the gateway
	// guards it
	g.POST("/tenants/register", api.register)

	tg := g.Group("/tenants", authed)
	tg.GET("/me", api.retrieve)

	bg := g.Group("/branches", authed)
	bg.POST("", api.createBranch, superAdminMiddleware())
	bg.GET("", api.queryBranches, permissionMiddleware(deps.Evaluator, pageBranches, role.ActionView))
}

func (api *tenantApi) register(ctx echo.Context) error {
	var data tenant.Register
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Register")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, admin, err := api.deps.TenantSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering tenant")
	}
	return ctx.JSON(http.StatusCreated, RegisterResponse{Tenant: t, Admin: admin})
}

func (api *tenantApi) retrieve(ctx echo.Context) error {
	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	t, err := api.deps.TenantSvc.Get(ctx.Request().Context(), principal.Tenant())
	if err != nil {
		return errors.Wrap(err, "finding tenant")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *tenantApi) createBranch(ctx echo.Context) error {
	var data tenant.NewBranch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBranch")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	b, err := api.deps.TenantSvc.AddBranch(ctx.Request().Context(), principal.Tenant(), data)
	if err != nil {
		return errors.Wrap(err, "creating branch")
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *tenantApi) queryBranches(ctx echo.Context) error {
	principal, err := getContextPrincipal(ctx)
	if err != nil {
		return err
	}
	branches, err := api.deps.TenantSvc.QueryBranches(ctx.Request().Context(), principal.Tenant())
	if err != nil {
		return errors.Wrap(err, "querying branches")
	}
	return ctx.JSON(http.StatusOK, branches)
}
