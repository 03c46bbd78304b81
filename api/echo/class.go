package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core/class"
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/scope"
)

const pageClasses = "classes"

type classApi struct {
	deps *ServerDeps
}

func registerClassAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *ServerDeps) {
	api := classApi{deps: deps}

	cg := g.Group("/classes", authed)
	cg.POST("", api.create, permissionMiddleware(deps.Evaluator, pageClasses, role.ActionAdd))
	cg.GET("", api.query, permissionMiddleware(deps.Evaluator, pageClasses, role.ActionView))
	cg.GET("/:id", api.retrieve, permissionMiddleware(deps.Evaluator, pageClasses, role.ActionView))
	cg.PUT("/:id", api.update, permissionMiddleware(deps.Evaluator, pageClasses, role.ActionEdit))
	cg.DELETE("/:id", api.destroy, permissionMiddleware(deps.Evaluator, pageClasses, role.ActionDelete))
}

func (api *classApi) create(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	own, err := contextOwnership(ctx, data.TenantID, data.BranchID)
	if err != nil {
		return err
	}
	c, err := api.deps.ClassSvc.Create(ctx.Request().Context(), own, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *classApi) query(ctx echo.Context) error {
	sf, err := contextScope(ctx, scope.KindClass, api.deps.RoleSvc)
	if err != nil {
		return err
	}
	filter := class.QueryFilter{
		Scope:     sf,
		Year:      intQueryParam(ctx, "year"),
		FormLevel: intQueryParam(ctx, "form_level"),
		Stream:    ctx.QueryParam("stream"),
	}
	classes, err := api.deps.ClassSvc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	filter, err := api.getFilter(ctx)
	if err != nil {
		return err
	}
	c, err := api.deps.ClassSvc.Get(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "finding class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classApi) update(ctx echo.Context) error {
	var data class.UpdateClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	filter, err := api.getFilter(ctx)
	if err != nil {
		return err
	}
	c, err := api.deps.ClassSvc.Update(ctx.Request().Context(), filter, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classApi) destroy(ctx echo.Context) error {
	filter, err := api.getFilter(ctx)
	if err != nil {
		return err
	}
	if err = api.deps.ClassSvc.Delete(ctx.Request().Context(), filter); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *classApi) getFilter(ctx echo.Context) (class.GetFilter, error) {
	sf, err := contextScope(ctx, scope.KindClass, api.deps.RoleSvc)
	if err != nil {
		return class.GetFilter{}, err
	}
	return class.GetFilter{Scope: sf, ID: ctx.Param("id")}, nil
}

func intQueryParam(ctx echo.Context, name string) int {
	v, _ := strconv.Atoi(ctx.QueryParam(name))
	return v
}
