package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/scope"
	"github.com/shulehq/shule/core/student"
)

const pageStudents = "students"

type studentApi struct {
	deps *ServerDeps
}

func registerStudentAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *ServerDeps) {
	api := studentApi{deps: deps}

	sg := g.Group("/students", authed)
	sg.POST("", api.create, permissionMiddleware(deps.Evaluator, pageStudents, role.ActionAdd))
	sg.GET("", api.query, permissionMiddleware(deps.Evaluator, pageStudents, role.ActionView))
	sg.GET("/:id", api.retrieve, permissionMiddleware(deps.Evaluator, pageStudents, role.ActionView))
	sg.PUT("/:id", api.update, permissionMiddleware(deps.Evaluator, pageStudents, role.ActionEdit))
	sg.DELETE("/:id", api.destroy, permissionMiddleware(deps.Evaluator, pageStudents, role.ActionDelete))
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	own, err := contextOwnership(ctx, data.TenantID, data.BranchID)
	if err != nil {
		return err
	}
	s, err := api.deps.StudentSvc.Create(ctx.Request().Context(), own, data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) query(ctx echo.Context) error {
	sf, err := contextScope(ctx, scope.KindStudent, api.deps.RoleSvc)
	if err != nil {
		return err
	}
	filter := student.QueryFilter{
		Scope:   sf,
		ClassID: ctx.QueryParam("class_id"),
		Search:  ctx.QueryParam("search"),
	}
	students, err := api.deps.StudentSvc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	filter, err := api.getFilter(ctx)
	if err != nil {
		return err
	}
	s, err := api.deps.StudentSvc.Get(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "finding student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	filter, err := api.getFilter(ctx)
	if err != nil {
		return err
	}
	s, err := api.deps.StudentSvc.Update(ctx.Request().Context(), filter, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	filter, err := api.getFilter(ctx)
	if err != nil {
		return err
	}
	if err = api.deps.StudentSvc.Delete(ctx.Request().Context(), filter); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) getFilter(ctx echo.Context) (student.GetFilter, error) {
	sf, err := contextScope(ctx, scope.KindStudent, api.deps.RoleSvc)
	if err != nil {
		return student.GetFilter{}, err
	}
	return student.GetFilter{Scope: sf, ID: ctx.Param("id")}, nil
}
