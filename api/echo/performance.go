package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/performance"
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/scope"
)

const pagePerformance = "performance"

type performanceApi struct {
	deps *ServerDeps
}

func registerPerformanceAPI(g *echo.Group, authed echo.MiddlewareFunc, deps *ServerDeps) {
	api := performanceApi{deps: deps}

	pg := g.Group("/performance", authed)
	pg.POST("", api.create, permissionMiddleware(deps.Evaluator, pagePerformance, role.ActionAdd))
	pg.GET("", api.query, permissionMiddleware(deps.Evaluator, pagePerformance, role.ActionView))
	pg.GET("/ranking/:classId", api.ranking, permissionMiddleware(deps.Evaluator, pagePerformance, role.ActionView))
	pg.PUT("/:id", api.update, permissionMiddleware(deps.Evaluator, pagePerformance, role.ActionEdit))
	pg.DELETE("/:id", api.destroy, permissionMiddleware(deps.Evaluator, pagePerformance, role.ActionDelete))
}

func (api *performanceApi) create(ctx echo.Context) error {
	var data performance.NewPerformance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPerformance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	own, err := contextOwnership(ctx, data.TenantID, data.BranchID)
	if err != nil {
		return err
	}
	p, err := api.deps.PerfSvc.Add(ctx.Request().Context(), own, data)
	if err != nil {
		return errors.Wrap(err, "recording performance")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *performanceApi) query(ctx echo.Context) error {
	sf, err := contextScope(ctx, scope.KindPerformance, api.deps.RoleSvc)
	if err != nil {
		return err
	}
	filter := performance.QueryFilter{
		Scope:     sf,
		StudentID: ctx.QueryParam("student_id"),
		ClassID:   ctx.QueryParam("class_id"),
		Term:      ctx.QueryParam("term"),
		Year:      intQueryParam(ctx, "year"),
	}
	perfs, err := api.deps.PerfSvc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying performance")
	}
	return ctx.JSON(http.StatusOK, perfs)
}

// RankingResponse wraps the ranking table with the keys that identify it.
type RankingResponse struct {
	ClassID string                `json:"class_id"`
	Term    string                `json:"term"`
	Year    int                   `json:"year"`
	Ranking []performance.RankRow `json:"ranking"`
}

// ranking serves the class ranking table; term and year are both
// required to identify one table.
func (api *performanceApi) ranking(ctx echo.Context) error {
	classID := ctx.Param("classId")
	term := ctx.QueryParam("term")
	year := intQueryParam(ctx, "year")

	var fldErrs []core.FieldError
	if term == "" {
		fldErrs = append(fldErrs, core.FieldError{Field: "term", Error: "term is required"})
	}
	if year == 0 {
		fldErrs = append(fldErrs, core.FieldError{Field: "year", Error: "year is required"})
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(nil, fldErrs...)
	}

	sf, err := contextScope(ctx, scope.KindPerformance, api.deps.RoleSvc)
	if err != nil {
		return err
	}
	rows, err := api.deps.PerfSvc.ClassRanking(ctx.Request().Context(), sf, classID, term, year)
	if err != nil {
		return errors.Wrap(err, "building ranking")
	}
	return ctx.JSON(http.StatusOK, RankingResponse{ClassID: classID, Term: term, Year: year, Ranking: rows})
}

func (api *performanceApi) update(ctx echo.Context) error {
	var data performance.UpdatePerformance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePerformance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	filter, err := api.getFilter(ctx)
	if err != nil {
		return err
	}
	p, err := api.deps.PerfSvc.Update(ctx.Request().Context(), filter, data)
	if err != nil {
		return errors.Wrap(err, "updating performance")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *performanceApi) destroy(ctx echo.Context) error {
	filter, err := api.getFilter(ctx)
	if err != nil {
		return err
	}
	if err = api.deps.PerfSvc.Delete(ctx.Request().Context(), filter); err != nil {
		return errors.Wrap(err, "deleting performance")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *performanceApi) getFilter(ctx echo.Context) (performance.GetFilter, error) {
	sf, err := contextScope(ctx, scope.KindPerformance, api.deps.RoleSvc)
	if err != nil {
		return performance.GetFilter{}, err
	}
	return performance.GetFilter{Scope: sf, ID: ctx.Param("id")}, nil
}
