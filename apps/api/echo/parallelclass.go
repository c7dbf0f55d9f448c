package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core"
	"github.com/trezcool/hadir/core/course"
	"github.com/trezcool/hadir/core/parallelclass"
)

type parallelClassApi struct {
	svc parallelclass.ServiceInterface
}

func registerParallelClassAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc parallelclass.ServiceInterface) {
	api := parallelClassApi{svc: svc}

	pg := g.Group("/parallel-classes", jwt, adminMiddleware())
	pg.GET("", api.query)
	pg.POST("", api.create)
	pg.GET("/:id", api.retrieve)
	pg.PUT("/:id", api.update)
	pg.DELETE("/:id", api.destroy)
}

func (api *parallelClassApi) create(ctx echo.Context) error {
	var data parallelclass.NewParallelClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewParallelClass")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	pc, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return core.NewValidationError(nil, core.FieldError{Field: "course_id", Error: course.ErrNotFound.Error()})
		}
		return errors.Wrap(err, "creating parallel class")
	}
	return ctx.JSON(http.StatusCreated, pc)
}

func (api *parallelClassApi) query(ctx echo.Context) error {
	filter := new(parallelclass.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []parallelclass.ParallelClass{})
	}

	classes, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying parallel classes")
	}
	if classes == nil {
		classes = []parallelclass.ParallelClass{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *parallelClassApi) retrieve(ctx echo.Context) error {
	pc, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == parallelclass.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting parallel class")
	}
	return ctx.JSON(http.StatusOK, pc)
}

func (api *parallelClassApi) update(ctx echo.Context) error {
	pc, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == parallelclass.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting parallel class")
	}

	var data parallelclass.UpdateParallelClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateParallelClass")
	}
	if err = data.Validate(pc, api.svc); err != nil {
		return err
	}

	pc, err = api.svc.Update(ctx.Request().Context(), pc.ID, data)
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return core.NewValidationError(nil, core.FieldError{Field: "course_id", Error: course.ErrNotFound.Error()})
		}
		return errors.Wrap(err, "updating parallel class")
	}
	return ctx.JSON(http.StatusOK, pc)
}

func (api *parallelClassApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting parallel class")
	}
	return ctx.NoContent(http.StatusNoContent)
}
