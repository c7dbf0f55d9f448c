package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core/holiday"
	"github.com/trezcool/hadir/core/user"
)

type holidayApi struct {
	svc holiday.ServiceInterface
}

func registerHolidayAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc holiday.ServiceInterface, usrSvc user.ServiceInterface) {
	api := holidayApi{svc: svc}

	hg := g.Group("/holidays", jwt)
	hg.GET("", api.query)
	hg.GET("/:id", api.retrieve)
	hg.POST("", api.create, requirePermission(usrSvc, user.PermHolidayManage))
	hg.PUT("/:id", api.update, requirePermission(usrSvc, user.PermHolidayManage))
	hg.DELETE("/:id", api.destroy, requirePermission(usrSvc, user.PermHolidayManage))
}

func (api *holidayApi) create(ctx echo.Context) error {
	var data holiday.NewHoliday
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHoliday")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	hol, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, hol)
}

func (api *holidayApi) query(ctx echo.Context) error {
	hols, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying holidays")
	}
	if hols == nil {
		hols = []holiday.Holiday{}
	}
	return ctx.JSON(http.StatusOK, hols)
}

func (api *holidayApi) retrieve(ctx echo.Context) error {
	hol, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == holiday.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting holiday")
	}
	return ctx.JSON(http.StatusOK, hol)
}

func (api *holidayApi) update(ctx echo.Context) error {
	var data holiday.UpdateHoliday
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateHoliday")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	hol, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == holiday.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, hol)
}

func (api *holidayApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting holiday")
	}
	return ctx.NoContent(http.StatusNoContent)
}
