package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core/attendance"
	"github.com/trezcool/hadir/core/user"
)

type attendanceApi struct {
	svc    attendance.ServiceInterface
	usrSvc user.ServiceInterface
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc attendance.ServiceInterface, usrSvc user.ServiceInterface) {
	api := attendanceApi{svc: svc, usrSvc: usrSvc}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.submit, requirePermission(usrSvc, user.PermAttendanceCreate))
	ag.GET("", api.query, requirePermission(usrSvc, user.PermAttendanceRead))
	ag.GET("/:id", api.retrieve, requirePermission(usrSvc, user.PermAttendanceRead))
	ag.PUT("/:id", api.update, requirePermission(usrSvc, user.PermAttendanceManage))
	ag.DELETE("/:id", api.destroy, requirePermission(usrSvc, user.PermAttendanceManage))
}

// submit runs the attendance claim through the rule engine.
func (api *attendanceApi) submit(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data attendance.NewAttendance
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	att, err := api.svc.Submit(ctx.Request().Context(), attendance.Submission{
		Submitter: usr,
		CourseID:  data.CourseID,
		Status:    data.Status,
		ProofRef:  data.ProofRef,
	})
	if err != nil {
		// rule violations pass through to the error handler untouched
		return err
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	filter := new(attendance.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []attendance.Attendance{})
	}

	// students only see their own records
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsStudent() {
		filter.StudentID = usr.ID
	}

	atts, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if atts == nil {
		atts = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, atts)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	att, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting attendance")
	}

	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsStudent() && att.StudentID != usr.ID {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	var data attendance.UpdateAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAttendance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	att, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating attendance")
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}
