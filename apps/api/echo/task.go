package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core"
	"github.com/trezcool/hadir/core/course"
	"github.com/trezcool/hadir/core/task"
	"github.com/trezcool/hadir/core/user"
)

type taskApi struct {
	svc    task.ServiceInterface
	usrSvc user.ServiceInterface
}

func registerTaskAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc task.ServiceInterface, usrSvc user.ServiceInterface) {
	api := taskApi{svc: svc, usrSvc: usrSvc}

	tg := g.Group("/tasks", jwt)
	tg.POST("", api.create, requirePermission(usrSvc, user.PermTaskManage))
	tg.GET("", api.query, requirePermission(usrSvc, user.PermTaskRead))
	tg.GET("/:id", api.retrieve, requirePermission(usrSvc, user.PermTaskRead))
	tg.PUT("/:id", api.update, requirePermission(usrSvc, user.PermTaskManage))
	tg.DELETE("/:id", api.destroy, requirePermission(usrSvc, user.PermTaskManage))
}

func (api *taskApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data task.NewTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err = data.Validate(); err != nil {
		return err
	}

	tsk, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		switch errors.Cause(err) {
		case course.ErrNotFound:
			return errHttpNotFound
		case task.ErrNotCourseLecturer:
			return errHttpForbidden
		case task.ErrNoEnrolledStudents:
			return core.NewValidationError(err, core.FieldError{Field: "course_id", Error: err.Error()})
		}
		return errors.Wrap(err, "creating task")
	}
	return ctx.JSON(http.StatusCreated, tsk)
}

func (api *taskApi) query(ctx echo.Context) error {
	filter := new(task.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []task.Task{})
	}

	// students only see tasks targeting them
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsStudent() {
		filter.StudentID = usr.ID
	}

	tasks, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) retrieve(ctx echo.Context) error {
	tsk, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == task.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) update(ctx echo.Context) error {
	var data task.UpdateTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTask")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tsk, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == task.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating task")
	}
	return ctx.JSON(http.StatusOK, tsk)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.NoContent(http.StatusNoContent)
}
