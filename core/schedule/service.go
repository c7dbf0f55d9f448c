package schedule

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("schedule not found")

type (
	Repository interface {
		CreateSchedule(ctx context.Context, sched Schedule) (Schedule, error)
		QueryAllSchedules(ctx context.Context) ([]Schedule, error)
		GetScheduleByID(ctx context.Context, id string) (Schedule, error)
		// QuerySchedulesByCourseAndDay returns all class slots of a course on
		// the given day. Multiple slots a day are possible.
		QuerySchedulesByCourseAndDay(ctx context.Context, courseID, day string) ([]Schedule, error)
		// FilterSchedules applies AND operation on available QueryFilter fields.
		FilterSchedules(ctx context.Context, filter QueryFilter) ([]Schedule, error)
		UpdateSchedule(ctx context.Context, sched Schedule) (Schedule, error)
		DeleteSchedulesByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, ns NewSchedule) (Schedule, error)
		QueryAll(ctx context.Context) ([]Schedule, error)
		GetByID(ctx context.Context, id string) (Schedule, error)
		FindByCourseAndDay(ctx context.Context, courseID, day string) ([]Schedule, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Schedule, error)
		Update(ctx context.Context, id string, us UpdateSchedule) (Schedule, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, ns NewSchedule) (Schedule, error) {
	now := time.Now().UTC()
	sched := Schedule{
		CourseID:   ns.CourseID,
		LecturerID: ns.LecturerID,
		Room:       ns.Room,
		Day:        ns.Day,
		StartTime:  ns.StartTime,
		EndTime:    ns.EndTime,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateSchedule(ctx, sched)
}

func (svc *service) QueryAll(ctx context.Context) ([]Schedule, error) {
	return svc.repo.QueryAllSchedules(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Schedule, error) {
	return svc.repo.GetScheduleByID(ctx, id)
}

func (svc *service) FindByCourseAndDay(ctx context.Context, courseID, day string) ([]Schedule, error) {
	return svc.repo.QuerySchedulesByCourseAndDay(ctx, courseID, day)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Schedule, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllSchedules(ctx)
	}
	return svc.repo.FilterSchedules(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id string, us UpdateSchedule) (Schedule, error) {
	sched, err := svc.repo.GetScheduleByID(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	sched.LecturerID = us.LecturerID
	sched.Room = us.Room
	sched.Day = us.Day
	sched.StartTime = us.StartTime
	sched.EndTime = us.EndTime
	sched.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSchedule(ctx, sched)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSchedulesByID(ctx, ids...)
}
