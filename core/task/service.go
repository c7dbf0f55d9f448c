package task

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/trezcool/hadir/core"
	"github.com/trezcool/hadir/core/course"
	"github.com/trezcool/hadir/core/enrollment"
	"github.com/trezcool/hadir/core/user"
)

var (
	ErrNotFound           = errors.New("task not found")
	ErrNotCourseLecturer  = errors.New("only a lecturer of the course can create tasks for it")
	ErrNoEnrolledStudents = errors.New("the course has no actively enrolled students")
)

type (
	Repository interface {
		CreateTask(ctx context.Context, tsk Task) (Task, error)
		QueryAllTasks(ctx context.Context) ([]Task, error)
		GetTaskByID(ctx context.Context, id string) (Task, error)
		// FilterTasks applies AND operation on available QueryFilter fields.
		FilterTasks(ctx context.Context, filter QueryFilter) ([]Task, error)
		UpdateTask(ctx context.Context, tsk Task) (Task, error)
		DeleteTasksByID(ctx context.Context, ids ...string) error
	}

	CourseGetter interface {
		GetByID(ctx context.Context, id string) (course.Course, error)
	}

	EnrollmentFilterer interface {
		Filter(ctx context.Context, filter enrollment.QueryFilter) ([]enrollment.Enrollment, error)
	}

	UserGetter interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, creator user.User, nt NewTask) (Task, error)
		QueryAll(ctx context.Context) ([]Task, error)
		GetByID(ctx context.Context, id string) (Task, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Task, error)
		Update(ctx context.Context, id string, utk UpdateTask) (Task, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo      Repository
		courseSvc CourseGetter
		enrollSvc EnrollmentFilterer
		userSvc   UserGetter
		mailSvc   core.EmailService
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(
	repo Repository,
	courseSvc CourseGetter,
	enrollSvc EnrollmentFilterer,
	userSvc UserGetter,
	mailSvc core.EmailService,
) ServiceInterface {
	return &service{
		repo:      repo,
		courseSvc: courseSvc,
		enrollSvc: enrollSvc,
		userSvc:   userSvc,
		mailSvc:   mailSvc,
	}
}

// Create stores a new Task for every student actively enrolled in the course
// and emails each of them. The creator must be a lecturer of the course;
// admins may create tasks for any course.
func (svc *service) Create(ctx context.Context, creator user.User, nt NewTask) (Task, error) {
	crs, err := svc.courseSvc.GetByID(ctx, nt.CourseID)
	if err != nil {
		return Task{}, err
	}
	if !creator.IsAdmin() && !crs.HasLecturer(creator.ID) {
		return Task{}, ErrNotCourseLecturer
	}

	enrs, err := svc.enrollSvc.Filter(ctx, enrollment.QueryFilter{
		CourseID: crs.ID,
		Status:   enrollment.StatusActive,
	})
	if err != nil {
		return Task{}, err
	}
	if len(enrs) == 0 {
		return Task{}, ErrNoEnrolledStudents
	}

	studentIDs := make([]string, len(enrs))
	for i, enr := range enrs {
		studentIDs[i] = enr.StudentID
	}

	now := time.Now().UTC()
	tsk := Task{
		Title:       nt.Title,
		Description: nt.Description,
		Deadline:    nt.Deadline,
		Status:      StatusNotStarted,
		CourseID:    crs.ID,
		StudentIDs:  studentIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tsk, err = svc.repo.CreateTask(ctx, tsk)
	if err != nil {
		return Task{}, err
	}

	svc.notifyStudents(ctx, crs, tsk)
	return tsk, nil
}

// notifyStudents emails every target student that has an email address.
// Missing addresses and lookup failures are skipped; delivery is the email
// service's problem.
func (svc *service) notifyStudents(ctx context.Context, crs course.Course, tsk Task) {
	msgs := make([]*core.EmailMessage, 0, len(tsk.StudentIDs))
	for _, id := range tsk.StudentIDs {
		std, err := svc.userSvc.GetByID(ctx, id)
		if err != nil || std.Email == "" {
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:      []mail.Address{{Name: std.Name, Address: std.Email}},
			Subject: fmt.Sprintf("New task in %s: %s", crs.Name, tsk.Title),
			TextContent: fmt.Sprintf(
				"%s\n\nDeadline: %s", tsk.Description, tsk.Deadline.Format("Mon, 02 Jan 2006 15:04"),
			),
		})
	}
	if len(msgs) > 0 {
		svc.mailSvc.SendMessages(msgs...)
	}
}

func (svc *service) QueryAll(ctx context.Context) ([]Task, error) {
	return svc.repo.QueryAllTasks(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Task, error) {
	return svc.repo.GetTaskByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Task, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllTasks(ctx)
	}
	return svc.repo.FilterTasks(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id string, utk UpdateTask) (Task, error) {
	tsk, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if utk.Title != "" {
		tsk.Title = utk.Title
	}
	if utk.Description != "" {
		tsk.Description = utk.Description
	}
	if !utk.Deadline.IsZero() {
		tsk.Deadline = utk.Deadline
	}
	if utk.Status != "" {
		tsk.Status = utk.Status
	}
	tsk.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(ctx, tsk)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTasksByID(ctx, ids...)
}
