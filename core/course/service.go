package course

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/hadir/core"
)

var (
	ErrNotFound     = errors.New("course not found")
	ErrCourseExists = errors.New("a course with this name already exists for this academic year and semester")
)

type (
	Repository interface {
		CheckCourseUniqueness(ctx context.Context, name, year, semester string, excludedCourses ...Course) error
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		// FilterCourses applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Course.Name.
		FilterCourses(ctx context.Context, filter QueryFilter) ([]Course, error)
		// QueryAvailableCourses returns courses the student has no enrollment in.
		QueryAvailableCourses(ctx context.Context, studentID string, filter QueryFilter) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		CheckUniqueness(name, year, semester string, exclCourses ...Course) error
		Create(ctx context.Context, nc NewCourse) (Course, error)
		QueryAll(ctx context.Context) ([]Course, error)
		GetByID(ctx context.Context, id string) (Course, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Course, error)
		Available(ctx context.Context, studentID string, filter QueryFilter) ([]Course, error)
		Update(ctx context.Context, id string, uc UpdateCourse) (Course, error)
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

func (svc *service) CheckUniqueness(name, year, semester string, exclCourses ...Course) error {
	if err := svc.repo.CheckCourseUniqueness(context.Background(), name, year, semester, exclCourses...); err != nil {
		if err == ErrCourseExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Name:         nc.Name,
		LecturerIDs:  nc.LecturerIDs,
		AcademicYear: nc.AcademicYear,
		Semester:     nc.Semester,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Course, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllCourses(ctx)
	}
	return svc.repo.FilterCourses(ctx, filter)
}

func (svc *service) Available(ctx context.Context, studentID string, filter QueryFilter) ([]Course, error) {
	filter.Clean()
	return svc.repo.QueryAvailableCourses(ctx, studentID, filter)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs := Course{
		ID:           id,
		Name:         uc.Name,
		LecturerIDs:  uc.LecturerIDs,
		AcademicYear: uc.AcademicYear,
		Semester:     uc.Semester,
		UpdatedAt:    time.Now().UTC(),
	}
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}
