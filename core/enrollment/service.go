package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/hadir/core/course"
)

var (
	ErrNotFound = errors.New("enrollment not found")
	// ErrAlreadyEnrolled also covers dropped enrollments: a student cannot
	// re-enroll in a course they enrolled in before.
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")
)

type (
	Repository interface {
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		QueryAllEnrollments(ctx context.Context) ([]Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id string) (Enrollment, error)
		// GetActiveEnrollment looks up the student's enrollment in the course
		// with an active status; ErrNotFound otherwise.
		GetActiveEnrollment(ctx context.Context, studentID, courseID string) (Enrollment, error)
		// FilterEnrollments applies AND operation on available QueryFilter fields.
		FilterEnrollments(ctx context.Context, filter QueryFilter) ([]Enrollment, error)
		UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		DeleteEnrollmentsByID(ctx context.Context, ids ...string) error
	}

	// CourseGetter is the slice of the course service the registry needs.
	CourseGetter interface {
		GetByID(ctx context.Context, id string) (course.Course, error)
	}

	ServiceInterface interface {
		Enroll(ctx context.Context, studentID, courseID string) (Enrollment, error)
		Drop(ctx context.Context, studentID, courseID string) (Enrollment, error)
		FindActive(ctx context.Context, studentID, courseID string) (Enrollment, error)
		QueryAll(ctx context.Context) ([]Enrollment, error)
		GetByID(ctx context.Context, id string) (Enrollment, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Enrollment, error)
		Update(ctx context.Context, id string, ue UpdateEnrollment) (Enrollment, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo      Repository
		courseSvc CourseGetter
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, courseSvc CourseGetter) ServiceInterface {
	return &service{repo: repo, courseSvc: courseSvc}
}

func (svc *service) Enroll(ctx context.Context, studentID, courseID string) (Enrollment, error) {
	crs, err := svc.courseSvc.GetByID(ctx, courseID)
	if err != nil {
		return Enrollment{}, err
	}

	now := time.Now().UTC()
	enr := Enrollment{
		StudentID:    studentID,
		CourseID:     crs.ID,
		AcademicYear: crs.AcademicYear,
		Semester:     crs.Semester,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateEnrollment(ctx, enr)
}

func (svc *service) Drop(ctx context.Context, studentID, courseID string) (Enrollment, error) {
	enr, err := svc.repo.GetActiveEnrollment(ctx, studentID, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	enr.Status = StatusDropped
	enr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEnrollment(ctx, enr)
}

func (svc *service) FindActive(ctx context.Context, studentID, courseID string) (Enrollment, error) {
	return svc.repo.GetActiveEnrollment(ctx, studentID, courseID)
}

func (svc *service) QueryAll(ctx context.Context) ([]Enrollment, error) {
	return svc.repo.QueryAllEnrollments(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Enrollment, error) {
	return svc.repo.GetEnrollmentByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Enrollment, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllEnrollments(ctx)
	}
	return svc.repo.FilterEnrollments(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id string, ue UpdateEnrollment) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, id)
	if err != nil {
		return Enrollment{}, err
	}
	enr.Status = ue.Status
	enr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEnrollment(ctx, enr)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEnrollmentsByID(ctx, ids...)
}
