package parallelclass

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/hadir/core"
	"github.com/trezcool/hadir/core/course"
)

var (
	ErrNotFound    = errors.New("parallel class not found")
	ErrClassExists = errors.New("a parallel class with this code already exists for this course, academic year and semester")
)

type (
	Repository interface {
		CheckParallelClassUniqueness(ctx context.Context, courseID, code, year, semester string, excludedClasses ...ParallelClass) error
		CreateParallelClass(ctx context.Context, pc ParallelClass) (ParallelClass, error)
		QueryAllParallelClasses(ctx context.Context) ([]ParallelClass, error)
		GetParallelClassByID(ctx context.Context, id string) (ParallelClass, error)
		// FilterParallelClasses applies AND operation on available QueryFilter fields.
		FilterParallelClasses(ctx context.Context, filter QueryFilter) ([]ParallelClass, error)
		UpdateParallelClass(ctx context.Context, pc ParallelClass) (ParallelClass, error)
		DeleteParallelClassesByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		CheckUniqueness(courseID, code, year, semester string, exclClasses ...ParallelClass) error
		Create(ctx context.Context, npc NewParallelClass) (ParallelClass, error)
		QueryAll(ctx context.Context) ([]ParallelClass, error)
		GetByID(ctx context.Context, id string) (ParallelClass, error)
		Filter(ctx context.Context, filter QueryFilter) ([]ParallelClass, error)
		Update(ctx context.Context, id string, upc UpdateParallelClass) (ParallelClass, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo   Repository
		crsSvc course.ServiceInterface
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, crsSvc course.ServiceInterface) ServiceInterface {
	return &service{repo: repo, crsSvc: crsSvc}
}

func (svc *service) CheckUniqueness(courseID, code, year, semester string, exclClasses ...ParallelClass) error {
	if err := svc.repo.CheckParallelClassUniqueness(context.Background(), courseID, code, year, semester, exclClasses...); err != nil {
		if err == ErrClassExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Create opens a new section of the course. The course must exist;
// course.ErrNotFound comes back otherwise.
func (svc *service) Create(ctx context.Context, npc NewParallelClass) (ParallelClass, error) {
	if _, err := svc.crsSvc.GetByID(ctx, npc.CourseID); err != nil {
		return ParallelClass{}, err
	}

	now := time.Now().UTC()
	pc := ParallelClass{
		CourseID:     npc.CourseID,
		Code:         npc.Code,
		Name:         npc.Name,
		LecturerIDs:  npc.LecturerIDs,
		AcademicYear: npc.AcademicYear,
		Semester:     npc.Semester,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateParallelClass(ctx, pc)
}

func (svc *service) QueryAll(ctx context.Context) ([]ParallelClass, error) {
	return svc.repo.QueryAllParallelClasses(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (ParallelClass, error) {
	return svc.repo.GetParallelClassByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]ParallelClass, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllParallelClasses(ctx)
	}
	return svc.repo.FilterParallelClasses(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id string, upc UpdateParallelClass) (ParallelClass, error) {
	if _, err := svc.crsSvc.GetByID(ctx, upc.CourseID); err != nil {
		return ParallelClass{}, err
	}

	pc := ParallelClass{
		ID:           id,
		CourseID:     upc.CourseID,
		Code:         upc.Code,
		Name:         upc.Name,
		LecturerIDs:  upc.LecturerIDs,
		AcademicYear: upc.AcademicYear,
		Semester:     upc.Semester,
		UpdatedAt:    time.Now().UTC(),
	}
	return svc.repo.UpdateParallelClass(ctx, pc)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteParallelClassesByID(ctx, ids...)
}
