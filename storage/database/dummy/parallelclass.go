package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/hadir/core/parallelclass"
)

type parallelClassRepository struct {
	db *parallelClassTable
}

var _ parallelclass.Repository = (*parallelClassRepository)(nil) // interface compliance check

func NewParallelClassRepository(db *DB) parallelclass.Repository {
	return &parallelClassRepository{db: db.parallelClass}
}

func (repo *parallelClassRepository) query() []parallelclass.ParallelClass {
	classes := make([]parallelclass.ParallelClass, 0, len(repo.db.table))
	for _, pc := range repo.db.table {
		classes = append(classes, *pc)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].CreatedAt.Before(classes[j].CreatedAt) })
	return classes
}

func (repo *parallelClassRepository) CheckParallelClassUniqueness(
	_ context.Context, courseID, code, year, semester string, excludedClasses ...parallelclass.ParallelClass,
) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, pc := range repo.query() {
		excluded := false
		for _, excl := range excludedClasses {
			if pc.ID == excl.ID {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if pc.CourseID == courseID && pc.Code == code && pc.AcademicYear == year && pc.Semester == semester {
			return parallelclass.ErrClassExists
		}
	}
	return nil
}

func (repo *parallelClassRepository) CreateParallelClass(_ context.Context, pc parallelclass.ParallelClass) (parallelclass.ParallelClass, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.CourseID == pc.CourseID && existing.Code == pc.Code &&
			existing.AcademicYear == pc.AcademicYear && existing.Semester == pc.Semester {
			return parallelclass.ParallelClass{}, parallelclass.ErrClassExists
		}
	}

	pc.ID = uuid.New().String()
	repo.db.table[pc.ID] = &pc
	return pc, nil
}

func (repo *parallelClassRepository) QueryAllParallelClasses(_ context.Context) ([]parallelclass.ParallelClass, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *parallelClassRepository) GetParallelClassByID(_ context.Context, id string) (parallelclass.ParallelClass, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pc, ok := repo.db.table[id]; ok {
		return *pc, nil
	}
	return parallelclass.ParallelClass{}, parallelclass.ErrNotFound
}

func matchParallelClass(pc parallelclass.ParallelClass, filter parallelclass.QueryFilter) bool {
	if filter.CourseID != "" && pc.CourseID != filter.CourseID {
		return false
	}
	if filter.AcademicYear != "" && pc.AcademicYear != filter.AcademicYear {
		return false
	}
	if filter.Semester != "" && pc.Semester != filter.Semester {
		return false
	}
	if filter.LecturerID != "" && !pc.HasLecturer(filter.LecturerID) {
		return false
	}
	return true
}

func (repo *parallelClassRepository) FilterParallelClasses(_ context.Context, filter parallelclass.QueryFilter) ([]parallelclass.ParallelClass, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []parallelclass.ParallelClass
	for _, pc := range repo.query() {
		if matchParallelClass(pc, filter) {
			filtered = append(filtered, pc)
		}
	}
	return filtered, nil
}

func (repo *parallelClassRepository) UpdateParallelClass(_ context.Context, pc parallelclass.ParallelClass) (parallelclass.ParallelClass, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[pc.ID]
	if !ok {
		return parallelclass.ParallelClass{}, parallelclass.ErrNotFound
	}
	orig.CourseID = pc.CourseID
	orig.Code = pc.Code
	orig.Name = pc.Name
	orig.LecturerIDs = pc.LecturerIDs
	orig.AcademicYear = pc.AcademicYear
	orig.Semester = pc.Semester
	orig.UpdatedAt = pc.UpdatedAt
	return *orig, nil
}

func (repo *parallelClassRepository) DeleteParallelClassesByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
