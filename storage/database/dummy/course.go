package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/hadir/core/course"
)

type courseRepository struct {
	db  *courseTable
	enr *enrollmentTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course, enr: db.enrollment}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses
}

func (repo *courseRepository) CheckCourseUniqueness(_ context.Context, name, year, semester string, excludedCourses ...course.Course) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, crs := range repo.query() {
		excluded := false
		for _, excl := range excludedCourses {
			if crs.ID == excl.ID {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if crs.Name == name && crs.AcademicYear == year && crs.Semester == semester {
			return course.ErrCourseExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = uuid.New().String()
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(_ context.Context) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func matchCourse(crs course.Course, filter course.QueryFilter) bool {
	if filter.Search != "" && !strings.Contains(strings.ToLower(crs.Name), strings.ToLower(filter.Search)) {
		return false
	}
	if filter.AcademicYear != "" && crs.AcademicYear != filter.AcademicYear {
		return false
	}
	if filter.Semester != "" && crs.Semester != filter.Semester {
		return false
	}
	if filter.LecturerID != "" && !crs.HasLecturer(filter.LecturerID) {
		return false
	}
	return true
}

func (repo *courseRepository) FilterCourses(_ context.Context, filter course.QueryFilter) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []course.Course
	for _, crs := range repo.query() {
		if matchCourse(crs, filter) {
			filtered = append(filtered, crs)
		}
	}
	return filtered, nil
}

func (repo *courseRepository) QueryAvailableCourses(_ context.Context, studentID string, filter course.QueryFilter) ([]course.Course, error) {
	enrolled := make(map[string]bool)
	repo.enr.RLock()
	for _, enr := range repo.enr.table {
		if enr.StudentID == studentID {
			enrolled[enr.CourseID] = true
		}
	}
	repo.enr.RUnlock()

	repo.db.RLock()
	defer repo.db.RUnlock()

	var available []course.Course
	for _, crs := range repo.query() {
		if !enrolled[crs.ID] && matchCourse(crs, filter) {
			available = append(available, crs)
		}
	}
	return available, nil
}

func (repo *courseRepository) UpdateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[crs.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	orig.Name = crs.Name
	orig.LecturerIDs = crs.LecturerIDs
	orig.AcademicYear = crs.AcademicYear
	orig.Semester = crs.Semester
	orig.UpdatedAt = crs.UpdatedAt
	return *orig, nil
}

func (repo *courseRepository) DeleteCoursesByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
