package course

import (
	"time"

	"github.com/trezcool/hadir/core"
)

const (
	SemesterOdd  = "odd"
	SemesterEven = "even"
)

var AllSemesters = []string{SemesterOdd, SemesterEven}

func ValidSemester(s string) bool {
	for _, sem := range AllSemesters {
		if s == sem {
			return true
		}
	}
	return false
}

type Course struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LecturerIDs  []string  `json:"lecturer_ids"`
	AcademicYear string    `json:"academic_year"`
	Semester     string    `json:"semester"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasLecturer reports whether the given user teaches this course.
func (c *Course) HasLecturer(userID string) bool {
	for _, id := range c.LecturerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name         string   `json:"name" validate:"required"`
	LecturerIDs  []string `json:"lecturer_ids" validate:"required,min=1,dive,required"`
	AcademicYear string   `json:"academic_year" validate:"required"`
	Semester     string   `json:"semester" validate:"required,semester"`
}

func (nc *NewCourse) Validate(svc ServiceInterface) error {
	nc.Name = core.CleanString(nc.Name)
	nc.AcademicYear = core.CleanString(nc.AcademicYear)
	nc.Semester = core.CleanString(nc.Semester, true /* lower */)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckUniqueness(nc.Name, nc.AcademicYear, nc.Semester)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Name         string   `json:"name"`
	LecturerIDs  []string `json:"lecturer_ids" validate:"omitempty,min=1,dive,required"`
	AcademicYear string   `json:"academic_year"`
	Semester     string   `json:"semester" validate:"omitempty,semester"`
}

func (uc *UpdateCourse) Validate(origCrs Course, svc ServiceInterface) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = origCrs.Name
	}
	if year := core.CleanString(uc.AcademicYear); year != "" {
		uc.AcademicYear = year
	} else {
		uc.AcademicYear = origCrs.AcademicYear
	}
	if sem := core.CleanString(uc.Semester, true /* lower */); sem != "" {
		uc.Semester = sem
	} else {
		uc.Semester = origCrs.Semester
	}
	if uc.LecturerIDs == nil {
		uc.LecturerIDs = origCrs.LecturerIDs
	}

	if err := validate.Struct(uc); err != nil {
		return err
	}
	return svc.CheckUniqueness(uc.Name, uc.AcademicYear, uc.Semester, origCrs)
}

type QueryFilter struct {
	Search       string `query:"search"`
	AcademicYear string `query:"academic_year"`
	Semester     string `query:"semester"`
	LecturerID   string `query:"lecturer_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.AcademicYear == "" && qf.Semester == "" && qf.LecturerID == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.AcademicYear = core.CleanString(qf.AcademicYear)
	qf.Semester = core.CleanString(qf.Semester, true /* lower */)
	qf.LecturerID = core.CleanString(qf.LecturerID)
}
