// Package parallelclass manages course sections: a course split into
// parallel classes, each with its own code and lecturers.
package parallelclass

import (
	"time"

	"github.com/trezcool/hadir/core"
)

type ParallelClass struct {
	ID           string    `json:"id"`
	CourseID     string    `json:"course_id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	LecturerIDs  []string  `json:"lecturer_ids"`
	AcademicYear string    `json:"academic_year"`
	Semester     string    `json:"semester"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewParallelClass contains information needed to create a new ParallelClass.
type NewParallelClass struct {
	CourseID     string   `json:"course_id" validate:"required"`
	Code         string   `json:"code" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	LecturerIDs  []string `json:"lecturer_ids" validate:"required,min=1,dive,required"`
	AcademicYear string   `json:"academic_year" validate:"required"`
	Semester     string   `json:"semester" validate:"required,semester"`
}

func (npc *NewParallelClass) Validate(svc ServiceInterface) error {
	npc.CourseID = core.CleanString(npc.CourseID)
	npc.Code = core.CleanString(npc.Code)
	npc.Name = core.CleanString(npc.Name)
	npc.AcademicYear = core.CleanString(npc.AcademicYear)
	npc.Semester = core.CleanString(npc.Semester, true /* lower */)

	if err := validate.Struct(npc); err != nil {
		return err
	}
	return svc.CheckUniqueness(npc.CourseID, npc.Code, npc.AcademicYear, npc.Semester)
}

// UpdateParallelClass defines what information may be provided to modify
// an existing ParallelClass.
type UpdateParallelClass struct {
	CourseID     string   `json:"course_id"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	LecturerIDs  []string `json:"lecturer_ids" validate:"omitempty,min=1,dive,required"`
	AcademicYear string   `json:"academic_year"`
	Semester     string   `json:"semester" validate:"omitempty,semester"`
}

func (upc *UpdateParallelClass) Validate(orig ParallelClass, svc ServiceInterface) error {
	if courseID := core.CleanString(upc.CourseID); courseID != "" {
		upc.CourseID = courseID
	} else {
		upc.CourseID = orig.CourseID
	}
	if code := core.CleanString(upc.Code); code != "" {
		upc.Code = code
	} else {
		upc.Code = orig.Code
	}
	if name := core.CleanString(upc.Name); name != "" {
		upc.Name = name
	} else {
		upc.Name = orig.Name
	}
	if year := core.CleanString(upc.AcademicYear); year != "" {
		upc.AcademicYear = year
	} else {
		upc.AcademicYear = orig.AcademicYear
	}
	if sem := core.CleanString(upc.Semester, true /* lower */); sem != "" {
		upc.Semester = sem
	} else {
		upc.Semester = orig.Semester
	}
	if upc.LecturerIDs == nil {
		upc.LecturerIDs = orig.LecturerIDs
	}

	if err := validate.Struct(upc); err != nil {
		return err
	}
	return svc.CheckUniqueness(upc.CourseID, upc.Code, upc.AcademicYear, upc.Semester, orig)
}

type QueryFilter struct {
	CourseID     string `query:"course_id"`
	AcademicYear string `query:"academic_year"`
	Semester     string `query:"semester"`
	LecturerID   string `query:"lecturer_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.CourseID == "" && qf.AcademicYear == "" && qf.Semester == "" && qf.LecturerID == ""
}

func (qf *QueryFilter) Clean() {
	qf.CourseID = core.CleanString(qf.CourseID)
	qf.AcademicYear = core.CleanString(qf.AcademicYear)
	qf.Semester = core.CleanString(qf.Semester, true /* lower */)
	qf.LecturerID = core.CleanString(qf.LecturerID)
}

// HasLecturer reports whether the given user teaches this section.
func (pc *ParallelClass) HasLecturer(userID string) bool {
	for _, id := range pc.LecturerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
