package enrollment

import (
	"time"

	"github.com/trezcool/hadir/core"
)

const (
	StatusActive  = "active"
	StatusDropped = "dropped"
)

var AllStatuses = []string{StatusActive, StatusDropped}

func ValidStatus(s string) bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type Enrollment struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	CourseID     string    `json:"course_id"`
	AcademicYear string    `json:"academic_year"`
	Semester     string    `json:"semester"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Enrollment) IsActive() bool { return e.Status == StatusActive }

// NewEnrollment contains information needed to enroll a student in a course.
// The academic year and semester are copied from the course on enrollment.
type NewEnrollment struct {
	CourseID string `json:"course_id" validate:"required"`
}

func (ne *NewEnrollment) Validate() error {
	ne.CourseID = core.CleanString(ne.CourseID)
	return validate.Struct(ne)
}

// UpdateEnrollment defines what an admin may modify on an existing Enrollment.
type UpdateEnrollment struct {
	Status string `json:"status" validate:"required,enrollmentstatus"`
}

func (ue *UpdateEnrollment) Validate() error {
	ue.Status = core.CleanString(ue.Status, true /* lower */)
	return validate.Struct(ue)
}

type QueryFilter struct {
	StudentID    string `query:"student_id"`
	CourseID     string `query:"course_id"`
	AcademicYear string `query:"academic_year"`
	Semester     string `query:"semester"`
	Status       string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.CourseID == "" && qf.AcademicYear == "" && qf.Semester == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.CourseID = core.CleanString(qf.CourseID)
	qf.AcademicYear = core.CleanString(qf.AcademicYear)
	qf.Semester = core.CleanString(qf.Semester, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
