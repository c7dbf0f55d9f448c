package attendance

import (
	"time"

	"github.com/trezcool/hadir/core"
	"github.com/trezcool/hadir/core/user"
)

const (
	StatusPresent    = "present"
	StatusPermission = "permission"
	StatusSick       = "sick"
	StatusAbsent     = "absent"
)

var AllStatuses = []string{StatusPresent, StatusPermission, StatusSick, StatusAbsent}

func ValidStatus(s string) bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// NeedsProof reports whether the status must be backed by a proof document.
func NeedsProof(status string) bool {
	return status == StatusPermission || status == StatusSick
}

type Attendance struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	ProofRef  string    `json:"proof_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Submission is one attendance claim going through the rule engine.
// Now is the server-resolved submission instant; when zero the engine
// resolves it itself.
type Submission struct {
	Submitter user.User
	CourseID  string
	Status    string
	ProofRef  string
	Now       time.Time
}

// NewAttendance is the HTTP payload behind a Submission.
type NewAttendance struct {
	CourseID string `json:"course_id" validate:"required"`
	Status   string `json:"status" validate:"required,attendancestatus"`
	ProofRef string `json:"proof_ref"`
}

func (na *NewAttendance) Validate() error {
	na.CourseID = core.CleanString(na.CourseID)
	na.Status = core.CleanString(na.Status, true /* lower */)
	na.ProofRef = core.CleanString(na.ProofRef)
	return validate.Struct(na)
}

// UpdateAttendance defines what an admin may override on an existing record.
type UpdateAttendance struct {
	Status   string `json:"status" validate:"omitempty,attendancestatus"`
	ProofRef string `json:"proof_ref"`
}

func (ua *UpdateAttendance) Validate() error {
	ua.Status = core.CleanString(ua.Status, true /* lower */)
	ua.ProofRef = core.CleanString(ua.ProofRef)
	return validate.Struct(ua)
}

type QueryFilter struct {
	StudentID string    `query:"student_id"`
	CourseID  string    `query:"course_id"`
	Status    string    `query:"status"`
	DateFrom  time.Time `query:"date_from"`
	DateTo    time.Time `query:"date_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.CourseID == "" && qf.Status == "" && qf.DateFrom.IsZero() && qf.DateTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.CourseID = core.CleanString(qf.CourseID)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
