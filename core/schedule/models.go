package schedule

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core"
)

// Days a class may be scheduled on. Sunday is deliberately absent.
var AllDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func ValidDay(d string) bool {
	for _, day := range AllDays {
		if d == day {
			return true
		}
	}
	return false
}

type Schedule struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	LecturerID string    `json:"lecturer_id"`
	Room       string    `json:"room"`
	Day        string    `json:"day"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ParseMinutes converts a zero-padded "HH:MM" value to minutes since midnight.
func ParseMinutes(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%02d:%02d", &h, &m); err != nil {
		return 0, errors.Wrapf(err, "parsing time of day %q", hhmm)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, errors.Errorf("time of day %q out of range", hhmm)
	}
	return h*60 + m, nil
}

// FormatMinutes renders minutes since midnight as zero-padded "HH:MM".
func FormatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// NewSchedule contains information needed to create a new Schedule.
type NewSchedule struct {
	CourseID   string `json:"course_id" validate:"required"`
	LecturerID string `json:"lecturer_id" validate:"required"`
	Room       string `json:"room" validate:"required"`
	Day        string `json:"day" validate:"required,weekday"`
	StartTime  string `json:"start_time" validate:"required,hhmm"`
	EndTime    string `json:"end_time" validate:"required,hhmm"`
}

func (ns *NewSchedule) Validate() error {
	ns.CourseID = core.CleanString(ns.CourseID)
	ns.LecturerID = core.CleanString(ns.LecturerID)
	ns.Room = core.CleanString(ns.Room)
	ns.Day = core.CleanString(ns.Day)
	ns.StartTime = core.CleanString(ns.StartTime)
	ns.EndTime = core.CleanString(ns.EndTime)
	return validate.Struct(ns)
}

// UpdateSchedule defines what information may be provided to modify an existing Schedule.
type UpdateSchedule struct {
	LecturerID string `json:"lecturer_id"`
	Room       string `json:"room"`
	Day        string `json:"day" validate:"omitempty,weekday"`
	StartTime  string `json:"start_time" validate:"omitempty,hhmm"`
	EndTime    string `json:"end_time" validate:"omitempty,hhmm"`
}

func (us *UpdateSchedule) Validate(origSched Schedule) error {
	if v := core.CleanString(us.LecturerID); v != "" {
		us.LecturerID = v
	} else {
		us.LecturerID = origSched.LecturerID
	}
	if v := core.CleanString(us.Room); v != "" {
		us.Room = v
	} else {
		us.Room = origSched.Room
	}
	if v := core.CleanString(us.Day); v != "" {
		us.Day = v
	} else {
		us.Day = origSched.Day
	}
	if v := core.CleanString(us.StartTime); v != "" {
		us.StartTime = v
	} else {
		us.StartTime = origSched.StartTime
	}
	if v := core.CleanString(us.EndTime); v != "" {
		us.EndTime = v
	} else {
		us.EndTime = origSched.EndTime
	}
	return validate.Struct(us)
}

type QueryFilter struct {
	CourseID   string `query:"course_id"`
	LecturerID string `query:"lecturer_id"`
	Day        string `query:"day"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.CourseID == "" && qf.LecturerID == "" && qf.Day == ""
}

func (qf *QueryFilter) Clean() {
	qf.CourseID = core.CleanString(qf.CourseID)
	qf.LecturerID = core.CleanString(qf.LecturerID)
	qf.Day = core.CleanString(qf.Day)
}
