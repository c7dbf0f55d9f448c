package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core/enrollment"
	"github.com/trezcool/hadir/core/holiday"
	"github.com/trezcool/hadir/core/schedule"
)

// NowFunc returns the current time. It can be mocked in tests.
var NowFunc func() time.Time = time.Now

type (
	// HolidayCalendar answers "is this day a holiday".
	HolidayCalendar interface {
		FindByDate(ctx context.Context, date time.Time) (holiday.Holiday, error)
	}

	// EnrollmentRegistry answers "is this student actively enrolled".
	EnrollmentRegistry interface {
		FindActive(ctx context.Context, studentID, courseID string) (enrollment.Enrollment, error)
	}

	// ScheduleDirectory lists a course's class slots on a given day.
	ScheduleDirectory interface {
		FindByCourseAndDay(ctx context.Context, courseID, day string) ([]schedule.Schedule, error)
	}
)

// Engine runs the attendance submission rules. It holds no state of its own;
// every answer comes from its collaborators.
type Engine struct {
	holidays    HolidayCalendar
	enrollments EnrollmentRegistry
	schedules   ScheduleDirectory
	store       Store

	loc          *time.Location
	windowBefore time.Duration
	windowAfter  time.Duration
}

func NewEngine(
	holidays HolidayCalendar,
	enrollments EnrollmentRegistry,
	schedules ScheduleDirectory,
	store Store,
	loc *time.Location,
	windowBefore, windowAfter time.Duration,
) *Engine {
	return &Engine{
		holidays:     holidays,
		enrollments:  enrollments,
		schedules:    schedules,
		store:        store,
		loc:          loc,
		windowBefore: windowBefore,
		windowAfter:  windowAfter,
	}
}

// Submit runs the ordered rule checks on sub and persists the attendance
// record if every rule passes. The first violated rule wins and is returned
// as a *RuleViolation; infrastructure failures come back as plain errors.
//
// Check order: role, holiday, active enrollment, duplicate, schedule window,
// proof, persist.
func (e *Engine) Submit(ctx context.Context, sub Submission) (Attendance, error) {
	if !sub.Submitter.IsStudent() {
		return Attendance{}, NewRuleViolation(CodeForbiddenRole, "only students can submit attendance")
	}

	now := sub.Now
	if now.IsZero() {
		now = NowFunc()
	}
	now = now.In(e.loc)
	date := holiday.Truncate(now)

	hol, err := e.holidays.FindByDate(ctx, now)
	switch err {
	case nil:
		return Attendance{}, NewRuleViolation(CodeHoliday, fmt.Sprintf("no class today: %s", hol.Description))
	case holiday.ErrNotFound:
	default:
		return Attendance{}, errors.Wrap(err, "checking holiday calendar")
	}

	if _, err = e.enrollments.FindActive(ctx, sub.Submitter.ID, sub.CourseID); err != nil {
		if err == enrollment.ErrNotFound {
			return Attendance{}, NewRuleViolation(CodeNotActiveEnrollment, "no active enrollment in this course")
		}
		return Attendance{}, errors.Wrap(err, "checking enrollment")
	}

	if _, err = e.store.GetAttendanceForDate(ctx, sub.Submitter.ID, sub.CourseID, date); err == nil {
		return Attendance{}, NewRuleViolation(CodeAlreadyPresent, "attendance already submitted for this course today")
	} else if err != ErrNotFound {
		return Attendance{}, errors.Wrap(err, "checking existing attendance")
	}

	day := now.Weekday().String()
	scheds, err := e.schedules.FindByCourseAndDay(ctx, sub.CourseID, day)
	if err != nil {
		return Attendance{}, errors.Wrap(err, "looking up schedule")
	}
	if len(scheds) == 0 {
		return Attendance{}, NewRuleViolation(CodeNoScheduleToday, fmt.Sprintf("this course has no class on %s", day))
	}
	v, err := e.checkWindow(scheds, now)
	if err != nil {
		return Attendance{}, err
	}
	if v != nil {
		return Attendance{}, v
	}

	if NeedsProof(sub.Status) && sub.ProofRef == "" {
		return Attendance{}, NewRuleViolation(CodeProofRequired, fmt.Sprintf("a proof document is required for status %q", sub.Status))
	}

	att := Attendance{
		StudentID: sub.Submitter.ID,
		CourseID:  sub.CourseID,
		Date:      date,
		Status:    sub.Status,
		ProofRef:  sub.ProofRef,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	att, err = e.store.CreateAttendance(ctx, att)
	if err != nil {
		// the unique index may catch a concurrent duplicate that the
		// read-check above missed
		if err == ErrAlreadyExists {
			return Attendance{}, NewRuleViolation(CodeAlreadyPresent, "attendance already submitted for this course today")
		}
		return Attendance{}, errors.Wrap(err, "saving attendance")
	}
	return att, nil
}

// checkWindow accepts the submission if its instant falls within
// [start-windowBefore, start+windowAfter] of any of the day's slots, bounds
// included. The lower bound clamps at midnight. A slot whose stored start
// time does not parse is corrupt data and comes back as a plain error.
func (e *Engine) checkWindow(scheds []schedule.Schedule, now time.Time) (*RuleViolation, error) {
	nowMins := now.Hour()*60 + now.Minute()

	windows := make([]string, 0, len(scheds))
	for _, sched := range scheds {
		start, err := schedule.ParseMinutes(sched.StartTime)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing start time of schedule %s", sched.ID)
		}
		lo := start - int(e.windowBefore.Minutes())
		if lo < 0 {
			lo = 0
		}
		hi := start + int(e.windowAfter.Minutes())
		if lo <= nowMins && nowMins <= hi {
			return nil, nil
		}
		windows = append(windows, fmt.Sprintf(
			"%s to %s for the %s class",
			schedule.FormatMinutes(lo), schedule.FormatMinutes(hi), sched.StartTime,
		))
	}
	return NewRuleViolation(CodeOutOfTimeWindow, fmt.Sprintf(
		"submissions are accepted from %s", strings.Join(windows, "; "),
	)), nil
}
