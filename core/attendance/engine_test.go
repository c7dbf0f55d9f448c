package attendance_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/trezcool/hadir/core/attendance"
	"github.com/trezcool/hadir/core/enrollment"
	"github.com/trezcool/hadir/core/holiday"
	"github.com/trezcool/hadir/core/schedule"
	"github.com/trezcool/hadir/core/user"
	dummydb "github.com/trezcool/hadir/storage/database/dummy"
)

var wib = time.FixedZone("WIB", 7*3600) // the campus locale

type engineFixture struct {
	engine  *attendance.Engine
	store   attendance.Store
	enrRepo enrollment.Repository
	holRepo holiday.Repository
	schRepo schedule.Repository

	holSvc holiday.ServiceInterface
	enrSvc enrollment.ServiceInterface
	schSvc schedule.ServiceInterface

	student  user.User // actively enrolled in course
	dropped  user.User // enrolled then dropped
	stranger user.User // never enrolled
	lecturer user.User

	courseID      string // Monday 08:00 and 13:00 slots
	earlyCourseID string // Monday 00:05 slot
}

func setupEngine(t *testing.T) *engineFixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}

	holRepo := dummydb.NewHolidayRepository(db)
	enrRepo := dummydb.NewEnrollmentRepository(db)
	schedRepo := dummydb.NewScheduleRepository(db)
	store := dummydb.NewAttendanceStore(db)

	holSvc := holiday.NewService(holRepo)
	enrSvc := enrollment.NewService(enrRepo, nil) // no course lookups here
	schedSvc := schedule.NewService(schedRepo)

	f := &engineFixture{
		engine:  attendance.NewEngine(holSvc, enrSvc, schedSvc, store, wib, 10*time.Minute, 15*time.Minute),
		store:   store,
		enrRepo: enrRepo,
		holRepo: holRepo,
		schRepo: schedRepo,
		holSvc:  holSvc,
		enrSvc:  enrSvc,
		schSvc:  schedSvc,

		student:  user.User{ID: "std-1", Role: user.RoleStudent},
		dropped:  user.User{ID: "std-2", Role: user.RoleStudent},
		stranger: user.User{ID: "std-3", Role: user.RoleStudent},
		lecturer: user.User{ID: "lec-1", Role: user.RoleLecturer},

		courseID:      "crs-1",
		earlyCourseID: "crs-2",
	}

	ctx := context.Background()
	now := time.Now().UTC()

	for _, sched := range []schedule.Schedule{
		{CourseID: f.courseID, LecturerID: f.lecturer.ID, Room: "B-201", Day: "Monday", StartTime: "08:00", EndTime: "09:40"},
		{CourseID: f.courseID, LecturerID: f.lecturer.ID, Room: "B-201", Day: "Monday", StartTime: "13:00", EndTime: "14:40"},
		{CourseID: f.earlyCourseID, LecturerID: f.lecturer.ID, Room: "Lab-1", Day: "Monday", StartTime: "00:05", EndTime: "01:45"},
	} {
		sched.CreatedAt, sched.UpdatedAt = now, now
		if _, err = schedRepo.CreateSchedule(ctx, sched); err != nil {
			t.Fatalf("CreateSchedule() failed, %v", err)
		}
	}

	for _, enr := range []enrollment.Enrollment{
		{StudentID: f.student.ID, CourseID: f.courseID, AcademicYear: "2025/2026", Semester: "even", Status: enrollment.StatusActive},
		{StudentID: f.student.ID, CourseID: f.earlyCourseID, AcademicYear: "2025/2026", Semester: "even", Status: enrollment.StatusActive},
		{StudentID: f.dropped.ID, CourseID: f.courseID, AcademicYear: "2025/2026", Semester: "even", Status: enrollment.StatusDropped},
	} {
		enr.CreatedAt, enr.UpdatedAt = now, now
		if _, err = enrRepo.CreateEnrollment(ctx, enr); err != nil {
			t.Fatalf("CreateEnrollment() failed, %v", err)
		}
	}

	return f
}

// at builds a submission instant on Monday 2026-03-02 in the campus locale.
func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, 0, 0, wib)
}

func TestEngine_Submit(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	// the following Monday is a holiday
	_, err := f.holRepo.CreateHoliday(ctx, holiday.Holiday{
		Date:        time.Date(2026, time.March, 9, 0, 0, 0, 0, wib),
		Description: "Hari Raya Nyepi",
	})
	if err != nil {
		t.Fatalf("CreateHoliday() failed, %v", err)
	}

	tests := []struct {
		name       string
		sub        attendance.Submission
		wantCode   string
		wantDetail string // substring match; skipped when empty
	}{
		{
			name:     "lecturer cannot submit",
			sub:      attendance.Submission{Submitter: f.lecturer, CourseID: f.courseID, Status: attendance.StatusPresent, Now: at(8, 0)},
			wantCode: attendance.CodeForbiddenRole,
		},
		{
			name: "holiday wins over everything",
			sub: attendance.Submission{
				Submitter: f.stranger, CourseID: f.courseID, Status: attendance.StatusPresent,
				Now: time.Date(2026, time.March, 9, 8, 0, 0, 0, wib),
			},
			wantCode:   attendance.CodeHoliday,
			wantDetail: "Nyepi",
		},
		{
			name:     "not enrolled",
			sub:      attendance.Submission{Submitter: f.stranger, CourseID: f.courseID, Status: attendance.StatusPresent, Now: at(8, 0)},
			wantCode: attendance.CodeNotActiveEnrollment,
		},
		{
			name:     "dropped enrollment",
			sub:      attendance.Submission{Submitter: f.dropped, CourseID: f.courseID, Status: attendance.StatusPresent, Now: at(8, 0)},
			wantCode: attendance.CodeNotActiveEnrollment,
		},
		{
			name: "no class on tuesday",
			sub: attendance.Submission{
				Submitter: f.student, CourseID: f.courseID, Status: attendance.StatusPresent,
				Now: time.Date(2026, time.March, 3, 8, 0, 0, 0, wib),
			},
			wantCode:   attendance.CodeNoScheduleToday,
			wantDetail: "Tuesday",
		},
		{
			name:     "one minute before window opens",
			sub:      attendance.Submission{Submitter: f.student, CourseID: f.courseID, Status: attendance.StatusPresent, Now: at(7, 49)},
			wantCode: attendance.CodeOutOfTimeWindow,
		},
		{
			name:     "one minute after window closes",
			sub:      attendance.Submission{Submitter: f.student, CourseID: f.courseID, Status: attendance.StatusPresent, Now: at(8, 16)},
			wantCode: attendance.CodeOutOfTimeWindow,
		},
		{
			name:       "out of window detail lists both slots",
			sub:        attendance.Submission{Submitter: f.student, CourseID: f.courseID, Status: attendance.StatusPresent, Now: at(10, 0)},
			wantCode:   attendance.CodeOutOfTimeWindow,
			wantDetail: "07:50 to 08:15",
		},
		{
			name:     "sick without proof",
			sub:      attendance.Submission{Submitter: f.student, CourseID: f.courseID, Status: attendance.StatusSick, Now: at(8, 0)},
			wantCode: attendance.CodeProofRequired,
		},
		{
			name:     "permission without proof",
			sub:      attendance.Submission{Submitter: f.student, CourseID: f.courseID, Status: attendance.StatusPermission, Now: at(8, 0)},
			wantCode: attendance.CodeProofRequired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Submit(ctx, tt.sub)
			v, ok := attendance.AsRuleViolation(err)
			if !ok {
				t.Fatalf("Submit() error = %v, want a rule violation", err)
			}
			if v.Code != tt.wantCode {
				t.Errorf("Submit() code = %s, want %s", v.Code, tt.wantCode)
			}
			if tt.wantDetail != "" && !strings.Contains(v.Detail, tt.wantDetail) {
				t.Errorf("Submit() detail = %q, want it to contain %q", v.Detail, tt.wantDetail)
			}
		})
	}
}

func TestEngine_Submit_accepts(t *testing.T) {
	tests := []struct {
		name string
		sub  attendance.Submission
	}{
		{
			name: "window opens at start minus ten",
			sub:  attendance.Submission{Status: attendance.StatusPresent, Now: at(7, 50)},
		},
		{
			name: "class start",
			sub:  attendance.Submission{Status: attendance.StatusPresent, Now: at(8, 0)},
		},
		{
			name: "window closes at start plus fifteen",
			sub:  attendance.Submission{Status: attendance.StatusPresent, Now: at(8, 15)},
		},
		{
			name: "afternoon slot counts too",
			sub:  attendance.Submission{Status: attendance.StatusPresent, Now: at(13, 5)},
		},
		{
			name: "sick with proof",
			sub:  attendance.Submission{Status: attendance.StatusSick, ProofRef: "proofs/note.pdf", Now: at(8, 0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupEngine(t) // fresh store per case, no duplicates
			tt.sub.Submitter = f.student
			tt.sub.CourseID = f.courseID

			att, err := f.engine.Submit(context.Background(), tt.sub)
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if att.ID == "" {
				t.Error("Submit() did not persist the record")
			}
			if att.StudentID != f.student.ID || att.CourseID != f.courseID {
				t.Errorf("Submit() saved for (%s, %s)", att.StudentID, att.CourseID)
			}
			if want := "2026-03-02"; att.Date.Format(holiday.DateFormat) != want {
				t.Errorf("Submit() date = %s, want %s", att.Date.Format(holiday.DateFormat), want)
			}
		})
	}
}

func TestEngine_Submit_duplicate(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	sub := attendance.Submission{Submitter: f.student, CourseID: f.courseID, Status: attendance.StatusPresent, Now: at(8, 0)}
	if _, err := f.engine.Submit(ctx, sub); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// second submission the same day, even within the window
	sub.Now = at(8, 10)
	_, err := f.engine.Submit(ctx, sub)
	if v, ok := attendance.AsRuleViolation(err); !ok || v.Code != attendance.CodeAlreadyPresent {
		t.Errorf("Submit() error = %v, want code %s", err, attendance.CodeAlreadyPresent)
	}
}

func TestEngine_Submit_windowClampsAtMidnight(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	// the 00:05 slot's window is 00:00 to 00:20; 23:55 the night before stays out
	sub := attendance.Submission{Submitter: f.student, CourseID: f.earlyCourseID, Status: attendance.StatusPresent, Now: at(0, 0)}
	if _, err := f.engine.Submit(ctx, sub); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}

// conflictStore simulates a concurrent duplicate: the read check sees
// nothing, then the insert hits the unique index.
type conflictStore struct {
	attendance.Store
}

func (s conflictStore) GetAttendanceForDate(context.Context, string, string, time.Time) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrNotFound
}

func (s conflictStore) CreateAttendance(context.Context, attendance.Attendance) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAlreadyExists
}

func TestEngine_Submit_insertConflictIsAlreadyPresent(t *testing.T) {
	f := setupEngine(t)

	engine := attendance.NewEngine(
		f.holSvc, f.enrSvc, f.schSvc, conflictStore{f.store},
		wib, 10*time.Minute, 15*time.Minute,
	)

	sub := attendance.Submission{Submitter: f.student, CourseID: f.courseID, Status: attendance.StatusPresent, Now: at(8, 0)}
	_, err := engine.Submit(context.Background(), sub)
	if v, ok := attendance.AsRuleViolation(err); !ok || v.Code != attendance.CodeAlreadyPresent {
		t.Errorf("Submit() error = %v, want code %s", err, attendance.CodeAlreadyPresent)
	}
}

func TestEngine_Submit_corruptScheduleIsAnError(t *testing.T) {
	f := setupEngine(t)
	ctx := context.Background()

	courseID := "crs-3"
	now := time.Now().UTC()
	_, err := f.schRepo.CreateSchedule(ctx, schedule.Schedule{
		CourseID: courseID, LecturerID: f.lecturer.ID, Room: "C-101",
		Day: "Monday", StartTime: "8 o'clock", EndTime: "09:40",
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSchedule() failed, %v", err)
	}
	_, err = f.enrRepo.CreateEnrollment(ctx, enrollment.Enrollment{
		StudentID: f.student.ID, CourseID: courseID,
		AcademicYear: "2025/2026", Semester: "even", Status: enrollment.StatusActive,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed, %v", err)
	}

	sub := attendance.Submission{Submitter: f.student, CourseID: courseID, Status: attendance.StatusPresent, Now: at(8, 0)}
	_, err = f.engine.Submit(ctx, sub)
	if err == nil {
		t.Fatal("Submit() did not report the corrupt schedule")
	}
	if _, ok := attendance.AsRuleViolation(err); ok {
		t.Errorf("Submit() error = %v, want a plain error, not a rule violation", err)
	}
	if !strings.Contains(err.Error(), "parsing start time") {
		t.Errorf("Submit() error = %v, want it to mention the start time", err)
	}
}

func TestEngine_Submit_usesNowFuncWhenUnset(t *testing.T) {
	f := setupEngine(t)

	attendance.NowFunc = func() time.Time { return at(8, 0) }
	defer func() { attendance.NowFunc = time.Now }()

	sub := attendance.Submission{Submitter: f.student, CourseID: f.courseID, Status: attendance.StatusPresent}
	att, err := f.engine.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if want := "2026-03-02"; att.Date.Format(holiday.DateFormat) != want {
		t.Errorf("Submit() date = %s, want %s", att.Date.Format(holiday.DateFormat), want)
	}
}
