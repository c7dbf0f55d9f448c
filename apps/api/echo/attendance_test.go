package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/hadir/core/attendance"
	"github.com/trezcool/hadir/core/enrollment"
	"github.com/trezcool/hadir/core/holiday"
	"github.com/trezcool/hadir/core/schedule"
	"github.com/trezcool/hadir/core/user"
	dummydb "github.com/trezcool/hadir/storage/database/dummy"
)

var wib = time.FixedZone("WIB", 7*3600)

// monday returns a submission instant on Monday 2026-03-02 in the campus locale.
func monday(hour, min int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, 0, 0, wib)
}

type attendanceFixture struct {
	app      *echo.Echo
	usrSvc   user.ServiceInterface
	attSvc   attendance.ServiceInterface
	student  user.User
	lecturer user.User
	admin    user.User
	courseID string
}

func setupAttendanceAPI(t *testing.T) *attendanceFixture {
	t.Helper()

	app, v1, jwt := initApp()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	usrSvc := user.NewService(dummydb.NewUserRepository(db))
	holSvc := holiday.NewService(dummydb.NewHolidayRepository(db))
	enrRepo := dummydb.NewEnrollmentRepository(db)
	enrSvc := enrollment.NewService(enrRepo, nil)
	schedRepo := dummydb.NewScheduleRepository(db)
	schedSvc := schedule.NewService(schedRepo)
	store := dummydb.NewAttendanceStore(db)

	engine := attendance.NewEngine(
		holSvc, enrSvc, schedSvc, store,
		wib, testConf.Attendance.WindowBefore, testConf.Attendance.WindowAfter,
	)
	attSvc := attendance.NewService(engine, store)
	registerAttendanceAPI(v1, jwt, attSvc, usrSvc)

	f := &attendanceFixture{
		app:      app,
		usrSvc:   usrSvc,
		attSvc:   attSvc,
		student:  createUser(t, usrSvc, "Student", "student1", user.RoleStudent),
		lecturer: createUser(t, usrSvc, "Lecturer", "lecturer1", user.RoleLecturer),
		admin:    createUser(t, usrSvc, "Admin", "theboss", user.RoleAdmin),
		courseID: "crs-1",
	}

	ctx := context.Background()
	now := time.Now().UTC()
	if _, err = schedRepo.CreateSchedule(ctx, schedule.Schedule{
		CourseID: f.courseID, LecturerID: f.lecturer.ID, Room: "B-201",
		Day: "Monday", StartTime: "08:00", EndTime: "09:40", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateSchedule() failed, %v", err)
	}
	if _, err = enrRepo.CreateEnrollment(ctx, enrollment.Enrollment{
		StudentID: f.student.ID, CourseID: f.courseID, AcademicYear: "2025/2026",
		Semester: "even", Status: enrollment.StatusActive, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateEnrollment() failed, %v", err)
	}
	return f
}

type violationBody struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func Test_attendanceApi_submit(t *testing.T) {
	f := setupAttendanceAPI(t)
	path := "/v1/attendance"

	studentToken := getToken(t, f.student)
	lecturerToken := getToken(t, f.lecturer)

	body := func(courseID, status, proofRef string) []byte {
		return marshallObj(t, attendance.NewAttendance{CourseID: courseID, Status: status, ProofRef: proofRef})
	}

	tests := []struct {
		name     string
		now      time.Time
		token    string
		body     []byte
		wantCode int
		wantRule string // violation code; empty means created
	}{
		{
			name: "within window", now: monday(8, 0), token: studentToken,
			body: body(f.courseID, attendance.StatusPresent, ""), wantCode: http.StatusCreated,
		},
		{
			name: "duplicate same day", now: monday(8, 10), token: studentToken,
			body:     body(f.courseID, attendance.StatusPresent, ""),
			wantCode: http.StatusBadRequest, wantRule: attendance.CodeAlreadyPresent,
		},
		{
			name: "lecturer forbidden", now: monday(8, 0), token: lecturerToken,
			body:     body(f.courseID, attendance.StatusPresent, ""),
			wantCode: http.StatusForbidden, wantRule: "",
		},
		{
			name: "not enrolled in course", now: monday(8, 0), token: studentToken,
			body:     body("crs-other", attendance.StatusPresent, ""),
			wantCode: http.StatusForbidden, wantRule: attendance.CodeNotActiveEnrollment,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attendance.NowFunc = func() time.Time { return tt.now }
			defer func() { attendance.NowFunc = time.Now }()

			req, rec := newAuthRequest(http.MethodPost, path, tt.token, tt.body)
			f.app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantRule != "" {
				var v violationBody
				if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
					t.Fatalf("unmarshalling violation failed, %v", err)
				}
				if v.Code != tt.wantRule {
					t.Errorf("violation code = %s, want %s", v.Code, tt.wantRule)
				}
			}
		})
	}
}

func Test_attendanceApi_submit_windowAndProof(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		status   string
		proofRef string
		wantCode int
		wantRule string
	}{
		{name: "window opens", now: monday(7, 50), status: attendance.StatusPresent, wantCode: http.StatusCreated},
		{name: "window closes", now: monday(8, 15), status: attendance.StatusPresent, wantCode: http.StatusCreated},
		{
			name: "one minute early", now: monday(7, 49), status: attendance.StatusPresent,
			wantCode: http.StatusForbidden, wantRule: attendance.CodeOutOfTimeWindow,
		},
		{
			name: "one minute late", now: monday(8, 16), status: attendance.StatusPresent,
			wantCode: http.StatusForbidden, wantRule: attendance.CodeOutOfTimeWindow,
		},
		{
			name: "sick without proof", now: monday(8, 0), status: attendance.StatusSick,
			wantCode: http.StatusBadRequest, wantRule: attendance.CodeProofRequired,
		},
		{
			name: "sick with proof", now: monday(8, 0), status: attendance.StatusSick,
			proofRef: "proofs/note.pdf", wantCode: http.StatusCreated,
		},
		{
			name: "no class on sunday", now: time.Date(2026, time.March, 1, 8, 0, 0, 0, wib),
			status: attendance.StatusPresent, wantCode: http.StatusForbidden, wantRule: attendance.CodeNoScheduleToday,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupAttendanceAPI(t) // fresh store per case
			attendance.NowFunc = func() time.Time { return tt.now }
			defer func() { attendance.NowFunc = time.Now }()

			data := marshallObj(t, attendance.NewAttendance{CourseID: f.courseID, Status: tt.status, ProofRef: tt.proofRef})
			req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", getToken(t, f.student), data)
			f.app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantRule != "" {
				var v violationBody
				if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
					t.Fatalf("unmarshalling violation failed, %v", err)
				}
				if v.Code != tt.wantRule {
					t.Errorf("violation code = %s, want %s", v.Code, tt.wantRule)
				}
			}
		})
	}
}

func Test_attendanceApi_query(t *testing.T) {
	f := setupAttendanceAPI(t)
	path := "/v1/attendance"

	attendance.NowFunc = func() time.Time { return monday(8, 0) }
	defer func() { attendance.NowFunc = time.Now }()

	att, err := f.attSvc.Submit(context.Background(), attendance.Submission{
		Submitter: f.student, CourseID: f.courseID, Status: attendance.StatusPresent,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	tests := []httpTest{
		{name: "auth required", method: http.MethodGet, path: path, wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "student sees own records", method: http.MethodGet, path: path,
			token: getToken(t, f.student), wantCode: http.StatusOK, wantData: marshallList(t, att),
		},
		{
			name: "admin sees everything", method: http.MethodGet, path: path,
			token: getToken(t, f.admin), wantCode: http.StatusOK, wantData: marshallList(t, att),
		},
		{
			name: "retrieve own record", method: http.MethodGet, path: path + "/" + att.ID,
			token: getToken(t, f.student), wantCode: http.StatusOK, wantData: marshallObj(t, att),
		},
		{
			name: "unknown id", method: http.MethodGet, path: path + "/nope",
			token: getToken(t, f.admin), wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
