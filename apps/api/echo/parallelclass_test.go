package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/hadir/core/course"
	"github.com/trezcool/hadir/core/parallelclass"
	"github.com/trezcool/hadir/core/user"
	dummydb "github.com/trezcool/hadir/storage/database/dummy"
)

type parallelClassFixture struct {
	app    *echo.Echo
	pcSvc  parallelclass.ServiceInterface
	course course.Course

	admin    user.User
	lecturer user.User
	student  user.User
}

func setupParallelClassAPI(t *testing.T) *parallelClassFixture {
	t.Helper()

	app, v1, jwt := initApp()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	usrSvc := user.NewService(dummydb.NewUserRepository(db))
	crsSvc := course.NewService(dummydb.NewCourseRepository(db))
	pcSvc := parallelclass.NewService(dummydb.NewParallelClassRepository(db), crsSvc)
	registerParallelClassAPI(v1, jwt, pcSvc)

	f := &parallelClassFixture{
		app:      app,
		pcSvc:    pcSvc,
		admin:    createUser(t, usrSvc, "Admin", "theboss", user.RoleAdmin),
		lecturer: createUser(t, usrSvc, "Lecturer", "dosen1", user.RoleLecturer),
		student:  createUser(t, usrSvc, "Student", "student1", user.RoleStudent),
	}

	f.course, err = crsSvc.Create(context.Background(), course.NewCourse{
		Name:         "Basis Data",
		LecturerIDs:  []string{f.lecturer.ID},
		AcademicYear: "2025/2026",
		Semester:     "even",
	})
	if err != nil {
		t.Fatalf("creating course failed, %v", err)
	}
	return f
}

func (f *parallelClassFixture) createClass(t *testing.T, code, name string) parallelclass.ParallelClass {
	t.Helper()
	pc, err := f.pcSvc.Create(context.Background(), parallelclass.NewParallelClass{
		CourseID:     f.course.ID,
		Code:         code,
		Name:         name,
		LecturerIDs:  []string{f.lecturer.ID},
		AcademicYear: f.course.AcademicYear,
		Semester:     f.course.Semester,
	})
	if err != nil {
		t.Fatalf("creating parallel class failed, %v", err)
	}
	return pc
}

func Test_parallelClassApi_create(t *testing.T) {
	f := setupParallelClassAPI(t)
	path := "/v1/parallel-classes"

	newClass := func(courseID, code string) []byte {
		return marshallObj(t, map[string]interface{}{
			"course_id":     courseID,
			"code":          code,
			"name":          "Kelas " + code,
			"lecturer_ids":  []string{f.lecturer.ID},
			"academic_year": "2025/2026",
			"semester":      "even",
		})
	}

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: path, body: newClass(f.course.ID, "A"),
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken),
		},
		{
			name: "students cannot manage sections", method: http.MethodPost, path: path, body: newClass(f.course.ID, "A"),
			token: getToken(t, f.student), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "lecturers cannot manage sections", method: http.MethodPost, path: path, body: newClass(f.course.ID, "A"),
			token: getToken(t, f.lecturer), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("admin creates a section", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, f.admin), newClass(f.course.ID, "A"))
		f.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var pc parallelclass.ParallelClass
		if err := json.Unmarshal(rec.Body.Bytes(), &pc); err != nil {
			t.Fatalf("unmarshalling parallel class failed, %v", err)
		}
		if pc.ID == "" || pc.CourseID != f.course.ID || pc.Code != "A" {
			t.Errorf("created section = %+v", pc)
		}
	})

	t.Run("duplicate code is a validation error", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, f.admin), newClass(f.course.ID, "A"))
		f.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want %d; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("same code in another course is fine", func(t *testing.T) {
		f.createClass(t, "B", "Kelas B") // same course, different code
		if err := f.pcSvc.CheckUniqueness("other-course", "A", "2025/2026", "even"); err != nil {
			t.Errorf("CheckUniqueness() for another course = %v, want nil", err)
		}
	})

	t.Run("unknown course is a validation error", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, f.admin), newClass("no-such-course", "C"))
		f.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want %d; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})
}

func Test_parallelClassApi_query(t *testing.T) {
	f := setupParallelClassAPI(t)
	path := "/v1/parallel-classes"

	pcA := f.createClass(t, "A", "Kelas A")
	pcB := f.createClass(t, "B", "Kelas B")

	tests := []httpTest{
		{
			name: "admin lists all sections", method: http.MethodGet, path: path,
			token: getToken(t, f.admin), wantCode: http.StatusOK,
			wantData: marshallList(t, pcA, pcB),
		},
		{
			name: "filter by course", method: http.MethodGet, path: path + "?course_id=" + f.course.ID,
			token: getToken(t, f.admin), wantCode: http.StatusOK,
			wantData: marshallList(t, pcA, pcB),
		},
		{
			name: "filter misses other courses", method: http.MethodGet, path: path + "?course_id=no-such-course",
			token: getToken(t, f.admin), wantCode: http.StatusOK,
			wantData: []byte("[]"),
		},
		{
			name: "retrieve by id", method: http.MethodGet, path: path + "/" + pcA.ID,
			token: getToken(t, f.admin), wantCode: http.StatusOK,
			wantData: marshallObj(t, pcA),
		},
		{
			name: "unknown id", method: http.MethodGet, path: path + "/no-such-id",
			token: getToken(t, f.admin), wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "students cannot list sections", method: http.MethodGet, path: path,
			token: getToken(t, f.student), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "permission denied"}),
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

func Test_parallelClassApi_updateAndDestroy(t *testing.T) {
	f := setupParallelClassAPI(t)
	path := "/v1/parallel-classes"

	pc := f.createClass(t, "A", "Kelas A")

	t.Run("admin renames a section", func(t *testing.T) {
		body := marshallObj(t, map[string]string{"name": "Kelas A Pagi"})
		req, rec := newAuthRequest(http.MethodPut, path+"/"+pc.ID, getToken(t, f.admin), body)
		f.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var got parallelclass.ParallelClass
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling parallel class failed, %v", err)
		}
		if got.Name != "Kelas A Pagi" || got.Code != pc.Code {
			t.Errorf("updated section = %+v", got)
		}
	})

	t.Run("admin deletes a section", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, path+"/"+pc.ID, getToken(t, f.admin))
		f.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %d, want %d; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}
		if _, err := f.pcSvc.GetByID(context.Background(), pc.ID); err != parallelclass.ErrNotFound {
			t.Errorf("GetByID() after delete error = %v, want %v", err, parallelclass.ErrNotFound)
		}
	})
}
