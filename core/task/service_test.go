package task_test

import (
	"context"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/trezcool/hadir/core"
	"github.com/trezcool/hadir/core/course"
	"github.com/trezcool/hadir/core/enrollment"
	"github.com/trezcool/hadir/core/task"
	"github.com/trezcool/hadir/core/user"
	emailsvc "github.com/trezcool/hadir/services/email"
	dummydb "github.com/trezcool/hadir/storage/database/dummy"
)

type fixture struct {
	svc      task.ServiceInterface
	usrSvc   user.ServiceInterface
	enrSvc   enrollment.ServiceInterface
	lecturer user.User
	admin    user.User
	students []user.User
	crs      course.Course
	empty    course.Course // no enrollments
}

func setup(t *testing.T) *fixture {
	t.Helper()
	emailsvc.ClearSentMessages()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}

	conf := &core.Config{AppName: "Test", DefaultFromEmail: mail.Address{Address: "noreply@test.test"}}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(dummydb.NewUserRepository(db))
	crsSvc := course.NewService(dummydb.NewCourseRepository(db))
	enrSvc := enrollment.NewService(dummydb.NewEnrollmentRepository(db), crsSvc)
	svc := task.NewService(dummydb.NewTaskRepository(db), crsSvc, enrSvc, usrSvc, mailSvc)

	ctx := context.Background()
	f := &fixture{svc: svc, usrSvc: usrSvc, enrSvc: enrSvc}

	newUser := func(name, uname, role string) user.User {
		usr, err := usrSvc.Create(ctx, user.NewUser{
			Name:     name,
			Username: uname,
			Email:    uname + "@test.test",
			Password: "NotSoSecret#123",
			Role:     role,
		})
		if err != nil {
			t.Fatalf("Create() user failed, %v", err)
		}
		return usr
	}
	f.lecturer = newUser("Lecturer", "lec", user.RoleLecturer)
	f.admin = newUser("Admin", "boss", user.RoleAdmin)
	f.students = []user.User{
		newUser("Student One", "std1", user.RoleStudent),
		newUser("Student Two", "std2", user.RoleStudent),
	}

	crsRepo := dummydb.NewCourseRepository(db)
	now := time.Now().UTC()
	if f.crs, err = crsRepo.CreateCourse(ctx, course.Course{
		Name: "Basis Data", LecturerIDs: []string{f.lecturer.ID},
		AcademicYear: "2025/2026", Semester: course.SemesterOdd, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}
	if f.empty, err = crsRepo.CreateCourse(ctx, course.Course{
		Name: "Kalkulus", LecturerIDs: []string{f.lecturer.ID},
		AcademicYear: "2025/2026", Semester: course.SemesterOdd, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}

	for _, std := range f.students {
		if _, err = enrSvc.Enroll(ctx, std.ID, f.crs.ID); err != nil {
			t.Fatalf("Enroll() failed, %v", err)
		}
	}
	return f
}

func TestService_Create(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	deadline := time.Now().AddDate(0, 0, 7).UTC()

	nt := task.NewTask{Title: "Tugas 1", Description: "Normalisasi basis data", Deadline: deadline, CourseID: f.crs.ID}

	// a lecturer of another course cannot create
	outsider := user.User{ID: "lec-x", Role: user.RoleLecturer}
	if _, err := f.svc.Create(ctx, outsider, nt); err != task.ErrNotCourseLecturer {
		t.Errorf("Create() by outsider error = %v, want %v", err, task.ErrNotCourseLecturer)
	}

	// no students, nothing to assign
	emptyNt := nt
	emptyNt.CourseID = f.empty.ID
	if _, err := f.svc.Create(ctx, f.lecturer, emptyNt); err != task.ErrNoEnrolledStudents {
		t.Errorf("Create() empty course error = %v, want %v", err, task.ErrNoEnrolledStudents)
	}

	tsk, err := f.svc.Create(ctx, f.lecturer, nt)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if tsk.Status != task.StatusNotStarted {
		t.Errorf("Create() status = %s, want %s", tsk.Status, task.StatusNotStarted)
	}
	if len(tsk.StudentIDs) != len(f.students) {
		t.Errorf("Create() fanned out to %d students, want %d", len(tsk.StudentIDs), len(f.students))
	}

	// every enrolled student got an email
	if len(emailsvc.SentMessages) != len(f.students) {
		t.Fatalf("sent %d emails, want %d", len(emailsvc.SentMessages), len(f.students))
	}
	msg := emailsvc.SentMessages[0]
	if want := "New task in Basis Data: Tugas 1"; msg.Subject != want {
		t.Errorf("email subject = %q, want %q", msg.Subject, want)
	}
	if !strings.Contains(msg.TextContent, "Normalisasi basis data") {
		t.Errorf("email body = %q, missing the description", msg.TextContent)
	}
}

func TestService_Create_admin(t *testing.T) {
	f := setup(t)

	// admins may assign tasks in any course
	tsk, err := f.svc.Create(context.Background(), f.admin, task.NewTask{
		Title: "Kuis", Description: "Bab 3", Deadline: time.Now().AddDate(0, 0, 1).UTC(), CourseID: f.crs.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(tsk.StudentIDs) != len(f.students) {
		t.Errorf("Create() fanned out to %d students, want %d", len(tsk.StudentIDs), len(f.students))
	}
}

func TestService_Create_skipsDroppedStudents(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.enrSvc.Drop(ctx, f.students[1].ID, f.crs.ID); err != nil {
		t.Fatalf("Drop() error = %v", err)
	}

	tsk, err := f.svc.Create(ctx, f.lecturer, task.NewTask{
		Title: "Tugas 2", Description: "ERD", Deadline: time.Now().AddDate(0, 0, 7).UTC(), CourseID: f.crs.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(tsk.StudentIDs) != 1 || tsk.StudentIDs[0] != f.students[0].ID {
		t.Errorf("Create() assigned to %v, want only %s", tsk.StudentIDs, f.students[0].ID)
	}
	if len(emailsvc.SentMessages) != 1 {
		t.Errorf("sent %d emails, want 1", len(emailsvc.SentMessages))
	}
}
