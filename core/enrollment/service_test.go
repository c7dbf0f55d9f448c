package enrollment_test

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/hadir/core/course"
	"github.com/trezcool/hadir/core/enrollment"
	dummydb "github.com/trezcool/hadir/storage/database/dummy"
)

func setup(t *testing.T) (enrollment.ServiceInterface, course.Course) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	crsSvc := course.NewService(dummydb.NewCourseRepository(db))
	svc := enrollment.NewService(dummydb.NewEnrollmentRepository(db), crsSvc)

	now := time.Now().UTC()
	crs, err := dummydb.NewCourseRepository(db).CreateCourse(context.Background(), course.Course{
		Name:         "Struktur Data",
		LecturerIDs:  []string{"lec-1"},
		AcademicYear: "2025/2026",
		Semester:     course.SemesterEven,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}
	return svc, crs
}

func TestService_Enroll(t *testing.T) {
	svc, crs := setup(t)
	ctx := context.Background()

	enr, err := svc.Enroll(ctx, "std-1", crs.ID)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if enr.Status != enrollment.StatusActive {
		t.Errorf("Enroll() status = %s, want %s", enr.Status, enrollment.StatusActive)
	}
	// term comes from the course, not the payload
	if enr.AcademicYear != crs.AcademicYear || enr.Semester != crs.Semester {
		t.Errorf("Enroll() term = (%s, %s), want (%s, %s)", enr.AcademicYear, enr.Semester, crs.AcademicYear, crs.Semester)
	}

	if _, err = svc.Enroll(ctx, "std-1", crs.ID); err != enrollment.ErrAlreadyEnrolled {
		t.Errorf("Enroll() twice error = %v, want %v", err, enrollment.ErrAlreadyEnrolled)
	}

	if _, err = svc.Enroll(ctx, "std-1", "nope"); err != course.ErrNotFound {
		t.Errorf("Enroll() unknown course error = %v, want %v", err, course.ErrNotFound)
	}
}

func TestService_Drop(t *testing.T) {
	svc, crs := setup(t)
	ctx := context.Background()

	if _, err := svc.Drop(ctx, "std-1", crs.ID); err != enrollment.ErrNotFound {
		t.Fatalf("Drop() without enrollment error = %v, want %v", err, enrollment.ErrNotFound)
	}

	if _, err := svc.Enroll(ctx, "std-1", crs.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	enr, err := svc.Drop(ctx, "std-1", crs.ID)
	if err != nil {
		t.Fatalf("Drop() error = %v", err)
	}
	if enr.Status != enrollment.StatusDropped {
		t.Errorf("Drop() status = %s, want %s", enr.Status, enrollment.StatusDropped)
	}

	if _, err = svc.FindActive(ctx, "std-1", crs.ID); err != enrollment.ErrNotFound {
		t.Errorf("FindActive() after drop error = %v, want %v", err, enrollment.ErrNotFound)
	}

	// dropping keeps the enrollment row; the same term cannot be rejoined
	if _, err = svc.Enroll(ctx, "std-1", crs.ID); err != enrollment.ErrAlreadyEnrolled {
		t.Errorf("Enroll() after drop error = %v, want %v", err, enrollment.ErrAlreadyEnrolled)
	}
}
