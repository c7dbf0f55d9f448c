package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core/enrollment"
)

const enrollmentTable = "enrollment"

var enrollmentColumns = []string{
	"id", "student_id", "course_id", "academic_year", "semester", "status", "created_at", "updated_at",
}

type dbEnrollment struct {
	ID           string    `db:"id"`
	StudentID    string    `db:"student_id"`
	CourseID     string    `db:"course_id"`
	AcademicYear string    `db:"academic_year"`
	Semester     string    `db:"semester"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (e dbEnrollment) toEnrollment() enrollment.Enrollment {
	return enrollment.Enrollment(e)
}

func toEnrollments(rows []dbEnrollment) []enrollment.Enrollment {
	enrs := make([]enrollment.Enrollment, len(rows))
	for i, row := range rows {
		enrs[i] = row.toEnrollment()
	}
	return enrs
}

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *sqlx.DB) enrollment.Repository {
	return &enrollmentRepository{db: db}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	enr.ID = uuid.New().String()

	stmt, args, err := psql.Insert(enrollmentTable).
		Columns(enrollmentColumns...).
		Values(
			enr.ID, enr.StudentID, enr.CourseID, enr.AcademicYear,
			enr.Semester, enr.Status, enr.CreatedAt, enr.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
		}
		return enrollment.Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return enr, nil
}

func (repo *enrollmentRepository) QueryAllEnrollments(ctx context.Context) ([]enrollment.Enrollment, error) {
	stmt, args, err := psql.Select(enrollmentColumns...).From(enrollmentTable).OrderBy("created_at").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbEnrollment
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	return toEnrollments(rows), nil
}

func (repo *enrollmentRepository) getBy(ctx context.Context, pred interface{}) (enrollment.Enrollment, error) {
	stmt, args, err := psql.Select(enrollmentColumns...).From(enrollmentTable).Where(pred).ToSql()
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "building query")
	}
	var row dbEnrollment
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		if err == sql.ErrNoRows {
			return enrollment.Enrollment{}, enrollment.ErrNotFound
		}
		return enrollment.Enrollment{}, errors.Wrap(err, "getting enrollment")
	}
	return row.toEnrollment(), nil
}

func (repo *enrollmentRepository) GetEnrollmentByID(ctx context.Context, id string) (enrollment.Enrollment, error) {
	return repo.getBy(ctx, sq.Eq{"id": id})
}

func (repo *enrollmentRepository) GetActiveEnrollment(ctx context.Context, studentID, courseID string) (enrollment.Enrollment, error) {
	return repo.getBy(ctx, sq.Eq{
		"student_id": studentID,
		"course_id":  courseID,
		"status":     enrollment.StatusActive,
	})
}

func (repo *enrollmentRepository) FilterEnrollments(ctx context.Context, filter enrollment.QueryFilter) ([]enrollment.Enrollment, error) {
	q := psql.Select(enrollmentColumns...).From(enrollmentTable).OrderBy("created_at")
	if filter.StudentID != "" {
		q = q.Where(sq.Eq{"student_id": filter.StudentID})
	}
	if filter.CourseID != "" {
		q = q.Where(sq.Eq{"course_id": filter.CourseID})
	}
	if filter.AcademicYear != "" {
		q = q.Where(sq.Eq{"academic_year": filter.AcademicYear})
	}
	if filter.Semester != "" {
		q = q.Where(sq.Eq{"semester": filter.Semester})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": filter.Status})
	}

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbEnrollment
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "filtering enrollments")
	}
	return toEnrollments(rows), nil
}

func (repo *enrollmentRepository) UpdateEnrollment(ctx context.Context, enr enrollment.Enrollment) (enrollment.Enrollment, error) {
	stmt, args, err := psql.Update(enrollmentTable).
		Set("status", enr.Status).
		Set("updated_at", enr.UpdatedAt).
		Where(sq.Eq{"id": enr.ID}).
		ToSql()
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	return enr, nil
}

func (repo *enrollmentRepository) DeleteEnrollmentsByID(ctx context.Context, ids ...string) error {
	stmt, args, err := psql.Delete(enrollmentTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	return nil
}
