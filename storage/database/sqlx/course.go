package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core/course"
)

const courseTable = "course"

var courseColumns = []string{
	"id", "name", "lecturer_ids", "academic_year", "semester", "created_at", "updated_at",
}

type dbCourse struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	LecturerIDs  pq.StringArray `db:"lecturer_ids"`
	AcademicYear string         `db:"academic_year"`
	Semester     string         `db:"semester"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (c dbCourse) toCourse() course.Course {
	return course.Course{
		ID:           c.ID,
		Name:         c.Name,
		LecturerIDs:  c.LecturerIDs,
		AcademicYear: c.AcademicYear,
		Semester:     c.Semester,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toCourses(rows []dbCourse) []course.Course {
	courses := make([]course.Course, len(rows))
	for i, row := range rows {
		courses[i] = row.toCourse()
	}
	return courses
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CheckCourseUniqueness(ctx context.Context, name, year, semester string, excludedCourses ...course.Course) error {
	q := psql.Select("COUNT(*)").From(courseTable).
		Where(sq.Eq{"name": name, "academic_year": year, "semester": semester})
	if len(excludedCourses) > 0 {
		exclIDs := make([]string, len(excludedCourses))
		for i, crs := range excludedCourses {
			exclIDs[i] = crs.ID
		}
		q = q.Where(sq.NotEq{"id": exclIDs})
	}
	stmt, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	var count int
	if err = repo.db.GetContext(ctx, &count, stmt, args...); err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	if count > 0 {
		return course.ErrCourseExists
	}
	return nil
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()

	stmt, args, err := psql.Insert(courseTable).
		Columns(courseColumns...).
		Values(
			crs.ID, crs.Name, pq.StringArray(crs.LecturerIDs), crs.AcademicYear,
			crs.Semester, crs.CreatedAt, crs.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return course.Course{}, course.ErrCourseExists
		}
		return course.Course{}, errors.Wrap(err, "creating course")
	}
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	stmt, args, err := psql.Select(courseColumns...).From(courseTable).OrderBy("created_at").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbCourse
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return toCourses(rows), nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	stmt, args, err := psql.Select(courseColumns...).From(courseTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building query")
	}
	var row dbCourse
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return row.toCourse(), nil
}

func courseFilterQuery(filter course.QueryFilter) sq.SelectBuilder {
	q := psql.Select(courseColumns...).From(courseTable).OrderBy("created_at")
	if filter.Search != "" {
		q = q.Where(sq.ILike{"name": "%" + filter.Search + "%"})
	}
	if filter.AcademicYear != "" {
		q = q.Where(sq.Eq{"academic_year": filter.AcademicYear})
	}
	if filter.Semester != "" {
		q = q.Where(sq.Eq{"semester": filter.Semester})
	}
	if filter.LecturerID != "" {
		q = q.Where("? = ANY(lecturer_ids)", filter.LecturerID)
	}
	return q
}

func (repo *courseRepository) FilterCourses(ctx context.Context, filter course.QueryFilter) ([]course.Course, error) {
	stmt, args, err := courseFilterQuery(filter).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbCourse
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "filtering courses")
	}
	return toCourses(rows), nil
}

func (repo *courseRepository) QueryAvailableCourses(ctx context.Context, studentID string, filter course.QueryFilter) ([]course.Course, error) {
	// question placeholders here: the outer builder renumbers them on ToSql
	sub := sq.Select("course_id").From(enrollmentTable).Where(sq.Eq{"student_id": studentID})
	subStmt, subArgs, err := sub.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	stmt, args, err := courseFilterQuery(filter).
		Where("id NOT IN ("+subStmt+")", subArgs...).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbCourse
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying available courses")
	}
	return toCourses(rows), nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	stmt, args, err := psql.Update(courseTable).
		Set("name", crs.Name).
		Set("lecturer_ids", pq.StringArray(crs.LecturerIDs)).
		Set("academic_year", crs.AcademicYear).
		Set("semester", crs.Semester).
		Set("updated_at", crs.UpdatedAt).
		Where(sq.Eq{"id": crs.ID}).
		ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return course.Course{}, course.ErrCourseExists
		}
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.GetCourseByID(ctx, crs.ID)
}

func (repo *courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	stmt, args, err := psql.Delete(courseTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}
