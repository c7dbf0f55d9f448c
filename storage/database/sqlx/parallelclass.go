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

	"github.com/trezcool/hadir/core/parallelclass"
)

const parallelClassTable = "parallel_class"

var parallelClassColumns = []string{
	"id", "course_id", "code", "name", "lecturer_ids", "academic_year", "semester", "created_at", "updated_at",
}

type dbParallelClass struct {
	ID           string         `db:"id"`
	CourseID     string         `db:"course_id"`
	Code         string         `db:"code"`
	Name         string         `db:"name"`
	LecturerIDs  pq.StringArray `db:"lecturer_ids"`
	AcademicYear string         `db:"academic_year"`
	Semester     string         `db:"semester"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (pc dbParallelClass) toParallelClass() parallelclass.ParallelClass {
	return parallelclass.ParallelClass{
		ID:           pc.ID,
		CourseID:     pc.CourseID,
		Code:         pc.Code,
		Name:         pc.Name,
		LecturerIDs:  pc.LecturerIDs,
		AcademicYear: pc.AcademicYear,
		Semester:     pc.Semester,
		CreatedAt:    pc.CreatedAt,
		UpdatedAt:    pc.UpdatedAt,
	}
}

func toParallelClasses(rows []dbParallelClass) []parallelclass.ParallelClass {
	classes := make([]parallelclass.ParallelClass, len(rows))
	for i, row := range rows {
		classes[i] = row.toParallelClass()
	}
	return classes
}

type parallelClassRepository struct {
	db *sqlx.DB
}

var _ parallelclass.Repository = (*parallelClassRepository)(nil) // interface compliance check

func NewParallelClassRepository(db *sqlx.DB) parallelclass.Repository {
	return &parallelClassRepository{db: db}
}

func (repo *parallelClassRepository) CheckParallelClassUniqueness(
	ctx context.Context, courseID, code, year, semester string, excludedClasses ...parallelclass.ParallelClass,
) error {
	q := psql.Select("COUNT(*)").From(parallelClassTable).
		Where(sq.Eq{"course_id": courseID, "code": code, "academic_year": year, "semester": semester})
	if len(excludedClasses) > 0 {
		exclIDs := make([]string, len(excludedClasses))
		for i, pc := range excludedClasses {
			exclIDs[i] = pc.ID
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
		return parallelclass.ErrClassExists
	}
	return nil
}

func (repo *parallelClassRepository) CreateParallelClass(ctx context.Context, pc parallelclass.ParallelClass) (parallelclass.ParallelClass, error) {
	pc.ID = uuid.New().String()

	stmt, args, err := psql.Insert(parallelClassTable).
		Columns(parallelClassColumns...).
		Values(
			pc.ID, pc.CourseID, pc.Code, pc.Name, pq.StringArray(pc.LecturerIDs),
			pc.AcademicYear, pc.Semester, pc.CreatedAt, pc.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return parallelclass.ParallelClass{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return parallelclass.ParallelClass{}, parallelclass.ErrClassExists
		}
		return parallelclass.ParallelClass{}, errors.Wrap(err, "creating parallel class")
	}
	return pc, nil
}

func (repo *parallelClassRepository) QueryAllParallelClasses(ctx context.Context) ([]parallelclass.ParallelClass, error) {
	stmt, args, err := psql.Select(parallelClassColumns...).From(parallelClassTable).OrderBy("created_at").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbParallelClass
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying parallel classes")
	}
	return toParallelClasses(rows), nil
}

func (repo *parallelClassRepository) GetParallelClassByID(ctx context.Context, id string) (parallelclass.ParallelClass, error) {
	stmt, args, err := psql.Select(parallelClassColumns...).From(parallelClassTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return parallelclass.ParallelClass{}, errors.Wrap(err, "building query")
	}
	var row dbParallelClass
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		if err == sql.ErrNoRows {
			return parallelclass.ParallelClass{}, parallelclass.ErrNotFound
		}
		return parallelclass.ParallelClass{}, errors.Wrap(err, "getting parallel class")
	}
	return row.toParallelClass(), nil
}

func (repo *parallelClassRepository) FilterParallelClasses(ctx context.Context, filter parallelclass.QueryFilter) ([]parallelclass.ParallelClass, error) {
	q := psql.Select(parallelClassColumns...).From(parallelClassTable).OrderBy("created_at")
	if filter.CourseID != "" {
		q = q.Where(sq.Eq{"course_id": filter.CourseID})
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
	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbParallelClass
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "filtering parallel classes")
	}
	return toParallelClasses(rows), nil
}

func (repo *parallelClassRepository) UpdateParallelClass(ctx context.Context, pc parallelclass.ParallelClass) (parallelclass.ParallelClass, error) {
	stmt, args, err := psql.Update(parallelClassTable).
		Set("course_id", pc.CourseID).
		Set("code", pc.Code).
		Set("name", pc.Name).
		Set("lecturer_ids", pq.StringArray(pc.LecturerIDs)).
		Set("academic_year", pc.AcademicYear).
		Set("semester", pc.Semester).
		Set("updated_at", pc.UpdatedAt).
		Where(sq.Eq{"id": pc.ID}).
		ToSql()
	if err != nil {
		return parallelclass.ParallelClass{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return parallelclass.ParallelClass{}, parallelclass.ErrClassExists
		}
		return parallelclass.ParallelClass{}, errors.Wrap(err, "updating parallel class")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return parallelclass.ParallelClass{}, parallelclass.ErrNotFound
	}
	return repo.GetParallelClassByID(ctx, pc.ID)
}

func (repo *parallelClassRepository) DeleteParallelClassesByID(ctx context.Context, ids ...string) error {
	stmt, args, err := psql.Delete(parallelClassTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting parallel classes")
	}
	return nil
}
