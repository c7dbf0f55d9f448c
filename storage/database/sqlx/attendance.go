package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/hadir/core/attendance"
	"github.com/trezcool/hadir/core/holiday"
)

const attendanceTable = "attendance"

var attendanceColumns = []string{
	"id", "student_id", "course_id", "date", "status", "proof_ref", "created_at", "updated_at",
}

type dbAttendance struct {
	ID        string      `db:"id"`
	StudentID string      `db:"student_id"`
	CourseID  string      `db:"course_id"`
	Date      time.Time   `db:"date"`
	Status    string      `db:"status"`
	ProofRef  null.String `db:"proof_ref"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (a dbAttendance) toAttendance() attendance.Attendance {
	return attendance.Attendance{
		ID:        a.ID,
		StudentID: a.StudentID,
		CourseID:  a.CourseID,
		Date:      a.Date,
		Status:    a.Status,
		ProofRef:  a.ProofRef.String,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAttendances(rows []dbAttendance) []attendance.Attendance {
	atts := make([]attendance.Attendance, len(rows))
	for i, row := range rows {
		atts[i] = row.toAttendance()
	}
	return atts
}

type attendanceStore struct {
	db *sqlx.DB
}

var _ attendance.Store = (*attendanceStore)(nil) // interface compliance check

func NewAttendanceStore(db *sqlx.DB) attendance.Store {
	return &attendanceStore{db: db}
}

func (repo *attendanceStore) CreateAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	att.ID = uuid.New().String()

	stmt, args, err := psql.Insert(attendanceTable).
		Columns(attendanceColumns...).
		Values(
			att.ID, att.StudentID, att.CourseID, att.Date.Format(holiday.DateFormat),
			att.Status, null.NewString(att.ProofRef, att.ProofRef != ""), att.CreatedAt, att.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyExists
		}
		return attendance.Attendance{}, errors.Wrap(err, "creating attendance")
	}
	return att, nil
}

func (repo *attendanceStore) QueryAllAttendance(ctx context.Context) ([]attendance.Attendance, error) {
	stmt, args, err := psql.Select(attendanceColumns...).From(attendanceTable).OrderBy("date DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbAttendance
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return toAttendances(rows), nil
}

func (repo *attendanceStore) getBy(ctx context.Context, pred interface{}) (attendance.Attendance, error) {
	stmt, args, err := psql.Select(attendanceColumns...).From(attendanceTable).Where(pred).ToSql()
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "building query")
	}
	var row dbAttendance
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrNotFound
		}
		return attendance.Attendance{}, errors.Wrap(err, "getting attendance")
	}
	return row.toAttendance(), nil
}

func (repo *attendanceStore) GetAttendanceByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return repo.getBy(ctx, sq.Eq{"id": id})
}

func (repo *attendanceStore) GetAttendanceForDate(ctx context.Context, studentID, courseID string, date time.Time) (attendance.Attendance, error) {
	return repo.getBy(ctx, sq.Eq{
		"student_id": studentID,
		"course_id":  courseID,
		"date":       date.Format(holiday.DateFormat),
	})
}

func (repo *attendanceStore) FilterAttendance(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Attendance, error) {
	q := psql.Select(attendanceColumns...).From(attendanceTable).OrderBy("date DESC")
	if filter.StudentID != "" {
		q = q.Where(sq.Eq{"student_id": filter.StudentID})
	}
	if filter.CourseID != "" {
		q = q.Where(sq.Eq{"course_id": filter.CourseID})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": filter.Status})
	}
	if !filter.DateFrom.IsZero() {
		q = q.Where(sq.GtOrEq{"date": filter.DateFrom.Format(holiday.DateFormat)})
	}
	if !filter.DateTo.IsZero() {
		q = q.Where(sq.LtOrEq{"date": filter.DateTo.Format(holiday.DateFormat)})
	}

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbAttendance
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "filtering attendance")
	}
	return toAttendances(rows), nil
}

func (repo *attendanceStore) UpdateAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	stmt, args, err := psql.Update(attendanceTable).
		Set("status", att.Status).
		Set("proof_ref", null.NewString(att.ProofRef, att.ProofRef != "")).
		Set("updated_at", att.UpdatedAt).
		Where(sq.Eq{"id": att.ID}).
		ToSql()
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "updating attendance")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	return att, nil
}

func (repo *attendanceStore) DeleteAttendanceByID(ctx context.Context, ids ...string) error {
	stmt, args, err := psql.Delete(attendanceTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return nil
}
