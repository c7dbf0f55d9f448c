package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core/schedule"
)

const scheduleTable = "schedule"

var scheduleColumns = []string{
	"id", "course_id", "lecturer_id", "room", "day", "start_time", "end_time", "created_at", "updated_at",
}

type dbSchedule struct {
	ID         string    `db:"id"`
	CourseID   string    `db:"course_id"`
	LecturerID string    `db:"lecturer_id"`
	Room       string    `db:"room"`
	Day        string    `db:"day"`
	StartTime  string    `db:"start_time"`
	EndTime    string    `db:"end_time"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (s dbSchedule) toSchedule() schedule.Schedule {
	return schedule.Schedule(s)
}

func toSchedules(rows []dbSchedule) []schedule.Schedule {
	scheds := make([]schedule.Schedule, len(rows))
	for i, row := range rows {
		scheds[i] = row.toSchedule()
	}
	return scheds
}

type scheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sqlx.DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) CreateSchedule(ctx context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	sched.ID = uuid.New().String()

	stmt, args, err := psql.Insert(scheduleTable).
		Columns(scheduleColumns...).
		Values(
			sched.ID, sched.CourseID, sched.LecturerID, sched.Room, sched.Day,
			sched.StartTime, sched.EndTime, sched.CreatedAt, sched.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "creating schedule")
	}
	return sched, nil
}

func (repo *scheduleRepository) QueryAllSchedules(ctx context.Context) ([]schedule.Schedule, error) {
	stmt, args, err := psql.Select(scheduleColumns...).From(scheduleTable).OrderBy("created_at").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbSchedule
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying schedules")
	}
	return toSchedules(rows), nil
}

func (repo *scheduleRepository) GetScheduleByID(ctx context.Context, id string) (schedule.Schedule, error) {
	stmt, args, err := psql.Select(scheduleColumns...).From(scheduleTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "building query")
	}
	var row dbSchedule
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		if err == sql.ErrNoRows {
			return schedule.Schedule{}, schedule.ErrNotFound
		}
		return schedule.Schedule{}, errors.Wrap(err, "getting schedule")
	}
	return row.toSchedule(), nil
}

func (repo *scheduleRepository) QuerySchedulesByCourseAndDay(ctx context.Context, courseID, day string) ([]schedule.Schedule, error) {
	stmt, args, err := psql.Select(scheduleColumns...).From(scheduleTable).
		Where(sq.Eq{"course_id": courseID, "day": day}).
		OrderBy("start_time").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbSchedule
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying schedules")
	}
	return toSchedules(rows), nil
}

func (repo *scheduleRepository) FilterSchedules(ctx context.Context, filter schedule.QueryFilter) ([]schedule.Schedule, error) {
	q := psql.Select(scheduleColumns...).From(scheduleTable).OrderBy("day", "start_time")
	if filter.CourseID != "" {
		q = q.Where(sq.Eq{"course_id": filter.CourseID})
	}
	if filter.LecturerID != "" {
		q = q.Where(sq.Eq{"lecturer_id": filter.LecturerID})
	}
	if filter.Day != "" {
		q = q.Where(sq.Eq{"day": filter.Day})
	}

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbSchedule
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "filtering schedules")
	}
	return toSchedules(rows), nil
}

func (repo *scheduleRepository) UpdateSchedule(ctx context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	stmt, args, err := psql.Update(scheduleTable).
		Set("lecturer_id", sched.LecturerID).
		Set("room", sched.Room).
		Set("day", sched.Day).
		Set("start_time", sched.StartTime).
		Set("end_time", sched.EndTime).
		Set("updated_at", sched.UpdatedAt).
		Where(sq.Eq{"id": sched.ID}).
		ToSql()
	if err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return schedule.Schedule{}, errors.Wrap(err, "updating schedule")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	return sched, nil
}

func (repo *scheduleRepository) DeleteSchedulesByID(ctx context.Context, ids ...string) error {
	stmt, args, err := psql.Delete(scheduleTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting schedules")
	}
	return nil
}
