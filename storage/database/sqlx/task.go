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

	"github.com/trezcool/hadir/core/task"
)

const taskTable = "task"

var taskColumns = []string{
	"id", "title", "description", "deadline", "status", "course_id", "student_ids", "created_at", "updated_at",
}

type dbTask struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Deadline    time.Time      `db:"deadline"`
	Status      string         `db:"status"`
	CourseID    string         `db:"course_id"`
	StudentIDs  pq.StringArray `db:"student_ids"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (t dbTask) toTask() task.Task {
	return task.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Deadline:    t.Deadline,
		Status:      t.Status,
		CourseID:    t.CourseID,
		StudentIDs:  t.StudentIDs,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTasks(rows []dbTask) []task.Task {
	tasks := make([]task.Task, len(rows))
	for i, row := range rows {
		tasks[i] = row.toTask()
	}
	return tasks
}

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	tsk.ID = uuid.New().String()

	stmt, args, err := psql.Insert(taskTable).
		Columns(taskColumns...).
		Values(
			tsk.ID, tsk.Title, tsk.Description, tsk.Deadline, tsk.Status,
			tsk.CourseID, pq.StringArray(tsk.StudentIDs), tsk.CreatedAt, tsk.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return task.Task{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		return task.Task{}, errors.Wrap(err, "creating task")
	}
	return tsk, nil
}

func (repo *taskRepository) QueryAllTasks(ctx context.Context) ([]task.Task, error) {
	stmt, args, err := psql.Select(taskColumns...).From(taskTable).OrderBy("deadline").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbTask
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	return toTasks(rows), nil
}

func (repo *taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	stmt, args, err := psql.Select(taskColumns...).From(taskTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return task.Task{}, errors.Wrap(err, "building query")
	}
	var row dbTask
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		if err == sql.ErrNoRows {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, errors.Wrap(err, "getting task")
	}
	return row.toTask(), nil
}

func (repo *taskRepository) FilterTasks(ctx context.Context, filter task.QueryFilter) ([]task.Task, error) {
	q := psql.Select(taskColumns...).From(taskTable).OrderBy("deadline")
	if filter.CourseID != "" {
		q = q.Where(sq.Eq{"course_id": filter.CourseID})
	}
	if filter.StudentID != "" {
		q = q.Where("? = ANY(student_ids)", filter.StudentID)
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": filter.Status})
	}

	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbTask
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "filtering tasks")
	}
	return toTasks(rows), nil
}

func (repo *taskRepository) UpdateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	stmt, args, err := psql.Update(taskTable).
		Set("title", tsk.Title).
		Set("description", tsk.Description).
		Set("deadline", tsk.Deadline).
		Set("status", tsk.Status).
		Set("updated_at", tsk.UpdatedAt).
		Where(sq.Eq{"id": tsk.ID}).
		ToSql()
	if err != nil {
		return task.Task{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return tsk, nil
}

func (repo *taskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	stmt, args, err := psql.Delete(taskTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return nil
}
