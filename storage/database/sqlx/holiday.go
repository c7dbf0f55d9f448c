package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core/holiday"
)

const holidayTable = "holiday"

var holidayColumns = []string{"id", "date", "description", "created_at", "updated_at"}

type dbHoliday struct {
	ID          string    `db:"id"`
	Date        time.Time `db:"date"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (h dbHoliday) toHoliday() holiday.Holiday {
	return holiday.Holiday(h)
}

type holidayRepository struct {
	db *sqlx.DB
}

var _ holiday.Repository = (*holidayRepository)(nil) // interface compliance check

func NewHolidayRepository(db *sqlx.DB) holiday.Repository {
	return &holidayRepository{db: db}
}

func (repo *holidayRepository) CheckDateUniqueness(ctx context.Context, date time.Time, excludedHolidays ...holiday.Holiday) error {
	q := psql.Select("COUNT(*)").From(holidayTable).Where(sq.Eq{"date": date.Format(holiday.DateFormat)})
	if len(excludedHolidays) > 0 {
		exclIDs := make([]string, len(excludedHolidays))
		for i, hol := range excludedHolidays {
			exclIDs[i] = hol.ID
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
		return holiday.ErrDateExists
	}
	return nil
}

func (repo *holidayRepository) CreateHoliday(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	hol.ID = uuid.New().String()

	stmt, args, err := psql.Insert(holidayTable).
		Columns(holidayColumns...).
		Values(hol.ID, hol.Date.Format(holiday.DateFormat), hol.Description, hol.CreatedAt, hol.UpdatedAt).
		ToSql()
	if err != nil {
		return holiday.Holiday{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return holiday.Holiday{}, holiday.ErrDateExists
		}
		return holiday.Holiday{}, errors.Wrap(err, "creating holiday")
	}
	return hol, nil
}

func (repo *holidayRepository) QueryAllHolidays(ctx context.Context) ([]holiday.Holiday, error) {
	stmt, args, err := psql.Select(holidayColumns...).From(holidayTable).OrderBy("date").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []dbHoliday
	if err = repo.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying holidays")
	}
	hols := make([]holiday.Holiday, len(rows))
	for i, row := range rows {
		hols[i] = row.toHoliday()
	}
	return hols, nil
}

func (repo *holidayRepository) getBy(ctx context.Context, pred interface{}) (holiday.Holiday, error) {
	stmt, args, err := psql.Select(holidayColumns...).From(holidayTable).Where(pred).ToSql()
	if err != nil {
		return holiday.Holiday{}, errors.Wrap(err, "building query")
	}
	var row dbHoliday
	if err = repo.db.GetContext(ctx, &row, stmt, args...); err != nil {
		if err == sql.ErrNoRows {
			return holiday.Holiday{}, holiday.ErrNotFound
		}
		return holiday.Holiday{}, errors.Wrap(err, "getting holiday")
	}
	return row.toHoliday(), nil
}

func (repo *holidayRepository) GetHolidayByID(ctx context.Context, id string) (holiday.Holiday, error) {
	return repo.getBy(ctx, sq.Eq{"id": id})
}

func (repo *holidayRepository) GetHolidayByDate(ctx context.Context, date time.Time) (holiday.Holiday, error) {
	return repo.getBy(ctx, sq.Eq{"date": date.Format(holiday.DateFormat)})
}

func (repo *holidayRepository) UpdateHoliday(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	stmt, args, err := psql.Update(holidayTable).
		Set("date", hol.Date.Format(holiday.DateFormat)).
		Set("description", hol.Description).
		Set("updated_at", hol.UpdatedAt).
		Where(sq.Eq{"id": hol.ID}).
		ToSql()
	if err != nil {
		return holiday.Holiday{}, errors.Wrap(err, "building query")
	}
	res, err := repo.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return holiday.Holiday{}, holiday.ErrDateExists
		}
		return holiday.Holiday{}, errors.Wrap(err, "updating holiday")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return holiday.Holiday{}, holiday.ErrNotFound
	}
	return hol, nil
}

func (repo *holidayRepository) DeleteHolidaysByID(ctx context.Context, ids ...string) error {
	stmt, args, err := psql.Delete(holidayTable).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting holidays")
	}
	return nil
}
