package holiday

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/hadir/core"
)

var (
	ErrNotFound   = errors.New("holiday not found")
	ErrDateExists = errors.New("a holiday already exists on this date")
)

type (
	Repository interface {
		CheckDateUniqueness(ctx context.Context, date time.Time, excludedHolidays ...Holiday) error
		CreateHoliday(ctx context.Context, hol Holiday) (Holiday, error)
		QueryAllHolidays(ctx context.Context) ([]Holiday, error)
		GetHolidayByID(ctx context.Context, id string) (Holiday, error)
		// GetHolidayByDate matches on the calendar day only; ErrNotFound if
		// the day is not a holiday.
		GetHolidayByDate(ctx context.Context, date time.Time) (Holiday, error)
		UpdateHoliday(ctx context.Context, hol Holiday) (Holiday, error)
		DeleteHolidaysByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nh NewHoliday) (Holiday, error)
		QueryAll(ctx context.Context) ([]Holiday, error)
		GetByID(ctx context.Context, id string) (Holiday, error)
		FindByDate(ctx context.Context, date time.Time) (Holiday, error)
		Update(ctx context.Context, id string, uh UpdateHoliday) (Holiday, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

// Truncate drops the time-of-day part of t, keeping its location.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (svc *service) Create(ctx context.Context, nh NewHoliday) (Holiday, error) {
	date, err := time.Parse(DateFormat, nh.Date)
	if err != nil {
		return Holiday{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: "invalid date"})
	}
	if err = svc.repo.CheckDateUniqueness(ctx, date); err != nil {
		if err == ErrDateExists {
			return Holiday{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
		}
		return Holiday{}, err
	}

	now := time.Now().UTC()
	hol := Holiday{
		Date:        date,
		Description: nh.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateHoliday(ctx, hol)
}

func (svc *service) QueryAll(ctx context.Context) ([]Holiday, error) {
	return svc.repo.QueryAllHolidays(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Holiday, error) {
	return svc.repo.GetHolidayByID(ctx, id)
}

func (svc *service) FindByDate(ctx context.Context, date time.Time) (Holiday, error) {
	return svc.repo.GetHolidayByDate(ctx, Truncate(date))
}

func (svc *service) Update(ctx context.Context, id string, uh UpdateHoliday) (Holiday, error) {
	hol, err := svc.repo.GetHolidayByID(ctx, id)
	if err != nil {
		return Holiday{}, err
	}
	if uh.Date != "" {
		date, err := time.Parse(DateFormat, uh.Date)
		if err != nil {
			return Holiday{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: "invalid date"})
		}
		if !date.Equal(hol.Date) {
			if err = svc.repo.CheckDateUniqueness(ctx, date, hol); err != nil {
				if err == ErrDateExists {
					return Holiday{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
				}
				return Holiday{}, err
			}
			hol.Date = date
		}
	}
	if uh.Description != "" {
		hol.Description = uh.Description
	}
	hol.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateHoliday(ctx, hol)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteHolidaysByID(ctx, ids...)
}
