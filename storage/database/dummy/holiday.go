package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/hadir/core/holiday"
)

type holidayRepository struct {
	db *holidayTable
}

var _ holiday.Repository = (*holidayRepository)(nil) // interface compliance check

func NewHolidayRepository(db *DB) holiday.Repository {
	return &holidayRepository{db: db.holiday}
}

func sameDay(a, b time.Time) bool {
	return a.Format(holiday.DateFormat) == b.Format(holiday.DateFormat)
}

func (repo *holidayRepository) query() []holiday.Holiday {
	hols := make([]holiday.Holiday, 0, len(repo.db.table))
	for _, h := range repo.db.table {
		hols = append(hols, *h)
	}
	sort.Slice(hols, func(i, j int) bool { return hols[i].Date.Before(hols[j].Date) })
	return hols
}

func (repo *holidayRepository) CheckDateUniqueness(_ context.Context, date time.Time, excludedHolidays ...holiday.Holiday) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, hol := range repo.query() {
		excluded := false
		for _, excl := range excludedHolidays {
			if hol.ID == excl.ID {
				excluded = true
				break
			}
		}
		if !excluded && sameDay(hol.Date, date) {
			return holiday.ErrDateExists
		}
	}
	return nil
}

func (repo *holidayRepository) CreateHoliday(_ context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, h := range repo.db.table {
		if sameDay(h.Date, hol.Date) {
			return holiday.Holiday{}, holiday.ErrDateExists
		}
	}

	hol.ID = uuid.New().String()
	repo.db.table[hol.ID] = &hol
	return hol, nil
}

func (repo *holidayRepository) QueryAllHolidays(_ context.Context) ([]holiday.Holiday, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *holidayRepository) GetHolidayByID(_ context.Context, id string) (holiday.Holiday, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if hol, ok := repo.db.table[id]; ok {
		return *hol, nil
	}
	return holiday.Holiday{}, holiday.ErrNotFound
}

func (repo *holidayRepository) GetHolidayByDate(_ context.Context, date time.Time) (holiday.Holiday, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, hol := range repo.query() {
		if sameDay(hol.Date, date) {
			return hol, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrNotFound
}

func (repo *holidayRepository) UpdateHoliday(_ context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[hol.ID]
	if !ok {
		return holiday.Holiday{}, holiday.ErrNotFound
	}
	orig.Date = hol.Date
	orig.Description = hol.Description
	orig.UpdatedAt = hol.UpdatedAt
	return *orig, nil
}

func (repo *holidayRepository) DeleteHolidaysByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
