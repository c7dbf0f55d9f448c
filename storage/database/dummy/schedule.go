package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/hadir/core/schedule"
)

type scheduleRepository struct {
	db *scheduleTable
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db.schedule}
}

func (repo *scheduleRepository) query() []schedule.Schedule {
	scheds := make([]schedule.Schedule, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		scheds = append(scheds, *s)
	}
	sort.Slice(scheds, func(i, j int) bool { return scheds[i].StartTime < scheds[j].StartTime })
	return scheds
}

func (repo *scheduleRepository) CreateSchedule(_ context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sched.ID = uuid.New().String()
	repo.db.table[sched.ID] = &sched
	return sched, nil
}

func (repo *scheduleRepository) QueryAllSchedules(_ context.Context) ([]schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *scheduleRepository) GetScheduleByID(_ context.Context, id string) (schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sched, ok := repo.db.table[id]; ok {
		return *sched, nil
	}
	return schedule.Schedule{}, schedule.ErrNotFound
}

func (repo *scheduleRepository) QuerySchedulesByCourseAndDay(_ context.Context, courseID, day string) ([]schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var scheds []schedule.Schedule
	for _, sched := range repo.query() {
		if sched.CourseID == courseID && sched.Day == day {
			scheds = append(scheds, sched)
		}
	}
	return scheds, nil
}

func (repo *scheduleRepository) FilterSchedules(_ context.Context, filter schedule.QueryFilter) ([]schedule.Schedule, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []schedule.Schedule
	for _, sched := range repo.query() {
		if filter.CourseID != "" && sched.CourseID != filter.CourseID {
			continue
		}
		if filter.LecturerID != "" && sched.LecturerID != filter.LecturerID {
			continue
		}
		if filter.Day != "" && sched.Day != filter.Day {
			continue
		}
		filtered = append(filtered, sched)
	}
	return filtered, nil
}

func (repo *scheduleRepository) UpdateSchedule(_ context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[sched.ID]
	if !ok {
		return schedule.Schedule{}, schedule.ErrNotFound
	}
	orig.LecturerID = sched.LecturerID
	orig.Room = sched.Room
	orig.Day = sched.Day
	orig.StartTime = sched.StartTime
	orig.EndTime = sched.EndTime
	orig.UpdatedAt = sched.UpdatedAt
	return *orig, nil
}

func (repo *scheduleRepository) DeleteSchedulesByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
