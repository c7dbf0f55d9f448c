package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/hadir/core/attendance"
)

type attendanceStore struct {
	db *attendanceTable
}

var _ attendance.Store = (*attendanceStore)(nil) // interface compliance check

func NewAttendanceStore(db *DB) attendance.Store {
	return &attendanceStore{db: db.attendance}
}

func (repo *attendanceStore) query() []attendance.Attendance {
	atts := make([]attendance.Attendance, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		atts = append(atts, *a)
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].Date.After(atts[j].Date) })
	return atts
}

func (repo *attendanceStore) CreateAttendance(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, a := range repo.db.table {
		if a.StudentID == att.StudentID && a.CourseID == att.CourseID && sameDay(a.Date, att.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyExists
		}
	}

	att.ID = uuid.New().String()
	repo.db.table[att.ID] = &att
	return att, nil
}

func (repo *attendanceStore) QueryAllAttendance(_ context.Context) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *attendanceStore) GetAttendanceByID(_ context.Context, id string) (attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if att, ok := repo.db.table[id]; ok {
		return *att, nil
	}
	return attendance.Attendance{}, attendance.ErrNotFound
}

func (repo *attendanceStore) GetAttendanceForDate(_ context.Context, studentID, courseID string, date time.Time) (attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, att := range repo.db.table {
		if att.StudentID == studentID && att.CourseID == courseID && sameDay(att.Date, date) {
			return *att, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrNotFound
}

func (repo *attendanceStore) FilterAttendance(_ context.Context, filter attendance.QueryFilter) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []attendance.Attendance
	for _, att := range repo.query() {
		if filter.StudentID != "" && att.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && att.CourseID != filter.CourseID {
			continue
		}
		if filter.Status != "" && att.Status != filter.Status {
			continue
		}
		if !filter.DateFrom.IsZero() && att.Date.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && att.Date.After(filter.DateTo) {
			continue
		}
		filtered = append(filtered, att)
	}
	return filtered, nil
}

func (repo *attendanceStore) UpdateAttendance(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[att.ID]
	if !ok {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	orig.Status = att.Status
	orig.ProofRef = att.ProofRef
	orig.UpdatedAt = att.UpdatedAt
	return *orig, nil
}

func (repo *attendanceStore) DeleteAttendanceByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
