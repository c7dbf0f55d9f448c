package attendance

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("attendance not found")
	ErrAlreadyExists = errors.New("attendance already exists for this student, course and date")
)

type (
	// Store persists attendance records. Uniqueness of (student, course,
	// date) is enforced at this level; CreateAttendance returns
	// ErrAlreadyExists on a conflict.
	Store interface {
		CreateAttendance(ctx context.Context, att Attendance) (Attendance, error)
		QueryAllAttendance(ctx context.Context) ([]Attendance, error)
		GetAttendanceByID(ctx context.Context, id string) (Attendance, error)
		GetAttendanceForDate(ctx context.Context, studentID, courseID string, date time.Time) (Attendance, error)
		// FilterAttendance applies AND operation on available QueryFilter fields.
		FilterAttendance(ctx context.Context, filter QueryFilter) ([]Attendance, error)
		UpdateAttendance(ctx context.Context, att Attendance) (Attendance, error)
		DeleteAttendanceByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		Submit(ctx context.Context, sub Submission) (Attendance, error)
		QueryAll(ctx context.Context) ([]Attendance, error)
		GetByID(ctx context.Context, id string) (Attendance, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Attendance, error)
		Update(ctx context.Context, id string, ua UpdateAttendance) (Attendance, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		engine *Engine
		store  Store
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(engine *Engine, store Store) ServiceInterface {
	return &service{engine: engine, store: store}
}

func (svc *service) Submit(ctx context.Context, sub Submission) (Attendance, error) {
	return svc.engine.Submit(ctx, sub)
}

func (svc *service) QueryAll(ctx context.Context) ([]Attendance, error) {
	return svc.store.QueryAllAttendance(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Attendance, error) {
	return svc.store.GetAttendanceByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Attendance, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.store.QueryAllAttendance(ctx)
	}
	return svc.store.FilterAttendance(ctx, filter)
}

func (svc *service) Update(ctx context.Context, id string, ua UpdateAttendance) (Attendance, error) {
	att, err := svc.store.GetAttendanceByID(ctx, id)
	if err != nil {
		return Attendance{}, err
	}
	if ua.Status != "" {
		att.Status = ua.Status
	}
	if ua.ProofRef != "" {
		att.ProofRef = ua.ProofRef
	}
	att.UpdatedAt = time.Now().UTC()
	return svc.store.UpdateAttendance(ctx, att)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.store.DeleteAttendanceByID(ctx, ids...)
}
