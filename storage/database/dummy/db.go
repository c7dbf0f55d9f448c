// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"sync"

	"github.com/trezcool/hadir/core/attendance"
	"github.com/trezcool/hadir/core/course"
	"github.com/trezcool/hadir/core/enrollment"
	"github.com/trezcool/hadir/core/holiday"
	"github.com/trezcool/hadir/core/parallelclass"
	"github.com/trezcool/hadir/core/schedule"
	"github.com/trezcool/hadir/core/task"
	"github.com/trezcool/hadir/core/user"
)

type (
	DB struct {
		user          *userTable
		course        *courseTable
		parallelClass *parallelClassTable
		enrollment    *enrollmentTable
		schedule      *scheduleTable
		holiday       *holidayTable
		attendance    *attendanceTable
		task          *taskTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}
	parallelClassTable struct {
		sync.RWMutex
		table map[string]*parallelclass.ParallelClass
	}
	enrollmentTable struct {
		sync.RWMutex
		table map[string]*enrollment.Enrollment
	}
	scheduleTable struct {
		sync.RWMutex
		table map[string]*schedule.Schedule
	}
	holidayTable struct {
		sync.RWMutex
		table map[string]*holiday.Holiday
	}
	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Attendance
	}
	taskTable struct {
		sync.RWMutex
		table map[string]*task.Task
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:          &userTable{table: make(map[string]*user.User)},
		course:        &courseTable{table: make(map[string]*course.Course)},
		parallelClass: &parallelClassTable{table: make(map[string]*parallelclass.ParallelClass)},
		enrollment:    &enrollmentTable{table: make(map[string]*enrollment.Enrollment)},
		schedule:      &scheduleTable{table: make(map[string]*schedule.Schedule)},
		holiday:       &holidayTable{table: make(map[string]*holiday.Holiday)},
		attendance:    &attendanceTable{table: make(map[string]*attendance.Attendance)},
		task:          &taskTable{table: make(map[string]*task.Task)},
	}
	return db, nil
}
