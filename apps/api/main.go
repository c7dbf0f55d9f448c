package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/hadir/apps/api/echo"
	"github.com/trezcool/hadir/core"
	"github.com/trezcool/hadir/core/attendance"
	"github.com/trezcool/hadir/core/course"
	"github.com/trezcool/hadir/core/enrollment"
	"github.com/trezcool/hadir/core/holiday"
	"github.com/trezcool/hadir/core/parallelclass"
	"github.com/trezcool/hadir/core/schedule"
	"github.com/trezcool/hadir/core/task"
	"github.com/trezcool/hadir/core/user"
	emailsvc "github.com/trezcool/hadir/services/email"
	logsvc "github.com/trezcool/hadir/services/logger"
	"github.com/trezcool/hadir/storage/database"
	sqlxrepos "github.com/trezcool/hadir/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	crsSvc := course.NewService(sqlxrepos.NewCourseRepository(db))
	pcSvc := parallelclass.NewService(sqlxrepos.NewParallelClassRepository(db), crsSvc)
	enrSvc := enrollment.NewService(sqlxrepos.NewEnrollmentRepository(db), crsSvc)
	schSvc := schedule.NewService(sqlxrepos.NewScheduleRepository(db))
	holSvc := holiday.NewService(sqlxrepos.NewHolidayRepository(db))

	loc, err := time.LoadLocation(conf.Attendance.Timezone)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading timezone %q: %v", conf.Attendance.Timezone, err), err)
	}
	attStore := sqlxrepos.NewAttendanceStore(db)
	attEngine := attendance.NewEngine(
		holSvc, enrSvc, schSvc, attStore,
		loc, conf.Attendance.WindowBefore, conf.Attendance.WindowAfter,
	)
	attSvc := attendance.NewService(attEngine, attStore)

	taskSvc := task.NewService(sqlxrepos.NewTaskRepository(db), crsSvc, enrSvc, usrSvc, mailSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	course.InitValidators(validate, translator)
	parallelclass.InitValidators(validate, translator)
	enrollment.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)
	holiday.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)
	task.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			UserSvc:       usrSvc,
			CourseSvc:     crsSvc,
			ParClassSvc:   pcSvc,
			EnrollmentSvc: enrSvc,
			ScheduleSvc:   schSvc,
			HolidaySvc:    holSvc,
			AttendanceSvc: attSvc,
			TaskSvc:       taskSvc,
			Validate:      validate,
			Translator:    translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
