package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/davronbek/proteach/apps/api/echo"
	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/attendance"
	"github.com/davronbek/proteach/core/catalog"
	"github.com/davronbek/proteach/core/course"
	"github.com/davronbek/proteach/core/deduction"
	"github.com/davronbek/proteach/core/finance"
	"github.com/davronbek/proteach/core/lead"
	"github.com/davronbek/proteach/core/schooldata"
	"github.com/davronbek/proteach/core/stats"
	"github.com/davronbek/proteach/core/student"
	"github.com/davronbek/proteach/core/teacher"
	"github.com/davronbek/proteach/core/user"
	logsvc "github.com/davronbek/proteach/services/logger"
	sheetssvc "github.com/davronbek/proteach/services/sheets"
	"github.com/davronbek/proteach/storage/database"
	sqlxrepos "github.com/davronbek/proteach/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// repositories
	studentRepo := sqlxrepos.NewStudentRepository(db)
	teacherRepo := sqlxrepos.NewTeacherRepository(db)
	courseRepo := sqlxrepos.NewCourseRepository(db)
	financeRepo := sqlxrepos.NewFinanceRepository(db)
	leadRepo := sqlxrepos.NewLeadRepository(db)
	attendanceRepo := sqlxrepos.NewAttendanceRepository(db)
	catalogRepo := sqlxrepos.NewCatalogRepository(db)
	statsRepo := sqlxrepos.NewStatsRepository(db)
	activityRepo := sqlxrepos.NewActivityRepository(db)
	deductionRepo := sqlxrepos.NewDeductionRepository(db)
	userRepo := sqlxrepos.NewUserRepository(db)
	tx := database.NewTransactor(db)

	// services
	sheetsSvc := sheetssvc.NewWebhookService(conf.Sheets, logger)
	recorder := activity.NewRecorder(activityRepo, logger)

	usrSvc := user.NewService(userRepo)
	studentSvc := student.NewService(studentRepo, statsRepo, tx, recorder)
	teacherSvc := teacher.NewService(teacherRepo, statsRepo, tx, recorder)
	courseSvc := course.NewService(courseRepo, studentRepo, statsRepo, tx, recorder)
	financeSvc := finance.NewService(financeRepo, statsRepo, tx, recorder, sheetsSvc)
	leadSvc := lead.NewService(leadRepo, statsRepo, tx, recorder, sheetsSvc)
	attendanceSvc := attendance.NewService(attendanceRepo, recorder, sheetsSvc)
	catalogSvc := catalog.NewService(catalogRepo)
	statsSvc := stats.NewService(statsRepo)

	engine := deduction.NewEngine(courseRepo, studentRepo, financeRepo, deductionRepo, statsRepo, tx, recorder, logger)

	// =========================================================================
	// Start Data Mirror

	hub := schooldata.NewHub(schooldata.Repositories{
		Students:   studentRepo,
		Teachers:   teacherRepo,
		Courses:    courseRepo,
		Catalog:    catalogRepo,
		Finance:    financeRepo,
		Attendance: attendanceRepo,
		Activities: activityRepo,
		Leads:      leadRepo,
	}, database.NewListener(conf, logger), logger)

	if err = hub.Start(context.Background()); err != nil {
		logger.Fatal(fmt.Sprintf("starting data mirror: %v", err), err)
	}
	defer hub.Close()

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("%s initializing : env %s", conf.AppName, conf.Env))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		UserSvc:       usrSvc,
		StudentSvc:    studentSvc,
		TeacherSvc:    teacherSvc,
		CourseSvc:     courseSvc,
		FinanceSvc:    financeSvc,
		LeadSvc:       leadSvc,
		AttendanceSvc: attendanceSvc,
		CatalogSvc:    catalogSvc,
		StatsSvc:      statsSvc,
		Hub:           hub,
		Engine:        engine,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

const shutdownTimeout = 5 * time.Second

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
