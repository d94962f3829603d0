package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/deduction"
	"github.com/davronbek/proteach/storage/database"
	sqlxrepos "github.com/davronbek/proteach/storage/database/sqlx"
)

func newEngine(db *sqlx.DB, conf *core.Config) *deduction.Engine {
	log := core.NewStdLogger(logger)
	activityRepo := sqlxrepos.NewActivityRepository(db)
	return deduction.NewEngine(
		sqlxrepos.NewCourseRepository(db),
		sqlxrepos.NewStudentRepository(db),
		sqlxrepos.NewFinanceRepository(db),
		sqlxrepos.NewDeductionRepository(db),
		sqlxrepos.NewStatsRepository(db),
		database.NewTransactor(db),
		activity.NewRecorder(activityRepo, log),
		log,
	)
}

// deduct runs today's tuition sweep. The sweep is idempotent per course per
// day, so rerunning after a partial failure only charges the courses that
// were missed.
func (cli *commandLine) deduct() error {
	summary, err := cli.engine.Run(context.Background(), time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d/%d courses charged, %d students, %d deducted\n",
		summary.Date, summary.CoursesCharged, summary.CoursesMatched, summary.StudentsCharged, summary.TotalDeducted)
	return nil
}
