package deduction_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/course"
	"github.com/davronbek/proteach/core/deduction"
	"github.com/davronbek/proteach/core/finance"
	"github.com/davronbek/proteach/core/stats"
	"github.com/davronbek/proteach/core/student"
	dummysheets "github.com/davronbek/proteach/services/sheets/dummy"
	dummydb "github.com/davronbek/proteach/storage/database/dummy"
)

// 2026-09-07 is a Monday.
var monday = time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

type fixture struct {
	engine     *deduction.Engine
	courseSvc  *course.Service
	studentSvc *student.Service
	financeSvc *finance.Service
	statsSvc   *stats.Service
}

func setup(t *testing.T) fixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	logger := core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	tx := dummydb.NewTransactor(db)
	statsRepo := dummydb.NewStatsRepository(db)
	courseRepo := dummydb.NewCourseRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)
	financeRepo := dummydb.NewFinanceRepository(db)
	rec := activity.NewRecorder(dummydb.NewActivityRepository(db), logger)
	sheets := dummysheets.NewService()

	return fixture{
		engine:     deduction.NewEngine(courseRepo, studentRepo, financeRepo, dummydb.NewDeductionRepository(db), statsRepo, tx, rec, logger),
		courseSvc:  course.NewService(courseRepo, studentRepo, statsRepo, tx, rec),
		studentSvc: student.NewService(studentRepo, statsRepo, tx, rec),
		financeSvc: finance.NewService(financeRepo, statsRepo, tx, rec, sheets),
		statsSvc:   stats.NewService(statsRepo),
	}
}

func (f fixture) addCourse(t *testing.T, ctx context.Context, nc course.NewCourse, students int) (course.Course, []student.Student) {
	t.Helper()

	crs, err := f.courseSvc.Create(ctx, nc)
	assert.NoError(t, err)

	stds := make([]student.Student, 0, students)
	for i := 0; i < students; i++ {
		std, err := f.studentSvc.Create(ctx, student.NewStudent{
			Name:     fmt.Sprintf("Student %d", i+1),
			Phone:    fmt.Sprintf("+99890111%04d", i+1),
			CourseID: crs.ID,
			Balance:  "500,000 so'm",
		})
		assert.NoError(t, err)
		stds = append(stds, std)
	}
	return crs, stds
}

func TestEngineRun(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs, stds := f.addCourse(t, ctx, course.NewCourse{
		Title:        "English B2",
		Daily:        true,
		StartTime:    "10:00",
		MonthlyPrice: "1,200,000 so'm",
	}, 3)
	assert.Equal(t, int64(100000), crs.DailyFee())

	sum, err := f.engine.Run(ctx, monday)
	assert.NoError(t, err)
	assert.Equal(t, "2026-09-07", sum.Date)
	assert.Equal(t, 1, sum.CoursesMatched)
	assert.Equal(t, 1, sum.CoursesCharged)
	assert.Equal(t, 3, sum.StudentsCharged)
	assert.Equal(t, int64(300000), sum.TotalDeducted)

	for _, std := range stds {
		got, err := f.studentSvc.GetByID(ctx, std.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(400000), got.Balance)
	}

	txns, err := f.financeSvc.Query(ctx, nil, 10)
	assert.NoError(t, err)
	assert.Len(t, txns, 3)
	for _, txn := range txns {
		assert.Equal(t, finance.TypeExpense, txn.Type)
		assert.Equal(t, int64(-100000), txn.Amount)
		assert.NotEmpty(t, txn.StudentID)
	}

	s, err := f.statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(-300000), s.TotalRevenue)

	markers, err := f.engine.Settled(ctx, monday)
	assert.NoError(t, err)
	assert.Len(t, markers, 1)
	assert.Equal(t, crs.ID, markers[0].CourseID)
	assert.Equal(t, "2026-09-07", markers[0].Date)
}

// A second sweep on the same day finds the markers and charges nothing.
func TestEngineRunIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, stds := f.addCourse(t, ctx, course.NewCourse{
		Title:        "Math",
		Daily:        true,
		StartTime:    "14:00",
		MonthlyPrice: "600,000 so'm",
	}, 2)

	_, err := f.engine.Run(ctx, monday)
	assert.NoError(t, err)

	sum, err := f.engine.Run(ctx, monday)
	assert.NoError(t, err)
	assert.Equal(t, 1, sum.CoursesMatched)
	assert.Equal(t, 0, sum.CoursesCharged)
	assert.Equal(t, 0, sum.StudentsCharged)
	assert.Zero(t, sum.TotalDeducted)

	got, err := f.studentSvc.GetByID(ctx, stds[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(450000), got.Balance) // charged once, not twice
}

// A matched course that could not be charged keeps no day marker: the claim
// rolls back with the commit, so a later sweep the same day picks it up.
func TestEngineRunRetriesSkippedCourse(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs, _ := f.addCourse(t, ctx, course.NewCourse{
		Title:        "New group",
		Daily:        true,
		StartTime:    "09:00",
		MonthlyPrice: "1,200,000 so'm",
	}, 0)

	sum, err := f.engine.Run(ctx, monday)
	assert.NoError(t, err)
	assert.Equal(t, 1, sum.CoursesMatched)
	assert.Equal(t, 0, sum.CoursesCharged)

	// first student enrolls later in the day
	std, err := f.studentSvc.Create(ctx, student.NewStudent{
		Name:     "Madina",
		Phone:    "+998901234567",
		CourseID: crs.ID,
		Balance:  "500,000 so'm",
	})
	assert.NoError(t, err)

	sum, err = f.engine.Run(ctx, monday)
	assert.NoError(t, err)
	assert.Equal(t, 1, sum.CoursesCharged)
	assert.Equal(t, int64(100000), sum.TotalDeducted)

	got, err := f.studentSvc.GetByID(ctx, std.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(400000), got.Balance)
}

func TestEngineRunSkips(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// archived, free, off-day and schedule-less courses never match;
	// a matching course with nobody enrolled matches but charges nothing
	f.addCourse(t, ctx, course.NewCourse{Title: "Empty", Daily: true, StartTime: "09:00", MonthlyPrice: "900,000"}, 0)
	f.addCourse(t, ctx, course.NewCourse{Title: "Weekend only", Days: "saturday,sunday", StartTime: "09:00", MonthlyPrice: "900,000"}, 1)
	f.addCourse(t, ctx, course.NewCourse{Title: "No start time", Daily: true, MonthlyPrice: "900,000"}, 1)
	free, _ := f.addCourse(t, ctx, course.NewCourse{Title: "Free club", Daily: true, StartTime: "16:00"}, 1)
	archived, _ := f.addCourse(t, ctx, course.NewCourse{Title: "Old group", Daily: true, StartTime: "11:00", MonthlyPrice: "900,000"}, 1)
	_, err := f.courseSvc.Update(ctx, archived.ID, course.UpdateCourse{Status: course.StatusArchived})
	assert.NoError(t, err)

	sum, err := f.engine.Run(ctx, monday)
	assert.NoError(t, err)
	assert.Equal(t, 2, sum.CoursesMatched) // Empty and Free club
	assert.Equal(t, 0, sum.CoursesCharged)
	assert.Zero(t, sum.TotalDeducted)

	s, err := f.statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Zero(t, s.TotalRevenue)

	got, err := f.courseSvc.GetByID(ctx, free.ID)
	assert.NoError(t, err)
	assert.Zero(t, got.DailyFee())
}
