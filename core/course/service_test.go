package course_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/course"
	"github.com/davronbek/proteach/core/stats"
	"github.com/davronbek/proteach/core/student"
	dummydb "github.com/davronbek/proteach/storage/database/dummy"
)

type fixture struct {
	courseSvc  *course.Service
	studentSvc *student.Service
	statsSvc   *stats.Service
}

func setup(t *testing.T) fixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	logger := core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	statsRepo := dummydb.NewStatsRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)
	rec := activity.NewRecorder(dummydb.NewActivityRepository(db), logger)
	tx := dummydb.NewTransactor(db)

	return fixture{
		courseSvc:  course.NewService(dummydb.NewCourseRepository(db), studentRepo, statsRepo, tx, rec),
		studentSvc: student.NewService(studentRepo, statsRepo, tx, rec),
		statsSvc:   stats.NewService(statsRepo),
	}
}

func TestServiceCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs, err := f.courseSvc.Create(ctx, course.NewCourse{
		Title:        "English B1",
		Days:         "monday,wednesday,friday",
		StartTime:    "14:00",
		MonthlyPrice: "1,200,000 so'm",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, crs.ID)
	assert.Equal(t, course.Monday|course.Wednesday|course.Friday, crs.Days)
	assert.Equal(t, int64(1200000), crs.MonthlyPrice)
	assert.Equal(t, course.StatusActive, crs.Status)

	s, err := f.statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, s.TotalCourses)
}

// Closing a course must leave no student referencing it: everyone moves back
// to the waiting list in the same commit as the delete.
func TestServiceDeleteCascade(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs, err := f.courseSvc.Create(ctx, course.NewCourse{Title: "Math", Days: "tuesday"})
	assert.NoError(t, err)

	var ids []string
	for _, name := range []string{"Aziza", "Bekzod", "Dilnoza"} {
		std, err := f.studentSvc.Create(ctx, student.NewStudent{Name: name, Phone: "+998900000000", CourseID: crs.ID})
		assert.NoError(t, err)
		ids = append(ids, std.ID)
	}

	assert.NoError(t, f.courseSvc.Delete(ctx, crs.ID))

	_, err = f.courseSvc.GetByID(ctx, crs.ID)
	assert.Equal(t, course.ErrNotFound, err)

	for _, id := range ids {
		std, err := f.studentSvc.GetByID(ctx, id)
		assert.NoError(t, err)
		assert.Empty(t, std.CourseID)
		assert.Equal(t, student.StatusWaiting, std.Status)
	}

	s, err := f.statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, s.TotalCourses)
}

func TestServiceUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crs, err := f.courseSvc.Create(ctx, course.NewCourse{Title: "IELTS", Days: "saturday", MonthlyPrice: "900000"})
	assert.NoError(t, err)

	daily := true
	crs, err = f.courseSvc.Update(ctx, crs.ID, course.UpdateCourse{
		Title:  "IELTS Intensive",
		Daily:  &daily,
		Status: course.StatusArchived,
	})
	assert.NoError(t, err)
	assert.Equal(t, "IELTS Intensive", crs.Title)
	assert.True(t, crs.Daily)
	assert.Equal(t, course.StatusArchived, crs.Status)
	// untouched fields survive
	assert.Equal(t, int64(900000), crs.MonthlyPrice)
}
