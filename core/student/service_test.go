package student_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/stats"
	"github.com/davronbek/proteach/core/student"
	dummydb "github.com/davronbek/proteach/storage/database/dummy"
)

func setup(t *testing.T) (*student.Service, *stats.Service) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	logger := core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	statsRepo := dummydb.NewStatsRepository(db)
	rec := activity.NewRecorder(dummydb.NewActivityRepository(db), logger)
	svc := student.NewService(dummydb.NewStudentRepository(db), statsRepo, dummydb.NewTransactor(db), rec)
	return svc, stats.NewService(statsRepo)
}

func TestServiceCreate(t *testing.T) {
	svc, statsSvc := setup(t)
	ctx := context.Background()

	std, err := svc.Create(ctx, student.NewStudent{
		Name:    "Aziza Karimova",
		Phone:   "+998901234567",
		Balance: "200,000 so'm",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, std.ID)
	assert.Equal(t, int64(200000), std.Balance)
	assert.Equal(t, student.StatusActive, std.Status) // default

	s, err := statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, s.TotalStudents)
}

func TestServiceCreateWithCredentials(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	std, err := svc.Create(ctx, student.NewStudent{
		Name:     "Bekzod",
		Phone:    "+998907654321",
		Username: "bekzod",
		Password: "s3cr3t!pwd",
	})
	assert.NoError(t, err)
	assert.NoError(t, std.CheckPassword("s3cr3t!pwd"))
	assert.Error(t, std.CheckPassword("wrong"))

	got, err := svc.GetByUsername(ctx, " BEKZOD ")
	assert.NoError(t, err)
	assert.Equal(t, std.ID, got.ID)
}

func TestServiceDelete(t *testing.T) {
	svc, statsSvc := setup(t)
	ctx := context.Background()

	std, err := svc.Create(ctx, student.NewStudent{Name: "Dilnoza", Phone: "+998931112233"})
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, std.ID))
	assert.Equal(t, student.ErrNotFound, svc.Delete(ctx, std.ID))

	_, err = svc.GetByID(ctx, std.ID)
	assert.Equal(t, student.ErrNotFound, err)

	// enrollment and removal net out
	s, err := statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, s.TotalStudents)
}

func TestServiceAssignCourse(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	std, err := svc.Create(ctx, student.NewStudent{Name: "Jasur", Phone: "+998941234567"})
	assert.NoError(t, err)

	courseID := "c2a9d6de-3c9f-4b41-a6a6-0f3b4a3c9f00"
	std, err = svc.AssignCourse(ctx, std.ID, courseID)
	assert.NoError(t, err)
	assert.Equal(t, courseID, std.CourseID)

	// empty ID unassigns
	std, err = svc.AssignCourse(ctx, std.ID, "")
	assert.NoError(t, err)
	assert.Empty(t, std.CourseID)
}

func TestServiceQueryFilters(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	courseID := "c2a9d6de-3c9f-4b41-a6a6-0f3b4a3c9f00"
	for _, ns := range []student.NewStudent{
		{Name: "Aziza", Phone: "+998901111111", CourseID: courseID},
		{Name: "Bekzod", Phone: "+998902222222", Status: student.StatusWaiting},
		{Name: "Dilnoza", Phone: "+998903333333", CourseID: courseID},
	} {
		if _, err := svc.Create(ctx, ns); err != nil {
			t.Fatalf("Create() failed, %v", err)
		}
	}

	all, err := svc.Query(ctx, nil)
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	// name-ordered
	assert.Equal(t, "Aziza", all[0].Name)
	assert.Equal(t, "Dilnoza", all[2].Name)

	byCourse, err := svc.Query(ctx, &student.QueryFilter{CourseID: courseID})
	assert.NoError(t, err)
	assert.Len(t, byCourse, 2)

	waiting, err := svc.Query(ctx, &student.QueryFilter{Status: student.StatusWaiting})
	assert.NoError(t, err)
	assert.Len(t, waiting, 1)
	assert.Equal(t, "Bekzod", waiting[0].Name)

	search, err := svc.Query(ctx, &student.QueryFilter{Search: "dil"})
	assert.NoError(t, err)
	assert.Len(t, search, 1)
	assert.Equal(t, "Dilnoza", search[0].Name)
}
