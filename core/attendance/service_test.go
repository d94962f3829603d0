package attendance_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/attendance"
	dummysheets "github.com/davronbek/proteach/services/sheets/dummy"
	dummydb "github.com/davronbek/proteach/storage/database/dummy"
)

func setup(t *testing.T) (*attendance.Service, *dummysheets.Service) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	logger := core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	rec := activity.NewRecorder(dummydb.NewActivityRepository(db), logger)
	sheets := dummysheets.NewService()
	return attendance.NewService(dummydb.NewAttendanceRepository(db), rec, sheets), sheets
}

func TestServiceSave(t *testing.T) {
	svc, sheets := setup(t)
	ctx := context.Background()

	rec, err := svc.Save(ctx, attendance.NewRecord{
		CourseID: "c1",
		Date:     "2026-09-01",
		Statuses: map[string]string{
			"s1": attendance.Present,
			"s2": attendance.Absent,
			"s3": attendance.Late,
			"s4": attendance.Excused,
		},
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	// only "absent" counts against the absent column; late and excused
	// students were in the room eventually
	sent := sheets.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, core.SheetsEventAttendance, sent[0].Type)
	assert.Equal(t, "c1", sent[0].Fields["course_id"])
	assert.Equal(t, "2026-09-01", sent[0].Fields["date"])
	assert.Equal(t, 3, sent[0].Fields["present"])
	assert.Equal(t, 1, sent[0].Fields["absent"])
}

func TestServiceUpdate(t *testing.T) {
	svc, sheets := setup(t)
	ctx := context.Background()

	rec, err := svc.Save(ctx, attendance.NewRecord{
		CourseID: "c1",
		Date:     "2026-09-01",
		Statuses: map[string]string{"s1": attendance.Absent},
	})
	assert.NoError(t, err)

	got, err := svc.Update(ctx, rec.ID, map[string]string{"s1": attendance.Present})
	assert.NoError(t, err)
	assert.Equal(t, attendance.Present, got.Statuses["s1"])

	sent := sheets.Sent()
	assert.Len(t, sent, 2) // both the save and the correction are mirrored
	assert.Equal(t, 1, sent[1].Fields["present"])
	assert.Equal(t, 0, sent[1].Fields["absent"])

	_, err = svc.Update(ctx, "missing", nil)
	assert.Equal(t, attendance.ErrNotFound, err)
}

func TestServiceDelete(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	rec, err := svc.Save(ctx, attendance.NewRecord{
		CourseID: "c1",
		Date:     "2026-09-01",
		Statuses: map[string]string{"s1": attendance.Present},
	})
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, rec.ID))
	assert.Equal(t, attendance.ErrNotFound, svc.Delete(ctx, rec.ID))

	recs, err := svc.Query(ctx, nil, 10)
	assert.NoError(t, err)
	assert.Empty(t, recs)
}
