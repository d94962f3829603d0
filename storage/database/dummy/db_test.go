package dummydb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/deduction"
	"github.com/davronbek/proteach/core/stats"
	"github.com/davronbek/proteach/core/student"
)

// A failing InTx must leave the store exactly as it was, including records
// that were mutated in place and the stats counters.
func TestTransactorRollback(t *testing.T) {
	db, err := Open()
	assert.NoError(t, err)
	ctx := context.Background()

	students := NewStudentRepository(db)
	markers := NewDeductionRepository(db)
	statsRepo := NewStatsRepository(db)

	std, err := students.CreateStudent(ctx, student.Student{Name: "Madina", Balance: 100})
	assert.NoError(t, err)

	boom := errors.New("boom")
	tx := NewTransactor(db)
	err = tx.InTx(ctx, func(exec core.DBExecutor) error {
		if err := students.AdjustStudentBalance(ctx, std.ID, -40, exec); err != nil {
			return err
		}
		if _, err := students.CreateStudent(ctx, student.Student{Name: "Extra"}, exec); err != nil {
			return err
		}
		if _, err := markers.CreateMarkerIfAbsent(ctx, deduction.Marker{CourseID: "c1", Date: "2026-09-07"}, exec); err != nil {
			return err
		}
		if err := statsRepo.ApplyDelta(ctx, stats.Delta{Revenue: -40}, exec); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)

	got, err := students.GetStudentByID(ctx, std.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), got.Balance)

	all, err := students.QueryStudents(ctx, nil, nil, 0)
	assert.NoError(t, err)
	assert.Len(t, all, 1)

	created, err := markers.CreateMarkerIfAbsent(ctx, deduction.Marker{CourseID: "c1", Date: "2026-09-07"})
	assert.NoError(t, err)
	assert.True(t, created) // the rolled-back claim is gone

	s, err := statsRepo.GetStats(ctx)
	assert.NoError(t, err)
	assert.Zero(t, s.TotalRevenue)
}

func TestTransactorCommit(t *testing.T) {
	db, err := Open()
	assert.NoError(t, err)
	ctx := context.Background()

	students := NewStudentRepository(db)
	tx := NewTransactor(db)
	err = tx.InTx(ctx, func(exec core.DBExecutor) error {
		_, err := students.CreateStudent(ctx, student.Student{Name: "Madina"}, exec)
		return err
	})
	assert.NoError(t, err)

	all, err := students.QueryStudents(ctx, nil, nil, 0)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}
