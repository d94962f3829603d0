package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
)

var ErrNotFound = errors.New("attendance record not found")

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
		QueryRecords(ctx context.Context, after *core.Cursor, limit int, exec ...core.DBExecutor) ([]Record, error)
		GetRecordByID(ctx context.Context, id string, exec ...core.DBExecutor) (Record, error)
		UpdateRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
		DeleteRecord(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo     Repository
		recorder *activity.Recorder
		sheets   core.SheetsService
	}
)

func NewService(repo Repository, rec *activity.Recorder, sheets core.SheetsService) *Service {
	return &Service{repo: repo, recorder: rec, sheets: sheets}
}

func (svc *Service) Save(ctx context.Context, nr NewRecord) (Record, error) {
	rec := Record{
		CourseID:  nr.CourseID,
		Date:      nr.Date,
		Statuses:  nr.Statuses,
		CreatedAt: time.Now().UTC(),
	}
	rec, err := svc.repo.CreateRecord(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	svc.recorder.Record(ctx, activity.KindAttendance,
		fmt.Sprintf("attendance saved for course %s on %s", rec.CourseID, rec.Date), rec.ID)
	svc.mirror(rec)
	return rec, nil
}

func (svc *Service) Update(ctx context.Context, id string, statuses map[string]string) (Record, error) {
	rec, err := svc.repo.GetRecordByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	rec.Statuses = statuses
	if rec, err = svc.repo.UpdateRecord(ctx, rec); err != nil {
		return Record{}, err
	}
	svc.mirror(rec)
	return rec, nil
}

func (svc *Service) Query(ctx context.Context, after *core.Cursor, limit int) ([]Record, error) {
	return svc.repo.QueryRecords(ctx, after, limit)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Record, error) {
	return svc.repo.GetRecordByID(ctx, id)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteRecord(ctx, id)
}

func (svc *Service) mirror(rec Record) {
	var present, absent int
	for _, s := range rec.Statuses {
		if s == Absent {
			absent++
		} else {
			present++
		}
	}
	svc.sheets.Send(core.SheetsEvent{
		Type:      core.SheetsEventAttendance,
		Timestamp: rec.CreatedAt,
		Fields: map[string]interface{}{
			"course_id": rec.CourseID,
			"date":      rec.Date,
			"present":   present,
			"absent":    absent,
		},
	})
}
