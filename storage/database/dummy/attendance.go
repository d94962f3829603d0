package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/attendance"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record, exec ...core.DBExecutor) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rec.ID = uuid.New().String()
	repo.db.attendance[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, after *core.Cursor, limit int, exec ...core.DBExecutor) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0, len(repo.db.attendance))
	for _, rec := range repo.db.attendance {
		if afterCursor(rec.CreatedAt, rec.ID, after) {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID > recs[j].ID
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (repo *attendanceRepository) GetRecordByID(ctx context.Context, id string, exec ...core.DBExecutor) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.attendance[id]; ok {
		return *rec, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) UpdateRecord(ctx context.Context, rec attendance.Record, exec ...core.DBExecutor) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.attendance[rec.ID]; !ok {
		return attendance.Record{}, attendance.ErrNotFound
	}
	repo.db.attendance[rec.ID] = &rec
	return rec, nil
}

func (repo *attendanceRepository) DeleteRecord(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.attendance[id]; !ok {
		return attendance.ErrNotFound
	}
	delete(repo.db.attendance, id)
	return nil
}
