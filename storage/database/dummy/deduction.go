package dummydb

import (
	"context"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/deduction"
)

type deductionRepository struct {
	db *DB
}

var _ deduction.MarkerRepository = (*deductionRepository)(nil) // interface compliance check

func NewDeductionRepository(db *DB) *deductionRepository {
	return &deductionRepository{db: db}
}

func markerKey(courseID, date string) string { return courseID + "|" + date }

func (repo *deductionRepository) CreateMarkerIfAbsent(ctx context.Context, m deduction.Marker, exec ...core.DBExecutor) (bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := markerKey(m.CourseID, m.Date)
	if _, ok := repo.db.markers[key]; ok {
		return false, nil
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	repo.db.markers[key] = m
	return true, nil
}

func (repo *deductionRepository) QueryMarkersByDate(ctx context.Context, date string, exec ...core.DBExecutor) ([]deduction.Marker, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var markers []deduction.Marker
	for _, m := range repo.db.markers {
		if m.Date == date {
			markers = append(markers, m)
		}
	}
	return markers, nil
}
