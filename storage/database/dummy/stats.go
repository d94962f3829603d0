package dummydb

import (
	"context"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/stats"
)

type statsRepository struct {
	db *DB
}

var _ stats.Repository = (*statsRepository)(nil) // interface compliance check

func NewStatsRepository(db *DB) *statsRepository {
	return &statsRepository{db: db}
}

func (repo *statsRepository) GetStats(ctx context.Context, exec ...core.DBExecutor) (stats.Stats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.stats, nil
}

func (repo *statsRepository) ApplyDelta(ctx context.Context, d stats.Delta, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.stats.TotalStudents += d.Students
	repo.db.stats.TotalTeachers += d.Teachers
	repo.db.stats.TotalCourses += d.Courses
	repo.db.stats.ActiveLeads += d.Leads
	repo.db.stats.TotalRevenue += d.Revenue
	repo.db.stats.UpdatedAt = time.Now().UTC()
	return nil
}
