package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) CreateActivity(ctx context.Context, act activity.Activity, exec ...core.DBExecutor) (activity.Activity, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	act.ID = uuid.New().String()
	repo.db.activities[act.ID] = &act
	return act, nil
}

func (repo *activityRepository) QueryActivities(ctx context.Context, after *core.Cursor, limit int, exec ...core.DBExecutor) ([]activity.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	acts := make([]activity.Activity, 0, len(repo.db.activities))
	for _, act := range repo.db.activities {
		if afterCursor(act.CreatedAt, act.ID, after) {
			acts = append(acts, *act)
		}
	}
	sort.Slice(acts, func(i, j int) bool {
		if !acts[i].CreatedAt.Equal(acts[j].CreatedAt) {
			return acts[i].CreatedAt.After(acts[j].CreatedAt)
		}
		return acts[i].ID > acts[j].ID
	})
	if limit > 0 && len(acts) > limit {
		acts = acts[:limit]
	}
	return acts, nil
}
