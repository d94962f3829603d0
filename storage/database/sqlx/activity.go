package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
)

type activityRow struct {
	ID        string      `db:"id"`
	Kind      string      `db:"kind"`
	Message   string      `db:"message"`
	EntityID  null.String `db:"entity_id"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r activityRow) unrow() activity.Activity {
	return activity.Activity{
		ID:        r.ID,
		Kind:      r.Kind,
		Message:   r.Message,
		EntityID:  r.EntityID.String,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *sqlx.DB) *activityRepository {
	return &activityRepository{db: db}
}

func (repo activityRepository) CreateActivity(ctx context.Context, act activity.Activity, exec ...core.DBExecutor) (activity.Activity, error) {
	act.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		INSERT INTO activities (id, kind, message, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		act.ID, act.Kind, act.Message, null.NewString(act.EntityID, act.EntityID != ""), act.CreatedAt,
	)
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "inserting activity")
	}
	return act, nil
}

func (repo activityRepository) QueryActivities(ctx context.Context, after *core.Cursor, limit int, exec ...core.DBExecutor) ([]activity.Activity, error) {
	query := `SELECT * FROM activities`
	var args []interface{}
	if after != nil {
		args = append(args, after.CreatedAt, after.ID)
		query += ` WHERE (created_at, id) < ($1, $2)`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit)
		if after != nil {
			query += ` LIMIT $3`
		} else {
			query += ` LIMIT $1`
		}
	}

	var rows []activityRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	acts := make([]activity.Activity, 0, len(rows))
	for _, r := range rows {
		acts = append(acts, r.unrow())
	}
	return acts, nil
}
