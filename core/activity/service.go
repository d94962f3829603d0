package activity

import (
	"context"
	"time"

	"github.com/davronbek/proteach/core"
)

type (
	Repository interface {
		CreateActivity(ctx context.Context, act Activity, exec ...core.DBExecutor) (Activity, error)
		QueryActivities(ctx context.Context, after *core.Cursor, limit int, exec ...core.DBExecutor) ([]Activity, error)
	}

	// Recorder appends audit entries after successful mutations. Writes are
	// best-effort: failures are logged and never propagated to the caller.
	Recorder struct {
		repo Repository
		log  core.Logger
	}
)

func NewRecorder(repo Repository, log core.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

func (rec *Recorder) Record(ctx context.Context, kind, message, entityID string) {
	act := Activity{
		Kind:      kind,
		Message:   message,
		EntityID:  entityID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := rec.repo.CreateActivity(ctx, act); err != nil {
		rec.log.Warn("recording activity", err, map[string]interface{}{"kind": kind, "entity": entityID})
	}
}
