package stats

import (
	"context"

	"github.com/davronbek/proteach/core"
)

type (
	Repository interface {
		GetStats(ctx context.Context, exec ...core.DBExecutor) (Stats, error)
		// ApplyDelta adds d to the counters record in place.
		ApplyDelta(ctx context.Context, d Delta, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Get(ctx context.Context) (Stats, error) {
	return svc.repo.GetStats(ctx)
}
