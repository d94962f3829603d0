package lead

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/stats"
)

var ErrNotFound = errors.New("lead not found")

type (
	Repository interface {
		CreateLead(ctx context.Context, ld Lead, exec ...core.DBExecutor) (Lead, error)
		QueryLeads(ctx context.Context, limit int, exec ...core.DBExecutor) ([]Lead, error)
		GetLeadByID(ctx context.Context, id string, exec ...core.DBExecutor) (Lead, error)
		UpdateLead(ctx context.Context, ld Lead, exec ...core.DBExecutor) (Lead, error)
		DeleteLead(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service struct {
		repo      Repository
		statsRepo stats.Repository
		tx        core.Transactor
		recorder  *activity.Recorder
		sheets    core.SheetsService
	}
)

func NewService(repo Repository, statsRepo stats.Repository, tx core.Transactor, rec *activity.Recorder, sheets core.SheetsService) *Service {
	return &Service{repo: repo, statsRepo: statsRepo, tx: tx, recorder: rec, sheets: sheets}
}

func (svc *Service) Create(ctx context.Context, nl NewLead) (Lead, error) {
	ld := Lead{
		Name:      nl.Name,
		Phone:     nl.Phone,
		Source:    nl.Source,
		Status:    nl.Status,
		CreatedAt: time.Now().UTC(),
	}
	if ld.Status == "" {
		ld.Status = StatusNew
	}

	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if ld, err = svc.repo.CreateLead(ctx, ld, exec); err != nil {
			return err
		}
		return svc.statsRepo.ApplyDelta(ctx, stats.Delta{Leads: 1}, exec)
	})
	if err != nil {
		return Lead{}, err
	}
	svc.recorder.Record(ctx, activity.KindLead, fmt.Sprintf("lead %q captured", ld.Name), ld.ID)
	svc.sheets.Send(core.SheetsEvent{
		Type:      core.SheetsEventLead,
		Timestamp: ld.CreatedAt,
		Fields: map[string]interface{}{
			"name":   ld.Name,
			"phone":  ld.Phone,
			"source": ld.Source,
			"status": ld.Status,
		},
	})
	return ld, nil
}

func (svc *Service) Query(ctx context.Context, limit int) ([]Lead, error) {
	return svc.repo.QueryLeads(ctx, limit)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Lead, error) {
	return svc.repo.GetLeadByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ul UpdateLead) (Lead, error) {
	ld, err := svc.repo.GetLeadByID(ctx, id)
	if err != nil {
		return Lead{}, err
	}
	ld.Name = ul.Name
	ld.Phone = ul.Phone
	ld.Source = ul.Source
	ld.Status = ul.Status
	return svc.repo.UpdateLead(ctx, ld)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	ld, err := svc.repo.GetLeadByID(ctx, id)
	if err != nil {
		return err
	}
	err = svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		if err := svc.repo.DeleteLead(ctx, id, exec); err != nil {
			return err
		}
		return svc.statsRepo.ApplyDelta(ctx, stats.Delta{Leads: -1}, exec)
	})
	if err != nil {
		return err
	}
	svc.recorder.Record(ctx, activity.KindLead, fmt.Sprintf("lead %q removed", ld.Name), id)
	return nil
}
