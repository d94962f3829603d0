package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/lead"
)

type leadRepository struct {
	db *DB
}

var _ lead.Repository = (*leadRepository)(nil) // interface compliance check

func NewLeadRepository(db *DB) *leadRepository {
	return &leadRepository{db: db}
}

func (repo *leadRepository) CreateLead(ctx context.Context, ld lead.Lead, exec ...core.DBExecutor) (lead.Lead, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ld.ID = uuid.New().String()
	repo.db.leads[ld.ID] = &ld
	return ld, nil
}

func (repo *leadRepository) QueryLeads(ctx context.Context, limit int, exec ...core.DBExecutor) ([]lead.Lead, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	leads := make([]lead.Lead, 0, len(repo.db.leads))
	for _, ld := range repo.db.leads {
		leads = append(leads, *ld)
	}
	sort.Slice(leads, func(i, j int) bool {
		if !leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].CreatedAt.After(leads[j].CreatedAt)
		}
		return leads[i].ID > leads[j].ID
	})
	if limit > 0 && len(leads) > limit {
		leads = leads[:limit]
	}
	return leads, nil
}

func (repo *leadRepository) GetLeadByID(ctx context.Context, id string, exec ...core.DBExecutor) (lead.Lead, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ld, ok := repo.db.leads[id]; ok {
		return *ld, nil
	}
	return lead.Lead{}, lead.ErrNotFound
}

func (repo *leadRepository) UpdateLead(ctx context.Context, ld lead.Lead, exec ...core.DBExecutor) (lead.Lead, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.leads[ld.ID]; !ok {
		return lead.Lead{}, lead.ErrNotFound
	}
	repo.db.leads[ld.ID] = &ld
	return ld, nil
}

func (repo *leadRepository) DeleteLead(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.leads[id]; !ok {
		return lead.ErrNotFound
	}
	delete(repo.db.leads, id)
	return nil
}
