package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/finance"
)

type financeRepository struct {
	db *DB
}

var _ finance.Repository = (*financeRepository)(nil) // interface compliance check

func NewFinanceRepository(db *DB) *financeRepository {
	return &financeRepository{db: db}
}

func (repo *financeRepository) CreateTransaction(ctx context.Context, txn finance.Transaction, exec ...core.DBExecutor) (finance.Transaction, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	txn.ID = uuid.New().String()
	repo.db.finance[txn.ID] = &txn
	return txn, nil
}

func (repo *financeRepository) QueryTransactions(ctx context.Context, after *core.Cursor, limit int, exec ...core.DBExecutor) ([]finance.Transaction, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	txns := make([]finance.Transaction, 0, len(repo.db.finance))
	for _, txn := range repo.db.finance {
		if afterCursor(txn.CreatedAt, txn.ID, after) {
			txns = append(txns, *txn)
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].CreatedAt.Equal(txns[j].CreatedAt) {
			return txns[i].CreatedAt.After(txns[j].CreatedAt)
		}
		return txns[i].ID > txns[j].ID
	})
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

func (repo *financeRepository) GetTransactionByID(ctx context.Context, id string, exec ...core.DBExecutor) (finance.Transaction, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if txn, ok := repo.db.finance[id]; ok {
		return *txn, nil
	}
	return finance.Transaction{}, finance.ErrNotFound
}

func (repo *financeRepository) DeleteTransaction(ctx context.Context, id string, exec ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.finance[id]; !ok {
		return finance.ErrNotFound
	}
	delete(repo.db.finance, id)
	return nil
}
