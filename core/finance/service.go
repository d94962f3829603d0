package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/stats"
)

var ErrNotFound = errors.New("transaction not found")

type (
	Repository interface {
		CreateTransaction(ctx context.Context, txn Transaction, exec ...core.DBExecutor) (Transaction, error)
		QueryTransactions(ctx context.Context, after *core.Cursor, limit int, exec ...core.DBExecutor) ([]Transaction, error)
		// GetTransactionByID locks the row for update when called inside a transaction.
		GetTransactionByID(ctx context.Context, id string, exec ...core.DBExecutor) (Transaction, error)
		DeleteTransaction(ctx context.Context, id string, exec ...core.DBExecutor) error
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

// Add records a transaction and moves total revenue by the parsed amount in
// the same commit. An unparseable amount defaults to 0 and is still recorded.
func (svc *Service) Add(ctx context.Context, nt NewTransaction) (Transaction, error) {
	txn := Transaction{
		Title:     nt.Title,
		Amount:    core.ParseAmount(nt.Amount),
		Type:      nt.Type,
		StudentID: nt.StudentID,
		CreatedAt: time.Now().UTC(),
	}
	if txn.Type == TypeExpense && txn.Amount > 0 {
		txn.Amount = -txn.Amount
	}

	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if txn, err = svc.repo.CreateTransaction(ctx, txn, exec); err != nil {
			return err
		}
		return svc.statsRepo.ApplyDelta(ctx, stats.Delta{Revenue: txn.Amount}, exec)
	})
	if err != nil {
		return Transaction{}, err
	}
	svc.recorder.Record(ctx, activity.KindFinance, fmt.Sprintf("transaction %q recorded", txn.Title), txn.ID)
	svc.sheets.Send(core.SheetsEvent{
		Type:      core.SheetsEventFinance,
		Timestamp: txn.CreatedAt,
		Fields: map[string]interface{}{
			"title":  txn.Title,
			"amount": txn.Amount,
			"kind":   txn.Type,
		},
	})
	return txn, nil
}

// Delete reverses the transaction: the row is read and removed and the
// compensating revenue decrement applied within one atomic commit.
func (svc *Service) Delete(ctx context.Context, id string) error {
	var txn Transaction
	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		if txn, err = svc.repo.GetTransactionByID(ctx, id, exec); err != nil {
			return err
		}
		if err = svc.repo.DeleteTransaction(ctx, id, exec); err != nil {
			return err
		}
		return svc.statsRepo.ApplyDelta(ctx, stats.Delta{Revenue: -txn.Amount}, exec)
	})
	if err != nil {
		return err
	}
	svc.recorder.Record(ctx, activity.KindFinance, fmt.Sprintf("transaction %q reversed", txn.Title), id)
	return nil
}

// Query returns a recency-ordered page of transactions starting after the cursor.
func (svc *Service) Query(ctx context.Context, after *core.Cursor, limit int) ([]Transaction, error) {
	return svc.repo.QueryTransactions(ctx, after, limit)
}
