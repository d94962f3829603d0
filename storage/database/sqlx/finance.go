package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/finance"
)

type transactionRow struct {
	ID        string      `db:"id"`
	Title     string      `db:"title"`
	Amount    int64       `db:"amount"`
	Type      string      `db:"type"`
	StudentID null.String `db:"student_id"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r transactionRow) unrow() finance.Transaction {
	return finance.Transaction{
		ID:        r.ID,
		Title:     r.Title,
		Amount:    r.Amount,
		Type:      r.Type,
		StudentID: r.StudentID.String,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type financeRepository struct {
	db *sqlx.DB
}

var _ finance.Repository = (*financeRepository)(nil) // interface compliance check

func NewFinanceRepository(db *sqlx.DB) *financeRepository {
	return &financeRepository{db: db}
}

func (repo financeRepository) CreateTransaction(ctx context.Context, txn finance.Transaction, exec ...core.DBExecutor) (finance.Transaction, error) {
	txn.ID = uuid.New().String()
	_, err := getExec(repo.db, exec).ExecContext(ctx, `
		INSERT INTO finance (id, title, amount, type, student_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		txn.ID, txn.Title, txn.Amount, txn.Type, null.NewString(txn.StudentID, txn.StudentID != ""), txn.CreatedAt,
	)
	if err != nil {
		return finance.Transaction{}, errors.Wrap(err, "inserting transaction")
	}
	return txn, nil
}

func (repo financeRepository) QueryTransactions(ctx context.Context, after *core.Cursor, limit int, exec ...core.DBExecutor) ([]finance.Transaction, error) {
	query := `SELECT * FROM finance`
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

	var rows []transactionRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying transactions")
	}
	txns := make([]finance.Transaction, 0, len(rows))
	for _, r := range rows {
		txns = append(txns, r.unrow())
	}
	return txns, nil
}

func (repo financeRepository) GetTransactionByID(ctx context.Context, id string, exec ...core.DBExecutor) (finance.Transaction, error) {
	query := `SELECT * FROM finance WHERE id = $1`
	if len(exec) > 0 {
		query += ` FOR UPDATE`
	}
	var r transactionRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, query, id); err != nil {
		return finance.Transaction{}, trapNoRowsErr(err, finance.ErrNotFound, "getting transaction")
	}
	return r.unrow(), nil
}

func (repo financeRepository) DeleteTransaction(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := getExec(repo.db, exec).ExecContext(ctx, `DELETE FROM finance WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting transaction")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return finance.ErrNotFound
	}
	return nil
}
