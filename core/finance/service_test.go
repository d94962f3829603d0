package finance_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/finance"
	"github.com/davronbek/proteach/core/stats"
	dummysheets "github.com/davronbek/proteach/services/sheets/dummy"
	dummydb "github.com/davronbek/proteach/storage/database/dummy"
)

func setup(t *testing.T) (*finance.Service, *stats.Service, *dummysheets.Service) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	logger := core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	statsRepo := dummydb.NewStatsRepository(db)
	rec := activity.NewRecorder(dummydb.NewActivityRepository(db), logger)
	sheets := dummysheets.NewService()
	svc := finance.NewService(dummydb.NewFinanceRepository(db), statsRepo, dummydb.NewTransactor(db), rec, sheets)
	return svc, stats.NewService(statsRepo), sheets
}

func TestServiceAdd(t *testing.T) {
	svc, statsSvc, sheets := setup(t)
	ctx := context.Background()

	txn, err := svc.Add(ctx, finance.NewTransaction{
		Title:  "Tuition payment",
		Amount: "+$100",
		Type:   finance.TypeIncome,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(100), txn.Amount)

	s, err := statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), s.TotalRevenue)

	sent := sheets.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, core.SheetsEventFinance, sent[0].Type)
	assert.Equal(t, int64(100), sent[0].Fields["amount"])
}

// Expense amounts are normalized to negative regardless of how the amount
// was typed in.
func TestServiceAddExpense(t *testing.T) {
	svc, statsSvc, _ := setup(t)
	ctx := context.Background()

	txn, err := svc.Add(ctx, finance.NewTransaction{
		Title:  "Rent",
		Amount: "45,000 so'm",
		Type:   finance.TypeExpense,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(-45000), txn.Amount)

	s, err := statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(-45000), s.TotalRevenue)
}

func TestServiceAddUnparseableAmount(t *testing.T) {
	svc, statsSvc, _ := setup(t)
	ctx := context.Background()

	txn, err := svc.Add(ctx, finance.NewTransaction{Title: "Typo", Amount: "free!", Type: finance.TypeIncome})
	assert.NoError(t, err)
	assert.Zero(t, txn.Amount)

	s, err := statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Zero(t, s.TotalRevenue)
}

// Deleting a transaction rolls its amount back out of total revenue, so an
// add/delete pair leaves the counters exactly where they started.
func TestServiceDelete(t *testing.T) {
	svc, statsSvc, _ := setup(t)
	ctx := context.Background()

	txn, err := svc.Add(ctx, finance.NewTransaction{Title: "Tuition", Amount: "250000", Type: finance.TypeIncome})
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, txn.ID))
	assert.Equal(t, finance.ErrNotFound, svc.Delete(ctx, txn.ID))

	s, err := statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Zero(t, s.TotalRevenue)

	txns, err := svc.Query(ctx, nil, 10)
	assert.NoError(t, err)
	assert.Empty(t, txns)
}
