package schooldata_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/finance"
	"github.com/davronbek/proteach/core/lead"
	"github.com/davronbek/proteach/core/schooldata"
	"github.com/davronbek/proteach/core/student"
	dummydb "github.com/davronbek/proteach/storage/database/dummy"
)

type fixture struct {
	db      *dummydb.DB
	watcher *dummydb.Watcher
	hub     *schooldata.Hub
}

func setup(t *testing.T) fixture {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	logger := core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	watcher := &dummydb.Watcher{}
	hub := schooldata.NewHub(schooldata.Repositories{
		Students:   dummydb.NewStudentRepository(db),
		Teachers:   dummydb.NewTeacherRepository(db),
		Courses:    dummydb.NewCourseRepository(db),
		Catalog:    dummydb.NewCatalogRepository(db),
		Finance:    dummydb.NewFinanceRepository(db),
		Attendance: dummydb.NewAttendanceRepository(db),
		Activities: dummydb.NewActivityRepository(db),
		Leads:      dummydb.NewLeadRepository(db),
	}, watcher, logger)
	return fixture{db: db, watcher: watcher, hub: hub}
}

func (f fixture) seedTransactions(t *testing.T, n int) {
	t.Helper()

	repo := dummydb.NewFinanceRepository(f.db)
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		_, err := repo.CreateTransaction(context.Background(), finance.Transaction{
			Title:     fmt.Sprintf("Payment %03d", i+1),
			Amount:    100,
			Type:      finance.TypeIncome,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		assert.NoError(t, err)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHubFeedPagination(t *testing.T) {
	f := setup(t)
	f.seedTransactions(t, 45)

	ctx := context.Background()
	assert.NoError(t, f.hub.Start(ctx))
	defer f.hub.Close()

	txns := f.hub.Finance()
	assert.Len(t, txns, 20)
	assert.Equal(t, "Payment 045", txns[0].Title) // newest first
	assert.Equal(t, "Payment 026", txns[19].Title)

	assert.NoError(t, f.hub.LoadMoreFinance(ctx))
	assert.Len(t, f.hub.Finance(), 40)

	assert.NoError(t, f.hub.LoadMoreFinance(ctx))
	txns = f.hub.Finance()
	assert.Len(t, txns, 45)
	assert.Equal(t, "Payment 001", txns[44].Title)

	// the feed is exhausted: further calls stay a no-op
	assert.NoError(t, f.hub.LoadMoreFinance(ctx))
	assert.NoError(t, f.hub.LoadMoreFinance(ctx))
	assert.Len(t, f.hub.Finance(), 45)
}

func TestHubReady(t *testing.T) {
	f := setup(t)

	assert.NoError(t, f.hub.Start(context.Background()))
	defer f.hub.Close()

	assert.False(t, f.hub.Ready()) // settle delay has not elapsed yet
	waitFor(t, f.hub.Ready)
}

func TestHubReloadsOnChange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	assert.NoError(t, f.hub.Start(ctx))
	defer f.hub.Close()
	assert.Empty(t, f.hub.Students())

	repo := dummydb.NewStudentRepository(f.db)
	_, err := repo.CreateStudent(ctx, student.Student{Name: "Dilnoza", Phone: "+998901112233", Status: student.StatusActive})
	assert.NoError(t, err)
	f.watcher.Emit(core.CollectionStudents)

	waitFor(t, func() bool { return len(f.hub.Students()) == 1 })
	assert.Equal(t, "Dilnoza", f.hub.Students()[0].Name)
}

func TestHubCloseStopsMirroring(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	assert.NoError(t, f.hub.Start(ctx))
	f.hub.Close()

	repo := dummydb.NewLeadRepository(f.db)
	_, err := repo.CreateLead(ctx, lead.Lead{Name: "Walk-in", Phone: "+998900000000", Status: lead.StatusNew})
	assert.NoError(t, err)
	f.watcher.Emit(core.CollectionLeads)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, f.hub.Leads())
}
