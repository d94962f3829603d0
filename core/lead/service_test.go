package lead_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davronbek/proteach/core"
	"github.com/davronbek/proteach/core/activity"
	"github.com/davronbek/proteach/core/lead"
	"github.com/davronbek/proteach/core/stats"
	dummysheets "github.com/davronbek/proteach/services/sheets/dummy"
	dummydb "github.com/davronbek/proteach/storage/database/dummy"
)

func setup(t *testing.T) (*lead.Service, *stats.Service, *dummysheets.Service) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	logger := core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	statsRepo := dummydb.NewStatsRepository(db)
	rec := activity.NewRecorder(dummydb.NewActivityRepository(db), logger)
	sheets := dummysheets.NewService()
	svc := lead.NewService(dummydb.NewLeadRepository(db), statsRepo, dummydb.NewTransactor(db), rec, sheets)
	return svc, stats.NewService(statsRepo), sheets
}

func TestServiceCreate(t *testing.T) {
	svc, statsSvc, sheets := setup(t)
	ctx := context.Background()

	ld, err := svc.Create(ctx, lead.NewLead{Name: "Aziza", Phone: "+998901112233", Source: "website"})
	assert.NoError(t, err)
	assert.NotEmpty(t, ld.ID)
	assert.Equal(t, lead.StatusNew, ld.Status) // default when none given

	s, err := statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, s.ActiveLeads)

	sent := sheets.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, core.SheetsEventLead, sent[0].Type)
	assert.Equal(t, "Aziza", sent[0].Fields["name"])
	assert.Equal(t, "+998901112233", sent[0].Fields["phone"])
	assert.Equal(t, "website", sent[0].Fields["source"])
	assert.Equal(t, lead.StatusNew, sent[0].Fields["status"])
}

func TestServiceUpdate(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	ld, err := svc.Create(ctx, lead.NewLead{Name: "Aziza", Phone: "+998901112233"})
	assert.NoError(t, err)

	ul := lead.UpdateLead{Status: lead.StatusContacted}
	assert.NoError(t, ul.Validate(ld))
	got, err := svc.Update(ctx, ld.ID, ul)
	assert.NoError(t, err)
	assert.Equal(t, lead.StatusContacted, got.Status)
	assert.Equal(t, "Aziza", got.Name) // untouched fields are kept

	_, err = svc.Update(ctx, "missing", ul)
	assert.Equal(t, lead.ErrNotFound, err)
}

func TestServiceDelete(t *testing.T) {
	svc, statsSvc, _ := setup(t)
	ctx := context.Background()

	ld, err := svc.Create(ctx, lead.NewLead{Name: "Bobur", Phone: "+998909998877"})
	assert.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, ld.ID))
	assert.Equal(t, lead.ErrNotFound, svc.Delete(ctx, ld.ID))

	s, err := statsSvc.Get(ctx)
	assert.NoError(t, err)
	assert.Zero(t, s.ActiveLeads)
}
