package sheetssvc

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/davronbek/proteach/core"
)

type capturedRequest struct {
	contentType string
	body        map[string]interface{}
}

func captureServer(t *testing.T) (*httptest.Server, chan capturedRequest) {
	t.Helper()

	reqs := make(chan capturedRequest, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding webhook body failed, %v", err)
		}
		reqs <- capturedRequest{contentType: r.Header.Get("Content-Type"), body: body}
		w.WriteHeader(http.StatusOK)
	}))
	return srv, reqs
}

func testLogger() core.Logger {
	return core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
}

// The endpoint consumes one flat JSON object per event: the envelope keys
// and the event fields side by side, not nested.
func TestWebhookPayloadShape(t *testing.T) {
	srv, reqs := captureServer(t)
	defer srv.Close()

	svc := NewWebhookService(core.SheetsConfig{
		Enabled:     true,
		WebhookURL:  srv.URL,
		Format:      "rows",
		Design:      "default",
		SyncFinance: true,
	}, testLogger())

	ts := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	svc.Send(core.SheetsEvent{
		Type:      core.SheetsEventFinance,
		Timestamp: ts,
		Fields: map[string]interface{}{
			"title":  "Tuition payment",
			"amount": 250000,
			"kind":   "income",
		},
	})

	select {
	case req := <-reqs:
		assert.Equal(t, "text/plain", req.contentType)
		assert.Equal(t, "finance", req.body["type"])
		assert.Equal(t, "2026-09-01T12:30:00Z", req.body["timestamp"])
		assert.Equal(t, "rows", req.body["format"])
		assert.Equal(t, "default", req.body["design"])
		assert.Equal(t, "Tuition payment", req.body["title"])
		assert.Equal(t, float64(250000), req.body["amount"])
		assert.Equal(t, "income", req.body["kind"])
		assert.NotContains(t, req.body, "fields")
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was never called")
	}
}

func TestWebhookPerTypeSwitches(t *testing.T) {
	srv, reqs := captureServer(t)
	defer srv.Close()

	svc := NewWebhookService(core.SheetsConfig{
		Enabled:    true,
		WebhookURL: srv.URL,
		SyncLeads:  true, // finance and attendance stay off
	}, testLogger())

	svc.Send(
		core.SheetsEvent{Type: core.SheetsEventFinance, Timestamp: time.Now(), Fields: map[string]interface{}{"title": "skip"}},
		core.SheetsEvent{Type: core.SheetsEventLead, Timestamp: time.Now(), Fields: map[string]interface{}{"name": "Aziza"}},
	)

	select {
	case req := <-reqs:
		assert.Equal(t, "lead", req.body["type"])
		assert.Equal(t, "Aziza", req.body["name"])
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was never called")
	}
	select {
	case req := <-reqs:
		t.Fatalf("unexpected webhook call for %v", req.body["type"])
	case <-time.After(100 * time.Millisecond):
	}
}
