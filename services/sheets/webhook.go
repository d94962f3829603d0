// Package sheetssvc mirrors events to an external spreadsheet automation
// endpoint (an Apps Script style web app).
package sheetssvc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/davronbek/proteach/core"
)

type webhookService struct {
	conf   core.SheetsConfig
	client *http.Client
	logger core.Logger
}

var _ core.SheetsService = (*webhookService)(nil)

func NewWebhookService(conf core.SheetsConfig, logger core.Logger) *webhookService {
	return &webhookService{
		conf:   conf,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

func (svc webhookService) enabled(typ string) bool {
	if !svc.conf.Enabled || svc.conf.WebhookURL == "" {
		return false
	}
	switch typ {
	case core.SheetsEventAttendance:
		return svc.conf.SyncAttendance
	case core.SheetsEventFinance:
		return svc.conf.SyncFinance
	case core.SheetsEventLead:
		return svc.conf.SyncLeads
	}
	return false
}

func (svc webhookService) Send(events ...core.SheetsEvent) {
	for _, evt := range events {
		if !svc.enabled(evt.Type) {
			continue
		}
		evt := evt
		go func() {
			if err := svc.send(evt); err != nil {
				svc.logger.Error(fmt.Sprintf("mirroring %s event: %v", evt.Type, err), err)
			}
		}()
	}
}

func (svc webhookService) send(evt core.SheetsEvent) error {
	// event fields spread at the top level next to the envelope keys; that
	// is the row shape the spreadsheet script expects
	payload := map[string]interface{}{
		"type":      evt.Type,
		"timestamp": evt.Timestamp.Format(time.RFC3339),
		"format":    svc.conf.Format,
		"design":    svc.conf.Design,
	}
	for k, v := range evt.Fields {
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	// text/plain skips the endpoint's CORS preflight; the body is still JSON.
	res, err := svc.client.Post(svc.conf.WebhookURL, "text/plain", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// the endpoint reports success as a 200/302 or a body echoing "Success"
	if res.StatusCode == http.StatusOK || res.StatusCode == http.StatusFound {
		return nil
	}
	resBody, _ := ioutil.ReadAll(io.LimitReader(res.Body, 1024))
	if strings.Contains(string(resBody), "Success") {
		return nil
	}
	return fmt.Errorf("webhook status %d: %s", res.StatusCode, resBody)
}
