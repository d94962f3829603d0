// Package dummysheets records mirrored events in memory for tests.
package dummysheets

import (
	"sync"

	"github.com/davronbek/proteach/core"
)

type Service struct {
	mu   sync.Mutex
	sent []core.SheetsEvent
}

var _ core.SheetsService = (*Service)(nil)

func NewService() *Service {
	return &Service{}
}

func (svc *Service) Send(events ...core.SheetsEvent) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sent = append(svc.sent, events...)
}

// Sent returns a copy of every recorded event.
func (svc *Service) Sent() []core.SheetsEvent {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.SheetsEvent(nil), svc.sent...)
}

// Reset clears the recorded events between test cases.
func (svc *Service) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sent = nil
}
