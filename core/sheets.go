package core

import "time"

// Sheets event types.
const (
	SheetsEventAttendance = "attendance"
	SheetsEventFinance    = "finance"
	SheetsEventLead       = "lead"
)

// SheetsEvent is one row mirrored to the external spreadsheet automation
// endpoint after a successful attendance, finance or lead mutation.
type SheetsEvent struct {
	Type      string
	Timestamp time.Time
	Fields    map[string]interface{}
}

// SheetsService is any service that can mirror events to the spreadsheet
// channel. Delivery is best-effort: implementations send concurrently, never
// block the caller and never fail it.
type SheetsService interface {
	Send(events ...SheetsEvent)
}
