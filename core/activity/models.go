package activity

import "time"

// Activity kinds, one per mutating feature.
const (
	KindStudent    = "student"
	KindTeacher    = "teacher"
	KindCourse     = "course"
	KindFinance    = "finance"
	KindLead       = "lead"
	KindAttendance = "attendance"
	KindDeduction  = "deduction"
)

// Activity is one immutable entry of the audit/notification feed.
type Activity struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	EntityID  string    `json:"entity_id,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
