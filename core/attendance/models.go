package attendance

import (
	"time"

	"github.com/davronbek/proteach/core"
)

// Per-student statuses
const (
	Present = "present"
	Absent  = "absent"
	Late    = "late"
	Excused = "excused"
)

// Record is one course meeting's roll call: a per-student status map.
type Record struct {
	ID        string            `json:"id"`
	CourseID  string            `json:"course_id"`
	Date      string            `json:"date"` // "2006-01-02"
	Statuses  map[string]string `json:"statuses"`
	CreatedAt time.Time         `json:"created_at"` // UTC
}

// NewRecord contains information needed to save a roll call.
type NewRecord struct {
	CourseID string            `json:"course_id" validate:"required,uuid4"`
	Date     string            `json:"date" validate:"required,len=10"`
	Statuses map[string]string `json:"statuses" validate:"required,dive,oneof=present absent late excused"`
}

func (nr *NewRecord) Validate() error {
	nr.Date = core.CleanString(nr.Date)
	return core.Validate.Struct(nr)
}
