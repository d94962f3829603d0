package course

import (
	"strings"
	"time"

	"github.com/davronbek/proteach/core"
)

// Statuses
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Weekdays is a set of week days encoded as a bitmask (bit 0 = Monday).
// It replaces the freeform day-name tokens of the legacy schedule encoding.
type Weekdays uint8

const (
	Monday Weekdays = 1 << iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = []struct {
	day  Weekdays
	name string
}{
	{Monday, "monday"},
	{Tuesday, "tuesday"},
	{Wednesday, "wednesday"},
	{Thursday, "thursday"},
	{Friday, "friday"},
	{Saturday, "saturday"},
	{Sunday, "sunday"},
}

// FromTime maps a time.Weekday onto the bitmask.
func FromTime(d time.Weekday) Weekdays {
	if d == time.Sunday {
		return Sunday
	}
	return Monday << uint(d-time.Monday)
}

func (w Weekdays) Has(d Weekdays) bool { return w&d != 0 }

func (w Weekdays) Add(d Weekdays) Weekdays { return w | d }

func (w Weekdays) String() string {
	var names []string
	for _, e := range weekdayNames {
		if w.Has(e.day) {
			names = append(names, e.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseWeekdays parses a comma-separated list of week day names.
// Unrecognized tokens are ignored.
func ParseWeekdays(s string) Weekdays {
	var w Weekdays
	for _, tok := range strings.Split(s, ",") {
		tok = core.CleanString(tok, true /* lower */)
		for _, e := range weekdayNames {
			if e.name == tok {
				w = w.Add(e.day)
			}
		}
	}
	return w
}

type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Days         Weekdays  `json:"days"`
	Daily        bool      `json:"daily"`
	StartTime    string    `json:"start_time,omitempty"` // "HH:MM", empty when unscheduled
	MonthlyPrice int64     `json:"monthly_price"`
	Room         string    `json:"room,omitempty"`
	TeacherID    string    `json:"teacher_id,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

// MeetsOn reports whether the course is scheduled on the given day.
func (c Course) MeetsOn(d time.Weekday) bool {
	return c.Daily || c.Days.Has(FromTime(d))
}

// DailyFee is the per-diem tuition: the monthly price spread over 12 class
// days, rounded to the nearest integer.
func (c Course) DailyFee() int64 {
	if c.MonthlyPrice <= 0 {
		return 0
	}
	return (c.MonthlyPrice + 6) / 12
}

// NewCourse contains information needed to open a new Course.
type NewCourse struct {
	Title        string `json:"title" validate:"required"`
	Days         string `json:"days"`  // comma-separated week day names
	Daily        bool   `json:"daily"` // overrides Days
	StartTime    string `json:"start_time" validate:"omitempty,len=5"`
	MonthlyPrice string `json:"monthly_price"` // display amount
	Room         string `json:"room"`
	TeacherID    string `json:"teacher_id" validate:"omitempty,uuid4"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.StartTime = core.CleanString(nc.StartTime)
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Title        string `json:"title"`
	Days         string `json:"days"`
	Daily        *bool  `json:"daily"`
	StartTime    string `json:"start_time" validate:"omitempty,len=5"`
	MonthlyPrice string `json:"monthly_price"`
	Room         string `json:"room"`
	TeacherID    string `json:"teacher_id" validate:"omitempty,uuid4"`
	Status       string `json:"status" validate:"omitempty,oneof=active archived"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	uc.StartTime = core.CleanString(uc.StartTime)
	return core.Validate.Struct(uc)
}
