package catalog

import (
	"time"

	"github.com/davronbek/proteach/core"
)

// Simple reference entities with no cross-entity invariants.

type Subject struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity,omitempty"`
}

type Video struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// ScheduleEntry is a manually placed class, outside any course's recurring
// schedule.
type ScheduleEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CourseID  string    `json:"course_id,omitempty"`
	Room      string    `json:"room,omitempty"`
	StartsAt  time.Time `json:"starts_at"` // UTC
	EndsAt    time.Time `json:"ends_at"`   // UTC
	CreatedAt time.Time `json:"created_at"`
}

type NewSubject struct {
	Name  string `json:"name" validate:"required"`
	Level string `json:"level"`
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	return core.Validate.Struct(ns)
}

type NewRoom struct {
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"omitempty,gt=0"`
}

func (nr *NewRoom) Validate() error {
	nr.Name = core.CleanString(nr.Name)
	return core.Validate.Struct(nr)
}

type NewVideo struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

func (nv *NewVideo) Validate() error {
	nv.Title = core.CleanString(nv.Title)
	nv.URL = core.CleanString(nv.URL)
	return core.Validate.Struct(nv)
}

type NewScheduleEntry struct {
	Title    string    `json:"title" validate:"required"`
	CourseID string    `json:"course_id" validate:"omitempty,uuid4"`
	Room     string    `json:"room"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

func (ne *NewScheduleEntry) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	return core.Validate.Struct(ne)
}
