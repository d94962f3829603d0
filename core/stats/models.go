package stats

import "time"

// Stats is the single denormalized counters record maintained alongside the
// entity tables so that the dashboard never needs count queries.
type Stats struct {
	TotalStudents int       `json:"total_students"`
	TotalTeachers int       `json:"total_teachers"`
	TotalCourses  int       `json:"total_courses"`
	ActiveLeads   int       `json:"active_leads"`
	TotalRevenue  int64     `json:"total_revenue"`
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// Delta is a relative adjustment to the counters. Updates are always applied
// as increments, never absolute overwrites, so that concurrent adjustments
// from independent operations compose.
type Delta struct {
	Students int
	Teachers int
	Courses  int
	Leads    int
	Revenue  int64
}

func (d Delta) IsZero() bool {
	return d.Students == 0 && d.Teachers == 0 && d.Courses == 0 && d.Leads == 0 && d.Revenue == 0
}
