package deduction

import "time"

// Marker is the idempotency sentinel for one (course, calendar day) pair.
// Its existence guarantees that the deduction for that course and day has
// already been committed.
type Marker struct {
	CourseID  string    `json:"course_id"`
	Date      string    `json:"date"` // "2006-01-02"
	CreatedAt time.Time `json:"created_at"`
}

// Summary reports one sweep's effects.
type Summary struct {
	Date            string `json:"date"`
	CoursesMatched  int    `json:"courses_matched"`
	CoursesCharged  int    `json:"courses_charged"`
	StudentsCharged int    `json:"students_charged"`
	TotalDeducted   int64  `json:"total_deducted"`
}
