package teacher

import (
	"time"

	"github.com/davronbek/proteach/core"
)

// Salary types
const (
	SalaryFixed      = "fixed"
	SalaryPercentage = "percentage"
)

type Teacher struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Subject    string    `json:"subject"`
	Phone      string    `json:"phone"`
	CourseIDs  []string  `json:"course_ids,omitempty"`
	SalaryType string    `json:"salary_type"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// NewTeacher contains information needed to register a new Teacher.
type NewTeacher struct {
	Name       string   `json:"name" validate:"required"`
	Subject    string   `json:"subject" validate:"required"`
	Phone      string   `json:"phone" validate:"omitempty,phone"`
	CourseIDs  []string `json:"course_ids" validate:"omitempty,dive,uuid4"`
	SalaryType string   `json:"salary_type" validate:"omitempty,oneof=fixed percentage"`
}

func (nt *NewTeacher) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	nt.Subject = core.CleanString(nt.Subject)
	nt.Phone = core.CleanString(nt.Phone)
	return core.Validate.Struct(nt)
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
type UpdateTeacher struct {
	Name       string   `json:"name"`
	Subject    string   `json:"subject"`
	Phone      string   `json:"phone" validate:"omitempty,phone"`
	CourseIDs  []string `json:"course_ids" validate:"omitempty,dive,uuid4"`
	SalaryType string   `json:"salary_type" validate:"omitempty,oneof=fixed percentage"`
}

func (ut *UpdateTeacher) Validate(orig Teacher) error {
	if name := core.CleanString(ut.Name); name != "" {
		ut.Name = name
	} else {
		ut.Name = orig.Name
	}
	if subject := core.CleanString(ut.Subject); subject != "" {
		ut.Subject = subject
	} else {
		ut.Subject = orig.Subject
	}
	if phone := core.CleanString(ut.Phone); phone != "" {
		ut.Phone = phone
	} else {
		ut.Phone = orig.Phone
	}
	if ut.CourseIDs == nil {
		ut.CourseIDs = orig.CourseIDs
	}
	if ut.SalaryType == "" {
		ut.SalaryType = orig.SalaryType
	}
	return core.Validate.Struct(ut)
}
