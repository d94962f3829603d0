package student

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/davronbek/proteach/core"
)

// Statuses
const (
	StatusActive    = "active"
	StatusWaiting   = "waiting"
	StatusCompleted = "completed"
	StatusInactive  = "inactive"
)

var Statuses = []string{StatusActive, StatusWaiting, StatusCompleted, StatusInactive}

type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	CourseID     string    `json:"course_id,omitempty"` // empty: unassigned
	Balance      int64     `json:"balance"`
	Status       string    `json:"status"`
	PaymentPlan  string    `json:"payment_plan,omitempty"`
	Username     string    `json:"username,omitempty"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required,phone"`
	CourseID    string `json:"course_id" validate:"omitempty,uuid4"`
	Balance     string `json:"balance"` // display amount, e.g. "200,000 so'm"
	Status      string `json:"status" validate:"omitempty,oneof=active waiting completed inactive"`
	PaymentPlan string `json:"payment_plan"`
	Username    string `json:"username" validate:"omitempty,min=4,alphanum_"`
	Password    string `json:"password" validate:"required_with=Username"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields are left untouched; CourseID may be cleared via AssignCourse.
type UpdateStudent struct {
	Name        string `json:"name"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	Status      string `json:"status" validate:"omitempty,oneof=active waiting completed inactive"`
	PaymentPlan string `json:"payment_plan"`
	Password    string `json:"password"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if phone := core.CleanString(us.Phone); phone != "" {
		us.Phone = phone
	} else {
		us.Phone = orig.Phone
	}
	if us.Status == "" {
		us.Status = orig.Status
	}
	if us.PaymentPlan == "" {
		us.PaymentPlan = orig.PaymentPlan
	}
	return core.Validate.Struct(us)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Status   string `query:"status"`
	CourseID string `query:"course_id"`
}
