package lead

import (
	"time"

	"github.com/davronbek/proteach/core"
)

// Statuses
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusEnrolled  = "enrolled"
	StatusLost      = "lost"
)

type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Source    string    `json:"source,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewLead contains the contact info of a prospective student.
type NewLead struct {
	Name   string `json:"name" validate:"required"`
	Phone  string `json:"phone" validate:"required,phone"`
	Source string `json:"source"`
	Status string `json:"status" validate:"omitempty,oneof=new contacted enrolled lost"`
}

func (nl *NewLead) Validate() error {
	nl.Name = core.CleanString(nl.Name)
	nl.Phone = core.CleanString(nl.Phone)
	return core.Validate.Struct(nl)
}

// UpdateLead defines what information may be provided to modify an existing Lead.
type UpdateLead struct {
	Name   string `json:"name"`
	Phone  string `json:"phone" validate:"omitempty,phone"`
	Source string `json:"source"`
	Status string `json:"status" validate:"omitempty,oneof=new contacted enrolled lost"`
}

func (ul *UpdateLead) Validate(orig Lead) error {
	if name := core.CleanString(ul.Name); name != "" {
		ul.Name = name
	} else {
		ul.Name = orig.Name
	}
	if phone := core.CleanString(ul.Phone); phone != "" {
		ul.Phone = phone
	} else {
		ul.Phone = orig.Phone
	}
	if ul.Source == "" {
		ul.Source = orig.Source
	}
	if ul.Status == "" {
		ul.Status = orig.Status
	}
	return core.Validate.Struct(ul)
}
