package finance

import (
	"time"

	"github.com/davronbek/proteach/core"
)

// Transaction types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

type Transaction struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"` // signed
	Type      string    `json:"type"`
	StudentID string    `json:"student_id,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewTransaction contains information needed to record a Transaction.
// Amount is the display string as entered, e.g. "+$100" or "1,200,000 so'm".
type NewTransaction struct {
	Title     string `json:"title" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=income expense"`
	StudentID string `json:"student_id" validate:"omitempty,uuid4"`
}

func (nt *NewTransaction) Validate() error {
	nt.Title = core.CleanString(nt.Title)
	nt.Amount = core.CleanString(nt.Amount)
	return core.Validate.Struct(nt)
}
