package models

import "time"

// Transaction is one income (Type true) or expense (Type false) record.
type Transaction struct {
	ID          string
	UserID      string
	Date        time.Time
	Description string
	Category    string
	Amount      float64
	Type        bool
}

// TransactionPatch carries the fields of a partial update; nil means
// "leave unchanged".
type TransactionPatch struct {
	Date        *time.Time
	Description *string
	Category    *string
	Amount      *float64
	Type        *bool
}

// Empty reports whether the patch changes nothing.
func (p TransactionPatch) Empty() bool {
	return p.Date == nil && p.Description == nil && p.Category == nil && p.Amount == nil && p.Type == nil
}
