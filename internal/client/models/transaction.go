package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidTransaction = errors.New("invalid transaction")

// Transaction is a single income (Type true) or expense (Type false) record.
type Transaction struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        Date    `json:"date"`
	Type        bool    `json:"type"`
}

// NewTransaction is the create payload; the server assigns the id.
type NewTransaction struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        Date    `json:"date"`
	Type        bool    `json:"type"`
}

func (t Transaction) IsIncome() bool { return t.Type }

func (t Transaction) Kind() string {
	if t.Type {
		return "income"
	}
	return "expense"
}

// Validate checks the fields the entry form requires.
func (n NewTransaction) Validate() error {
	var problems []string
	if strings.TrimSpace(n.Description) == "" {
		problems = append(problems, "description is required")
	}
	if !(n.Amount > 0) || math.IsInf(n.Amount, 0) {
		problems = append(problems, "amount must be greater than zero")
	}
	if strings.TrimSpace(n.Category) == "" {
		problems = append(problems, "category is required")
	}
	if n.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTransaction, strings.Join(problems, "; "))
	}
	return nil
}

// Validate applies the create rules and additionally requires an id.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTransaction)
	}
	return t.Fields().Validate()
}

// Fields strips the id, leaving the editable part of t.
func (t Transaction) Fields() NewTransaction {
	return NewTransaction{
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		Date:        t.Date,
		Type:        t.Type,
	}
}

// WithID attaches a server-assigned id to n.
func (n NewTransaction) WithID(id string) Transaction {
	return Transaction{
		ID:          id,
		Description: n.Description,
		Amount:      n.Amount,
		Category:    n.Category,
		Date:        n.Date,
		Type:        n.Type,
	}
}
