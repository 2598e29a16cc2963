package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Draft is the unsaved state of the "Add New Transaction" form
type Draft struct {
	Amount      *float64
	Category    string
	Description string
	Type        TransactionType
}

// NewDraft returns the empty form defaults
func NewDraft() Draft {
	return Draft{Type: TypeExpense}
}

// SetAmount parses amount text the way a numeric input does. Empty text
// clears the amount; text that is not a number is rejected and the draft
// keeps its previous amount.
func (d *Draft) SetAmount(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		d.Amount = nil
		return nil
	}
	amount, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", text, err)
	}
	d.Amount = &amount
	return nil
}

// AmountText is the amount as it would appear in the input field
func (d Draft) AmountText() string {
	if d.Amount == nil {
		return ""
	}
	return FormatAmount(*d.Amount)
}

// IsEmpty reports whether the draft equals NewDraft()
func (d Draft) IsEmpty() bool {
	return d.Amount == nil && d.Category == "" && d.Description == "" && d.Type == TypeExpense
}

// Request builds the create body from the draft
func (d Draft) Request() TransactionCreate {
	req := TransactionCreate{
		Category:    d.Category,
		Description: d.Description,
		Type:        d.Type,
	}
	if d.Amount != nil {
		amount := *d.Amount
		req.Amount = &amount
	}
	return req
}
