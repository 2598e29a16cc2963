package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TransactionType distinguishes income from expense entries
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType validates a raw type value
func ParseTransactionType(raw string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeIncome:
		return TypeIncome, nil
	case TypeExpense:
		return TypeExpense, nil
	}
	return "", fmt.Errorf("invalid transaction type %q: want %q or %q", raw, TypeIncome, TypeExpense)
}

// Opposite returns the other transaction type
func (t TransactionType) Opposite() TransactionType {
	if t == TypeIncome {
		return TypeExpense
	}
	return TypeIncome
}

// Label is the capitalized form shown in selectors
func (t TransactionType) Label() string {
	if t == TypeIncome {
		return "Income"
	}
	return "Expense"
}

// TransactionID is an opaque, server-assigned identifier. The API may
// send it as a JSON number or a JSON string.
type TransactionID string

// UnmarshalJSON accepts both numeric and string identifiers
func (id *TransactionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode transaction id: %w", err)
		}
		*id = TransactionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode transaction id: %w", err)
	}
	*id = TransactionID(n.String())
	return nil
}

// MarshalJSON writes numeric identifiers back as numbers
func (id TransactionID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String implements fmt.Stringer
func (id TransactionID) String() string {
	return string(id)
}

// Transaction represents a financial transaction as returned by the API
type Transaction struct {
	ID          TransactionID   `json:"id"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Date        string          `json:"date,omitempty"`
	UserID      int64           `json:"user_id,omitempty"`
}

// Title is the primary line of a rendered transaction
func (t Transaction) Title() string {
	return fmt.Sprintf("%s - %s", t.Category, t.Description)
}

// AmountLabel is the secondary line of a rendered transaction. Anything
// that is not income renders with a minus sign.
func (t Transaction) AmountLabel() string {
	sign := "-"
	if t.Type == TypeIncome {
		sign = "+"
	}
	return fmt.Sprintf("%s$%s", sign, FormatAmount(t.Amount))
}

// FormatAmount renders an amount in its shortest decimal form (12.5, 100)
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// TransactionCreate is the request body for creating or replacing a
// transaction. A nil Amount is sent as null.
type TransactionCreate struct {
	Amount      *float64        `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
}
