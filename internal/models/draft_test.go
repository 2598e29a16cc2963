package models

import (
	"encoding/json"
	"testing"
)

func TestNewDraftDefaults(t *testing.T) {
	draft := NewDraft()
	if !draft.IsEmpty() {
		t.Fatalf("new draft should be empty: %+v", draft)
	}
	if draft.Type != TypeExpense {
		t.Errorf("default type = %q, want expense", draft.Type)
	}
	if draft.AmountText() != "" {
		t.Errorf("default amount text = %q, want empty", draft.AmountText())
	}

	// The empty draft sends a null amount.
	encoded, err := json.Marshal(draft.Request())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"amount":null,"category":"","description":"","type":"expense"}`
	if string(encoded) != want {
		t.Errorf("empty request = %s, want %s", encoded, want)
	}
}

func TestDraftSetAmount(t *testing.T) {
	draft := NewDraft()
	if err := draft.SetAmount("100"); err != nil {
		t.Fatalf("SetAmount(100): %v", err)
	}
	if draft.AmountText() != "100" {
		t.Errorf("amount text = %q, want 100", draft.AmountText())
	}

	if err := draft.SetAmount("12x"); err == nil {
		t.Fatal("SetAmount(12x) should fail")
	}
	if draft.AmountText() != "100" {
		t.Errorf("rejected input changed amount to %q", draft.AmountText())
	}

	if err := draft.SetAmount(""); err != nil {
		t.Fatalf("SetAmount(empty): %v", err)
	}
	if draft.Amount != nil {
		t.Error("empty text should clear the amount")
	}
}

func TestDraftRequestBody(t *testing.T) {
	draft := NewDraft()
	if err := draft.SetAmount("100"); err != nil {
		t.Fatal(err)
	}
	draft.Category = "Salary"
	draft.Description = "March"
	draft.Type = TypeIncome

	encoded, err := json.Marshal(draft.Request())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"amount":100,"category":"Salary","description":"March","type":"income"}`
	if string(encoded) != want {
		t.Errorf("request = %s, want %s", encoded, want)
	}

	// The request owns its amount.
	req := draft.Request()
	*req.Amount = 1
	if draft.AmountText() != "100" {
		t.Error("mutating the request changed the draft")
	}
}
