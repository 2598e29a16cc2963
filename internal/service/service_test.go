package service

import (
	"context"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Dan9191/finance-client/internal/config"
	"github.com/Dan9191/finance-client/internal/integrations/financeapi"
	"github.com/Dan9191/finance-client/internal/integrations/financeapi/apitest"
	"github.com/Dan9191/finance-client/internal/models"
)

const listPath = "/users/1/transactions"

var lunch = models.Transaction{ID: "1", Category: "Food", Description: "Lunch", Type: models.TypeExpense, Amount: 12.5}

// newTestView wires a View to a fake API through the real HTTP client
func newTestView(t *testing.T) (*View, *apitest.Server, *test.Hook) {
	t.Helper()
	server := apitest.NewServer()
	t.Cleanup(server.Close)

	logger, hook := test.NewNullLogger()
	client := financeapi.NewClient(&config.Config{APIURL: server.URL, HTTPTimeout: 5 * time.Second}, logger)
	return NewView(client, "1", logger), server, hook
}

func errorEntries(hook *test.Hook) []*logrus.Entry {
	var out []*logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			out = append(out, entry)
		}
	}
	return out
}

func TestNewViewState(t *testing.T) {
	view, _, _ := newTestView(t)
	state := view.Snapshot()
	if len(state.Transactions) != 0 || state.DialogOpen || !state.Draft.IsEmpty() {
		t.Errorf("unexpected initial state: %+v", state)
	}
}

func TestLoadTransactionsEchoesResponse(t *testing.T) {
	view, server, _ := newTestView(t)
	rent := models.Transaction{ID: "7", Category: "Rent", Description: "May", Type: models.TypeExpense, Amount: 900}
	server.Seed("1", rent, lunch)

	if err := view.LoadTransactions(context.Background()); err != nil {
		t.Fatalf("LoadTransactions: %v", err)
	}
	got := view.Snapshot().Transactions
	want := []models.Transaction{rent, lunch}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("list = %+v, want %+v", got, want)
	}
	if got[0].Title() != "Rent - May" || got[1].AmountLabel() != "-$12.5" {
		t.Errorf("unexpected rendering: %q / %q", got[0].Title(), got[1].AmountLabel())
	}
}

func TestLoadTransactionsFailureKeepsList(t *testing.T) {
	view, server, hook := newTestView(t)
	server.Seed("1", lunch)
	if err := view.LoadTransactions(context.Background()); err != nil {
		t.Fatal(err)
	}

	server.FailNext(apitest.RouteList, http.StatusServiceUnavailable, 1)
	if err := view.LoadTransactions(context.Background()); err == nil {
		t.Fatal("expected an error")
	}

	if got := view.Snapshot().Transactions; len(got) != 1 || got[0].ID != "1" {
		t.Errorf("previous list should stay displayed, got %+v", got)
	}
	entries := errorEntries(hook)
	if len(entries) != 1 || entries[0].Message != "Error fetching transactions" {
		t.Fatalf("expected one logged fetch error, got %+v", entries)
	}
	if entries[0].Data["operation"] != "fetch" {
		t.Errorf("operation field = %v", entries[0].Data["operation"])
	}
}

func TestCloseCreateDialogResetsDraft(t *testing.T) {
	view, server, _ := newTestView(t)

	view.OpenCreateDialog()
	if !view.Snapshot().DialogOpen {
		t.Fatal("dialog should be open")
	}
	if err := view.SetAmount("42"); err != nil {
		t.Fatal(err)
	}
	view.SetCategory("Food")
	view.SetDescription("Snacks")
	view.ToggleType()

	view.CloseCreateDialog()
	state := view.Snapshot()
	if state.DialogOpen {
		t.Error("dialog should be closed")
	}
	if !reflect.DeepEqual(state.Draft, models.NewDraft()) {
		t.Errorf("draft not reset: %+v", state.Draft)
	}
	if len(server.Requests()) != 0 {
		t.Errorf("cancel should not touch the API: %+v", server.Requests())
	}
}

func TestSubmitTransactionRefetchesOnce(t *testing.T) {
	view, server, _ := newTestView(t)

	view.OpenCreateDialog()
	if err := view.SetAmount("100"); err != nil {
		t.Fatal(err)
	}
	view.SetCategory("Salary")
	view.SetDescription("March")
	view.SetType(models.TypeIncome)

	if err := view.SubmitTransaction(context.Background()); err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}

	requests := server.Requests()
	if len(requests) != 2 {
		t.Fatalf("expected POST then GET, got %+v", requests)
	}
	post := requests[0]
	if post.Method != http.MethodPost || post.Path != listPath {
		t.Errorf("first request = %s %s", post.Method, post.Path)
	}
	wantBody := map[string]any{"amount": 100.0, "category": "Salary", "description": "March", "type": "income"}
	if !reflect.DeepEqual(post.Body, wantBody) {
		t.Errorf("body = %v, want %v", post.Body, wantBody)
	}
	if server.Count(http.MethodGet, listPath) != 1 {
		t.Errorf("expected exactly one refetch, got %+v", requests)
	}

	state := view.Snapshot()
	if state.DialogOpen {
		t.Error("dialog should close after a successful submit")
	}
	if !reflect.DeepEqual(state.Draft, models.NewDraft()) {
		t.Errorf("draft not reset: %+v", state.Draft)
	}
	if len(state.Transactions) != 1 || state.Transactions[0].AmountLabel() != "+$100" {
		t.Errorf("refetched list = %+v", state.Transactions)
	}
}

func TestSubmitTransactionFailureKeepsDialog(t *testing.T) {
	view, server, hook := newTestView(t)
	server.Seed("1", lunch)
	if err := view.LoadTransactions(context.Background()); err != nil {
		t.Fatal(err)
	}
	server.ResetRequests()

	view.OpenCreateDialog()
	if err := view.SetAmount("5"); err != nil {
		t.Fatal(err)
	}
	view.SetCategory("Coffee")
	before := view.Snapshot()

	server.FailNext(apitest.RouteCreate, http.StatusUnprocessableEntity, 1)
	if err := view.SubmitTransaction(context.Background()); err == nil {
		t.Fatal("expected an error")
	}

	after := view.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("state changed on failure:\nbefore %+v\nafter  %+v", before, after)
	}
	if server.Count(http.MethodGet, listPath) != 0 {
		t.Error("failed submit must not refetch")
	}
	entries := errorEntries(hook)
	if len(entries) != 1 || entries[0].Message != "Error creating transaction" {
		t.Errorf("expected one logged create error, got %+v", entries)
	}
}

func TestDeleteTransactionRefetchesOnce(t *testing.T) {
	view, server, _ := newTestView(t)
	server.Seed("1", lunch)
	if err := view.LoadTransactions(context.Background()); err != nil {
		t.Fatal(err)
	}
	server.ResetRequests()

	if err := view.DeleteTransaction(context.Background(), "1"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}

	if server.Count(http.MethodDelete, "/transactions/1") != 1 {
		t.Errorf("expected DELETE /transactions/1, got %+v", server.Requests())
	}
	if server.Count(http.MethodGet, listPath) != 1 {
		t.Errorf("expected exactly one refetch, got %+v", server.Requests())
	}
	if got := view.Snapshot().Transactions; len(got) != 0 {
		t.Errorf("list should be empty after refetch, got %+v", got)
	}
}

func TestDeleteTransactionFailureLogsOnly(t *testing.T) {
	view, server, hook := newTestView(t)
	server.Seed("1", lunch)
	if err := view.LoadTransactions(context.Background()); err != nil {
		t.Fatal(err)
	}
	server.ResetRequests()
	before := view.Snapshot()

	server.FailNext(apitest.RouteDelete, http.StatusInternalServerError, 1)
	if err := view.DeleteTransaction(context.Background(), "1"); err == nil {
		t.Fatal("expected an error")
	}

	if !reflect.DeepEqual(before, view.Snapshot()) {
		t.Error("state changed on failed delete")
	}
	if server.Count(http.MethodGet, listPath) != 0 {
		t.Error("failed delete must not refetch")
	}
	entries := errorEntries(hook)
	if len(entries) != 1 || entries[0].Data["operation"] != "delete" {
		t.Errorf("expected one logged delete error, got %+v", entries)
	}
}

// stubAPI counts calls without going over HTTP
type stubAPI struct {
	lists int
	list  []models.Transaction
}

func (s *stubAPI) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	s.lists++
	return s.list, nil
}

func (s *stubAPI) CreateTransaction(ctx context.Context, userID string, req models.TransactionCreate) (*models.Transaction, error) {
	return nil, nil
}

func (s *stubAPI) DeleteTransaction(ctx context.Context, id models.TransactionID) error {
	return nil
}

func TestLoadReplacesRatherThanMerges(t *testing.T) {
	logger, _ := test.NewNullLogger()
	api := &stubAPI{list: []models.Transaction{lunch}}
	view := NewView(api, "1", logger)

	if err := view.LoadTransactions(context.Background()); err != nil {
		t.Fatal(err)
	}
	api.list = []models.Transaction{{ID: "2", Category: "Bus", Description: "Ticket", Type: models.TypeExpense, Amount: 2}}
	if err := view.LoadTransactions(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := view.Snapshot().Transactions
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("list should be replaced wholesale, got %+v", got)
	}
	if api.lists != 2 {
		t.Errorf("expected 2 list calls, got %d", api.lists)
	}

	// A nil create response still closes the dialog and refetches.
	view.OpenCreateDialog()
	if err := view.SubmitTransaction(context.Background()); err != nil {
		t.Fatal(err)
	}
	if api.lists != 3 || view.Snapshot().DialogOpen {
		t.Errorf("submit should close the dialog and refetch once (lists=%d)", api.lists)
	}
}
