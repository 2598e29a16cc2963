package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-client/internal/models"
)

// TransactionAPI is the remote collaborator the view keeps in sync with
type TransactionAPI interface {
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, userID string, req models.TransactionCreate) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id models.TransactionID) error
}

// State is a point-in-time copy of what the view displays
type State struct {
	Transactions []models.Transaction
	DialogOpen   bool
	Draft        models.Draft
}

// View holds the transaction list, the creation dialog and its draft.
// The list is only ever replaced wholesale by the result of a successful
// fetch; every write is followed by a full re-fetch.
type View struct {
	api    TransactionAPI
	userID string
	log    *logrus.Logger

	mu           sync.RWMutex
	transactions []models.Transaction
	dialogOpen   bool
	draft        models.Draft
}

// NewView initializes an empty view for the given user
func NewView(api TransactionAPI, userID string, log *logrus.Logger) *View {
	return &View{
		api:          api,
		userID:       userID,
		log:          log,
		transactions: []models.Transaction{},
		draft:        models.NewDraft(),
	}
}

// Snapshot returns a copy of the current state
func (v *View) Snapshot() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return State{
		Transactions: append([]models.Transaction(nil), v.transactions...),
		DialogOpen:   v.dialogOpen,
		Draft:        v.draft,
	}
}

// LoadTransactions replaces the list with the server's. On failure the
// previous list stays displayed.
func (v *View) LoadTransactions(ctx context.Context) error {
	transactions, err := v.api.ListTransactions(ctx, v.userID)
	if err != nil {
		return v.fail("fetch", err)
	}

	v.mu.Lock()
	v.transactions = transactions
	v.mu.Unlock()

	v.log.WithField("count", len(transactions)).Debug("Transactions loaded")
	return nil
}

// OpenCreateDialog shows the creation form
func (v *View) OpenCreateDialog() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dialogOpen = true
}

// CloseCreateDialog hides the creation form and always resets the draft
func (v *View) CloseCreateDialog() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dialogOpen = false
	v.draft = models.NewDraft()
}

// SetAmount parses and stores the draft amount
func (v *View) SetAmount(text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft.SetAmount(text)
}

// SetCategory stores the draft category
func (v *View) SetCategory(category string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft.Category = category
}

// SetDescription stores the draft description
func (v *View) SetDescription(description string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft.Description = description
}

// SetType stores the draft type
func (v *View) SetType(t models.TransactionType) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft.Type = t
}

// ToggleType flips the draft between income and expense
func (v *View) ToggleType() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft.Type = v.draft.Type.Opposite()
}

// SubmitTransaction sends the current draft. On success the dialog closes
// and the list is re-fetched once; on failure the dialog and draft are
// left as they were.
func (v *View) SubmitTransaction(ctx context.Context) error {
	v.mu.RLock()
	req := v.draft.Request()
	v.mu.RUnlock()

	created, err := v.api.CreateTransaction(ctx, v.userID, req)
	if err != nil {
		return v.fail("create", err)
	}
	if created != nil {
		v.log.WithField("transaction_id", created.ID).Info("Transaction created")
	}

	v.CloseCreateDialog()
	// A failed refresh is logged by LoadTransactions; the create itself succeeded.
	_ = v.LoadTransactions(ctx)
	return nil
}

// DeleteTransaction removes a transaction by ID and re-fetches the list once
func (v *View) DeleteTransaction(ctx context.Context, id models.TransactionID) error {
	if err := v.api.DeleteTransaction(ctx, id); err != nil {
		return v.fail("delete", err)
	}
	v.log.WithField("transaction_id", id).Info("Transaction deleted")

	_ = v.LoadTransactions(ctx)
	return nil
}

var failureMessages = map[string]string{
	"fetch":  "Error fetching transactions",
	"create": "Error creating transaction",
	"delete": "Error deleting transaction",
}

// fail logs an API failure and returns it wrapped with the operation name
func (v *View) fail(operation string, err error) error {
	v.log.WithError(err).WithField("operation", operation).Error(failureMessages[operation])
	return fmt.Errorf("%s transactions: %w", operation, err)
}
