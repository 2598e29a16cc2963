// Package tui renders the transaction view as an interactive terminal UI.
// Network calls run as tea.Cmds against a service.View; their completion
// messages re-read the view's state. Failures are logged by the view and
// never shown.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dan9191/finance-client/internal/models"
	"github.com/Dan9191/finance-client/internal/service"
)

// RefreshMsg asks the model to reload the transaction list. It is sent by
// the periodic refresher.
type RefreshMsg struct{}

type loadedMsg struct{ err error }
type submittedMsg struct{ err error }
type deletedMsg struct{ err error }

// Model is the bubbletea model of the transaction view
type Model struct {
	ctx   context.Context
	view  *service.View
	keys  KeyMap
	theme Theme

	state  service.State
	form   form
	cursor int

	width  int
	height int
}

// NewModel creates a Model over view. ctx bounds every request the model
// issues.
func NewModel(ctx context.Context, view *service.View) Model {
	return Model{
		ctx:   ctx,
		view:  view,
		keys:  DefaultKeyMap,
		theme: DefaultTheme,
		state: view.Snapshot(),
		form:  newForm(),
	}
}

// Init loads the list once on startup
func (model Model) Init() tea.Cmd {
	return model.loadCmd()
}

func (model Model) loadCmd() tea.Cmd {
	view, ctx := model.view, model.ctx
	return func() tea.Msg {
		return loadedMsg{err: view.LoadTransactions(ctx)}
	}
}

func (model Model) submitCmd() tea.Cmd {
	view, ctx := model.view, model.ctx
	return func() tea.Msg {
		return submittedMsg{err: view.SubmitTransaction(ctx)}
	}
}

func (model Model) deleteCmd(id models.TransactionID) tea.Cmd {
	view, ctx := model.view, model.ctx
	return func() tea.Msg {
		return deletedMsg{err: view.DeleteTransaction(ctx, id)}
	}
}

// Update handles messages
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return model, nil

	case RefreshMsg:
		return model, model.loadCmd()

	case loadedMsg, deletedMsg:
		model.syncState()
		return model, nil

	case submittedMsg:
		model.syncState()
		if message.err == nil {
			model.form = newForm()
		}
		return model, nil

	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		if model.state.DialogOpen {
			return model.handleDialogKeys(message)
		}
		return model.handleListKeys(message)
	}
	return model, nil
}

// syncState re-reads the view and keeps the cursor within the list
func (model *Model) syncState() {
	model.state = model.view.Snapshot()
	if model.cursor >= len(model.state.Transactions) {
		model.cursor = len(model.state.Transactions) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(message, model.keys.Down):
		if model.cursor < len(model.state.Transactions)-1 {
			model.cursor++
		}

	case key.Matches(message, model.keys.Add):
		model.view.OpenCreateDialog()
		model.form = newForm()
		model.syncState()

	case key.Matches(message, model.keys.Delete):
		if len(model.state.Transactions) == 0 {
			return model, nil
		}
		return model, model.deleteCmd(model.state.Transactions[model.cursor].ID)

	case key.Matches(message, model.keys.Refresh):
		return model, model.loadCmd()
	}
	return model, nil
}

func (model Model) handleDialogKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.view.CloseCreateDialog()
		model.form = newForm()
		model.syncState()
		return model, nil

	case key.Matches(message, model.keys.Submit):
		return model, model.submitCmd()

	case key.Matches(message, model.keys.NextField):
		return model, model.form.move(1)

	case key.Matches(message, model.keys.PreviousField):
		return model, model.form.move(-1)

	case model.form.focus == fieldType && key.Matches(message, model.keys.ToggleType):
		model.view.ToggleType()
		model.syncState()
		return model, nil
	}

	cmd := model.form.update(message)
	switch model.form.focus {
	case fieldAmount:
		// Text that is not a number, such as "-" or "1.2.3", leaves the
		// draft without an amount so it never disagrees with the field.
		if err := model.view.SetAmount(model.form.value(fieldAmount)); err != nil {
			_ = model.view.SetAmount("")
		}
	case fieldCategory:
		model.view.SetCategory(model.form.value(fieldCategory))
	case fieldDescription:
		model.view.SetDescription(model.form.value(fieldDescription))
	}
	model.syncState()
	return model, cmd
}

// View renders the list, or the dialog when it is open
func (model Model) View() string {
	if model.state.DialogOpen {
		dialog := model.theme.Dialog.Render(model.form.render(model.theme, model.state.Draft))
		if model.width > 0 && model.height > 0 {
			return lipgloss.Place(model.width, model.height, lipgloss.Center, lipgloss.Center, dialog)
		}
		return dialog
	}

	var b strings.Builder
	b.WriteString(model.theme.AppBar.Render("Finance Manager"))
	b.WriteString("\n")
	b.WriteString(model.theme.Heading.Render("Transactions"))
	b.WriteString("   ")
	b.WriteString(model.theme.Hint.Render("a: Add Transaction"))
	b.WriteString("\n\n")

	if len(model.state.Transactions) == 0 {
		b.WriteString(model.theme.Empty.Render("No transactions"))
		b.WriteString("\n")
	}
	for i, transaction := range model.state.Transactions {
		b.WriteString(model.renderRow(transaction, i == model.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(model.theme.Hint.Render(helpLine(model.keys.Up, model.keys.Down, model.keys.Add, model.keys.Delete, model.keys.Refresh, model.keys.Quit)))
	return b.String()
}

func (model Model) renderRow(transaction models.Transaction, selected bool) string {
	amount := model.theme.Expense
	if transaction.Type == models.TypeIncome {
		amount = model.theme.Income
	}
	style := model.theme.Row
	if selected {
		style = model.theme.SelectedRow
	}
	return style.Render(transaction.Title() + "\n" + amount.Render(transaction.AmountLabel()))
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, " • ")
}
