package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dan9191/finance-client/internal/models"
)

// Dialog fields in focus order.
const (
	fieldAmount = iota
	fieldCategory
	fieldDescription
	fieldType
	fieldCount
)

var fieldLabels = [fieldCount]string{"Amount", "Category", "Description", "Type"}

// form holds the text inputs of the "Add New Transaction" dialog. The
// draft itself lives in the view; the inputs only hold what is typed.
type form struct {
	inputs [fieldType]textinput.Model
	focus  int
}

func newForm() form {
	var f form
	for i := range f.inputs {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 120
		f.inputs[i] = input
	}
	f.inputs[fieldAmount].Placeholder = "0.00"
	f.inputs[fieldAmount].CharLimit = 24
	f.inputs[fieldCategory].Placeholder = "Food"
	f.inputs[fieldDescription].Placeholder = "Lunch"
	f.inputs[fieldAmount].Focus()
	return f
}

// move shifts focus by delta, wrapping around the type selector
func (f *form) move(delta int) tea.Cmd {
	if f.focus < fieldType {
		f.inputs[f.focus].Blur()
	}
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	if f.focus < fieldType {
		return f.inputs[f.focus].Focus()
	}
	return nil
}

// update forwards a key to the focused text input. Amount input accepts
// only characters a number can contain.
func (f *form) update(message tea.KeyMsg) tea.Cmd {
	if f.focus >= fieldType {
		return nil
	}
	if f.focus == fieldAmount && message.Type == tea.KeyRunes {
		if !isNumeric(message.Runes) {
			return nil
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(message)
	return cmd
}

func (f form) value(field int) string {
	return f.inputs[field].Value()
}

func isNumeric(runes []rune) bool {
	for _, r := range runes {
		if !strings.ContainsRune("0123456789.-eE", r) {
			return false
		}
	}
	return true
}

// render draws the dialog body for the given draft
func (f form) render(theme Theme, draft models.Draft) string {
	var b strings.Builder
	b.WriteString(theme.DialogTitle.Render("Add New Transaction"))
	b.WriteString("\n")
	for field := 0; field < fieldCount; field++ {
		label := theme.Label
		if field == f.focus {
			label = theme.FocusLabel
		}
		b.WriteString(label.Render(fieldLabels[field]))
		b.WriteString("\n")
		if field == fieldType {
			b.WriteString(renderTypeSelector(theme, draft.Type, f.focus == fieldType))
		} else {
			b.WriteString(f.inputs[field].View())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("esc: Cancel   enter: Add"))
	return b.String()
}

func renderTypeSelector(theme Theme, selected models.TransactionType, focused bool) string {
	options := []models.TransactionType{models.TypeIncome, models.TypeExpense}
	parts := make([]string, 0, len(options))
	for _, option := range options {
		marker := "( )"
		if option == selected {
			marker = "(•)"
		}
		text := marker + " " + option.Label()
		if option == selected && focused {
			text = theme.FocusLabel.Render(text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "  ")
}
