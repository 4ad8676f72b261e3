package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// NameInput is a single-line text input for the user's first name.
type NameInput struct {
	Model textinput.Model
}

// NewNameInput creates a focused input limited to maxLen characters.
func NewNameInput(placeholder string, maxLen int) NameInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = maxLen
	ti.Focus()
	return NameInput{Model: ti}
}

// Update forwards msg to the underlying input.
func (n NameInput) Update(msg tea.Msg) (NameInput, tea.Cmd) {
	var cmd tea.Cmd
	n.Model, cmd = n.Model.Update(msg)
	return n, cmd
}

// View renders the input.
func (n NameInput) View() string {
	return n.Model.View()
}

// Value returns the trimmed input.
func (n NameInput) Value() string {
	return strings.TrimSpace(n.Model.Value())
}
