// Package info shows a static page of text, optionally with an action on
// enter.
package info

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sovbot/internal/router"
	"github.com/abhisek/sovbot/internal/ui/layout"
	"github.com/abhisek/sovbot/internal/ui/theme"
)

// Page is a static text screen.
type Page struct {
	title string
	body  string

	// confirm, when set, is shown as the enter hint and run on enter.
	confirm   string
	onConfirm func() tea.Cmd
}

var (
	_ router.Screen          = (*Page)(nil)
	_ router.KeyHintProvider = (*Page)(nil)
)

// New creates a page that only goes back.
func New(title, body string) *Page {
	return &Page{title: title, body: body}
}

// NewConfirm creates a page whose enter key runs onConfirm.
func NewConfirm(title, body, confirm string, onConfirm func() tea.Cmd) *Page {
	return &Page{title: title, body: body, confirm: confirm, onConfirm: onConfirm}
}

func (p *Page) Init() tea.Cmd { return nil }

func (p *Page) Title() string { return p.title }

func (p *Page) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Esc", Description: "Назад"}}
	if p.onConfirm != nil {
		hints = append([]layout.KeyHint{{Key: "Enter", Description: p.confirm}}, hints...)
	}
	return hints
}

func (p *Page) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch kmsg.String() {
	case "esc", "backspace":
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	case "enter":
		if p.onConfirm != nil {
			return p, p.onConfirm()
		}
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return p, nil
}

func (p *Page) View(width, height int) string {
	card := theme.Card.Width(min(width-4, 76)).Render(theme.Body.Render(p.body))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
