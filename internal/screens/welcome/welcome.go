// Package welcome is the first screen of the terminal player: it asks for a
// name and offers the main menu.
package welcome

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sovbot/internal/router"
	"github.com/abhisek/sovbot/internal/screens/info"
	"github.com/abhisek/sovbot/internal/ui/components"
	"github.com/abhisek/sovbot/internal/ui/layout"
	"github.com/abhisek/sovbot/internal/ui/theme"
)

const (
	defaultName = "друг"
	maxNameLen  = 32
)

// StartFunc builds the questionnaire screen for the given first name.
type StartFunc func(firstName string) router.Screen

// Screen asks for a name, then shows the menu.
type Screen struct {
	start StartFunc
	input components.NameInput
	menu  components.Menu
	named bool
	name  string
}

var (
	_ router.Screen          = (*Screen)(nil)
	_ router.KeyHintProvider = (*Screen)(nil)
)

// New creates the welcome screen. start is called when the user consents.
func New(start StartFunc) *Screen {
	s := &Screen{
		start: start,
		input: components.NewNameInput("Как тебя зовут?", maxNameLen),
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Начать диагностику", Action: s.pushConsent},
		{Label: "О методе СОВ", Action: push(info.New(info.AboutTitle, info.AboutText))},
		{Label: "Условия и документы", Action: push(info.New(info.LegalTitle, info.LegalText))},
	})
	return s
}

func push(s router.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
}

func (s *Screen) pushConsent() tea.Cmd {
	name := s.name
	consent := info.NewConfirm(info.ConsentTitle, info.ConsentText, info.ConsentConfirm, func() tea.Cmd {
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: s.start(name)} }
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: consent} }
}

// Name returns the entered name, or the fallback.
func (s *Screen) Name() string {
	if s.name == "" {
		return defaultName
	}
	return s.name
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Добро пожаловать" }

func (s *Screen) KeyHints() []layout.KeyHint {
	if !s.named {
		return []layout.KeyHint{{Key: "Enter", Description: "Дальше"}, {Key: "Ctrl+C", Description: "Выход"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Выбор"},
		{Key: "Enter", Description: "Открыть"},
		{Key: "Ctrl+C", Description: "Выход"},
	}
}

func (s *Screen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if !s.named {
		if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
			s.name = s.input.Value()
			s.named = true
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	var b strings.Builder
	if !s.named {
		b.WriteString(theme.Title.Render("Привет!"))
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Render("Как к тебе обращаться?"))
		b.WriteString("\n\n")
		b.WriteString(s.input.View())
	} else {
		b.WriteString(theme.Title.Render("Привет, " + s.Name() + "!"))
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Render(greeting))
		b.WriteString("\n\n")
		b.WriteString(s.menu.View())
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

const greeting = `Бывает, что жизнь ходит по одному и тому же кругу.
Это не случайности, а скрытые программы, которые тихо управляют решениями.

За 2–3 минуты честных ответов я покажу твои самые активные программы.`
