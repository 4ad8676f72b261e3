// Package app wires the terminal player: a root Bubble Tea model around the
// screen router.
package app

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sovbot/internal/diagnosis"
	"github.com/abhisek/sovbot/internal/router"
	"github.com/abhisek/sovbot/internal/screens/questionnaire"
	"github.com/abhisek/sovbot/internal/screens/result"
	"github.com/abhisek/sovbot/internal/screens/welcome"
	"github.com/abhisek/sovbot/internal/session"
	"github.com/abhisek/sovbot/internal/ui/layout"
)

// Options configures the player.
type Options struct {
	Engine questionnaire.Engine
	UserID session.UserID

	// Commentator is optional.
	Commentator       result.Commentator
	CommentaryTimeout time.Duration
}

// Model is the root Bubble Tea model.
type Model struct {
	router *router.Router
	width  int
	height int
}

// NewModel creates the root model with the welcome screen.
func NewModel(opts Options) Model {
	var newQuestionnaire func(name string, kind diagnosis.EventKind) router.Screen

	newQuestionnaire = func(name string, kind diagnosis.EventKind) router.Screen {
		onResult := func(out *diagnosis.Outbound) router.Screen {
			restart := func() router.Screen { return newQuestionnaire(name, diagnosis.EventRestart) }
			return result.New(out, name, restart, opts.Commentator, opts.CommentaryTimeout)
		}
		return questionnaire.New(opts.Engine, opts.UserID, kind, onResult)
	}
	start := func(name string) router.Screen { return newQuestionnaire(name, diagnosis.EventStart) }

	return Model{router: router.New(welcome.New(start))}
}

func (m Model) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, m.router.Update(msg)
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var status string
	if sp, ok := active.(router.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(active.Title(), status, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Выход"}}
	if hp, ok := active.(router.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	v.SetContent(layout.RenderFrame(header, m.router.View(m.width, contentHeight), footer, m.width, m.height))
	return v
}

// Run starts the player and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run player: %w", err)
	}
	return nil
}
