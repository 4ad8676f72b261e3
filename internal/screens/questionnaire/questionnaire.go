// Package questionnaire runs a diagnosis in the terminal. Choices are sent
// to the engine as the same encoded values the Telegram buttons carry.
package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sovbot/internal/diagnosis"
	"github.com/abhisek/sovbot/internal/router"
	"github.com/abhisek/sovbot/internal/session"
	"github.com/abhisek/sovbot/internal/ui/components"
	"github.com/abhisek/sovbot/internal/ui/layout"
	"github.com/abhisek/sovbot/internal/ui/theme"
)

// Engine is the part of diagnosis.Engine the screen drives.
type Engine interface {
	Handle(ctx context.Context, ev diagnosis.Event) (*diagnosis.Outbound, error)
	HandlePayload(ctx context.Context, userID session.UserID, payload string) (*diagnosis.Outbound, error)
}

// ResultFunc builds the screen shown for a finished diagnosis.
type ResultFunc func(out *diagnosis.Outbound) router.Screen

type outboundMsg struct {
	out *diagnosis.Outbound
	err error
}

// Screen shows one question at a time.
type Screen struct {
	engine Engine
	user   session.UserID
	kind   diagnosis.EventKind
	result ResultFunc

	prompt  *diagnosis.Prompt
	choices components.ChoiceList
	busy    bool
	notice  string
	errMsg  string
}

var (
	_ router.Screen          = (*Screen)(nil)
	_ router.KeyHintProvider = (*Screen)(nil)
	_ router.StatusProvider  = (*Screen)(nil)
)

// New creates a screen that starts a session for user on Init. kind is
// EventStart or EventRestart.
func New(engine Engine, user session.UserID, kind diagnosis.EventKind, result ResultFunc) *Screen {
	return &Screen{engine: engine, user: user, kind: kind, result: result, busy: true}
}

func (s *Screen) Init() tea.Cmd {
	ev := diagnosis.Event{UserID: s.user, Kind: s.kind}
	return func() tea.Msg {
		out, err := s.engine.Handle(context.Background(), ev)
		return outboundMsg{out: out, err: err}
	}
}

func (s *Screen) Title() string { return "Диагностика" }

func (s *Screen) Status() string {
	if s.prompt == nil {
		return ""
	}
	return fmt.Sprintf("Вопрос %d из %d", s.prompt.Number, s.prompt.Total)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "1-9", Description: "Ответ"},
		{Key: "↑↓ Enter", Description: "Выбор"},
		{Key: "Esc", Description: "В меню"},
	}
}

func (s *Screen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case outboundMsg:
		return s.handleOutbound(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	if msg.String() == "esc" || s.errMsg != "" {
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	if s.busy || s.prompt == nil {
		return s, nil
	}

	s.choices = s.choices.Update(msg)
	if s.choices.Chosen < 0 {
		return s, nil
	}
	s.busy = true
	s.notice = ""
	payload := s.prompt.Choices[s.choices.Chosen].Value
	return s, func() tea.Msg {
		out, err := s.engine.HandlePayload(context.Background(), s.user, payload)
		return outboundMsg{out: out, err: err}
	}
}

func (s *Screen) handleOutbound(msg outboundMsg) (router.Screen, tea.Cmd) {
	s.busy = false
	switch {
	case msg.err == nil:
	case errors.Is(msg.err, diagnosis.ErrStaleAnswer):
		s.notice = "Этот ответ уже учтён."
	case errors.Is(msg.err, diagnosis.ErrUnknownSession):
		s.notice = "Сессия не найдена, начинаем заново."
	case errors.Is(msg.err, diagnosis.ErrMalformedPayload):
		s.notice = "Не удалось прочитать ответ."
	default:
		s.errMsg = msg.err.Error()
		return s, nil
	}

	out := msg.out
	if out == nil {
		s.errMsg = "Сессия завершена."
		return s, nil
	}
	if out.Kind == diagnosis.OutboundResult {
		next := s.result(out)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}

	s.prompt = out.Prompt
	labels := make([]string, len(out.Prompt.Choices))
	for i, c := range out.Prompt.Choices {
		labels[i] = c.Label
	}
	s.choices = components.NewChoiceList(labels)
	return s, nil
}

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.ErrorText.Render(s.errMsg)+"\n\n"+theme.Hint.Render("любая клавиша: в меню"))
	}
	if s.prompt == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render("Загрузка…"))
	}

	inner := min(width-4, 76)
	var b strings.Builder
	bar := components.ProgressBar{Done: s.prompt.Number - 1, Total: s.prompt.Total, Width: inner}
	b.WriteString(bar.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Render(fmt.Sprintf("Вопрос %d из %d", s.prompt.Number, s.prompt.Total)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(theme.Text).Render(s.prompt.Text))
	b.WriteString("\n\n")
	b.WriteString(s.choices.View())
	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(s.notice))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
