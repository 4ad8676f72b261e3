// Package result shows the final ranking and, when a commentator is
// configured, its interpretation.
package result

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sovbot/internal/commentary"
	"github.com/abhisek/sovbot/internal/diagnosis"
	"github.com/abhisek/sovbot/internal/router"
	"github.com/abhisek/sovbot/internal/ui/layout"
	"github.com/abhisek/sovbot/internal/ui/theme"
)

// Commentator produces commentary for a result.
type Commentator interface {
	Generate(ctx context.Context, req commentary.Request) (*commentary.Commentary, error)
}

type commentaryMsg struct {
	c   *commentary.Commentary
	err error
}

// Screen shows the ranking. r restarts via the restart factory.
type Screen struct {
	out       *diagnosis.Outbound
	firstName string
	restart   func() router.Screen

	commentator Commentator
	timeout     time.Duration
	commentary  *commentary.Commentary
	pending     bool
	failed      bool
}

var (
	_ router.Screen          = (*Screen)(nil)
	_ router.KeyHintProvider = (*Screen)(nil)
)

// New creates a result screen. commentator may be nil.
func New(out *diagnosis.Outbound, firstName string, restart func() router.Screen, commentator Commentator, timeout time.Duration) *Screen {
	return &Screen{
		out:         out,
		firstName:   firstName,
		restart:     restart,
		commentator: commentator,
		timeout:     timeout,
		pending:     commentator != nil,
	}
}

func (s *Screen) Init() tea.Cmd {
	if s.commentator == nil {
		return nil
	}
	req := commentary.Request{SessionID: s.out.SessionID, FirstName: s.firstName, Ranking: s.out.Result}
	return func() tea.Msg {
		ctx := context.Background()
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		c, err := s.commentator.Generate(ctx, req)
		return commentaryMsg{c: c, err: err}
	}
}

func (s *Screen) Title() string { return "Результат" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "r", Description: "Пройти заново"},
		{Key: "Esc", Description: "В меню"},
		{Key: "Ctrl+C", Description: "Выход"},
	}
}

func (s *Screen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case commentaryMsg:
		s.pending = false
		s.commentary = msg.c
		s.failed = msg.err != nil
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			next := s.restart()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		case "esc", "enter":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	inner := min(width-4, 76)
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Твои топ-%d программы:", len(s.out.Result))))
	b.WriteString("\n\n")
	for i, r := range s.out.Result {
		fmt.Fprintf(&b, "%d. %s  %s\n", i+1, theme.Body.Bold(true).Render(r.Name), theme.Score.Render(fmt.Sprint(r.Score)))
	}
	b.WriteString("\n")

	switch {
	case s.pending:
		b.WriteString(theme.Hint.Render("Готовлю пояснение…"))
	case s.commentary != nil:
		b.WriteString(renderCommentary(s.commentary, inner))
	case s.failed:
		b.WriteString(theme.Hint.Render("Пояснение сейчас недоступно."))
	default:
		b.WriteString(theme.Hint.Render("Это не приговор, а карта: то, что замечено, уже можно менять."))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func renderCommentary(c *commentary.Commentary, width int) string {
	text := lipgloss.NewStyle().Width(width).Foreground(theme.Text)
	var b strings.Builder
	b.WriteString(text.Render(c.Summary))
	for _, n := range c.Programs {
		b.WriteString("\n\n")
		b.WriteString(text.Render(theme.Selected.Render(n.Name) + ": " + n.Influence))
	}
	if c.FirstStep != "" {
		b.WriteString("\n\n")
		b.WriteString(text.Render(theme.Selected.Render("Первый шаг:") + " " + c.FirstStep))
	}
	return b.String()
}
