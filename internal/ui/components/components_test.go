package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestChoiceListDigits(t *testing.T) {
	c := NewChoiceList([]string{"нет", "иногда", "да"})

	c = c.Update(key('5'))
	if c.Chosen != -1 {
		t.Fatalf("out of range digit chose %d", c.Chosen)
	}
	c = c.Update(key('3'))
	if c.Chosen != 2 || c.Selected != 2 {
		t.Fatalf("chosen=%d selected=%d, want 2/2", c.Chosen, c.Selected)
	}

	c = c.Update(key('1'))
	if c.Chosen != 2 {
		t.Fatal("a chosen list must ignore keys until Reset")
	}
	c = c.Reset().Update(key('1'))
	if c.Chosen != 0 {
		t.Fatalf("after reset chosen=%d, want 0", c.Chosen)
	}
}

func TestChoiceListArrowsWrap(t *testing.T) {
	c := NewChoiceList([]string{"a", "b", "c"})

	c = c.Update(special(tea.KeyUp))
	if c.Selected != 2 {
		t.Fatalf("up from the top should wrap, selected=%d", c.Selected)
	}
	c = c.Update(special(tea.KeyDown))
	if c.Selected != 0 {
		t.Fatalf("down from the bottom should wrap, selected=%d", c.Selected)
	}
	c = c.Update(key('j')).Update(special(tea.KeyEnter))
	if c.Chosen != 1 {
		t.Fatalf("chosen=%d, want 1", c.Chosen)
	}
}

func TestChoiceListEmpty(t *testing.T) {
	c := NewChoiceList(nil).Update(special(tea.KeyEnter)).Update(special(tea.KeyDown))
	if c.Chosen != -1 || c.Selected != 0 {
		t.Fatalf("empty list changed: %+v", c)
	}
}

func TestChoiceListView(t *testing.T) {
	view := NewChoiceList([]string{"нет", "да"}).View()
	if !strings.Contains(view, "1) нет") || !strings.Contains(view, "2) да") {
		t.Errorf("options not numbered: %q", view)
	}
	if !strings.Contains(view, pointer+"1) нет") {
		t.Errorf("pointer should be on the first option: %q", view)
	}
}

type ran string

func TestMenu(t *testing.T) {
	item := func(label string) MenuItem {
		return MenuItem{Label: label, Action: func() tea.Cmd {
			return func() tea.Msg { return ran(label) }
		}}
	}
	m := NewMenu([]MenuItem{item("start"), item("about"), {Label: "inert"}})

	m, cmd := m.Update(special(tea.KeyDown))
	if cmd != nil || m.Selected != 1 {
		t.Fatalf("down: selected=%d cmd=%v", m.Selected, cmd)
	}
	_, cmd = m.Update(special(tea.KeyEnter))
	if got := cmd(); got != ran("about") {
		t.Fatalf("enter ran %v", got)
	}

	m, cmd = m.Update(key('1'))
	if m.Selected != 0 || cmd() != ran("start") {
		t.Fatal("a digit should select and run its item")
	}

	m, cmd = m.Update(key('3'))
	if m.Selected != 2 || cmd != nil {
		t.Fatal("an item without an action runs nothing")
	}
}

func TestProgressBarFraction(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 0, 0},
		{3, 12, 0.25},
		{15, 12, 1},
		{-1, 12, 0},
	}
	for _, tt := range tests {
		if got := (ProgressBar{Done: tt.done, Total: tt.total}).Fraction(); got != tt.want {
			t.Errorf("Fraction(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
	if view := (ProgressBar{Done: 3, Total: 12, Width: 30}).View(); !strings.Contains(view, "3/12") {
		t.Errorf("view lacks the counter: %q", view)
	}
}

func TestNameInputTrims(t *testing.T) {
	n := NewNameInput("Имя", 32)
	for _, r := range "  Аня " {
		n, _ = n.Update(key(r))
	}
	if n.Value() != "Аня" {
		t.Errorf("Value() = %q", n.Value())
	}
}
