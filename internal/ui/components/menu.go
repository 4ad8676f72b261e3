package components

import tea "charm.land/bubbletea/v2"

// MenuItem is a labelled action.
type MenuItem struct {
	Label  string
	Action func() tea.Cmd
}

// Menu runs the action of the highlighted item on enter. Digits jump to an
// item and run it at once.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	k := key.String()
	if sel, moved := step(k, m.Selected, len(m.Items)); moved {
		m.Selected = sel
		return m, nil
	}
	if i, ok := digit(k, len(m.Items)); ok {
		m.Selected = i
		return m, m.run()
	}
	if k == "enter" {
		return m, m.run()
	}
	return m, nil
}

func (m Menu) run() tea.Cmd {
	if m.Selected >= len(m.Items) || m.Items[m.Selected].Action == nil {
		return nil
	}
	return m.Items[m.Selected].Action()
}

func (m Menu) View() string {
	labels := make([]string, len(m.Items))
	for i, it := range m.Items {
		labels[i] = it.Label
	}
	return rows(labels, m.Selected)
}
