package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
)

// ChoiceList is a numbered single-choice selector. Digits pick an option
// directly; arrows and enter work too.
type ChoiceList struct {
	Options  []string
	Selected int

	// Chosen is the picked option, or -1 until one is picked.
	Chosen int
}

// NewChoiceList creates a selector over options.
func NewChoiceList(options []string) ChoiceList {
	return ChoiceList{Options: options, Chosen: -1}
}

// Update handles navigation and selection. Once an option is chosen the
// list ignores further keys until Reset.
func (c ChoiceList) Update(msg tea.Msg) ChoiceList {
	if c.Chosen >= 0 {
		return c
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c
	}

	key := kmsg.String()
	if sel, moved := step(key, c.Selected, len(c.Options)); moved {
		c.Selected = sel
		return c
	}
	if i, ok := digit(key, len(c.Options)); ok {
		c.Selected = i
		c.Chosen = i
	} else if key == "enter" && len(c.Options) > 0 {
		c.Chosen = c.Selected
	}
	return c
}

// Reset clears the choice so the list accepts keys again.
func (c ChoiceList) Reset() ChoiceList {
	c.Chosen = -1
	return c
}

// View renders the options numbered from 1.
func (c ChoiceList) View() string {
	labels := make([]string, len(c.Options))
	for i, opt := range c.Options {
		labels[i] = fmt.Sprintf("%d) %s", i+1, opt)
	}
	return rows(labels, c.Selected)
}
