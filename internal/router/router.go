// Package router keeps the stack of screens shown by the terminal player.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sovbot/internal/ui/layout"
)

// Screen is one page of the terminal player.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, without header and footer.
	View(width, height int) string
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status in the header.
type StatusProvider interface {
	Status() string
}

// PushScreenMsg pushes a screen onto the stack.
type PushScreenMsg struct {
	Screen Screen
}

// ReplaceScreenMsg replaces the top screen.
type ReplaceScreenMsg struct {
	Screen Screen
}

// PopScreenMsg pops the top screen. The root is never popped.
type PopScreenMsg struct{}

// PopToRootMsg pops every screen above the root.
type PopToRootMsg struct{}

// Router manages a stack of screens.
type Router struct {
	stack []Screen
}

// New creates a router whose root is initial.
func New(initial Screen) *Router {
	return &Router{stack: []Screen{initial}}
}

// Push adds s on top and returns its Init command.
func (r *Router) Push(s Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Replace swaps the top screen for s.
func (r *Router) Replace(s Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Pop removes the top screen unless it is the root.
func (r *Router) Pop() {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

// Active returns the top screen.
func (r *Router) Active() Screen {
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update handles navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopScreenMsg:
		r.Pop()
		return nil
	case PopToRootMsg:
		r.stack = r.stack[:1]
		return nil
	}

	updated, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
