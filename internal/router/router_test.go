package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

type stubScreen struct {
	title   string
	initRan bool
	seen    []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

type pingMsg struct{}

func TestNavigation(t *testing.T) {
	root := &stubScreen{title: "root"}
	r := New(root)

	second := &stubScreen{title: "second"}
	r.Update(PushScreenMsg{Screen: second})
	assert.True(t, second.initRan)
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "second", r.View(80, 24))

	third := &stubScreen{title: "third"}
	r.Update(ReplaceScreenMsg{Screen: third})
	assert.True(t, third.initRan)
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "third", r.Active().Title())

	r.Update(PushScreenMsg{Screen: &stubScreen{title: "fourth"}})
	r.Update(PopToRootMsg{})
	assert.Equal(t, 1, r.Depth())
	assert.Same(t, root, r.Active())
}

func TestPopKeepsRoot(t *testing.T) {
	root := &stubScreen{title: "root"}
	r := New(root)
	r.Update(PopScreenMsg{})
	assert.Equal(t, 1, r.Depth())
	assert.Same(t, root, r.Active())
}

func TestForwardsToActive(t *testing.T) {
	root := &stubScreen{title: "root"}
	top := &stubScreen{title: "top"}
	r := New(root)
	r.Push(top)

	r.Update(pingMsg{})
	assert.Empty(t, root.seen)
	assert.Equal(t, []tea.Msg{pingMsg{}}, top.seen)
}
