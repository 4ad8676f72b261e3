package components

import (
	"strings"

	"github.com/abhisek/sovbot/internal/ui/theme"
)

const pointer = "▸ "

// step moves sel for the navigation keys. It wraps at both ends and reports
// whether key was a navigation key.
func step(key string, sel, n int) (int, bool) {
	if n == 0 {
		return sel, false
	}
	switch key {
	case "up", "k", "shift+tab":
		return (sel - 1 + n) % n, true
	case "down", "j", "tab":
		return (sel + 1) % n, true
	}
	return sel, false
}

// digit maps "1".."9" to an index below n.
func digit(key string, n int) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	i := int(key[0] - '1')
	return i, i < n
}

// rows renders one line per label with the pointer on sel.
func rows(labels []string, sel int) string {
	var b strings.Builder
	pad := strings.Repeat(" ", len([]rune(pointer)))
	for i, l := range labels {
		if i == sel {
			b.WriteString(theme.Selected.Render(pointer + l))
		} else {
			b.WriteString(theme.Unselected.Render(pad + l))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
