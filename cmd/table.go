package cmd

import (
	"fmt"
	"io"
	"strings"
)

type column struct {
	title string
	width int
	right bool
}

// table prints fixed-width rows. Cells longer than their column are cut;
// widths count runes so Cyrillic topic names line up.
type table struct {
	w    io.Writer
	cols []column
}

func newTable(w io.Writer, cols ...column) *table {
	return &table{w: w, cols: cols}
}

func (t *table) header() {
	titles := make([]any, len(t.cols))
	for i, c := range t.cols {
		titles[i] = c.title
	}
	t.row(titles...)
	t.rule()
}

func (t *table) rule() {
	n := 0
	for _, c := range t.cols {
		n += c.width + 2
	}
	fmt.Fprintln(t.w, strings.Repeat("─", max(n-2, 0)))
}

func (t *table) row(cells ...any) {
	parts := make([]string, len(t.cols))
	for i, c := range t.cols {
		var s string
		if i < len(cells) {
			s = fmt.Sprint(cells[i])
		}
		s = truncate(s, c.width)
		if c.right {
			parts[i] = fmt.Sprintf("%*s", c.width, s)
		} else {
			parts[i] = fmt.Sprintf("%-*s", c.width, s)
		}
	}
	fmt.Fprintln(t.w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
