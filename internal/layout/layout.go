// Package layout fits text into a fixed number of terminal columns.
//
// All measurements are in display columns, not bytes or runes: a rune may
// occupy 0 (combining marks), 1 or 2 (East Asian wide) columns. The width of
// a rune is supplied by a WidthFunc so that the layout math stays independent
// of the locale tables and is testable without a terminal.
package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/rescale/pkgview/internal/constants"
)

// WidthFunc returns the number of columns r occupies on the terminal.
type WidthFunc func(r rune) int

// RuneWidth is the default width function backed by go-runewidth.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// Cell is one rune together with its display width.
type Cell struct {
	Rune  rune
	Width int
}

// Cells splits s into runes and measures each with width.
func Cells(s string, width WidthFunc) []Cell {
	if width == nil {
		width = RuneWidth
	}
	cells := make([]Cell, 0, len(s))
	for _, r := range s {
		w := width(r)
		if w < 0 {
			w = 0
		}
		cells = append(cells, Cell{Rune: r, Width: w})
	}
	return cells
}

// Width sums the display widths of cells.
func Width(cells []Cell) int {
	total := 0
	for _, c := range cells {
		total += c.Width
	}
	return total
}

// DisplayWidth returns the number of columns s occupies.
func DisplayWidth(s string, width WidthFunc) int {
	return Width(Cells(s, width))
}

// Cut walks cells while the next cell still fits in budget and returns the
// number of cells consumed together with the columns left over. A negative
// budget consumes nothing and reports a leftover of 0.
func Cut(cells []Cell, budget int) (index int, leftover int) {
	remaining := budget
	for index < len(cells) && cells[index].Width <= remaining {
		remaining -= cells[index].Width
		index++
	}
	if remaining < 0 {
		remaining = 0
	}
	return index, remaining
}

// Fit lays label out in budget columns.
//
// When label fits, it is returned unchanged and pad is the number of blank
// columns the caller must append. When it does not, label is cut at a rune
// boundary so that the kept runes plus the ellipsis fill the budget, and pad
// is whatever the cut could not use (a wide rune that did not fit). For a
// budget smaller than the ellipsis, pad is 0 and the ellipsis overflows;
// the caller clips it.
func Fit(label string, budget int, width WidthFunc) (rendered string, pad int) {
	cells := Cells(label, width)
	total := Width(cells)
	if total <= budget {
		return label, budget - total
	}

	index, leftover := Cut(cells, budget-constants.EllipsisColumns)

	var b strings.Builder
	b.Grow(len(label))
	for _, c := range cells[:index] {
		b.WriteRune(c.Rune)
	}
	b.WriteString(constants.Ellipsis)
	return b.String(), leftover
}

// Pad is Fit followed by right padding with spaces, so that the result
// occupies exactly budget columns whenever budget is at least the ellipsis width.
func Pad(label string, budget int, width WidthFunc) string {
	rendered, pad := Fit(label, budget, width)
	if pad <= 0 {
		return rendered
	}
	return rendered + strings.Repeat(" ", pad)
}

// ListDisplay renders items after title separated by two spaces, wrapping at
// cols and indenting continuation lines to the width of title. An empty list
// prints "None". The result ends with a newline.
func ListDisplay(title string, items []string, cols int, width WidthFunc) string {
	var b strings.Builder
	indent := DisplayWidth(title, width)
	b.WriteString(title)

	if len(items) == 0 {
		b.WriteString("None\n")
		return b.String()
	}

	used := indent
	for i, item := range items {
		w := DisplayWidth(item, width)
		if i > 0 {
			if cols > indent && used+w+2 >= cols {
				b.WriteString("\n")
				b.WriteString(strings.Repeat(" ", indent))
				used = indent
			} else {
				b.WriteString("  ")
				used += 2
			}
		}
		b.WriteString(item)
		used += w
	}
	b.WriteString("\n")
	return b.String()
}
