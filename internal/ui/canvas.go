package ui

import (
	"strings"

	"github.com/five82/panegrid/internal/layout"
)

const (
	boxHorizontal  = '─'
	boxVertical    = '│'
	boxTopLeft     = '┌'
	boxTopRight    = '┐'
	boxBottomLeft  = '└'
	boxBottomRight = '┘'
	boxSolid       = '▪'
)

// cellWidth returns how many terminal columns one grid column gets.
func cellWidth(cols, width int) int {
	if cols < 1 {
		cols = 1
	}
	w := width / cols
	if w < 1 {
		return 1
	}
	return w
}

// drawCanvas renders placed panes as boxed frames, one line per grid row.
// Titles are drawn inside the top border and truncated to fit.
func drawCanvas(l layout.Layout, cols, width int) []string {
	cw := cellWidth(cols, width)

	rows := l.Bottom()
	if rows == 0 {
		return nil
	}
	span := cols
	for _, it := range l {
		if it.Placed && it.X+it.Width > span {
			span = it.X + it.Width
		}
	}

	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", span*cw))
	}

	for _, it := range l {
		if !it.Placed || it.Width < 1 || it.Height < 1 {
			continue
		}
		x0 := it.X * cw
		x1 := (it.X+it.Width)*cw - 1
		y0 := it.Y
		y1 := it.Y + it.Height - 1

		if x1-x0 < 1 || y1 == y0 {
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					grid[y][x] = boxSolid
				}
			}
			continue
		}

		for x := x0 + 1; x < x1; x++ {
			grid[y0][x] = boxHorizontal
			grid[y1][x] = boxHorizontal
		}
		for y := y0 + 1; y < y1; y++ {
			grid[y][x0] = boxVertical
			grid[y][x1] = boxVertical
		}
		grid[y0][x0] = boxTopLeft
		grid[y0][x1] = boxTopRight
		grid[y1][x0] = boxBottomLeft
		grid[y1][x1] = boxBottomRight

		title := []rune(truncate(it.Label(), x1-x0-1))
		for i, r := range title {
			grid[y0][x0+1+i] = r
		}
	}

	lines := make([]string, rows)
	for y, row := range grid {
		lines[y] = strings.TrimRight(string(row), " ")
	}
	return lines
}

// truncate shortens s to max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
