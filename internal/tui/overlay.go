package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayCentered splices card into the middle of base. Both are treated as
// a width x height canvas; the card is clipped when it does not fit.
func overlayCentered(base, card string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	rows := canvasRows(base, width, height)
	cardRows := strings.Split(card, "\n")
	cw := min(lipgloss.Width(card), width)
	top := max((height-len(cardRows))/2, 0)
	left := max((width-cw)/2, 0)

	for i, line := range cardRows {
		y := top + i
		if y >= height {
			break
		}
		line = padCells(line, cw)
		row := rows[y]
		rows[y] = ansi.Truncate(row, left, "") + line + ansi.TruncateLeft(row, left+cw, "")
	}
	return strings.Join(rows, "\n")
}

// canvasRows returns exactly height rows, each padded or cut to width cells.
func canvasRows(s string, width, height int) []string {
	rows := strings.Split(s, "\n")
	if len(rows) > height {
		rows = rows[:height]
	}
	for len(rows) < height {
		rows = append(rows, "")
	}
	for i := range rows {
		rows[i] = padCells(rows[i], width)
	}
	return rows
}

func padCells(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}
