package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn describes one column. Width is a minimum; cells wider than it grow the column.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position // lipgloss.Left (zero value), Center or Right
}

// Table lays out rows in aligned columns separated by two spaces
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

func NewTable(columns []TableColumn) *Table {
	return &Table{Columns: columns}
}

// AddRow appends a row; missing trailing cells render empty
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

const columnGap = "  "

// Render returns the header, a rule and every row, each line ending in "\n"
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}
	widths := t.columnWidths()

	headers := make([]string, len(t.Columns))
	rules := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
		rules[i] = strings.Repeat("─", widths[i])
	}

	var b strings.Builder
	b.WriteString(StyleTableHeader.Render(t.line(headers, widths, true)) + "\n")
	b.WriteString(StyleTableBorder.Render(strings.Join(rules, columnGap)) + "\n")
	for i, row := range t.Rows {
		style := StyleTableRow
		if i%2 == 1 {
			style = StyleTableRowAlt
		}
		b.WriteString(style.Render(t.line(row, widths, false)) + "\n")
	}
	return b.String()
}

func (t *Table) line(cells []string, widths []int, header bool) string {
	parts := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		align := col.Align
		if header {
			align = lipgloss.Left
		}
		parts[i] = padCell(cell, widths[i], align)
	}
	return strings.Join(parts, columnGap)
}

// columnWidths measures display width, so wide runes and styled cells line up
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = max(col.Width, lipgloss.Width(col.Header))
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}

func padCell(s string, width int, align lipgloss.Position) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", gap) + s
	case lipgloss.Center:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// RenderKeyValues renders "key  value" lines with keys padded to a common width
func RenderKeyValues(pairs [][2]string) string {
	keyWidth := 0
	for _, p := range pairs {
		keyWidth = max(keyWidth, lipgloss.Width(p[0]))
	}

	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(StyleAccent.Render(padCell(p[0], keyWidth, lipgloss.Left)))
		b.WriteString(columnGap + p[1] + "\n")
	}
	return b.String()
}
