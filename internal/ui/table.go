// Package ui renders query results as aligned, optionally colored tables.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Row is one line of a result table.
type Row struct {
	Label  string
	Status string
	Detail string
}

// Table collects rows and renders them with the status column right-aligned
// and the label column padded to its widest entry.
type Table struct {
	title string
	rows  []Row
	width int
	color bool
}

// NewTable returns an empty table. width bounds the rendered line; zero
// means 80 columns.
func NewTable(title string, width int, colored bool) *Table {
	if width <= 0 {
		width = 80
	}
	return &Table{title: title, width: width, color: colored}
}

// Add appends a row.
func (t *Table) Add(label, status, detail string) {
	t.rows = append(t.rows, Row{Label: label, Status: status, Detail: detail})
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Count returns how many rows carry status.
func (t *Table) Count(status string) int {
	n := 0
	for _, r := range t.rows {
		if r.Status == status {
			n++
		}
	}
	return n
}

// View renders the table.
func (t *Table) View() string {
	var b strings.Builder
	if t.title != "" {
		title := t.title
		if t.color {
			title = color.New(color.Bold).Sprint(title)
		}
		b.WriteString(title)
		b.WriteString("\n")
	}
	if len(t.rows) == 0 {
		return b.String()
	}

	statusWidth := 0
	labelWidth := 0
	for _, r := range t.rows {
		statusWidth = max(statusWidth, runewidth.StringWidth(r.Status))
		labelWidth = max(labelWidth, runewidth.StringWidth(r.Label))
	}
	// Labels give up space before details do.
	labelWidth = min(labelWidth, max(t.width-statusWidth-4, 20))

	for _, r := range t.rows {
		status := fmt.Sprintf("%*s", statusWidth, r.Status)
		if t.color {
			status = styleStatus(r.Status).Sprint(status)
		}
		label := truncate(r.Label, labelWidth)
		b.WriteString("  ")
		b.WriteString(status)
		b.WriteString(" ")
		b.WriteString(label)
		if r.Detail != "" {
			b.WriteString(strings.Repeat(" ", labelWidth-runewidth.StringWidth(label)))
			b.WriteString("  ")
			b.WriteString(r.Detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func styleStatus(status string) *color.Color {
	switch status {
	case "ok", "yes":
		return color.New(color.FgGreen)
	case "err", "no", "error":
		return color.New(color.FgRed)
	case "ambiguous":
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
