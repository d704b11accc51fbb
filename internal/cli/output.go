package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// colorEnabled tracks whether color output is enabled.
// It is set based on terminal detection but can be overridden.
var colorEnabled = true

func init() {
	colorEnabled = IsTerminal(os.Stdout)
}

// SetColorEnabled allows overriding the color output setting.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled returns whether color output is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + colorReset
}

// Green returns s wrapped in green ANSI codes if colors are enabled.
func Green(s string) string { return paint(colorGreen, s) }

// Red returns s wrapped in red ANSI codes if colors are enabled.
func Red(s string) string { return paint(colorRed, s) }

// Yellow returns s wrapped in yellow ANSI codes if colors are enabled.
func Yellow(s string) string { return paint(colorYellow, s) }

// Gray returns s wrapped in gray ANSI codes if colors are enabled.
func Gray(s string) string { return paint(colorGray, s) }

// Bold returns s wrapped in bold ANSI codes if colors are enabled.
func Bold(s string) string { return paint(colorBold, s) }

// StatusColor colors a leave, attendance or branch status by its meaning.
func StatusColor(status string) string {
	switch strings.ToLower(status) {
	case "approved", "present", "single", "multiple":
		return Green(status)
	case "pending", "late", "on_leave", "loading":
		return Yellow(status)
	case "rejected", "absent", "error", "no_branch":
		return Red(status)
	case "cancelled":
		return Gray(status)
	default:
		return status
	}
}

// DefaultMaxNameWidth is the default maximum visible width for name columns.
const DefaultMaxNameWidth = 40

// Table formats columnar output with automatic column width calculation.
type Table struct {
	rows      [][]string
	colWidths []int
	maxWidths map[int]int // optional per-column max visible width
}

// NewTable creates a new empty table.
func NewTable() *Table {
	return &Table{}
}

// SetMaxWidth sets the maximum visible width for a column.
// Content exceeding the limit is truncated with an ellipsis ("...").
func (t *Table) SetMaxWidth(col, maxWidth int) {
	if t.maxWidths == nil {
		t.maxWidths = make(map[int]int)
	}
	t.maxWidths[col] = maxWidth
}

// AddHeader adds a bold header row.
func (t *Table) AddHeader(cols ...string) {
	bold := make([]string, len(cols))
	for i, c := range cols {
		bold[i] = Bold(c)
	}
	t.AddRow(bold...)
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	for len(t.colWidths) < len(cols) {
		t.colWidths = append(t.colWidths, 0)
	}

	for i, col := range cols {
		width := visibleWidth(col)
		if maxW, ok := t.maxWidths[i]; ok && width > maxW {
			width = maxW
		}
		if width > t.colWidths[i] {
			t.colWidths[i] = width
		}
	}

	t.rows = append(t.rows, cols)
}

// Render writes the table to w with columns separated by two spaces.
func (t *Table) Render(w io.Writer) {
	for _, row := range t.rows {
		var parts []string
		for i, col := range row {
			if maxW, ok := t.maxWidths[i]; ok {
				col = Truncate(col, maxW)
			}
			if i < len(t.colWidths)-1 {
				// Pad all columns except the last
				padding := t.colWidths[i] - visibleWidth(col)
				parts = append(parts, col+strings.Repeat(" ", padding))
			} else {
				parts = append(parts, col)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}

// Truncate returns s truncated to maxWidth visible characters. If s exceeds
// maxWidth, it is cut and "..." is appended (counted within the limit).
// ANSI escape codes are preserved up to the truncation point with a reset
// appended. Below four columns there is no room for the ellipsis and s is
// hard-cut instead.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if visibleWidth(s) <= maxWidth {
		return s
	}

	const ellipsis = "..."
	if maxWidth < len(ellipsis) {
		cut, _ := cutVisible(s, maxWidth)
		return cut
	}

	cut, hasANSI := cutVisible(s, maxWidth-len(ellipsis))
	cut += ellipsis
	if hasANSI {
		cut += colorReset
	}
	return cut
}

// cutVisible returns the prefix of s holding limit visible characters plus
// any escape codes before the cut, and whether any escape code was seen.
func cutVisible(s string, limit int) (string, bool) {
	var b strings.Builder
	visible := 0
	inEscape := false
	hasANSI := false

	for _, r := range s {
		if r == '\033' {
			inEscape = true
			hasANSI = true
			b.WriteRune(r)
			continue
		}
		if inEscape {
			b.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		if visible >= limit {
			break
		}
		b.WriteRune(r)
		visible++
	}
	return b.String(), hasANSI
}

// visibleWidth returns the visible width of s, excluding ANSI escape codes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false

	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		width++
	}

	return width
}
