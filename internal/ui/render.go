// Package ui renders resolution results for the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"csize/internal/engine"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	typeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// RenderResult renders one resolved layout as a bordered card.
func RenderResult(res engine.Result, archLabel string, showArch bool) string {
	var b strings.Builder
	b.WriteString(typeStyle.Render(res.Text))
	b.WriteString("\n")
	if res.Align > 0 {
		fmt.Fprintf(&b, "size %d, alignment %d", res.Size, res.Align)
	} else {
		fmt.Fprintf(&b, "total size %d", res.Size)
	}
	if res.Desc != "" {
		b.WriteString("\n" + res.Desc)
	}
	if showArch && archLabel != "" {
		b.WriteString("\n" + labelStyle.Render(archLabel))
	}
	return cardStyle.Render(b.String())
}

// TypeRow is one line of the aggregate type table.
type TypeRow struct {
	Name   string
	Kind   string
	Size32 int
	Size64 int
	Sized  bool
}

// RenderTypeTable renders discovered aggregates with their totals under
// both bit-widths. Name cells are padded by display width so wide runes
// in identifiers do not skew columns.
func RenderTypeTable(rows []TypeRow) string {
	nameWidth := runewidth.StringWidth("type")
	kindWidth := runewidth.StringWidth("kind")
	for _, row := range rows {
		if w := runewidth.StringWidth(row.Name); w > nameWidth {
			nameWidth = w
		}
		if w := runewidth.StringWidth(row.Kind); w > kindWidth {
			kindWidth = w
		}
	}
	var b strings.Builder
	b.WriteString(headStyle.Render(fmt.Sprintf("%s  %s  %6s  %6s",
		pad("type", nameWidth), pad("kind", kindWidth), "x32", "x64")))
	b.WriteString("\n")
	for _, row := range rows {
		size32, size64 := "?", "?"
		if row.Sized {
			size32 = fmt.Sprintf("%d", row.Size32)
			size64 = fmt.Sprintf("%d", row.Size64)
		}
		fmt.Fprintf(&b, "%s  %s  %6s  %6s\n",
			pad(row.Name, nameWidth), pad(row.Kind, kindWidth), size32, size64)
	}
	return b.String()
}

func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// Truncate shortens a path to fit the given display width.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
