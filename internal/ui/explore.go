package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"csize/internal/engine"
	"csize/internal/scan"
)

type exploreModel struct {
	input   textinput.Model
	eng32   *engine.Engine
	eng64   *engine.Engine
	known   scan.Known
	context string
	width   int
}

// NewExploreModel returns a Bubble Tea model that resolves the typed
// expression live under both bit-widths. The known set and context
// label come from an optional preloaded source file.
func NewExploreModel(eng32, eng64 *engine.Engine, known scan.Known, context string) tea.Model {
	input := textinput.New()
	input.Placeholder = "unsigned long long"
	input.Prompt = "> "
	input.Focus()
	input.CharLimit = 120
	return &exploreModel{
		input:   input,
		eng32:   eng32,
		eng64:   eng64,
		known:   known,
		context: context,
		width:   80,
	}
}

func (m *exploreModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *exploreModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := "csize explore"
	if m.context != "" {
		header = fmt.Sprintf("%s (%s)", header, Truncate(m.context, m.width-20))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	expr := strings.TrimSpace(m.input.Value())
	if expr == "" {
		b.WriteString(labelStyle.Render("type an expression, esc quits"))
		b.WriteString("\n")
		return b.String()
	}

	res32, ok32 := m.resolve(m.eng32, expr)
	res64, ok64 := m.resolve(m.eng64, expr)
	if !ok32 && !ok64 {
		b.WriteString(labelStyle.Render("no type recognized"))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(exploreLine("x32", res32, ok32))
	b.WriteString(exploreLine("x64", res64, ok64))
	return b.String()
}

func (m *exploreModel) resolve(eng *engine.Engine, expr string) (engine.Result, bool) {
	if res, ok := eng.ResolveText(expr); ok {
		return res, true
	}
	// Fall back to locating a known name inside the expression, which
	// picks up aggregates from the preloaded file.
	return eng.Resolve(expr, 0, m.known)
}

func exploreLine(bits string, res engine.Result, ok bool) string {
	if !ok {
		return fmt.Sprintf("  %s  %s\n", bits, labelStyle.Render("unknown"))
	}
	layout := fmt.Sprintf("size %d", res.Size)
	if res.Align > 0 {
		layout = fmt.Sprintf("size %d, alignment %d", res.Size, res.Align)
	}
	if res.Desc != "" {
		layout = fmt.Sprintf("%s  %s", layout, labelStyle.Render(res.Desc))
	}
	return fmt.Sprintf("  %s  %s\n", typeStyle.Render(bits), layout)
}
