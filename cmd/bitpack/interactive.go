package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/bitpack/codec"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/packed"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectLayout modelState = iota
	stateEditFields
	stateShowValue
)

type interactiveModel struct {
	err      error
	filename string
	layouts  []*layout.Layout
	inputs   []textinput.Model
	value    packed.Value
	warnings []string
	selected int
	focusIdx int
	state    modelState
	loaded   bool
}

type loadedMsg struct {
	err     error
	layouts []*layout.Layout
}

func newInteractiveModel(filename string) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		state:    stateSelectLayout,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadDeclarations
}

func (m *interactiveModel) loadDeclarations() tea.Msg {
	layouts, err := load(m.filename)
	return loadedMsg{err: err, layouts: layouts}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateEditFields {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectLayout && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectLayout && m.selected < len(m.layouts)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectLayout:
				if len(m.layouts) == 0 {
					return m, nil
				}
				m.prepareInputs()
				m.state = stateEditFields
				return m, nil

			case stateEditFields:
				m.applyInputs()
				m.state = stateShowValue
				return m, nil

			case stateShowValue:
				m.state = stateEditFields
				return m, nil
			}

		case "tab", "shift+tab":
			if m.state == stateEditFields && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				step := 1
				if msg.String() == "shift+tab" {
					step = len(m.inputs) - 1
				}
				m.focusIdx = (m.focusIdx + step) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateEditFields:
				m.state = stateSelectLayout
				m.inputs = nil
			case stateShowValue:
				m.state = stateEditFields
			}
			return m, nil
		}

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.layouts = msg.layouts
	}

	if m.state == stateEditFields {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	l := m.layouts[m.selected]
	m.value = packed.New(l)
	m.warnings = nil
	m.inputs = make([]textinput.Model, l.Len())
	for i, f := range l.Fields() {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.Prompt = f.Name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

// applyInputs rebuilds the value from the inputs. Values too wide for their
// field are stored truncated and reported.
func (m *interactiveModel) applyInputs() {
	l := m.layouts[m.selected]
	v := packed.New(l)
	m.warnings = nil
	accessors := packed.Accessors(l)
	for i, input := range m.inputs {
		a := accessors[i]
		text := strings.TrimSpace(input.Value())
		if text == "" {
			continue
		}
		x, err := parseValue(text)
		if err != nil {
			m.warnings = append(m.warnings, fmt.Sprintf("%s: %v", a.Name(), err))
			continue
		}
		if err := v.PutChecked(a, x); err != nil {
			m.warnings = append(m.warnings, fmt.Sprintf("%s: %s truncated to u%d", a.Name(), text, a.Info().Width))
			v.PutWide(a, x)
		}
	}
	m.value = v
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Loading declarations..."
	}
	if len(m.layouts) == 0 {
		return "No structs declared.\n\nPress q to quit."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Bit Layout Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectLayout:
		b.WriteString("Select a struct:\n\n")
		for i, l := range m.layouts {
			line := m.formatLayout(l)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • q quit"))

	case stateEditFields:
		l := m.layouts[m.selected]
		fmt.Fprintf(&b, "Editing %s\n\n", nameStyle.Render(l.Name()))
		for i, input := range m.inputs {
			f := l.Field(i)
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(fmt.Sprintf("u%d @%d", f.Width, f.Offset)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter pack • esc back"))

	case stateShowValue:
		b.WriteString(m.formatValue())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter edit • esc back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatLayout(l *layout.Layout) string {
	var fields []string
	for _, f := range l.Fields() {
		fields = append(fields, f.Name+": "+typeStyle.Render(fmt.Sprintf("u%d", f.Width)))
	}
	return nameStyle.Render(l.Name()) + " { " + strings.Join(fields, ", ") + " } " +
		typeStyle.Render(l.Storage().GoType())
}

func (m *interactiveModel) formatValue() string {
	v := m.value
	l := v.Layout()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", resultStyle.Render(v.String()))
	fmt.Fprintf(&b, "raw      %#x\n", v.Raw().Big())
	fmt.Fprintf(&b, "bytes    % x (big-endian)\n", codec.AppendFixed(nil, v, codec.BigEndian))
	fmt.Fprintf(&b, "uleb128  % x\n", codec.AppendValue(nil, v))
	if logical, err := codec.LogicalBytes(v); err == nil && !bytes.Equal(logical, codec.AppendFixed(nil, v, codec.BigEndian)) {
		fmt.Fprintf(&b, "logical  % x (%d bits)\n", logical, l.TotalWidth())
	}
	b.WriteString("\n")
	b.WriteString(l.Diagram())

	for _, w := range m.warnings {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(w))
	}
	return b.String()
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInteractiveModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
