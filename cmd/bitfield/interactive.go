package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/packed"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	bytesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateBrowse modelState = iota
	stateEdit
)

type interactiveModel struct {
	err      error
	res      *layout.Result
	tgt      *target
	values   []packed.FieldValue
	data     []byte
	input    textinput.Model
	selected int
	state    modelState
}

func newInteractiveModel(res *layout.Result, tgt *target) *interactiveModel {
	m := &interactiveModel{res: res, tgt: tgt, state: stateBrowse}
	m.refresh()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

// refresh rereads every field and the raw bytes
func (m *interactiveModel) refresh() {
	vals, err := m.tgt.fields.Values()
	if err != nil {
		m.err = err
		return
	}
	data, err := m.tgt.bytes()
	if err != nil {
		m.err = err
		return
	}
	m.values = vals
	m.data = append(m.data[:0], data...)
}

func (m *interactiveModel) current() layout.ResolvedField {
	return m.res.Layout.Fields[m.selected]
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == stateEdit {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.state == stateEdit {
		switch key.String() {
		case "enter":
			m.err = assign(m.tgt.fields, m.res.Layout, m.current().Name, m.input.Value())
			m.state = stateBrowse
			m.refresh()
			return m, nil
		case "esc":
			m.state = stateBrowse
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.res.Layout.Fields)-1 {
			m.selected++
		}

	case "enter":
		m.startEdit()
		return m, textinput.Blink

	case " ":
		if f := m.current(); f.Bits == 1 && f.Specifier == nil {
			v, _ := m.tgt.fields.Get(f.Name)
			m.err = m.tgt.fields.SetBool(f.Name, v == 0)
			m.refresh()
		}

	case "left", "h", "right", "l":
		if f := m.current(); f.Specifier != nil {
			step := 1
			if key.String() == "left" || key.String() == "h" {
				step = -1
			}
			m.err = m.cycleLabel(f, step)
			m.refresh()
		}
	}
	return m, nil
}

func (m *interactiveModel) startEdit() {
	f := m.current()
	ti := textinput.New()
	ti.Prompt = f.Name + ": "
	ti.Width = 40
	if f.Specifier != nil {
		ti.Placeholder = strings.Join(f.Specifier.Labels, "|")
	} else {
		ti.Placeholder = fmt.Sprintf("0..%d", uint64(1)<<f.Bits-1)
	}
	ti.Focus()
	m.input = ti
	m.state = stateEdit
	m.err = nil
}

// cycleLabel moves an enumerated field to the next or previous alternative
// in declaration order. An invalid stored value restarts at the first one.
func (m *interactiveModel) cycleLabel(f layout.ResolvedField, step int) error {
	labels := f.Specifier.Labels
	v, err := m.tgt.fields.Get(f.Name)
	if err != nil {
		return err
	}
	next := 0
	if cur, ok := f.Specifier.Label(v); ok {
		for i, l := range labels {
			if l == cur {
				next = (i + step + len(labels)) % len(labels)
				break
			}
		}
	}
	return m.tgt.fields.SetLabel(f.Name, labels[next])
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	l := m.res.Layout
	b.WriteString(titleStyle.Render("Bitfield"))
	b.WriteString(fmt.Sprintf(" %s  %d bits, %d bytes, %s\n\n", l.Name, l.TotalBits, l.TotalBytes, m.tgt.where))

	for i, v := range m.values {
		line := fmt.Sprintf("%-16s %s  %s",
			v.Name,
			typeStyle.Render(fmt.Sprintf("[%d:%d]", v.Offset, v.Offset+v.Bits-1)),
			fieldStyle.Render(formatValue(v)))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(bytesStyle.Render(fmt.Sprintf("% x", m.data)))
	b.WriteString("\n\n")

	if m.state == stateEdit {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter write • esc cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • space toggle bit • ←/→ cycle label • q quit"))
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	return b.String()
}

func runInteractive(res *layout.Result, tgt *target) error {
	p := tea.NewProgram(newInteractiveModel(res, tgt), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
