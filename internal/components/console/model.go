// Package console is the debug console: it interleaves the target's stdout
// and stderr with the results of expressions evaluated at the prompt.
package console

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components"
	"github.com/lbayona/peek/internal/debugger"
	"github.com/lbayona/peek/internal/messages"
)

var (
	contentStyle = lipgloss.NewStyle().Foreground(components.ColorWhite)

	stdoutLabelStyle = lipgloss.NewStyle().Foreground(components.ColorGrey)
	stderrLabelStyle = lipgloss.NewStyle().Foreground(components.ColorOrange)
	resultStyle      = lipgloss.NewStyle().Foreground(components.ColorGreen)
	promptStyle      = lipgloss.NewStyle().Foreground(components.ColorWhite)
)

// Session is the slice of the debug session this panel needs.
type Session interface {
	Eval(expr string) (debugger.Variable, error)
}

type Model struct {
	content  string
	viewport viewport.Model
	input    textinput.Model
	session  Session
	output   chan debugger.Output
}

func New(session Session, output chan debugger.Output) Model {
	ti := textinput.New()
	ti.Placeholder = "expression..."
	ti.CharLimit = 256
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle

	return Model{
		viewport: viewport.New(30, 5),
		input:    ti,
		session:  session,
		output:   output,
	}
}

func waitForProgramOutput(c chan debugger.Output) tea.Cmd {
	return func() tea.Msg {
		o := <-c
		if o.Source == debugger.SourceStderr {
			return messages.ProgramStderrReceived(o.Content)
		}
		return messages.ProgramStdoutReceived(o.Content)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForProgramOutput(m.output)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SessionRestarted:
		m.content = ""
		m.viewport.SetContent(m.content)
		return m, nil

	case messages.ProgramStdoutReceived:
		m.append(stdoutLabelStyle.Render("[stdout] ") + string(msg))
		return m, waitForProgramOutput(m.output)

	case messages.ProgramStderrReceived:
		m.append(stderrLabelStyle.Render("[stderr] ") + string(msg))
		return m, waitForProgramOutput(m.output)

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-1, 1)
		m.input.Width = max(msg.Width-3, 1)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.input.Focused() {
		switch msg.String() {
		case "i":
			return m, m.input.Focus()
		case "ctrl+l":
			m.content = ""
			m.viewport.SetContent(m.content)
			return m, nil
		}

		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.input.SetValue("")
		return m, nil

	case "enter":
		expr := m.input.Value()
		m.input.SetValue("")
		if expr == "" {
			return m, nil
		}
		m.append(promptStyle.Render("> ") + expr)
		v, err := m.session.Eval(expr)
		if err != nil {
			m.append(stderrLabelStyle.Render(err.Error()))
		} else {
			m.append(resultStyle.Render(fmt.Sprintf("%s: %s", v.Type, v.Value)))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) append(line string) {
	if m.content == "" {
		m.content = line
	} else {
		m.content += "\n" + line
	}
	m.viewport.SetContent(m.content)
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Top,
		contentStyle.Render(m.viewport.View()),
		m.input.View(),
	)
}
