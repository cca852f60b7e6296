// Package sourcecode shows the source around the line the target is halted
// at, or around a frame picked in the call stack.
package sourcecode

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components"
	"github.com/lbayona/peek/internal/messages"
	"github.com/lbayona/peek/internal/paths"
)

var filenameStyle = lipgloss.NewStyle().Foreground(components.ColorGrey)

// Session is the slice of the debug session this panel needs.
type Session interface {
	Location() (string, int, error)
	FileContent(filename string, line, contextLines int) (string, error)
}

type Model struct {
	viewport     viewport.Model
	session      Session
	filename     string
	line         int
	contextLines int
}

func New(session Session, contextLines int) Model {
	return Model{
		viewport:     viewport.New(60, 20),
		session:      session,
		contextLines: contextLines,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-1, 1)
		return m, nil

	case messages.RefreshContent:
		filename, line, err := m.session.Location()
		if err != nil {
			return m, errCmd(err)
		}
		if err := m.open(filename, line); err != nil {
			return m, errCmd(err)
		}
		return m, nil

	case messages.OpenedFile:
		if err := m.open(msg.Filename, msg.Line); err != nil {
			return m, errCmd(err)
		}
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return messages.Error(fmt.Errorf("source: %w", err))
	}
}

func (m *Model) open(filename string, line int) error {
	content, err := m.session.FileContent(filename, line, m.contextLines)
	if err != nil {
		return err
	}

	m.filename = filename
	m.line = line
	m.viewport.SetContent(highlight(content))
	// the marked line sits contextLines into the window; keep it centered
	m.viewport.SetYOffset(max(0, m.contextLines-m.viewport.Height/2))
	return nil
}

// highlight renders Go syntax colors with chroma. On failure the raw text
// is shown instead.
func highlight(content string) string {
	var b strings.Builder
	if err := quick.Highlight(&b, content, "go", "terminal256", "monokai"); err != nil {
		return content
	}
	return b.String()
}

func (m Model) View() string {
	header := ""
	if m.filename != "" {
		header = filenameStyle.Render(fmt.Sprintf("%s:%d", paths.Trunc(m.filename, max(m.viewport.Width-8, 1)), m.line))
	}
	return lipgloss.JoinVertical(lipgloss.Top, header, m.viewport.View())
}
