// Package breakpoints lists session breakpoints and edits them in place:
// toggle, clear, create at the halted line, attach a hit condition.
package breakpoints

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components"
	"github.com/lbayona/peek/internal/debugger"
	"github.com/lbayona/peek/internal/messages"
	"github.com/lbayona/peek/internal/paths"
)

var (
	noItemsStyle = lipgloss.NewStyle().Width(0).Foreground(components.ColorGrey)

	breakpointStyleFocused  = lipgloss.NewStyle().Foreground(components.ColorPurple)
	breakpointStyleDisabled = lipgloss.NewStyle().Foreground(components.ColorGrey)
	breakpointStyleDefault  = lipgloss.NewStyle().Foreground(components.ColorWhite)
	conditionStyle          = lipgloss.NewStyle().Foreground(components.ColorYellow)
)

// Session is the slice of the debug session this panel needs.
type Session interface {
	Breakpoints() ([]debugger.Breakpoint, error)
	CreateBreakpointAtCurrent() (debugger.Breakpoint, error)
	ToggleBreakpoint(id int) error
	ClearBreakpoint(id int) error
	SetBreakpointCondition(id int, condition string) error
}

type Model struct {
	list      list.Model
	condition conditionInputModel
	session   Session
}

func New(session Session) Model {
	l := list.New([]list.Item{}, listDelegate{}, 0, 0)
	l.SetShowHelp(false)
	l.SetShowFilter(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.Styles.NoItems = lipgloss.NewStyle().Width(0)

	return Model{
		list:      l,
		condition: newConditionInputModel(),
		session:   session,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(max(msg.Height-1, 1))
		m.list.Styles.NoItems = noItemsStyle.Width(msg.Width)

		var cmd tea.Cmd
		m.condition, cmd = m.condition.Update(msg)
		return m, cmd

	case messages.RefreshContent:
		return m.refreshed()

	case conditionEntered:
		item := m.list.SelectedItem()
		if item == nil {
			return m, nil
		}
		id := item.(listItem).breakpoint.ID
		if err := m.session.SetBreakpointCondition(id, string(msg)); err != nil {
			return m, errCmd(err)
		}
		return m.refreshed()

	case tea.KeyMsg:
		if m.condition.isFocused {
			var cmd tea.Cmd
			m.condition, cmd = m.condition.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "b":
		if _, err := m.session.CreateBreakpointAtCurrent(); err != nil {
			return m, errCmd(err)
		}
		model, cmd := m.refreshed()
		return model, tea.Batch(cmd, func() tea.Msg { return messages.BreakpointCreated{} })

	case "t":
		item := m.list.SelectedItem()
		if item == nil {
			return m, nil
		}
		if err := m.session.ToggleBreakpoint(item.(listItem).breakpoint.ID); err != nil {
			return m, errCmd(err)
		}
		model, cmd := m.refreshed()
		return model, tea.Batch(cmd, func() tea.Msg { return messages.BreakpointToggled{} })

	case "d":
		item := m.list.SelectedItem()
		if item == nil {
			return m, nil
		}
		if err := m.session.ClearBreakpoint(item.(listItem).breakpoint.ID); err != nil {
			return m, errCmd(err)
		}
		m.list.CursorUp()
		model, cmd := m.refreshed()
		return model, tea.Batch(cmd, func() tea.Msg { return messages.BreakpointCleared{} })

	case "c":
		if m.list.SelectedItem() == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.condition, cmd = m.condition.focus()
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Top, m.list.View(), m.condition.View())
}

func (m Model) refreshed() (Model, tea.Cmd) {
	bps, err := m.session.Breakpoints()
	if err != nil {
		return m, errCmd(err)
	}
	m.list.SetItems(breakpointsToListItems(bps))
	return m, nil
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return messages.Error(fmt.Errorf("breakpoints: %w", err))
	}
}

type listDelegate struct{}

func (d listDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	li := item.(listItem)
	li.isFocused = m.Index() == index
	fmt.Fprint(w, li.Render(m.Width()))
}

func (d listDelegate) Height() int                               { return 1 }
func (d listDelegate) Spacing() int                              { return 0 }
func (d listDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

type listItem struct {
	breakpoint debugger.Breakpoint
	isFocused  bool
}

func (i listItem) FilterValue() string { return i.breakpoint.Name }

func (i listItem) Render(width int) string {
	var style lipgloss.Style
	switch {
	case i.isFocused:
		style = breakpointStyleFocused
	case i.breakpoint.Disabled:
		style = breakpointStyleDisabled
	default:
		style = breakpointStyleDefault
	}

	line := style.Render(paths.Trunc(i.breakpoint.Name, max(width-2, 1)))
	if i.breakpoint.Condition != "" {
		line += conditionStyle.Render(" ?")
	}

	return lipgloss.NewStyle().Width(width).Render(line)
}

func breakpointsToListItems(bps []debugger.Breakpoint) []list.Item {
	items := make([]list.Item, len(bps))
	for i := range bps {
		items[i] = listItem{breakpoint: bps[i]}
	}
	return items
}
