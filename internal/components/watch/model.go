// Package watch maintains a user-entered list of expressions re-evaluated
// against the current frame on every refresh.
package watch

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components"
	"github.com/lbayona/peek/internal/debugger"
	"github.com/lbayona/peek/internal/messages"
)

var (
	noItemsStyle = lipgloss.NewStyle().Width(0).Foreground(components.ColorGrey)

	exprStyleDefault = lipgloss.NewStyle().Foreground(components.ColorGrey)
	exprStyleFocused = lipgloss.NewStyle().Foreground(components.ColorPurple).Bold(true)
	valueStyle       = lipgloss.NewStyle().Foreground(components.ColorGreen)
	errValueStyle    = lipgloss.NewStyle().Foreground(components.ColorRed)
)

// Session is the slice of the debug session this panel needs.
type Session interface {
	Eval(expr string) (debugger.Variable, error)
}

type watched struct {
	expr  string
	value string
	bad   bool
}

type Model struct {
	list        list.Model
	input       textinput.Model
	typing      bool
	expressions []string
	session     Session
}

func New(session Session) Model {
	l := list.New([]list.Item{}, listDelegate{}, 0, 0)
	l.SetShowHelp(false)
	l.SetShowFilter(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.Styles.NoItems = lipgloss.NewStyle().Width(0)

	ti := textinput.New()
	ti.Placeholder = "expression"
	ti.CharLimit = 256
	ti.Prompt = "+ "

	return Model{
		list:    l,
		input:   ti,
		session: session,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(max(msg.Height-1, 1))
		m.list.Styles.NoItems = noItemsStyle.Width(msg.Width)
		m.input.Width = max(msg.Width-3, 1)
		return m, nil

	case messages.RefreshContent:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.updateInput(msg)
		}

		switch msg.String() {
		case "a":
			m.typing = true
			return m, m.input.Focus()

		case "d":
			if item := m.list.SelectedItem(); item != nil {
				m.remove(item.(listItem).watched.expr)
				m.list.CursorUp()
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.typing = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil

	case "enter":
		expr := m.input.Value()
		m.typing = false
		m.input.Blur()
		m.input.SetValue("")
		if expr != "" && !slices.Contains(m.expressions, expr) {
			m.expressions = append(m.expressions, expr)
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	input := m.input.View()
	if !m.typing {
		input = exprStyleDefault.Render("a: add, d: delete")
	}

	return lipgloss.JoinVertical(lipgloss.Top, m.list.View(), input)
}

func (m *Model) remove(expr string) {
	m.expressions = slices.DeleteFunc(m.expressions, func(e string) bool { return e == expr })
	m.refresh()
}

// refresh re-evaluates every expression. Evaluation failures render inline
// instead of surfacing as an error: a watch on an out-of-scope variable is
// routine, not exceptional.
func (m *Model) refresh() {
	items := make([]list.Item, len(m.expressions))
	for i, expr := range m.expressions {
		v, err := m.session.Eval(expr)
		if err != nil {
			items[i] = listItem{watched: watched{expr: expr, value: "<not available>", bad: true}}
			continue
		}
		items[i] = listItem{watched: watched{expr: expr, value: v.Value}}
	}
	m.list.SetItems(items)
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
	watched   watched
	isFocused bool
}

func (i listItem) FilterValue() string { return i.watched.expr }

func (i listItem) Render(width int) string {
	exprStyle := exprStyleDefault
	if i.isFocused {
		exprStyle = exprStyleFocused
	}

	vStyle := valueStyle
	if i.watched.bad {
		vStyle = errValueStyle
	}

	line := fmt.Sprintf("%s = %s", exprStyle.Render(i.watched.expr), vStyle.Render(i.watched.value))

	return lipgloss.NewStyle().Width(width).Render(line)
}
