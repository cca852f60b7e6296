// Package variables renders function arguments and locals for the frame the
// target is halted in.
package variables

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components"
	"github.com/lbayona/peek/internal/debugger"
	"github.com/lbayona/peek/internal/messages"
)

type variableStyle struct {
	name  lipgloss.Style
	value lipgloss.Style
}

var (
	noItemsStyle = lipgloss.NewStyle().Width(0).Foreground(components.ColorGrey)

	paginatorStyle = lipgloss.NewStyle().Foreground(components.ColorWhite).PaddingRight(2)

	scopeStyle = lipgloss.NewStyle().Foreground(components.ColorYellow)

	variableStyleDefault = variableStyle{
		name:  lipgloss.NewStyle().Foreground(components.ColorGrey),
		value: lipgloss.NewStyle().Foreground(components.ColorGrey),
	}
	variableStyleFocused = variableStyle{
		name:  lipgloss.NewStyle().Foreground(components.ColorPurple).Bold(true),
		value: lipgloss.NewStyle().Foreground(components.ColorGreen).Bold(true),
	}
)

// Session is the slice of the debug session this panel needs.
type Session interface {
	Variables() ([]debugger.Variable, error)
}

type Model struct {
	list    list.Model
	session Session
}

func New(session Session) Model {
	l := list.New([]list.Item{}, listDelegate{}, 0, 0)
	l.SetShowHelp(false)
	l.SetShowFilter(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.Styles.PaginationStyle = paginatorStyle
	l.Styles.NoItems = lipgloss.NewStyle().Width(0)
	l.Paginator = setupPagination(0)

	return Model{
		list:    l,
		session: session,
	}
}

func setupPagination(totalItems int) paginator.Model {
	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = 8
	p.SetTotalPages(totalItems)
	p.ArabicFormat = lipgloss.NewStyle().
		Margin(0).Padding(0).
		Align(lipgloss.Right).
		Render("%d of %d ")

	return p
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		m.list.Styles.NoItems = noItemsStyle.Width(msg.Width)
		return m, nil

	case messages.RefreshContent:
		if err := m.refresh(); err != nil {
			return m, func() tea.Msg {
				return messages.Error(fmt.Errorf("error refreshing variables: %w", err))
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) refresh() error {
	vars, err := m.session.Variables()
	if err != nil {
		return err
	}
	m.list.SetItems(variablesToListItems(vars))
	return nil
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
	variable  debugger.Variable
	isFocused bool
}

func (i listItem) FilterValue() string { return i.variable.Name }

func (i listItem) Render(width int) string {
	style := variableStyleDefault
	if i.isFocused {
		style = variableStyleFocused
	}

	marker := " "
	if i.variable.Scope == debugger.ScopeArguments {
		marker = scopeStyle.Render("a")
	}

	line := fmt.Sprintf("%s %s = %s",
		marker,
		style.name.Render(i.variable.Name),
		style.value.Render(i.variable.Value),
	)

	return lipgloss.NewStyle().Width(width).Render(line)
}

func variablesToListItems(vars []debugger.Variable) []list.Item {
	items := make([]list.Item, len(vars))
	for i := range vars {
		items[i] = listItem{variable: vars[i]}
	}
	return items
}
