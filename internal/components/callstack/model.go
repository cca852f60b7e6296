// Package callstack lists the stack frames of the selected goroutine.
// Selecting a frame opens its source location in the source pane; "g"
// switches to a listing of the target's goroutines.
package callstack

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

	frameStyleOpened  = lipgloss.NewStyle().Foreground(components.ColorGreen)
	frameStyleDefault = lipgloss.NewStyle().Foreground(components.ColorGrey)
	functionStyle     = lipgloss.NewStyle().Foreground(components.ColorPurple)
)

// Session is the slice of the debug session this panel needs.
type Session interface {
	CallStack() ([]debugger.StackFrame, error)
	Goroutines() ([]debugger.Goroutine, error)
}

type Model struct {
	list           list.Model
	goroutineList  list.Model
	showGoroutines bool
	session        Session
	openedFilename string
}

func New(session Session) Model {
	l := list.New([]list.Item{}, listDelegate{}, 0, 0)
	l.SetShowHelp(false)
	l.SetShowFilter(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.Styles.NoItems = lipgloss.NewStyle().Width(0)

	gl := list.New([]list.Item{}, goroutineDelegate{}, 0, 0)
	gl.SetShowHelp(false)
	gl.SetShowFilter(false)
	gl.SetShowTitle(false)
	gl.SetShowStatusBar(false)
	gl.Styles.NoItems = lipgloss.NewStyle().Width(0)

	return Model{
		list:          l,
		goroutineList: gl,
		session:       session,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		m.list.Styles.NoItems = noItemsStyle.Width(msg.Width)
		m.goroutineList.SetWidth(msg.Width)
		m.goroutineList.SetHeight(msg.Height)
		return m, nil

	case messages.OpenedFile:
		m.openedFilename = msg.Filename
		m.list.SetDelegate(listDelegate{openedFilename: m.openedFilename})
		return m, nil

	case messages.RefreshContent:
		if err := m.refresh(); err != nil {
			return m, func() tea.Msg {
				return messages.Error(fmt.Errorf("error refreshing call stack: %w", err))
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "g":
			m.showGoroutines = !m.showGoroutines
			return m, nil

		case "enter":
			if m.showGoroutines {
				return m, nil
			}
			item := m.list.SelectedItem()
			if item == nil {
				return m, nil
			}
			frame := item.(listItem).frame
			return m, func() tea.Msg {
				return messages.OpenedFile{Filename: frame.Filename, Line: frame.Line}
			}
		}

		var cmd tea.Cmd
		if m.showGoroutines {
			m.goroutineList, cmd = m.goroutineList.Update(msg)
		} else {
			m.list, cmd = m.list.Update(msg)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.showGoroutines {
		return m.goroutineList.View()
	}
	return m.list.View()
}

func (m *Model) refresh() error {
	stack, err := m.session.CallStack()
	if err != nil {
		return err
	}
	if len(stack) > 0 {
		m.openedFilename = stack[0].Filename
	}

	m.list.SetDelegate(listDelegate{openedFilename: m.openedFilename})
	m.list.SetItems(stackToListItems(stack))

	goroutines, err := m.session.Goroutines()
	if err != nil {
		return err
	}
	items := make([]list.Item, len(goroutines))
	for i := range goroutines {
		items[i] = goroutineItem{goroutine: goroutines[i]}
	}
	m.goroutineList.SetItems(items)
	return nil
}

type listDelegate struct {
	openedFilename string
}

func (d listDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	li := item.(listItem)
	li.isFocused = m.Index() == index
	li.isOpened = d.openedFilename == li.frame.Filename
	fmt.Fprint(w, li.Render(m.Width()))
}

func (d listDelegate) Height() int                               { return 2 }
func (d listDelegate) Spacing() int                              { return 0 }
func (d listDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

type listItem struct {
	frame     debugger.StackFrame
	isFocused bool
	isOpened  bool
}

func (i listItem) FilterValue() string { return i.frame.FunctionName }

func (i listItem) Render(width int) string {
	style := frameStyleDefault
	if i.isOpened {
		style = frameStyleOpened
	}

	functionName := functionStyle.Render(i.frame.FunctionName + "()")
	if i.isFocused {
		functionName = "▶ " + functionName
	}

	location := fmt.Sprintf("%s:%s",
		style.Render(paths.Trunc(i.frame.Filename, max(width-6, 1))),
		style.Render(fmt.Sprintf("%d", i.frame.Line)),
	)

	return lipgloss.NewStyle().
		Width(width).
		Render(functionName + "\n " + location)
}

func stackToListItems(stack []debugger.StackFrame) []list.Item {
	items := make([]list.Item, len(stack))
	for i := range stack {
		items[i] = listItem{frame: stack[i]}
	}
	return items
}

type goroutineDelegate struct{}

func (d goroutineDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	gi := item.(goroutineItem)
	gi.isFocused = m.Index() == index
	fmt.Fprint(w, gi.Render(m.Width()))
}

func (d goroutineDelegate) Height() int                               { return 1 }
func (d goroutineDelegate) Spacing() int                              { return 0 }
func (d goroutineDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

type goroutineItem struct {
	goroutine debugger.Goroutine
	isFocused bool
}

func (i goroutineItem) FilterValue() string { return i.goroutine.Function }

func (i goroutineItem) Render(width int) string {
	style := frameStyleDefault
	if i.goroutine.Current {
		style = frameStyleOpened
	}

	marker := "  "
	if i.goroutine.Current {
		marker = "* "
	}
	if i.isFocused {
		marker = "▶ "
	}

	line := marker + style.Render(fmt.Sprintf("%d %s", i.goroutine.ID, i.goroutine.Function))
	return lipgloss.NewStyle().Width(width).Render(line)
}
