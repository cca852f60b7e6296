package main

import (
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components/sourcecode"
	"github.com/lbayona/peek/internal/config"
	"github.com/lbayona/peek/internal/debugger"
	"github.com/lbayona/peek/internal/messages"
	"github.com/lbayona/peek/internal/panel"
	"github.com/lbayona/peek/internal/view"
	"github.com/sirupsen/logrus"
)

// focusKeys maps the number row to panel ids, sidebar first.
var focusKeys = map[string]string{
	"1": view.PanelVariables,
	"2": view.PanelWatch,
	"3": view.PanelCallStack,
	"4": view.PanelBreakpoints,
	"5": view.PanelConsole,
}

// panels without a text input; "q" only quits while one of these holds
// focus so typed expressions can contain the letter.
var plainPanels = map[string]bool{
	"":                  true,
	view.PanelVariables: true,
	view.PanelCallStack: true,
}

type model struct {
	debugView  *view.DebugView
	sourceCode tea.Model
	console    *panel.Panel
	status     statusModel

	session *debugger.Session
	cfg     *config.Service
	log     *logrus.Logger

	focusedPanel string
	targetIndex  int
	width        int
	height       int
}

func newModel(session *debugger.Session, cfg *config.Service, log *logrus.Logger, debugView *view.DebugView, console *panel.Panel) model {
	return model{
		debugView:  debugView,
		sourceCode: sourcecode.New(session, cfg.SourceContextLines()),
		console:    console,
		status:     newStatusModel(),
		session:    session,
		cfg:        cfg,
		log:        log,
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.debugView.Init(),
		m.console.Init(),
	}
	if m.cfg.OpenDebug() {
		cmds = append(cmds, m.startSession(m.cfg.Target()))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.resize()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case messages.Error:
		m.log.WithError(msg).Warn("ui error")
		m.status, _ = m.status.Update(msg)
		return m, nil

	case messages.PanelFocused:
		m.focusedPanel = string(msg)
		return m, m.broadcast(msg)

	case messages.SessionStateChanged:
		cmds := []tea.Cmd{m.broadcast(msg)}
		if msg.State == debugger.StateStopped {
			cmds = append(cmds, msgCmd(messages.RefreshContent{}))
		}
		return m, tea.Batch(cmds...)

	case messages.StartRequested:
		return m, m.startSession(m.cfg.Target())

	case messages.SelectAndStartRequested:
		return m.selectAndStart()

	case messages.StopRequested:
		return m, m.sessionCmd(m.session.Stop)

	case messages.RestartRequested:
		return m, func() tea.Msg {
			if err := m.session.Restart(); err != nil {
				return messages.Error(err)
			}
			return messages.SessionRestarted{}
		}

	case messages.SessionRestarted:
		return m, tea.Batch(m.broadcast(msg), msgCmd(messages.RefreshContent{}))

	case messages.SessionStepped:
		return m, tea.Batch(m.broadcast(msg), msgCmd(messages.RefreshContent{}))

	case messages.BreakpointCreated, messages.BreakpointToggled, messages.BreakpointCleared:
		m.log.Debug("breakpoints changed")
		return m, nil

	case messages.ContinueRequested:
		return m, m.sessionCmd(m.session.Continue)

	case messages.NextRequested:
		return m, m.stepCmd(m.session.Next)

	case messages.StepInRequested:
		return m, m.stepCmd(m.session.StepIn)

	case messages.StepOutRequested:
		return m, m.stepCmd(m.session.StepOut)

	case messages.ConfigureRequested:
		return m, m.openEditor()

	case messages.TogglePanel:
		return m, tea.Batch(m.broadcast(msg), m.resize())
	}

	return m, m.broadcast(msg)
}

// broadcast fans a message out to every model in the window.
func (m *model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	cmds = append(cmds, m.debugView.Update(msg))

	var cmd tea.Cmd
	m.sourceCode, cmd = m.sourceCode.Update(msg)
	cmds = append(cmds, cmd)

	cmds = append(cmds, m.console.Update(msg))

	m.status, cmd = m.status.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || (key == "q" && plainPanels[m.focusedPanel]) {
		m.debugView.Dispose()
		_ = m.session.Stop()
		return m, tea.Quit
	}

	if id, ok := focusKeys[key]; ok {
		return m, m.debugView.FocusPanel(id)
	}

	switch key {
	case "0":
		m.debugView.Focus()
		m.focusedPanel = ""
		return m, m.broadcast(messages.PanelFocused(""))

	case "`":
		return m, m.debugView.ToggleConsoleAction().Run()

	case "f5":
		if m.session.State() == debugger.StateInactive {
			return m, m.startSession(m.cfg.Target())
		}
		return m, m.sessionCmd(m.session.Continue)

	case "f10":
		return m, m.stepCmd(m.session.Next)

	case "f11":
		return m, m.stepCmd(m.session.StepIn)

	case "shift+f11":
		return m, m.stepCmd(m.session.StepOut)

	case "ctrl+r":
		return m, msgCmd(messages.RestartRequested{})

	case "ctrl+t":
		m.cycleToolBarLocation()
		return m, nil
	}

	// clear a stale error on any other keypress, like the status row expects
	m.status, _ = m.status.Update(msg)
	return m, m.broadcast(msg)
}

// cycleToolBarLocation rotates debug.toolBarLocation through its values;
// the config change notification does the rest.
func (m *model) cycleToolBarLocation() {
	next := map[string]string{
		config.ToolBarDocked:   config.ToolBarFloating,
		config.ToolBarFloating: config.ToolBarHidden,
		config.ToolBarHidden:   config.ToolBarDocked,
	}
	m.cfg.Set(config.KeyToolBarLocation, next[m.cfg.ToolBarLocation()])
}

func (m model) startSession(target string) tea.Cmd {
	return func() tea.Msg {
		if err := m.session.Start(target); err != nil {
			return messages.Error(err)
		}
		return messages.RefreshContent{}
	}
}

// selectAndStart stops the current target and launches the next one from
// launch.targets.
func (m model) selectAndStart() (tea.Model, tea.Cmd) {
	targets := m.cfg.LaunchTargets()
	if len(targets) == 0 {
		targets = []string{m.cfg.Target()}
	}
	m.targetIndex = (m.targetIndex + 1) % len(targets)
	target := targets[m.targetIndex]

	return m, func() tea.Msg {
		if err := m.session.Stop(); err != nil {
			return messages.Error(err)
		}
		if err := m.session.Start(target); err != nil {
			return messages.Error(err)
		}
		return messages.RefreshContent{}
	}
}

func (m model) sessionCmd(op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return messages.Error(err)
		}
		return messages.RefreshContent{}
	}
}

func (m model) stepCmd(op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return messages.Error(err)
		}
		return messages.SessionStepped{}
	}
}

func (m model) openEditor() tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, "peek.yaml")
	return tea.ExecProcess(c, func(err error) tea.Msg {
		if err != nil {
			return messages.Error(err)
		}
		return nil
	})
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// resize splits the window: sidebar on the left, source over console on the
// right, status row along the bottom.
func (m *model) resize() tea.Cmd {
	var cmds []tea.Cmd

	sidebarWidth := clamp(m.width/3, 24, 44)
	contentHeight := max(m.height-2, 4)

	cmds = append(cmds, m.debugView.Update(tea.WindowSizeMsg{Width: sidebarWidth, Height: contentHeight}))

	mainWidth := max(m.width-sidebarWidth-2, 20)
	consoleHeight := 0
	if !m.console.Hidden() {
		consoleHeight = clamp(contentHeight/4, 4, 10)
		cmds = append(cmds, m.console.Update(tea.WindowSizeMsg{Width: mainWidth, Height: consoleHeight}))
		consoleHeight += 2 // panel chrome
	}

	var cmd tea.Cmd
	m.sourceCode, cmd = m.sourceCode.Update(tea.WindowSizeMsg{
		Width:  mainWidth,
		Height: max(contentHeight-consoleHeight, 3),
	})
	cmds = append(cmds, cmd)

	m.status, cmd = m.status.Update(tea.WindowSizeMsg{Width: m.width, Height: 1})
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m model) View() string {
	main := m.sourceCode.View()
	if !m.console.Hidden() {
		main = lipgloss.JoinVertical(lipgloss.Top, main, m.console.View())
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, m.debugView.View(), main)

	rows := []string{content}
	if m.cfg.ToolBarLocation() == config.ToolBarFloating {
		rows = append([]string{m.debugView.ToolbarView()}, rows...)
	}
	rows = append(rows, m.status.View())

	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}
