package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lbayona/peek/internal/debugger"
	"github.com/lbayona/peek/internal/messages"
)

// Action ids. Contributed step/flow actions use the "debug.toolbar." prefix,
// focus-session actions the "debug.focusSession." prefix.
const (
	ActionStart              = "debug.start"
	ActionConfigure          = "debug.configure"
	ActionToggleDebugConsole = "debug.toggleConsole"
	ActionSelectAndStart     = "debug.selectAndStart"
)

// Action is a single toolbar command. Run never touches the session
// directly; it emits the intent message the root model executes.
type Action interface {
	ID() string
	Label() string
	Enabled(state debugger.State) bool
	Run() tea.Cmd
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// StartAction launches the session, or resumes it when one is active.
type StartAction struct{}

func (StartAction) ID() string    { return ActionStart }
func (StartAction) Label() string { return "Start" }

func (StartAction) Enabled(state debugger.State) bool {
	return state != debugger.StateInitializing
}

func (StartAction) Run() tea.Cmd {
	return msgCmd(messages.StartRequested{})
}

// ConfigureAction opens the configuration file.
type ConfigureAction struct{}

func (ConfigureAction) ID() string                  { return ActionConfigure }
func (ConfigureAction) Label() string               { return "Configure" }
func (ConfigureAction) Enabled(debugger.State) bool { return true }
func (ConfigureAction) Run() tea.Cmd                { return msgCmd(messages.ConfigureRequested{}) }

// TogglePanelAction flips the visibility of a panel by id. ToggleDebugConsole
// is this action pointed at the console panel.
type TogglePanelAction struct {
	id      string
	label   string
	panelID string
}

func NewTogglePanelAction(id, label, panelID string) TogglePanelAction {
	return TogglePanelAction{id: id, label: label, panelID: panelID}
}

// NewToggleDebugConsoleAction returns the console toggle bound to its fixed
// panel id.
func NewToggleDebugConsoleAction(consolePanelID string) TogglePanelAction {
	return NewTogglePanelAction(ActionToggleDebugConsole, "Debug Console", consolePanelID)
}

func (a TogglePanelAction) ID() string                  { return a.id }
func (a TogglePanelAction) Label() string               { return a.label }
func (a TogglePanelAction) Enabled(debugger.State) bool { return true }

func (a TogglePanelAction) Run() tea.Cmd {
	return msgCmd(messages.TogglePanel(a.panelID))
}

// SelectAndStartAction starts the next configured launch target.
type SelectAndStartAction struct{}

func (SelectAndStartAction) ID() string    { return ActionSelectAndStart }
func (SelectAndStartAction) Label() string { return "Start Additional" }

func (SelectAndStartAction) Enabled(state debugger.State) bool {
	return state != debugger.StateInitializing
}

func (SelectAndStartAction) Run() tea.Cmd {
	return msgCmd(messages.SelectAndStartRequested{})
}

// ContributedAction is a registry-contributed toolbar command: label, the
// intent it emits, and the states it is enabled in.
type ContributedAction struct {
	id     string
	label  string
	msg    tea.Msg
	states []debugger.State
}

func NewContributedAction(id, label string, msg tea.Msg, states ...debugger.State) ContributedAction {
	return ContributedAction{id: id, label: label, msg: msg, states: states}
}

func (a ContributedAction) ID() string    { return a.id }
func (a ContributedAction) Label() string { return a.label }

func (a ContributedAction) Enabled(state debugger.State) bool {
	if len(a.states) == 0 {
		return true
	}
	for _, s := range a.states {
		if s == state {
			return true
		}
	}
	return false
}

func (a ContributedAction) Run() tea.Cmd {
	return msgCmd(a.msg)
}
