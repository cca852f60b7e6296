// Package view implements the debug view container: the panel set shown in
// the sidebar, the toolbar with its state-dependent action sets, the
// initialization progress indicator, and the panel lifecycle bookkeeping
// that keeps the breakpoints panel sized correctly.
package view

import (
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lbayona/peek/internal/config"
	"github.com/lbayona/peek/internal/debugger"
	"github.com/lbayona/peek/internal/messages"
	"github.com/lbayona/peek/internal/panel"
)

// Panel ids. The breakpoints id is special-cased by the sizing rule, the
// console id is the target of the toggle action.
const (
	PanelVariables   = "variables"
	PanelWatch       = "watch"
	PanelCallStack   = "callstack"
	PanelBreakpoints = "breakpoints"
	PanelConsole     = "console"
)

// StateSource is the slice of the debug session the container observes.
type StateSource interface {
	State() debugger.State
	OnDidChangeState(fn func(debugger.State)) func()
}

// Configuration is the slice of the config service the container reads.
type Configuration interface {
	ToolBarLocation() string
	OnDidChange(fn func(key string)) func()
}

// animatedProgress is implemented by progress reporters that render
// themselves, like SpinnerProgress.
type animatedProgress interface {
	Progress
	Active() bool
	Update(msg tea.Msg) tea.Cmd
	TickCmd() tea.Cmd
	View() string
}

// DebugView hosts the sidebar panels. All mutation happens on the UI loop;
// session and config callbacks are bridged in through channels.
type DebugView struct {
	state    StateSource
	cfg      Configuration
	registry *ActionRegistry
	progress Progress

	panels           []*panel.Panel
	breakpointsPanel *panel.Panel
	panelListeners   map[string]func()

	toolbarMenu *Menu
	toolbar     []ActionItem

	startAction          Action
	configureAction      Action
	toggleConsoleAction  Action
	selectAndStartAction Action
	startItem            *StartActionItem

	progressHandle *ProgressHandle

	stateCh chan debugger.State
	cfgCh   chan string

	disposers []func()

	width  int
	height int
}

func NewDebugView(state StateSource, cfg Configuration, registry *ActionRegistry, progress Progress) *DebugView {
	v := &DebugView{
		state:          state,
		cfg:            cfg,
		registry:       registry,
		progress:       progress,
		panelListeners: map[string]func(){},
		stateCh:        make(chan debugger.State, 8),
		cfgCh:          make(chan string, 8),
	}

	v.disposers = append(v.disposers, state.OnDidChangeState(func(s debugger.State) {
		v.stateCh <- s
	}))
	v.disposers = append(v.disposers, cfg.OnDidChange(func(key string) {
		v.cfgCh <- key
	}))

	v.updateToolbar()
	return v
}

// ShowInitialActions reports whether the start/configure/console action set
// applies: before any session exists, or whenever the toolbar is not docked
// in the view.
func (v *DebugView) ShowInitialActions() bool {
	return v.state.State() == debugger.StateInactive ||
		v.cfg.ToolBarLocation() != config.ToolBarDocked
}

// PrimaryActions is the toolbar's main action set for the current state.
func (v *DebugView) PrimaryActions() []Action {
	if v.ShowInitialActions() {
		return []Action{v.StartAction(), v.ConfigureAction(), v.ToggleConsoleAction()}
	}
	return v.menu().Actions()
}

// SecondaryActions is the overflow action set.
func (v *DebugView) SecondaryActions() []Action {
	if v.ShowInitialActions() {
		return nil
	}
	return []Action{v.SelectAndStartAction(), v.ConfigureAction(), v.ToggleConsoleAction()}
}

// Memoized built-in actions, constructed once per container.

func (v *DebugView) StartAction() Action {
	if v.startAction == nil {
		v.startAction = StartAction{}
	}
	return v.startAction
}

func (v *DebugView) ConfigureAction() Action {
	if v.configureAction == nil {
		v.configureAction = ConfigureAction{}
	}
	return v.configureAction
}

func (v *DebugView) ToggleConsoleAction() Action {
	if v.toggleConsoleAction == nil {
		v.toggleConsoleAction = NewToggleDebugConsoleAction(PanelConsole)
	}
	return v.toggleConsoleAction
}

func (v *DebugView) SelectAndStartAction() Action {
	if v.selectAndStartAction == nil {
		v.selectAndStartAction = SelectAndStartAction{}
	}
	return v.selectAndStartAction
}

// ActionItemFor resolves the item rendering a, or nil for the default.
func (v *DebugView) ActionItemFor(a Action) ActionItem {
	return v.actionItemFor(a)
}

// menu lazily opens the toolbar menu; it stays open until Dispose.
func (v *DebugView) menu() *Menu {
	if v.toolbarMenu == nil {
		v.toolbarMenu = v.registry.Menu(MenuDebugToolbar, v.updateToolbar)
	}
	return v.toolbarMenu
}

// onStateChanged runs once per transition: close any live
// progress indicator, open one for Initializing, refresh the docked toolbar.
func (v *DebugView) onStateChanged(s debugger.State) {
	if v.progressHandle != nil {
		v.progressHandle.Done()
		v.progressHandle = nil
	}
	if s == debugger.StateInitializing {
		v.progressHandle = v.progress.Show(true)
	}
	if v.cfg.ToolBarLocation() == config.ToolBarDocked {
		v.updateToolbar()
	}
}

// updateToolbar re-resolves the primary action set into rendered items.
func (v *DebugView) updateToolbar() {
	actions := v.PrimaryActions()
	items := make([]ActionItem, 0, len(actions))
	for _, a := range actions {
		item := v.actionItemFor(a)
		if item == nil {
			item = menuActionItem{action: a}
		}
		items = append(items, item)
	}
	v.toolbar = items
}

// AddPanels attaches panels. The breakpoints panel is remembered for the
// sizing rule; every other panel gets a change listener that re-runs it.
func (v *DebugView) AddPanels(panels []*panel.Panel) {
	for _, p := range panels {
		v.panels = append(v.panels, p)
		if p.ID() == PanelBreakpoints {
			v.breakpointsPanel = p
			continue
		}
		v.panelListeners[p.ID()] = p.OnDidChange(v.updateBreakpointsMaxSize)
	}
	v.updateBreakpointsMaxSize()
}

// RemovePanels detaches panels and releases their listeners. Removing a
// panel twice is a no-op.
func (v *DebugView) RemovePanels(panels []*panel.Panel) {
	for _, p := range panels {
		if cancel, ok := v.panelListeners[p.ID()]; ok {
			cancel()
			delete(v.panelListeners, p.ID())
		}
		v.panels = slices.DeleteFunc(v.panels, func(attached *panel.Panel) bool { return attached == p })
		if p == v.breakpointsPanel {
			v.breakpointsPanel = nil
		}
	}
	v.updateBreakpointsMaxSize()
}

// Panels returns the attached panels in attach order.
func (v *DebugView) Panels() []*panel.Panel { return v.panels }

// updateBreakpointsMaxSize applies the sizing rule: the breakpoints panel
// may only grow when every sibling is collapsed or hidden; otherwise it is
// clamped to its minimum so expanded siblings keep their space.
func (v *DebugView) updateBreakpointsMaxSize() {
	if v.breakpointsPanel == nil {
		return
	}

	othersCollapsed := true
	for _, p := range v.panels {
		if p != v.breakpointsPanel && p.Expanded() {
			othersCollapsed = false
			break
		}
	}

	if othersCollapsed {
		v.breakpointsPanel.SetMaximumBodySize(panel.SizeUnbounded)
	} else {
		v.breakpointsPanel.SetMaximumBodySize(v.breakpointsPanel.MinimumBodySize())
	}
	v.layoutPanels()
}

// FocusPanel forwards focus to the panel with the given id. The returned
// command broadcasts the focus change to every model.
func (v *DebugView) FocusPanel(id string) tea.Cmd {
	if v.startItem != nil {
		v.startItem.Blur()
	}
	return msgCmd(messages.PanelFocused(id))
}

// Focus delegates to the start action item when one has been created.
func (v *DebugView) Focus() {
	if v.startItem != nil {
		v.startItem.Focus()
	}
}

// Dispose releases every subscription the container owns.
func (v *DebugView) Dispose() {
	for id, cancel := range v.panelListeners {
		cancel()
		delete(v.panelListeners, id)
	}
	if v.toolbarMenu != nil {
		v.toolbarMenu.Close()
		v.toolbarMenu = nil
	}
	if v.progressHandle != nil {
		v.progressHandle.Done()
		v.progressHandle = nil
	}
	for _, dispose := range v.disposers {
		dispose()
	}
	v.disposers = nil
}

func (v *DebugView) waitForStateChange() tea.Cmd {
	return func() tea.Msg {
		return messages.SessionStateChanged{State: <-v.stateCh}
	}
}

func (v *DebugView) waitForConfigChange() tea.Cmd {
	return func() tea.Msg {
		return messages.ConfigChanged(<-v.cfgCh)
	}
}

func (v *DebugView) Init() tea.Cmd {
	cmds := []tea.Cmd{v.waitForStateChange(), v.waitForConfigChange()}
	for _, p := range v.panels {
		cmds = append(cmds, p.Init())
	}
	return tea.Batch(cmds...)
}

func (v *DebugView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.layoutPanels()
		return nil

	case messages.SessionStateChanged:
		v.onStateChanged(msg.State)
		cmds := []tea.Cmd{v.waitForStateChange()}
		if ap, ok := v.progress.(animatedProgress); ok && ap.Active() {
			cmds = append(cmds, ap.TickCmd())
		}
		return tea.Batch(cmds...)

	case messages.ConfigChanged:
		if string(msg) == config.KeyToolBarLocation {
			v.updateToolbar()
			v.layoutPanels()
		}
		return tea.Batch(v.waitForConfigChange(), v.broadcast(msg))

	case spinner.TickMsg:
		if ap, ok := v.progress.(animatedProgress); ok {
			return ap.Update(msg)
		}
		return nil

	case tea.KeyMsg:
		if v.startItem != nil && v.startItem.IsFocused() {
			switch msg.String() {
			case "enter":
				v.startItem.Blur()
				return v.StartAction().Run()
			case "esc":
				v.startItem.Blur()
				return nil
			}
		}
		return v.broadcast(msg)
	}

	return v.broadcast(msg)
}

func (v *DebugView) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range v.panels {
		cmds = append(cmds, p.Update(msg))
	}
	return tea.Batch(cmds...)
}
