package view

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lbayona/peek/internal/config"
	"github.com/lbayona/peek/internal/debugger"
	"github.com/lbayona/peek/internal/messages"
	"github.com/lbayona/peek/internal/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBody struct{}

func (stubBody) Init() tea.Cmd                         { return nil }
func (b stubBody) Update(tea.Msg) (tea.Model, tea.Cmd) { return b, nil }
func (stubBody) View() string                          { return "" }

type fakeStateSource struct {
	state debugger.State
}

func (f *fakeStateSource) State() debugger.State { return f.state }

func (f *fakeStateSource) OnDidChangeState(func(debugger.State)) func() { return func() {} }

type fakeConfig struct {
	toolBarLocation string
}

func (f *fakeConfig) ToolBarLocation() string { return f.toolBarLocation }

func (f *fakeConfig) OnDidChange(func(string)) func() { return func() {} }

type fakeProgress struct {
	shows int
	dones int
}

func (p *fakeProgress) Show(bool) *ProgressHandle {
	p.shows++
	return &ProgressHandle{end: func() { p.dones++ }}
}

func newTestView(state debugger.State, toolBarLocation string) (*DebugView, *fakeStateSource, *fakeProgress) {
	src := &fakeStateSource{state: state}
	progress := &fakeProgress{}
	v := NewDebugView(src, &fakeConfig{toolBarLocation: toolBarLocation}, NewActionRegistry(), progress)
	return v, src, progress
}

func transition(v *DebugView, src *fakeStateSource, s debugger.State) {
	src.state = s
	v.Update(messages.SessionStateChanged{State: s})
}

func newTestPanel(id string) *panel.Panel {
	return panel.New(id, id, 1, 3, stubBody{})
}

func TestInitializingStartsProgressIndicator(t *testing.T) {
	v, src, progress := newTestView(debugger.StateInactive, config.ToolBarDocked)

	transition(v, src, debugger.StateInitializing)
	assert.Equal(t, 1, progress.shows)
	assert.Zero(t, progress.dones)

	transition(v, src, debugger.StateStopped)
	assert.Equal(t, 1, progress.dones)
	assert.Equal(t, 1, progress.shows)
}

func TestCoalescedTransitionsStillShowProgress(t *testing.T) {
	v, src, progress := newTestView(debugger.StateInactive, config.ToolBarDocked)

	// the live state already advanced past Initializing before the first
	// notification was handled; the carried state must win
	src.state = debugger.StateStopped
	v.Update(messages.SessionStateChanged{State: debugger.StateInitializing})
	assert.Equal(t, 1, progress.shows)

	v.Update(messages.SessionStateChanged{State: debugger.StateStopped})
	assert.Equal(t, 1, progress.dones)
}

func TestNewInitializingEndsPreviousIndicatorFirst(t *testing.T) {
	v, src, progress := newTestView(debugger.StateInactive, config.ToolBarDocked)

	transition(v, src, debugger.StateInitializing)
	transition(v, src, debugger.StateInitializing)

	assert.Equal(t, 2, progress.shows)
	assert.Equal(t, 1, progress.dones)
}

func TestShowInitialActionsWhenInactive(t *testing.T) {
	for _, location := range []string{config.ToolBarDocked, config.ToolBarFloating, config.ToolBarHidden} {
		t.Run(location, func(t *testing.T) {
			v, _, _ := newTestView(debugger.StateInactive, location)
			assert.True(t, v.ShowInitialActions())
		})
	}
}

func TestDockedPrimaryActionsComeFromMenu(t *testing.T) {
	src := &fakeStateSource{state: debugger.StateStopped}
	registry := NewActionRegistry()
	registry.Register(MenuDebugToolbar, NewContributedAction("debug.toolbar.continue", "Continue", messages.ContinueRequested{}))
	registry.Register(MenuDebugToolbar, NewContributedAction("debug.toolbar.next", "Next", messages.NextRequested{}))

	v := NewDebugView(src, &fakeConfig{toolBarLocation: config.ToolBarDocked}, registry, &fakeProgress{})

	require.False(t, v.ShowInitialActions())
	assert.Equal(t,
		[]string{"debug.toolbar.continue", "debug.toolbar.next"},
		actionIDs(v.PrimaryActions()),
	)
	assert.Equal(t,
		[]string{ActionSelectAndStart, ActionConfigure, ActionToggleDebugConsole},
		actionIDs(v.SecondaryActions()),
	)
}

func TestFloatingToolbarKeepsInitialActions(t *testing.T) {
	for _, state := range []debugger.State{debugger.StateInactive, debugger.StateStopped, debugger.StateRunning} {
		t.Run(state.String(), func(t *testing.T) {
			v, _, _ := newTestView(state, config.ToolBarFloating)

			require.True(t, v.ShowInitialActions())
			assert.Equal(t,
				[]string{ActionStart, ActionConfigure, ActionToggleDebugConsole},
				actionIDs(v.PrimaryActions()),
			)
			assert.Empty(t, v.SecondaryActions())
		})
	}
}

func actionIDs(actions []Action) []string {
	ids := make([]string, len(actions))
	for i, a := range actions {
		ids[i] = a.ID()
	}
	return ids
}

func TestBreakpointsClampedWhileSiblingExpanded(t *testing.T) {
	v, _, _ := newTestView(debugger.StateStopped, config.ToolBarDocked)

	variables := newTestPanel(PanelVariables)
	breakpoints := newTestPanel(PanelBreakpoints)
	v.AddPanels([]*panel.Panel{variables, breakpoints})

	assert.Equal(t, breakpoints.MinimumBodySize(), breakpoints.MaximumBodySize())

	// collapsing the only sibling lets breakpoints grow
	variables.SetCollapsed(true)
	assert.Equal(t, panel.SizeUnbounded, breakpoints.MaximumBodySize())

	// expanding it again clamps breakpoints back down
	variables.SetCollapsed(false)
	assert.Equal(t, breakpoints.MinimumBodySize(), breakpoints.MaximumBodySize())
}

func TestBreakpointsSizingOnAttachDetach(t *testing.T) {
	v, _, _ := newTestView(debugger.StateStopped, config.ToolBarDocked)

	breakpoints := newTestPanel(PanelBreakpoints)
	v.AddPanels([]*panel.Panel{breakpoints})
	assert.Equal(t, panel.SizeUnbounded, breakpoints.MaximumBodySize())

	watch := newTestPanel(PanelWatch)
	v.AddPanels([]*panel.Panel{watch})
	assert.Equal(t, breakpoints.MinimumBodySize(), breakpoints.MaximumBodySize())

	v.RemovePanels([]*panel.Panel{watch})
	assert.Equal(t, panel.SizeUnbounded, breakpoints.MaximumBodySize())
}

func TestRemovePanelsReleasesListener(t *testing.T) {
	v, _, _ := newTestView(debugger.StateStopped, config.ToolBarDocked)

	watch := newTestPanel(PanelWatch)
	breakpoints := newTestPanel(PanelBreakpoints)
	v.AddPanels([]*panel.Panel{watch, breakpoints})
	require.Contains(t, v.panelListeners, PanelWatch)

	v.RemovePanels([]*panel.Panel{watch})
	assert.NotContains(t, v.panelListeners, PanelWatch)
	assert.Equal(t, panel.SizeUnbounded, breakpoints.MaximumBodySize())

	// a change on the detached panel no longer reaches the sizing rule
	watch.SetCollapsed(true)
	watch.SetCollapsed(false)
	assert.Equal(t, panel.SizeUnbounded, breakpoints.MaximumBodySize())

	// detaching twice is a no-op
	v.RemovePanels([]*panel.Panel{watch})
	assert.NotContains(t, v.panelListeners, PanelWatch)
}

func TestActionItemForStartIsMemoized(t *testing.T) {
	v, _, _ := newTestView(debugger.StateInactive, config.ToolBarDocked)

	first := v.ActionItemFor(v.StartAction())
	second := v.ActionItemFor(v.StartAction())

	require.IsType(t, &StartActionItem{}, first)
	assert.Same(t, first, second)
}

func TestActionItemResolution(t *testing.T) {
	v, _, _ := newTestView(debugger.StateInactive, config.ToolBarDocked)

	focusSession := NewContributedAction(FocusSessionPrefix+"main", "main", messages.PanelFocused(PanelVariables))
	assert.IsType(t, sessionActionItem{}, v.ActionItemFor(focusSession))

	contributed := NewContributedAction("debug.toolbar.stop", "Stop", messages.StopRequested{})
	assert.IsType(t, menuActionItem{}, v.ActionItemFor(contributed))

	// non-contributed actions fall back to the default rendering
	assert.Nil(t, v.ActionItemFor(ConfigureAction{}))
}

func TestFocusDelegatesToStartItem(t *testing.T) {
	v, _, _ := newTestView(debugger.StateInactive, config.ToolBarDocked)

	item := v.ActionItemFor(v.StartAction()).(*StartActionItem)
	v.Focus()
	assert.True(t, item.IsFocused())

	cmd := v.FocusPanel(PanelVariables)
	require.NotNil(t, cmd)
	assert.Equal(t, messages.PanelFocused(PanelVariables), cmd())
	assert.False(t, item.IsFocused())
}

func TestToggleConsoleActionTargetsConsolePanel(t *testing.T) {
	v, _, _ := newTestView(debugger.StateInactive, config.ToolBarDocked)

	a := v.ToggleConsoleAction()
	assert.Equal(t, ActionToggleDebugConsole, a.ID())

	msg := a.Run()()
	assert.Equal(t, messages.TogglePanel(PanelConsole), msg)
}

func TestDisposeReleasesEverything(t *testing.T) {
	v, src, progress := newTestView(debugger.StateInactive, config.ToolBarDocked)

	watch := newTestPanel(PanelWatch)
	breakpoints := newTestPanel(PanelBreakpoints)
	v.AddPanels([]*panel.Panel{watch, breakpoints})

	transition(v, src, debugger.StateInitializing)
	v.menu() // force lazy creation

	v.Dispose()

	assert.Empty(t, v.panelListeners)
	assert.Nil(t, v.toolbarMenu)
	assert.Equal(t, progress.shows, progress.dones)
}
