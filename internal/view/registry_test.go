package view

import (
	"testing"

	"github.com/lbayona/peek/internal/debugger"
	"github.com/lbayona/peek/internal/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndDispose(t *testing.T) {
	r := NewActionRegistry()

	disposeNext := r.Register(MenuDebugToolbar, NewContributedAction("debug.toolbar.next", "Next", messages.NextRequested{}))
	r.Register(MenuDebugToolbar, NewContributedAction("debug.toolbar.stop", "Stop", messages.StopRequested{}))

	m := r.Menu(MenuDebugToolbar, nil)
	require.Equal(t, []string{"debug.toolbar.next", "debug.toolbar.stop"}, actionIDs(m.Actions()))

	disposeNext()
	assert.Equal(t, []string{"debug.toolbar.stop"}, actionIDs(m.Actions()))

	disposeNext() // second dispose is a no-op
	assert.Equal(t, []string{"debug.toolbar.stop"}, actionIDs(m.Actions()))
}

func TestMenuChangeNotification(t *testing.T) {
	r := NewActionRegistry()

	changes := 0
	m := r.Menu(MenuDebugToolbar, func() { changes++ })

	dispose := r.Register(MenuDebugToolbar, NewContributedAction("debug.toolbar.restart", "Restart", messages.RestartRequested{}))
	assert.Equal(t, 1, changes)

	dispose()
	assert.Equal(t, 2, changes)

	m.Close()
	r.Register(MenuDebugToolbar, NewContributedAction("debug.toolbar.stop", "Stop", messages.StopRequested{}))
	assert.Equal(t, 2, changes)
}

func TestMenusAreScoped(t *testing.T) {
	r := NewActionRegistry()
	r.Register(MenuID("panel.title"), NewContributedAction("x", "X", nil))

	m := r.Menu(MenuDebugToolbar, nil)
	assert.Empty(t, m.Actions())
}

func TestContributedActionEnabledStates(t *testing.T) {
	a := NewContributedAction("debug.toolbar.continue", "Continue", messages.ContinueRequested{}, debugger.StateStopped)

	assert.True(t, a.Enabled(debugger.StateStopped))
	assert.False(t, a.Enabled(debugger.StateRunning))

	unrestricted := NewContributedAction("debug.toolbar.stop", "Stop", messages.StopRequested{})
	assert.True(t, unrestricted.Enabled(debugger.StateRunning))
}
