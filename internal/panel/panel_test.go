package panel

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lbayona/peek/internal/messages"
	"github.com/stretchr/testify/assert"
)

type nopBody struct{}

func (nopBody) Init() tea.Cmd                         { return nil }
func (b nopBody) Update(tea.Msg) (tea.Model, tea.Cmd) { return b, nil }
func (nopBody) View() string                          { return "" }

func TestSetCollapsedFiresChanged(t *testing.T) {
	p := New("watch", "Watch", 2, 3, nopBody{})

	calls := 0
	p.OnDidChange(func() { calls++ })

	p.SetCollapsed(true)
	p.SetCollapsed(true) // no change, no event
	p.SetCollapsed(false)

	assert.Equal(t, 2, calls)
}

func TestOnDidChangeCancel(t *testing.T) {
	p := New("watch", "Watch", 2, 3, nopBody{})

	calls := 0
	cancel := p.OnDidChange(func() { calls++ })

	p.SetCollapsed(true)
	cancel()
	p.SetCollapsed(false)

	assert.Equal(t, 1, calls)
}

func TestExpandedAccountsForVisibility(t *testing.T) {
	p := New("console", "Debug Console", 5, 3, nopBody{})
	assert.True(t, p.Expanded())

	p.SetHidden(true)
	assert.False(t, p.Expanded())

	p.SetHidden(false)
	p.SetCollapsed(true)
	assert.False(t, p.Expanded())
}

func TestTogglePanelMessageMatchesByID(t *testing.T) {
	p := New("console", "Debug Console", 5, 3, nopBody{})

	p.Update(messages.TogglePanel("variables"))
	assert.False(t, p.Hidden())

	p.Update(messages.TogglePanel("console"))
	assert.True(t, p.Hidden())
}

func TestMaximumBodySizeClampsHeight(t *testing.T) {
	p := New("breakpoints", "Breakpoints", 4, 3, nopBody{})

	p.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	assert.Equal(t, 12, p.BodyHeight())

	p.SetMaximumBodySize(3)
	assert.Equal(t, 3, p.BodyHeight())

	p.SetMaximumBodySize(SizeUnbounded)
	p.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	assert.Equal(t, 12, p.BodyHeight())
}

func TestSpaceTogglesCollapseOnlyWhenFocused(t *testing.T) {
	p := New("watch", "Watch", 2, 3, nopBody{})

	space := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	p.Update(space)
	assert.False(t, p.Collapsed())

	p.Update(messages.PanelFocused("watch"))
	p.Update(space)
	assert.True(t, p.Collapsed())
}
