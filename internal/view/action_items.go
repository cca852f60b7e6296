package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components"
	"github.com/lbayona/peek/internal/debugger"
)

// FocusSessionPrefix marks actions that bring a running session's panels to
// the front; their items get the session accent theme.
const FocusSessionPrefix = "debug.focusSession."

var (
	startItemStyle        = lipgloss.NewStyle().Foreground(components.ColorGreen).Bold(true)
	startItemFocusedStyle = lipgloss.NewStyle().Foreground(components.ColorBlack).Background(components.ColorGreen).Bold(true)
	sessionItemStyle      = lipgloss.NewStyle().Foreground(components.ColorPurple)
	menuItemStyle         = lipgloss.NewStyle().Foreground(components.ColorWhite)
	disabledItemStyle     = lipgloss.NewStyle().Foreground(components.ColorGrey)
)

// ActionItem renders one toolbar action. The framework default (no item)
// is represented by a nil ActionItem.
type ActionItem interface {
	Action() Action
	View(state debugger.State) string
}

// StartActionItem is the interactive item for the start action: it can hold
// keyboard focus so Enter triggers it.
type StartActionItem struct {
	action    Action
	isFocused bool
}

func (i *StartActionItem) Action() Action { return i.action }

func (i *StartActionItem) Focus()          { i.isFocused = true }
func (i *StartActionItem) Blur()           { i.isFocused = false }
func (i *StartActionItem) IsFocused() bool { return i.isFocused }

func (i *StartActionItem) View(state debugger.State) string {
	label := "▶ " + i.action.Label()
	if state == debugger.StateStopped || state == debugger.StateRunning {
		label = "▶ Continue"
	}

	switch {
	case !i.action.Enabled(state):
		return disabledItemStyle.Render(label)
	case i.isFocused:
		return startItemFocusedStyle.Render(label)
	default:
		return startItemStyle.Render(label)
	}
}

// sessionActionItem is the themed item for focus-session actions.
type sessionActionItem struct {
	action Action
}

func (i sessionActionItem) Action() Action { return i.action }

func (i sessionActionItem) View(state debugger.State) string {
	if !i.action.Enabled(state) {
		return disabledItemStyle.Render(i.action.Label())
	}
	return sessionItemStyle.Render("◉ " + i.action.Label())
}

// menuActionItem is the plain rendering for contributed menu actions.
type menuActionItem struct {
	action Action
}

func (i menuActionItem) Action() Action { return i.action }

func (i menuActionItem) View(state debugger.State) string {
	if !i.action.Enabled(state) {
		return disabledItemStyle.Render(i.action.Label())
	}
	return menuItemStyle.Render(i.action.Label())
}

// actionItemFor resolves the item used to render a. Start gets the
// remembered interactive item, focus-session actions the themed item,
// contributed actions the generic item; anything else falls back to the
// default rendering (nil).
func (v *DebugView) actionItemFor(a Action) ActionItem {
	switch {
	case a.ID() == ActionStart:
		if v.startItem == nil {
			v.startItem = &StartActionItem{action: a}
		}
		return v.startItem

	case strings.HasPrefix(a.ID(), FocusSessionPrefix):
		return sessionActionItem{action: a}
	}

	if _, ok := a.(ContributedAction); ok {
		return menuActionItem{action: a}
	}
	return nil
}
