// Package messages defines the tea.Msg types exchanged between the debug
// view container and its panels.
package messages

import "github.com/lbayona/peek/internal/debugger"

type Error error

// RefreshContent asks every panel to re-read its content from the session.
type RefreshContent struct{}

// PanelFocused carries the id of the panel that should receive key input.
type PanelFocused string

// TogglePanel flips the visibility of the panel with the given id.
type TogglePanel string

type UpdatedHint string

// SessionStateChanged carries the state delivered by the session emitter.
// Handlers use it rather than re-reading the live state: notifications can
// coalesce when transitions arrive faster than the UI loop drains them.
type SessionStateChanged struct {
	State debugger.State
}
type SessionStepped struct{}
type SessionRestarted struct{}

type BreakpointCreated struct{}
type BreakpointToggled struct{}
type BreakpointCleared struct{}

type OpenedFile struct {
	Filename string
	Line     int
}

type ProgramStdoutReceived string
type ProgramStderrReceived string

// ConfigChanged carries the dotted path of a configuration key whose value
// changed at runtime.
type ConfigChanged string

// Action intents. Toolbar actions only ever declare what should happen;
// the root model owns the session and executes them.
type StartRequested struct{}
type StopRequested struct{}
type RestartRequested struct{}
type ContinueRequested struct{}
type NextRequested struct{}
type StepInRequested struct{}
type StepOutRequested struct{}
type ConfigureRequested struct{}

// SelectAndStartRequested asks for the next configured launch target to be
// started in place of the current one.
type SelectAndStartRequested struct{}
