// Package components holds the shared palette for every panel body.
package components

import "github.com/charmbracelet/lipgloss"

const (
	ColorBlack  = lipgloss.Color("0")
	ColorRed    = lipgloss.Color("1")
	ColorYellow = lipgloss.Color("3")
	ColorPurple = lipgloss.Color("5")
	ColorGrey   = lipgloss.Color("7")
	ColorGreen  = lipgloss.Color("10")
	ColorWhite  = lipgloss.Color("15")
	ColorOrange = lipgloss.Color("208")
	ColorBlue   = lipgloss.Color("12")
)

// StateColor maps a session state name to the accent color used by the
// toolbar and the status row.
func StateColor(state string) lipgloss.Color {
	switch state {
	case "running":
		return ColorGreen
	case "stopped":
		return ColorYellow
	case "initializing":
		return ColorBlue
	default:
		return ColorGrey
	}
}
