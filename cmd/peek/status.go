package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components"
	"github.com/lbayona/peek/internal/messages"
	"github.com/muesli/reflow/wordwrap"
)

var (
	statusErrorStyle = lipgloss.NewStyle().Foreground(components.ColorOrange)
	statusHintStyle  = lipgloss.NewStyle().Foreground(components.ColorPurple)
)

type statusModel struct {
	width int
	hint  string
	err   error
}

func newStatusModel() statusModel {
	return statusModel{
		hint: "1-5: focus, 0: toolbar, `: console, f5: run, f10/f11: step, ctrl+t: toolbar location",
	}
}

func (m statusModel) Update(msg tea.Msg) (statusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case messages.Error:
		m.err = msg
		return m, nil

	case messages.UpdatedHint:
		m.hint = string(msg)
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m statusModel) View() string {
	if m.err != nil {
		return statusErrorStyle.Width(m.width).Render(wordwrap.String(m.buildErrorMessage(), m.width))
	}
	return statusHintStyle.Width(m.width).Render(m.hint)
}

// buildErrorMessage rewrites the noisiest session errors into something a
// user can act on.
func (m statusModel) buildErrorMessage() string {
	msg := m.err.Error()

	if strings.Contains(msg, "has exited with status") {
		return "target exited, press f5 to start again or q to quit"
	}
	if strings.Contains(msg, "error evaluating expression:") {
		return "expression failed:" + strings.SplitN(msg, "error evaluating expression:", 2)[1]
	}

	return msg
}
