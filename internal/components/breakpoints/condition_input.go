package breakpoints

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// conditionEntered carries the condition typed for the selected breakpoint.
type conditionEntered string

type conditionInputModel struct {
	isFocused bool
	textInput textinput.Model
}

func newConditionInputModel() conditionInputModel {
	ti := textinput.New()
	ti.Placeholder = "condition"
	ti.CharLimit = 256
	ti.Prompt = "? "

	return conditionInputModel{textInput: ti}
}

func (m conditionInputModel) focus() (conditionInputModel, tea.Cmd) {
	m.isFocused = true
	return m, m.textInput.Focus()
}

func (m conditionInputModel) Update(msg tea.Msg) (conditionInputModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.textInput.Width = max(msg.Width-3, 1)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.isFocused = false
			m.textInput.Blur()
			m.textInput.SetValue("")
			return m, nil

		case "enter":
			content := m.textInput.Value()
			m.isFocused = false
			m.textInput.Blur()
			m.textInput.SetValue("")
			return m, func() tea.Msg { return conditionEntered(content) }
		}

		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m conditionInputModel) View() string {
	if !m.isFocused {
		return ""
	}
	return m.textInput.View()
}
