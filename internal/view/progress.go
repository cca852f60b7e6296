package view

import (
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components"
)

// Progress starts indicators for long-running work. Show returns the handle
// that ends the indicator; ending it twice is harmless.
type Progress interface {
	Show(indeterminate bool) *ProgressHandle
}

type ProgressHandle struct {
	once sync.Once
	end  func()
}

func (h *ProgressHandle) Done() {
	h.once.Do(h.end)
}

// SpinnerProgress renders active indicators as a spinner in the toolbar
// row. Indicators can overlap; the spinner shows while any are live.
type SpinnerProgress struct {
	spinner spinner.Model
	active  int
}

func NewSpinnerProgress() *SpinnerProgress {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(components.ColorBlue)

	return &SpinnerProgress{spinner: s}
}

func (p *SpinnerProgress) Show(indeterminate bool) *ProgressHandle {
	p.active++
	return &ProgressHandle{end: func() { p.active-- }}
}

func (p *SpinnerProgress) Active() bool { return p.active > 0 }

// TickCmd starts the spinner animation.
func (p *SpinnerProgress) TickCmd() tea.Cmd { return p.spinner.Tick }

func (p *SpinnerProgress) Update(msg tea.Msg) tea.Cmd {
	if !p.Active() {
		return nil
	}
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return cmd
}

func (p *SpinnerProgress) View() string {
	if !p.Active() {
		return ""
	}
	return p.spinner.View()
}
