package view

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components"
	"github.com/lbayona/peek/internal/config"
	"github.com/lbayona/peek/internal/panel"
)

// layoutPanels divides the container height among the attached panels.
// Collapsed panels keep their one-row header; expanded panels start at
// their minimum body size and leftover rows are handed out in attach order,
// capped by each panel's maximum body size.
func (v *DebugView) layoutPanels() {
	if v.width == 0 || len(v.panels) == 0 {
		return
	}

	available := v.height
	if v.cfg.ToolBarLocation() == config.ToolBarDocked {
		available-- // toolbar row
	}

	var expanded []*panel.Panel
	for _, p := range v.panels {
		if p.Hidden() {
			continue
		}
		if p.Collapsed() {
			available-- // header row only
			continue
		}
		available -= 2 // header and bottom border
		expanded = append(expanded, p)
	}

	heights := make(map[*panel.Panel]int, len(expanded))
	for _, p := range expanded {
		heights[p] = p.MinimumBodySize()
		available -= p.MinimumBodySize()
	}
	if len(expanded) > 0 && available > 0 {
		share := available / len(expanded)
		for _, p := range expanded {
			grow := share
			if p.MaximumBodySize() != panel.SizeUnbounded {
				grow = min(grow, p.MaximumBodySize()-heights[p])
			}
			if grow > 0 {
				heights[p] += grow
				available -= grow
			}
		}
		// remainder goes to the first panel still allowed to grow
		for _, p := range expanded {
			if available <= 0 {
				break
			}
			if p.MaximumBodySize() == panel.SizeUnbounded {
				heights[p] += available
				available = 0
			}
		}
	}

	for _, p := range v.panels {
		if p.Hidden() || p.Collapsed() {
			p.Update(tea.WindowSizeMsg{Width: v.width, Height: p.MinimumBodySize()})
			continue
		}
		p.Update(tea.WindowSizeMsg{Width: v.width, Height: heights[p]})
	}
}

var toolbarStateStyle = lipgloss.NewStyle().Bold(true)

// ToolbarView renders the progress spinner, the session state, and the
// primary action items on one row.
func (v *DebugView) ToolbarView() string {
	state := v.state.State()

	var chips []string
	if ap, ok := v.progress.(animatedProgress); ok && ap.Active() {
		chips = append(chips, ap.View())
	}
	chips = append(chips, toolbarStateStyle.Foreground(components.StateColor(state.String())).Render(state.String()))

	for _, item := range v.toolbar {
		chips = append(chips, item.View(state))
	}

	return lipgloss.NewStyle().
		Width(v.width).
		MaxHeight(1).
		Render(strings.Join(chips, " "))
}

func (v *DebugView) View() string {
	var sections []string
	if v.cfg.ToolBarLocation() == config.ToolBarDocked {
		sections = append(sections, v.ToolbarView())
	}

	for _, p := range v.panels {
		if p.Hidden() {
			continue
		}
		sections = append(sections, p.View())
	}

	return lipgloss.JoinVertical(lipgloss.Top, sections...)
}
