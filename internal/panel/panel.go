// Package panel provides the collapsible section chrome every debug
// sub-view (variables, watch, call stack, breakpoints, console) is wrapped
// in. A panel owns its body model, its expand/collapse state and its sizing
// bounds, and lets the container subscribe to state changes.
package panel

import (
	"fmt"
	"math"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lbayona/peek/internal/components"
	"github.com/lbayona/peek/internal/messages"
)

// SizeUnbounded lifts the maximum-body-size clamp so the panel may grow to
// fill whatever space the container gives it.
const SizeUnbounded = math.MaxInt

var (
	chromeFocusedStyle   = lipgloss.NewStyle().Foreground(components.ColorGreen)
	chromeDefaultStyle   = lipgloss.NewStyle()
	collapsedMarkerStyle = lipgloss.NewStyle().Foreground(components.ColorGrey)
)

// Panel wraps a body model with bordered chrome. Mutating methods are only
// called from the UI loop; the listener set is locked because change
// subscriptions may be cancelled from teardown paths.
type Panel struct {
	id        string
	title     string
	index     int
	body      tea.Model
	isFocused bool
	collapsed bool
	hidden    bool

	width       int
	bodyHeight  int
	minBodySize int
	maxBodySize int

	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func New(id, title string, index, minBodySize int, body tea.Model) *Panel {
	return &Panel{
		id:          id,
		title:       title,
		index:       index,
		body:        body,
		minBodySize: minBodySize,
		maxBodySize: SizeUnbounded,
		bodyHeight:  minBodySize,
		listeners:   map[int]func(){},
	}
}

func (p *Panel) ID() string    { return p.id }
func (p *Panel) Title() string { return p.title }
func (p *Panel) Index() int    { return p.index }

func (p *Panel) IsFocused() bool { return p.isFocused }
func (p *Panel) Collapsed() bool { return p.collapsed }
func (p *Panel) Hidden() bool    { return p.hidden }

// Expanded reports whether the panel body is currently shown.
func (p *Panel) Expanded() bool { return !p.collapsed && !p.hidden }

func (p *Panel) MinimumBodySize() int { return p.minBodySize }
func (p *Panel) MaximumBodySize() int { return p.maxBodySize }

// SetMaximumBodySize clamps how tall the body may grow. It does not fire
// the change subscription: sizing is recomputed by the container, and the
// recompute must not feed back into itself.
func (p *Panel) SetMaximumBodySize(size int) {
	p.maxBodySize = size
	p.resizeBody()
}

// BodyHeight is the height the body is currently laid out at.
func (p *Panel) BodyHeight() int { return p.bodyHeight }

func (p *Panel) SetCollapsed(collapsed bool) {
	if p.collapsed == collapsed {
		return
	}
	p.collapsed = collapsed
	p.fireChanged()
}

func (p *Panel) SetHidden(hidden bool) {
	if p.hidden == hidden {
		return
	}
	p.hidden = hidden
	p.fireChanged()
}

// OnDidChange registers fn to run after every expand/collapse or visibility
// change and returns the cancel function.
func (p *Panel) OnDidChange(fn func()) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Panel) fireChanged() {
	p.mu.Lock()
	fns := make([]func(), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (p *Panel) Init() tea.Cmd {
	return p.body.Init()
}

func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case messages.PanelFocused:
		p.isFocused = string(msg) == p.id

	case messages.TogglePanel:
		if string(msg) == p.id {
			p.SetHidden(!p.hidden)
		}
		return nil

	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.bodyHeight = msg.Height
		p.resizeBody()
		return nil

	case tea.KeyMsg:
		if !p.isFocused {
			return nil
		}
		if s := msg.String(); s == " " || s == "space" {
			p.SetCollapsed(!p.collapsed)
			return nil
		}
	}

	var cmd tea.Cmd
	p.body, cmd = p.body.Update(msg)
	return cmd
}

func (p *Panel) resizeBody() {
	height := p.bodyHeight
	if p.maxBodySize != SizeUnbounded && height > p.maxBodySize {
		height = p.maxBodySize
	}
	if height < p.minBodySize {
		height = p.minBodySize
	}
	p.bodyHeight = height

	p.body, _ = p.body.Update(tea.WindowSizeMsg{
		Width:  max(p.width-2, 0),
		Height: height,
	})
}

func (p *Panel) View() string {
	if p.hidden {
		return ""
	}

	style := chromeDefaultStyle
	if p.isFocused {
		style = chromeFocusedStyle
	}

	marker := "▾"
	if p.collapsed {
		marker = "▸"
	}

	title := style.Render(fmt.Sprintf("%s[%d] %s", marker, p.index, p.title))
	titleWidth := lipgloss.Width(title)
	topBorder := style.Render("┌") + title + style.Render(strings.Repeat("─", max(p.width-titleWidth, 0))) + style.Render("┐")

	if p.collapsed {
		return collapsedMarkerStyle.Inherit(style).Render(topBorder)
	}

	return lipgloss.JoinVertical(lipgloss.Top,
		topBorder,
		style.
			Width(p.width).
			Border(lipgloss.NormalBorder()).
			BorderForeground(style.GetForeground()).
			BorderTop(false).
			Render(p.body.View()),
	)
}
