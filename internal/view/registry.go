package view

import "sync"

// MenuID scopes action contributions. The debug toolbar is the only menu
// peek renders today, but contributions are keyed so panels could grow
// their own title menus.
type MenuID string

const (
	MenuDebugToolbar MenuID = "debug.toolbar"
)

type registeredAction struct {
	seq    int
	action Action
}

// ActionRegistry collects contributed actions per menu. Registration order
// is preserved; disposing a registration removes the action.
type ActionRegistry struct {
	mu        sync.Mutex
	seq       int
	menus     map[MenuID][]registeredAction
	nextSubID int
	subs      map[MenuID]map[int]func()
}

func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{
		menus: map[MenuID][]registeredAction{},
		subs:  map[MenuID]map[int]func(){},
	}
}

// Register contributes action to menu and returns the disposer that
// withdraws it. Disposing twice is a no-op.
func (r *ActionRegistry) Register(menu MenuID, action Action) func() {
	r.mu.Lock()
	seq := r.seq
	r.seq++
	r.menus[menu] = append(r.menus[menu], registeredAction{seq: seq, action: action})
	r.mu.Unlock()

	r.notify(menu)

	return func() {
		r.mu.Lock()
		entries := r.menus[menu]
		for i := range entries {
			if entries[i].seq == seq {
				r.menus[menu] = append(entries[:i], entries[i+1:]...)
				break
			}
		}
		r.mu.Unlock()
		r.notify(menu)
	}
}

func (r *ActionRegistry) actions(menu MenuID) []Action {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.menus[menu]
	actions := make([]Action, len(entries))
	for i := range entries {
		actions[i] = entries[i].action
	}
	return actions
}

func (r *ActionRegistry) subscribe(menu MenuID, fn func()) func() {
	r.mu.Lock()
	if r.subs[menu] == nil {
		r.subs[menu] = map[int]func(){}
	}
	id := r.nextSubID
	r.nextSubID++
	r.subs[menu][id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs[menu], id)
		r.mu.Unlock()
	}
}

func (r *ActionRegistry) notify(menu MenuID) {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.subs[menu]))
	for _, fn := range r.subs[menu] {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Menu is a live window onto one menu's contributions. Close releases its
// change subscription; using a closed menu is still safe, it just stops
// receiving change callbacks.
type Menu struct {
	id       MenuID
	registry *ActionRegistry
	cancel   func()
}

// Menu opens a live menu. onDidChange may be nil.
func (r *ActionRegistry) Menu(id MenuID, onDidChange func()) *Menu {
	m := &Menu{id: id, registry: r}
	if onDidChange != nil {
		m.cancel = r.subscribe(id, onDidChange)
	}
	return m
}

// Actions returns the current contributions in registration order.
func (m *Menu) Actions() []Action {
	return m.registry.actions(m.id)
}

func (m *Menu) Close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
