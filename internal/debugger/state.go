package debugger

import "sync"

// State describes where the debug session currently is. Transitions are
// driven by Session: Start moves Inactive -> Initializing -> Stopped, resume
// operations toggle Stopped <-> Running, and Stop (or the target exiting)
// returns to Inactive.
type State int

const (
	StateInactive State = iota
	StateInitializing
	StateStopped
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateInitializing:
		return "initializing"
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// stateEmitter holds the current state and a set of subscribers. The session
// mutates it from its own goroutines, the view reads it from the UI loop.
type stateEmitter struct {
	mu        sync.RWMutex
	state     State
	nextID    int
	listeners map[int]func(State)
}

func newStateEmitter() *stateEmitter {
	return &stateEmitter{listeners: map[int]func(State){}}
}

func (e *stateEmitter) current() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

func (e *stateEmitter) is(states ...State) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range states {
		if e.state == s {
			return true
		}
	}
	return false
}

// set updates the state and notifies every subscriber. Listeners run outside
// the lock so a listener may unsubscribe itself.
func (e *stateEmitter) set(s State) {
	e.mu.Lock()
	if e.state == s {
		e.mu.Unlock()
		return
	}
	e.state = s
	fns := make([]func(State), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// subscribe registers fn and returns its cancel function. Cancelling twice
// is a no-op.
func (e *stateEmitter) subscribe(fn func(State)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}
