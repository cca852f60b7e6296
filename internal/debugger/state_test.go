package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateInactive, "inactive"},
		{StateInitializing, "initializing"},
		{StateStopped, "stopped"},
		{StateRunning, "running"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestStateEmitterNotifiesSubscribers(t *testing.T) {
	e := newStateEmitter()

	var got []State
	e.subscribe(func(s State) { got = append(got, s) })

	e.set(StateInitializing)
	e.set(StateStopped)

	assert.Equal(t, []State{StateInitializing, StateStopped}, got)
	assert.Equal(t, StateStopped, e.current())
}

func TestStateEmitterSkipsNoopTransitions(t *testing.T) {
	e := newStateEmitter()

	calls := 0
	e.subscribe(func(State) { calls++ })

	e.set(StateRunning)
	e.set(StateRunning)

	assert.Equal(t, 1, calls)
}

func TestStateEmitterUnsubscribe(t *testing.T) {
	e := newStateEmitter()

	calls := 0
	cancel := e.subscribe(func(State) { calls++ })

	e.set(StateInitializing)
	cancel()
	cancel() // second cancel is a no-op
	e.set(StateStopped)

	assert.Equal(t, 1, calls)
}

func TestStateEmitterIs(t *testing.T) {
	e := newStateEmitter()
	assert.True(t, e.is(StateInactive))
	assert.True(t, e.is(StateRunning, StateInactive))
	assert.False(t, e.is(StateRunning, StateStopped))
}
