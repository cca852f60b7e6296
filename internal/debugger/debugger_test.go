package debugger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationsWithoutSessionReturnErrors(t *testing.T) {
	s := New(logrus.New())

	assert.Error(t, s.Continue())
	assert.Error(t, s.Next())
	assert.Error(t, s.StepIn())
	assert.Error(t, s.StepOut())
	assert.Error(t, s.Restart())

	_, err := s.Variables()
	assert.Error(t, err)
	_, err = s.Eval("x")
	assert.Error(t, err)
	_, err = s.CallStack()
	assert.Error(t, err)
	_, err = s.Goroutines()
	assert.Error(t, err)
	_, _, err = s.Location()
	assert.Error(t, err)

	_, err = s.Breakpoints()
	assert.Error(t, err)
	_, err = s.CreateBreakpointAtCurrent()
	assert.Error(t, err)
	assert.Error(t, s.ToggleBreakpoint(1))
	assert.Error(t, s.ClearBreakpoint(1))
	assert.Error(t, s.SetBreakpointCondition(1, "x > 1"))

	assert.Equal(t, StateInactive, s.State())
}

func TestStartRejectedWhileSessionLive(t *testing.T) {
	s := New(logrus.New())
	s.emitter.set(StateStopped)

	assert.Error(t, s.Start("."))
	assert.Equal(t, StateStopped, s.State())
}

func TestStopDuringInitializationCancelsStart(t *testing.T) {
	s := New(logrus.New())

	cancelled := false
	s.cancelInit = func() { cancelled = true }
	s.emitter.set(StateInitializing)

	require.NoError(t, s.Stop())
	assert.True(t, cancelled)
	assert.Equal(t, StateInactive, s.State())
}

func TestStopWhenInactiveIsNoop(t *testing.T) {
	s := New(logrus.New())

	calls := 0
	s.OnDidChangeState(func(State) { calls++ })

	require.NoError(t, s.Stop())
	assert.Zero(t, calls)
}
