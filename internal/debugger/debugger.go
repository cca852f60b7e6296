// Package debugger wraps a headless delve process behind a small session
// state machine. The view layer only ever sees State values and the typed
// snapshots (variables, breakpoints, stack frames) returned here.
package debugger

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-delve/delve/service/api"
	"github.com/go-delve/delve/service/rpc2"
	"github.com/sirupsen/logrus"
)

var listenAddrRegex = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?):\d{1,5}\b`)

// Session owns the dlv process and its RPC client for one debug target.
type Session struct {
	Output chan Output

	client      *rpc2.RPCClient
	cmd         *exec.Cmd
	emitter     *stateEmitter
	ready       chan string
	cancelInit  func()
	lcfg        api.LoadConfig
	log         *logrus.Entry
	currentFile *os.File
}

func New(log *logrus.Logger) *Session {
	return &Session{
		Output:  make(chan Output, 64),
		emitter: newStateEmitter(),
		ready:   make(chan string),
		log:     log.WithField("component", "session"),
		lcfg: api.LoadConfig{
			FollowPointers:     true,
			MaxVariableRecurse: 4,
			MaxStringLen:       64,
			MaxArrayValues:     16,
			MaxStructFields:    16,
		},
	}
}

// State reports the session state. Safe to call from any goroutine.
func (s *Session) State() State { return s.emitter.current() }

// OnDidChangeState registers fn for every state transition and returns the
// function that cancels the subscription.
func (s *Session) OnDidChangeState(fn func(State)) func() {
	return s.emitter.subscribe(fn)
}

// rpc returns the client when the session is in one of states. Every RPC
// operation goes through here: client is nil until Start succeeds, and the
// keybindings invoke operations regardless of session state.
func (s *Session) rpc(states ...State) (*rpc2.RPCClient, error) {
	if s.client == nil || !s.emitter.is(states...) {
		return nil, fmt.Errorf("no debug session (state is %s)", s.State())
	}
	return s.client, nil
}

// Start launches dlv against target and blocks until the RPC endpoint is up.
// The session moves through Initializing and lands on Stopped (dlv halts the
// target at its entry point).
func (s *Session) Start(target string) error {
	if !s.emitter.is(StateInactive) {
		return fmt.Errorf("cannot start session while %s", s.State())
	}

	s.emitter.set(StateInitializing)
	s.log.WithField("target", target).Info("starting dlv")

	cancel := make(chan struct{})
	var once sync.Once
	s.cancelInit = func() { once.Do(func() { close(cancel) }) }

	if err := s.launch(target, cancel); err != nil {
		s.emitter.set(StateInactive)
		return err
	}

	select {
	case addr := <-s.ready:
		s.client = rpc2.NewClient(addr)
	case <-cancel:
		s.kill()
		s.emitter.set(StateInactive)
		return errors.New("session stopped during startup")
	case <-time.After(10 * time.Second):
		s.cancelInit()
		s.kill()
		s.emitter.set(StateInactive)
		return errors.New("timed out waiting for dlv to listen")
	}

	s.emitter.set(StateStopped)
	return nil
}

func (s *Session) launch(target string, cancel <-chan struct{}) error {
	cmd := exec.Command("dlv", "debug", "--headless", target)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("error creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdout.Close()
		return fmt.Errorf("error creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdout.Close()
		stderr.Close()
		return fmt.Errorf("error starting dlv: %w", err)
	}
	s.cmd = cmd

	go func() {
		defer stdout.Close()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.Contains(line, "listening") {
				// Start may have stopped waiting; never block on ready
				select {
				case s.ready <- listenAddrRegex.FindString(line):
				case <-cancel:
				}
				continue
			}
			s.Output <- Output{Source: SourceStdout, Content: line}
		}
	}()

	go func() {
		defer stderr.Close()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			s.Output <- Output{Source: SourceStderr, Content: scanner.Text()}
		}
	}()

	go func() {
		err := cmd.Wait()
		s.log.WithError(err).Info("dlv exited")
		s.emitter.set(StateInactive)
	}()

	return nil
}

// Stop detaches from the target, killing it, and returns the session to
// Inactive. Stopping during Initializing cancels the in-flight Start and
// kills the launching dlv process. Stopping an inactive session is a no-op.
func (s *Session) Stop() error {
	if s.emitter.is(StateInactive) {
		return nil
	}
	if s.emitter.is(StateInitializing) {
		if s.cancelInit != nil {
			s.cancelInit()
		}
		s.kill()
		s.emitter.set(StateInactive)
		return nil
	}
	if s.client != nil {
		if err := s.client.Detach(true); err != nil {
			s.log.WithError(err).Warn("detach failed")
		}
	}
	s.emitter.set(StateInactive)
	return nil
}

func (s *Session) kill() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
}

// Restart reruns the target from the beginning, keeping breakpoints.
func (s *Session) Restart() error {
	client, err := s.rpc(StateStopped, StateRunning)
	if err != nil {
		return err
	}
	if _, err := client.Restart(false); err != nil {
		return fmt.Errorf("error restarting session: %w", err)
	}
	s.emitter.set(StateStopped)
	return nil
}

// Continue resumes the target. It blocks until the next halt, so callers run
// it off the UI loop; the Running/Stopped transitions arrive through the
// state subscription.
func (s *Session) Continue() error {
	client, err := s.rpc(StateStopped)
	if err != nil {
		return err
	}
	s.emitter.set(StateRunning)
	state := <-client.Continue()
	if state == nil {
		s.emitter.set(StateInactive)
		return errors.New("session closed while running")
	}
	if state.Exited {
		s.emitter.set(StateInactive)
		return fmt.Errorf("target has exited with status %d", state.ExitStatus)
	}
	if state.Err != nil {
		s.emitter.set(StateStopped)
		return fmt.Errorf("error continuing: %w", state.Err)
	}
	s.emitter.set(StateStopped)
	return nil
}

func (s *Session) Next() error {
	client, err := s.rpc(StateStopped)
	if err != nil {
		return err
	}
	state, err := client.Next()
	if err != nil {
		return fmt.Errorf("error stepping over: %w", err)
	}
	return s.afterStep(state)
}

func (s *Session) StepIn() error {
	client, err := s.rpc(StateStopped)
	if err != nil {
		return err
	}
	state, err := client.Step()
	if err != nil {
		return fmt.Errorf("error stepping in: %w", err)
	}
	return s.afterStep(state)
}

func (s *Session) StepOut() error {
	client, err := s.rpc(StateStopped)
	if err != nil {
		return err
	}
	state, err := client.StepOut()
	if err != nil {
		return fmt.Errorf("error stepping out: %w", err)
	}
	return s.afterStep(state)
}

func (s *Session) afterStep(state *api.DebuggerState) error {
	if state.Exited {
		s.emitter.set(StateInactive)
		return fmt.Errorf("target has exited with status %d", state.ExitStatus)
	}
	s.emitter.set(StateStopped)
	return nil
}

// Location reports the file and line the target is halted at.
func (s *Session) Location() (string, int, error) {
	client, err := s.rpc(StateStopped)
	if err != nil {
		return "", 0, err
	}
	state, err := client.GetState()
	if err != nil {
		return "", 0, fmt.Errorf("error getting session state: %w", err)
	}
	if state.CurrentThread == nil {
		return "", 0, errors.New("no current thread")
	}
	return state.CurrentThread.File, state.CurrentThread.Line, nil
}

func (s *Session) scope() (api.EvalScope, error) {
	client, err := s.rpc(StateStopped)
	if err != nil {
		return api.EvalScope{}, err
	}
	state, err := client.GetState()
	if err != nil {
		return api.EvalScope{}, fmt.Errorf("error getting session state: %w", err)
	}
	return api.EvalScope{GoroutineID: state.CurrentThread.GoroutineID}, nil
}

// Variables returns function arguments followed by locals for the current
// frame, each tagged with its scope.
func (s *Session) Variables() ([]Variable, error) {
	scope, err := s.scope()
	if err != nil {
		return nil, err
	}

	args, err := s.client.ListFunctionArgs(scope, s.lcfg)
	if err != nil {
		return nil, fmt.Errorf("error getting function arguments: %w", err)
	}
	locals, err := s.client.ListLocalVariables(scope, s.lcfg)
	if err != nil {
		return nil, fmt.Errorf("error getting local variables: %w", err)
	}

	vars := make([]Variable, 0, len(args)+len(locals))
	for i := range args {
		vars = append(vars, apiVarToVariable(args[i], ScopeArguments))
	}
	for i := range locals {
		vars = append(vars, apiVarToVariable(locals[i], ScopeLocal))
	}
	return vars, nil
}

// Eval evaluates expr in the current frame. Used by the watch panel and the
// debug console.
func (s *Session) Eval(expr string) (Variable, error) {
	scope, err := s.scope()
	if err != nil {
		return Variable{}, err
	}
	v, err := s.client.EvalVariable(scope, expr, s.lcfg)
	if err != nil {
		return Variable{}, fmt.Errorf("error evaluating expression: %w", err)
	}
	out := apiVarToVariable(*v, ScopeLocal)
	out.Name = expr
	return out, nil
}

func (s *Session) CallStack() ([]StackFrame, error) {
	scope, err := s.scope()
	if err != nil {
		return nil, err
	}

	frames, err := s.client.Stacktrace(scope.GoroutineID, 32, 0, &s.lcfg)
	if err != nil {
		return nil, fmt.Errorf("error getting stacktrace: %w", err)
	}

	stack := make([]StackFrame, 0, len(frames))
	for _, f := range frames {
		name := "(unknown)"
		if f.Function != nil {
			name = f.Function.Name()
		}
		stack = append(stack, StackFrame{
			FunctionName: name,
			Filename:     f.File,
			Line:         f.Line,
		})
	}
	return stack, nil
}

func (s *Session) Goroutines() ([]Goroutine, error) {
	client, err := s.rpc(StateStopped)
	if err != nil {
		return nil, err
	}
	gs, _, err := client.ListGoroutines(0, 64)
	if err != nil {
		return nil, fmt.Errorf("error listing goroutines: %w", err)
	}
	state, err := client.GetState()
	if err != nil {
		return nil, fmt.Errorf("error getting session state: %w", err)
	}

	var currentID int64 = -1
	if state.SelectedGoroutine != nil {
		currentID = state.SelectedGoroutine.ID
	}

	goroutines := make([]Goroutine, 0, len(gs))
	for _, g := range gs {
		fn := "(unknown)"
		if g.CurrentLoc.Function != nil {
			fn = g.CurrentLoc.Function.Name()
		}
		goroutines = append(goroutines, Goroutine{
			ID:       g.ID,
			Function: fn,
			Current:  g.ID == currentID,
		})
	}
	return goroutines, nil
}

func (s *Session) Breakpoints() ([]Breakpoint, error) {
	client, err := s.rpc(StateStopped, StateRunning)
	if err != nil {
		return nil, err
	}
	bps, err := client.ListBreakpoints(false)
	if err != nil {
		return nil, fmt.Errorf("error getting breakpoints: %w", err)
	}
	slices.SortFunc(bps, func(a, b *api.Breakpoint) int { return cmp.Compare(a.ID, b.ID) })

	breakpoints := make([]Breakpoint, 0, len(bps))
	for _, bp := range bps {
		// dlv reports internal breakpoints with negative ids
		if bp.ID < 1 {
			continue
		}
		breakpoints = append(breakpoints, apiBpToBreakpoint(bp))
	}
	return breakpoints, nil
}

func (s *Session) CreateBreakpoint(filename string, line int, condition string) (Breakpoint, error) {
	client, err := s.rpc(StateStopped, StateRunning)
	if err != nil {
		return Breakpoint{}, err
	}
	bp, err := client.CreateBreakpoint(&api.Breakpoint{
		File: filename,
		Line: line,
		Cond: condition,
	})
	if err != nil {
		return Breakpoint{}, fmt.Errorf("error creating breakpoint: %w", err)
	}
	return apiBpToBreakpoint(bp), nil
}

// CreateBreakpointAtCurrent sets a breakpoint on the halted line.
func (s *Session) CreateBreakpointAtCurrent() (Breakpoint, error) {
	file, line, err := s.Location()
	if err != nil {
		return Breakpoint{}, err
	}
	return s.CreateBreakpoint(file, line, "")
}

func (s *Session) ToggleBreakpoint(id int) error {
	client, err := s.rpc(StateStopped, StateRunning)
	if err != nil {
		return err
	}
	if _, err := client.ToggleBreakpoint(id); err != nil {
		return fmt.Errorf("error toggling breakpoint: %w", err)
	}
	return nil
}

// SetBreakpointCondition attaches condition to an existing breakpoint; an
// empty condition removes it.
func (s *Session) SetBreakpointCondition(id int, condition string) error {
	client, err := s.rpc(StateStopped, StateRunning)
	if err != nil {
		return err
	}
	bp, err := client.GetBreakpoint(id)
	if err != nil {
		return fmt.Errorf("error getting breakpoint: %w", err)
	}
	bp.Cond = condition
	if err := client.AmendBreakpoint(bp); err != nil {
		return fmt.Errorf("error amending breakpoint: %w", err)
	}
	return nil
}

func (s *Session) ClearBreakpoint(id int) error {
	client, err := s.rpc(StateStopped, StateRunning)
	if err != nil {
		return err
	}
	if _, err := client.ClearBreakpoint(id); err != nil {
		return fmt.Errorf("error clearing breakpoint: %w", err)
	}
	return nil
}

// FileContent returns contextLines lines around line in filename, with the
// halted line marked. The open file handle is cached between calls.
func (s *Session) FileContent(filename string, line, contextLines int) (string, error) {
	if s.currentFile == nil || s.currentFile.Name() != filename {
		if s.currentFile != nil {
			if err := s.currentFile.Close(); err != nil {
				return "", fmt.Errorf("error closing file %s: %w", s.currentFile.Name(), err)
			}
		}
		f, err := os.Open(filename)
		if err != nil {
			return "", fmt.Errorf("error opening file %s: %w", filename, err)
		}
		s.currentFile = f
	}

	if _, err := s.currentFile.Seek(0, 0); err != nil {
		return "", fmt.Errorf("error seeking file %s: %w", filename, err)
	}

	scanner := bufio.NewScanner(s.currentFile)
	currentLine := 0
	startLine := max(0, line-contextLines)
	endLine := line + contextLines

	var lines strings.Builder
	for scanner.Scan() && currentLine < endLine {
		currentLine++
		if currentLine < startLine {
			continue
		}
		fmt.Fprintf(&lines, "%d", currentLine)
		if currentLine == line {
			lines.WriteString(" => ")
		} else {
			lines.WriteString("    ")
		}
		lines.WriteString(scanner.Text() + "\n")
	}
	return lines.String(), nil
}

func apiVarToVariable(v api.Variable, scope string) Variable {
	return Variable{
		Name:  v.Name,
		Value: v.SinglelineString(),
		Type:  v.Type,
		Scope: scope,
	}
}

func apiBpToBreakpoint(bp *api.Breakpoint) Breakpoint {
	return Breakpoint{
		ID:        bp.ID,
		Name:      fmt.Sprintf("%s:%d", bp.File, bp.Line),
		File:      bp.File,
		Line:      bp.Line,
		Condition: bp.Cond,
		Disabled:  bp.Disabled,
	}
}
