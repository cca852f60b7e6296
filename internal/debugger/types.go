package debugger

// Variable is a single name/value pair shown by the variables and watch
// panels. Scope distinguishes locals from function arguments.
type Variable struct {
	Name  string
	Value string
	Type  string
	Scope string
}

const (
	ScopeLocal     = "local"
	ScopeArguments = "arguments"
)

type Breakpoint struct {
	ID        int
	Name      string
	File      string
	Line      int
	Condition string
	Disabled  bool
}

type StackFrame struct {
	FunctionName string
	Filename     string
	Line         int
}

type Goroutine struct {
	ID       int64
	Function string
	Current  bool
}

type OutputSource int

const (
	SourceStdout OutputSource = iota
	SourceStderr
)

// Output is one line written by the target program.
type Output struct {
	Source  OutputSource
	Content string
}
