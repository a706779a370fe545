package traversal

// Step operations understood by translators.
const (
	OpV        = "V"
	OpE        = "E"
	OpAddV     = "addV"
	OpAddE     = "addE"
	OpProperty = "property"
	OpFrom     = "from"
	OpTo       = "to"
	OpDrop     = "drop"
	OpValueMap = "valueMap"
)

// Binding references a named value in a traversal's bindings instead of
// embedding the literal in the step sequence.
type Binding string

// Step is one backend-agnostic graph operation.
type Step struct {
	Op   string
	Args []any
}

// Bytecode is an ordered step sequence. It is a value type; Append returns
// an extended copy so bytecode handed to translation stays immutable.
type Bytecode struct {
	steps []Step
}

// Append returns bytecode extended with one step.
func (b Bytecode) Append(op string, args ...any) Bytecode {
	steps := make([]Step, len(b.steps), len(b.steps)+1)
	copy(steps, b.steps)
	return Bytecode{steps: append(steps, Step{Op: op, Args: args})}
}

// Steps returns the step sequence.
func (b Bytecode) Steps() []Step {
	return b.steps
}
