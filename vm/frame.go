package vm

import "github.com/leoscript/leoscript/value"

// Frame is a per-call activation record, per §3's "Frame (runtime only)".
type Frame struct {
	// ReturnAddress is the instruction index execution resumes at once this
	// frame returns.
	ReturnAddress int

	// StackPointer is the value-stack depth at frame entry: Return/
	// ReturnWithValue truncate the shared value stack back to this depth
	// (plus one, for the returned value), per §5's resource-discipline
	// invariant.
	StackPointer int

	// Variables is grown lazily to its declared size by SetVariableBuffer
	// and indexed by MoveToLocalVariable/LoadLocalVariable.
	Variables []value.Value

	// constructing marks a frame pushed for a class's constructor that was
	// invoked via the Call opcode's runtime construction-sugar path (bare
	// ClassName(args), not explicit `new`): on Return this frame's result
	// is constructed, not whatever the constructor body itself returned, so that `ClassName(args)` evaluates to the new
	// instance rather than to the constructor's own return value.
	constructing bool
	constructed  value.Value
}
