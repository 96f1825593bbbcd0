package vm

import (
	"fmt"

	"github.com/leoscript/leoscript/ir"
)

// ErrorKind enumerates the VM's runtime error family from §7.3.
type ErrorKind int

const (
	NoInstructions ErrorKind = iota
	InstructionPointerOutOfBounds
	EntryPointNotFound
	GlobalNotFound
	FunctionNotFound
	MethodNotFound
	InvalidFrame
	InvalidStackIndex
	ExpectedValueOnStack
	ExpectedClassOnStack
	ExpectedIntegerOnStack
	ExpectedIteratorOnStack
	ExpectedObjectOnStack
	InvalidCollectionKey
	InvalidVariableIndex
	InfiniteLoop
	InvalidNativeFunction
	DivisionByZero
	Halted
)

func (k ErrorKind) String() string {
	switch k {
	case NoInstructions:
		return "NoInstructions"
	case InstructionPointerOutOfBounds:
		return "InstructionPointerOutOfBounds"
	case EntryPointNotFound:
		return "EntryPointNotFound"
	case GlobalNotFound:
		return "GlobalNotFound"
	case FunctionNotFound:
		return "FunctionNotFound"
	case MethodNotFound:
		return "MethodNotFound"
	case InvalidFrame:
		return "InvalidFrame"
	case InvalidStackIndex:
		return "InvalidStackIndex"
	case ExpectedValueOnStack:
		return "ExpectedValueOnStack"
	case ExpectedClassOnStack:
		return "ExpectedClassOnStack"
	case ExpectedIntegerOnStack:
		return "ExpectedIntegerOnStack"
	case ExpectedIteratorOnStack:
		return "ExpectedIteratorOnStack"
	case ExpectedObjectOnStack:
		return "ExpectedObjectOnStack"
	case InvalidCollectionKey:
		return "InvalidCollectionKey"
	case InvalidVariableIndex:
		return "InvalidVariableIndex"
	case InfiniteLoop:
		return "InfiniteLoop"
	case InvalidNativeFunction:
		return "InvalidNativeFunction"
	case DivisionByZero:
		return "DivisionByZero"
	case Halted:
		return "Halted"
	default:
		return "UnknownRuntimeError"
	}
}

// Error is a positioned runtime error: the VM's equivalent of
// parser.Error/compiler.Error, carrying a snapshot of call_trace at the
// point execution unwound, per §7's "preserving call_trace in the error
// envelope" propagation rule.
type Error struct {
	Kind      ErrorKind
	Detail    string
	IP        int
	CallTrace []ir.StackTrace
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (ip=%d)", e.Kind, e.Detail, e.IP)
	}
	return fmt.Sprintf("%s (ip=%d)", e.Kind, e.IP)
}

// haltError wraps a *Error so it can cross a panic/recover boundary (the
// step loop panics on any runtime fault; Run recovers it) while still
// satisfying errors.As/errors.Is against the underlying *Error, mirroring
// gothird's own haltError{error}/Unwrap pattern in core.go/internals.go.
type haltError struct{ error }

func (he haltError) Unwrap() error { return he.error }

func (t *Thread) raise(kind ErrorKind, detail string) {
	panic(haltError{&Error{
		Kind:      kind,
		Detail:    detail,
		IP:        t.ip,
		CallTrace: append([]ir.StackTrace(nil), t.callTrace...),
	}})
}
