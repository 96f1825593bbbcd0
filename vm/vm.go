// Package vm executes an ir.Program: the fetch-decode-execute loop (§4.6 of
// the language contract) over a shared value stack and a LIFO of call
// Frames, generalized from gothird's own Forth data-stack core.go loop to
// Leo's tagged value.Value stack.
package vm

import (
	"errors"
	"fmt"

	"github.com/leoscript/leoscript/internal/flushio"
	"github.com/leoscript/leoscript/internal/panicerr"
	"github.com/leoscript/leoscript/ir"
	"github.com/leoscript/leoscript/value"
)

// Thread is one independent execution context over a Program: its own value
// stack, frame stack and call trace, per §3's "Thread (runtime only)" — no
// state is shared between Threads, so the embedder may drive several in
// parallel (see script.RunConcurrent).
type Thread struct {
	prog *ir.Program

	ip     int
	stack  []value.Value
	frames []*Frame

	callTrace []ir.StackTrace

	out flushio.WriteFlusher
	logf func(string, ...interface{})

	instructionLimit int
	executed         int
}

// NewThread loads prog into a fresh Thread, ready to Run an entrypoint.
func NewThread(prog *ir.Program, opts ...ThreadOption) *Thread {
	t := &Thread{prog: prog}
	defaultOptions.apply(t)
	ThreadOptions(opts...).apply(t)
	return t
}

// Run invokes the global named entrypoint with params as its arguments and
// drives the fetch-execute loop until that call returns to top level,
// returning its result (Null if it returned nothing). A VM bug (a slice
// index panic, an unreachable-state panic) is recovered and surfaced as a
// plain error rather than crashing the embedder, mirroring how gothird's
// api.go wraps vm.run in panicerr.Recover.
func (t *Thread) Run(entrypoint string, params []value.Value) (value.Value, error) {
	err := panicerr.Recover("vm", func() error {
		entry, ok := t.prog.Globals[entrypoint]
		if !ok {
			return &Error{Kind: EntryPointNotFound, Detail: entrypoint}
		}
		if entry.Kind() != value.FunctionPointer {
			return &Error{Kind: EntryPointNotFound, Detail: entrypoint + " is not a function"}
		}

		t.stack = append(t.stack, entry)
		t.stack = append(t.stack, params...)
		t.ip = -1 // never dereferenced: the loop below stops once this call's frame pops
		t.dispatchCall(len(params))

		for len(t.frames) > 0 {
			t.step()
		}
		return nil
	})
	if err != nil {
		var he haltError
		if errors.As(err, &he) {
			err = he.error
		}
		return value.NewNull(), err
	}
	if len(t.stack) > 0 {
		result := t.stack[len(t.stack)-1]
		t.stack = t.stack[:0]
		return result, nil
	}
	return value.NewNull(), nil
}

func (t *Thread) frame() *Frame {
	if len(t.frames) == 0 {
		t.raise(InvalidFrame, "no active frame")
	}
	return t.frames[len(t.frames)-1]
}

func (t *Thread) push(v value.Value) { t.stack = append(t.stack, v) }

func (t *Thread) pop() value.Value {
	if len(t.stack) == 0 {
		t.raise(InvalidStackIndex, "pop on empty stack")
	}
	v := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return v
}

// step fetches, decodes and executes exactly one instruction, advancing ip
// (directly, for control-flow ops; by one, otherwise).
func (t *Thread) step() {
	if t.instructionLimit > 0 && t.executed >= t.instructionLimit {
		t.raise(InfiniteLoop, fmt.Sprintf("exceeded %d instructions", t.instructionLimit))
	}
	t.executed++

	if t.ip < 0 || t.ip >= len(t.prog.Instructions) {
		t.raise(InstructionPointerOutOfBounds, fmt.Sprintf("ip=%d", t.ip))
	}
	instr := t.prog.Instructions[t.ip]
	if t.logf != nil {
		t.logf("trace %d: %s", t.ip, instr.Op)
	}

	switch instr.Op {
	case ir.NoOperation:
		t.ip++

	case ir.SetVariableBuffer:
		t.frame().Variables = make([]value.Value, instr.Int)
		t.ip++

	case ir.PushNull:
		t.push(value.NewNull())
		t.ip++
	case ir.PushInteger:
		t.push(value.NewInteger(int64(instr.Int)))
		t.ip++
	case ir.PushFloat:
		t.push(value.NewFloat(instr.Float))
		t.ip++
	case ir.PushBool:
		t.push(value.NewBool(instr.Bool))
		t.ip++
	case ir.PushString:
		t.push(value.NewString(instr.Str))
		t.ip++
	case ir.PushFunctionRef:
		t.push(value.NewFunctionRef(instr.Str))
		t.ip++
	case ir.PushFunctionPointer:
		t.push(value.NewFunctionPointer(instr.Int))
		t.ip++

	case ir.PushStackTrace:
		t.callTrace = append(t.callTrace, instr.Trace)
		t.ip++
	case ir.PopStackTrace:
		if len(t.callTrace) == 0 {
			t.raise(InvalidFrame, "PopStackTrace with empty call_trace")
		}
		t.callTrace = t.callTrace[:len(t.callTrace)-1]
		t.ip++

	case ir.MoveToLocalVariable:
		t.execMoveToLocalVariable(instr.Int)
	case ir.LoadLocalVariable:
		t.execLoadLocalVariable(instr.Int)

	case ir.LoadGlobal:
		g, ok := t.prog.Globals[instr.Str]
		if !ok {
			t.raise(GlobalNotFound, instr.Str)
		}
		t.push(g)
		t.ip++
	case ir.LoadClass:
		g, ok := t.prog.Globals[instr.Str]
		if !ok || g.Kind() != value.Class {
			t.raise(ExpectedClassOnStack, instr.Str)
		}
		t.push(g)
		t.ip++
	case ir.LoadMember:
		t.execLoadMember(instr.Str)

	case ir.CreateObject:
		t.execCreateObject()

	case ir.GetCollectionItem:
		t.execGetCollectionItem()
	case ir.SetCollectionItem:
		t.execSetCollectionItem()
	case ir.CreateCollectionAsArray:
		t.execCreateCollectionAsArray(instr.Int)
	case ir.CreateCollectionAsDictionary:
		t.execCreateCollectionAsDictionary(instr.Int)

	case ir.IteratorInit:
		t.execIteratorInit(instr.Bool)
	case ir.IteratorNext:
		t.execIteratorNext(instr.Int)

	case ir.Call:
		t.dispatchCall(instr.Int)

	case ir.JumpForward:
		t.ip = t.ip + 1 + instr.Int
	case ir.JumpBackward:
		t.ip = t.ip - instr.Int
	case ir.JumpForwardIfFalse:
		cond := t.pop()
		if cond.Kind() != value.Bool {
			t.raise(ExpectedValueOnStack, "JumpForwardIfFalse needs a Bool")
		}
		if !cond.AsBool() {
			t.ip = t.ip + 1 + instr.Int
		} else {
			t.ip++
		}

	case ir.Return:
		t.execReturn()
	case ir.ReturnWithValue:
		t.execReturnWithValue()

	case ir.Equal:
		b, a := t.pop(), t.pop()
		t.push(value.NewBool(a.Equal(b)))
		t.ip++
	case ir.NotEqual:
		b, a := t.pop(), t.pop()
		t.push(value.NewBool(!a.Equal(b)))
		t.ip++
	case ir.Add:
		t.execAdd()
	case ir.Sub:
		t.execArith(instr.Op)
	case ir.Multiply:
		t.execArith(instr.Op)
	case ir.Divide:
		t.execArith(instr.Op)
	case ir.Pow:
		t.execArith(instr.Op)

	case ir.Not:
		a := t.pop()
		if a.Kind() != value.Bool {
			t.raise(ExpectedValueOnStack, "Not needs a Bool")
		}
		t.push(value.NewBool(!a.AsBool()))
		t.ip++

	// And/Or always evaluate both operands (no short-circuit at the
	// instruction level); the compiler short-circuits via jumps instead and
	// never emits these, same as Print/Sleep.
	case ir.And:
		b, a := t.pop(), t.pop()
		if a.Kind() != value.Bool || b.Kind() != value.Bool {
			t.raise(ExpectedValueOnStack, "And needs two Bools")
		}
		t.push(value.NewBool(a.AsBool() && b.AsBool()))
		t.ip++
	case ir.Or:
		b, a := t.pop(), t.pop()
		if a.Kind() != value.Bool || b.Kind() != value.Bool {
			t.raise(ExpectedValueOnStack, "Or needs two Bools")
		}
		t.push(value.NewBool(a.AsBool() || b.AsBool()))
		t.ip++

	case ir.LessThan, ir.LessThanOrEqual, ir.GreaterThan, ir.GreaterThanOrEqual:
		t.execCompare(instr.Op)

	case ir.Print:
		a := t.pop()
		fmt.Fprintln(t.out, a.Display())
		t.out.Flush()
		t.ip++
	case ir.Sleep:
		// No user-visible syntax reaches this opcode and its operand is
		// not interpreted, so it's a no-op.
		t.ip++

	case ir.Halt:
		t.raise(Halted, instr.Str)

	default:
		t.raise(InvalidFrame, fmt.Sprintf("unhandled opcode %s", instr.Op))
	}
}
