// Package ir defines the linear instruction stream codegen produces and the
// VM executes: the bytecode contract shared by §4.4 and §6 of the language
// contract.
package ir

// Op identifies one VM instruction.
type Op uint8

const (
	NoOperation Op = iota

	SetVariableBuffer

	PushNull
	PushInteger
	PushFloat
	PushBool
	PushString
	PushFunctionRef
	PushFunctionPointer

	PushStackTrace
	PopStackTrace

	MoveToLocalVariable
	LoadLocalVariable

	LoadGlobal
	LoadClass
	LoadMember

	CreateObject

	GetCollectionItem
	SetCollectionItem
	CreateCollectionAsDictionary
	CreateCollectionAsArray

	IteratorInit
	IteratorNext

	Call
	JumpForward
	JumpBackward
	JumpForwardIfFalse

	Return
	ReturnWithValue

	Equal
	NotEqual
	Add
	Sub
	Multiply
	Divide
	Pow

	Not
	And
	Or

	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual

	Print
	Sleep

	Halt

	opCount // sentinel, used by the generator
)

// StackTrace is one entry pushed/popped around a user function call, per
// §4.4's stack-trace discipline.
type StackTrace struct {
	Line     int
	File     string
	Function string
}

// Instruction is one bytecode instruction. Not every field is meaningful
// for every Op; see the per-opcode comment in the opcode table (§6) for
// which of Int/Str/Float/Bool/Trace an Op uses.
type Instruction struct {
	Op Op

	// Int carries: SetVariableBuffer(n), PushInteger(i), PushFunctionPointer(ip),
	// MoveToLocalVariable(slot), LoadLocalVariable(slot),
	// CreateCollectionAsDictionary(n), CreateCollectionAsArray(n),
	// IteratorNext(skip), Call(argc), JumpForward/Backward(n), JumpForwardIfFalse(n).
	Int int

	// Str carries: PushString(s), PushFunctionRef(name), LoadGlobal(name),
	// LoadClass(name), LoadMember(name), Halt(msg).
	Str string

	Float float64 // PushFloat(f)

	// Bool carries: PushBool(b), IteratorInit(isRange) — true for the
	// "a to b step c" range form (three bounds already on the stack),
	// false for the container form (an Array or Map already on the stack).
	Bool bool

	Trace StackTrace // PushStackTrace(t)
}
