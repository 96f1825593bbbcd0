package vm

import (
	"fmt"
	"sort"

	"github.com/leoscript/leoscript/value"
)

// dispatchCall implements the Call(argc) opcode, and also drives the
// synthetic top-level call Run makes into the entrypoint. It never
// recurses into a nested fetch-execute loop: a FunctionPointer callee just
// pushes a Frame and redirects ip, letting the single loop in Run pick the
// callee's bytecode up on its next iteration; a Native callee runs
// synchronously; a Class callee constructs an instance (see construct).
//
// Calling convention: the stack holds [..., callee, arg0, ..., argN-1] on
// entry. The callee is removed from beneath its arguments (shifting them
// down one slot) rather than being popped alongside them, so a
// FunctionPointer callee's own prologue (SetVariableBuffer +
// MoveToLocalVariable per parameter) finds its arguments exactly where it
// expects them.
func (t *Thread) dispatchCall(argc int) {
	depth := len(t.stack)
	calleeIdx := depth - argc - 1
	if calleeIdx < 0 {
		t.raise(InvalidStackIndex, "Call argc exceeds stack depth")
	}
	callee := t.stack[calleeIdx]
	copy(t.stack[calleeIdx:], t.stack[calleeIdx+1:])
	t.stack = t.stack[:depth-1]
	argsStart := calleeIdx

	resolved := callee
	if resolved.Kind() == value.FunctionRef {
		name := resolved.AsFunctionRef()
		g, ok := t.prog.Globals[name]
		if !ok {
			t.raise(FunctionNotFound, name)
		}
		resolved = g
	}

	switch resolved.Kind() {
	case value.Null:
		// A constructor-less class's looked-up constructor, or any other
		// deliberately Null callee: discard arguments, yield Null.
		t.stack = t.stack[:argsStart]
		t.push(value.NewNull())
		t.ip++

	case value.FunctionPointer:
		t.frames = append(t.frames, &Frame{
			ReturnAddress: t.ip + 1,
			StackPointer:  argsStart,
		})
		t.ip = resolved.AsFunctionPointer()

	case value.NativeFunction:
		args := append([]value.Value(nil), t.stack[argsStart:]...)
		t.stack = t.stack[:argsStart]
		result, err := resolved.AsNative()(args)
		if err != nil {
			t.raise(InvalidNativeFunction, err.Error())
		}
		t.push(result)
		t.ip++

	case value.Class:
		args := append([]value.Value(nil), t.stack[argsStart:]...)
		t.stack = t.stack[:argsStart]
		t.construct(resolved.AsClass(), args, argsStart)

	default:
		t.raise(ExpectedValueOnStack, fmt.Sprintf("value of kind %s is not callable", resolved.Kind()))
	}
}

// construct implements bare ClassName(args) construction sugar: allocate an
// Object from tmpl, then invoke its constructor (if any) the way a method
// call would, with the new object as an implicit self. If the constructor
// is itself bytecode, the pushed Frame is marked constructing so that its
// eventual Return/ReturnWithValue yields the object rather than whatever
// (always-ignored, per §9) value the constructor body returns.
func (t *Thread) construct(tmpl *value.ClassTemplate, args []value.Value, spEntry int) {
	fields := make(map[string]value.Value, len(tmpl.Members))
	for k, v := range tmpl.Members {
		fields[k] = v.Clone()
	}
	obj := value.NewObject(&value.ObjectData{Class: tmpl, Fields: fields})

	ctor := fields[value.ConstructorMember]
	switch ctor.Kind() {
	case value.Null:
		t.push(obj)
		t.ip++

	case value.FunctionPointer:
		t.push(obj)
		t.stack = append(t.stack, args...)
		t.frames = append(t.frames, &Frame{
			ReturnAddress: t.ip + 1,
			StackPointer:  spEntry,
			constructing:  true,
			constructed:   obj,
		})
		t.ip = ctor.AsFunctionPointer()

	case value.NativeFunction:
		ctorArgs := append([]value.Value{obj}, args...)
		if _, err := ctor.AsNative()(ctorArgs); err != nil {
			t.raise(InvalidNativeFunction, err.Error())
		}
		t.push(obj)
		t.ip++

	default:
		t.raise(InvalidNativeFunction, "constructor member is not callable")
	}
}

func (t *Thread) execReturn() {
	f := t.popFrame()
	t.stack = t.stack[:f.StackPointer]
	if f.constructing {
		t.push(f.constructed)
	} else {
		t.push(value.NewNull())
	}
	t.ip = f.ReturnAddress
}

func (t *Thread) execReturnWithValue() {
	result := t.pop()
	f := t.popFrame()
	t.stack = t.stack[:f.StackPointer]
	if f.constructing {
		result = f.constructed
	}
	t.push(result)
	t.ip = f.ReturnAddress
}

func (t *Thread) popFrame() *Frame {
	if len(t.frames) == 0 {
		t.raise(InvalidFrame, "Return with no active frame")
	}
	f := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]
	return f
}

func (t *Thread) execMoveToLocalVariable(slot int) {
	v := t.pop()
	f := t.frame()
	if slot < 0 || slot >= len(f.Variables) {
		t.raise(InvalidVariableIndex, fmt.Sprintf("slot %d", slot))
	}
	// Clone on bind: Array/Map have value semantics (mutation through one
	// binding must not be observable through another, including across a
	// call boundary), while Object passes through unchanged since Clone is
	// a no-op for it — this one rule is what gives Object its "shared
	// handle" aliasing and Array/Map their copy-on-assign behavior.
	f.Variables[slot] = v.Clone()
	t.ip++
}

func (t *Thread) execLoadLocalVariable(slot int) {
	f := t.frame()
	if slot < 0 || slot >= len(f.Variables) {
		t.raise(InvalidVariableIndex, fmt.Sprintf("slot %d", slot))
	}
	t.push(f.Variables[slot])
	t.ip++
}

func (t *Thread) execLoadMember(name string) {
	target := t.pop()
	switch target.Kind() {
	case value.Object:
		t.push(target.AsObject().Fields[name])
	case value.Module:
		v, ok := target.AsModule().Members[name]
		if !ok {
			t.raise(GlobalNotFound, name)
		}
		t.push(v)
	case value.Class:
		v, ok := target.AsClass().Members[name]
		if !ok {
			t.raise(GlobalNotFound, name)
		}
		t.push(v)
	case value.Enum:
		ord, ok := target.AsEnum().Items[name]
		if !ok {
			t.raise(GlobalNotFound, name)
		}
		t.push(value.NewInteger(ord))
	default:
		t.raise(ExpectedObjectOnStack, fmt.Sprintf("cannot access member %q of %s", name, target.Kind()))
	}
	t.ip++
}

func (t *Thread) execCreateObject() {
	cls := t.pop()
	if cls.Kind() != value.Class {
		t.raise(ExpectedClassOnStack, "CreateObject")
	}
	tmpl := cls.AsClass()
	fields := make(map[string]value.Value, len(tmpl.Members))
	for k, v := range tmpl.Members {
		fields[k] = v.Clone()
	}
	t.push(value.NewObject(&value.ObjectData{Class: tmpl, Fields: fields}))
	t.ip++
}

func (t *Thread) execGetCollectionItem() {
	index := t.pop()
	target := t.pop()
	switch target.Kind() {
	case value.Array:
		if index.Kind() != value.Integer {
			t.raise(ExpectedIntegerOnStack, "array index")
		}
		elems := target.Elements()
		i := index.AsInteger()
		if i < 0 || i >= int64(len(elems)) {
			t.raise(InvalidCollectionKey, fmt.Sprintf("index %d out of range", i))
		}
		t.push(elems[i])
	case value.Map:
		key, ok := stringKey(index)
		if !ok {
			t.raise(InvalidCollectionKey, "map key must be a String")
		}
		v, found := target.Entries()[key]
		if !found {
			t.push(value.NewNull())
		} else {
			t.push(v)
		}
	case value.Object:
		key, ok := stringKey(index)
		if !ok {
			t.raise(InvalidCollectionKey, "object field must be a String")
		}
		v, found := target.AsObject().Fields[key]
		if !found {
			t.push(value.NewNull())
		} else {
			t.push(v)
		}
	default:
		t.raise(ExpectedValueOnStack, fmt.Sprintf("cannot index %s", target.Kind()))
	}
	t.ip++
}

func (t *Thread) execSetCollectionItem() {
	val := t.pop()
	index := t.pop()
	target := t.pop()
	switch target.Kind() {
	case value.Array:
		if index.Kind() != value.Integer {
			t.raise(ExpectedIntegerOnStack, "array index")
		}
		elems := target.Elements()
		i := index.AsInteger()
		if i < 0 || i >= int64(len(elems)) {
			t.raise(InvalidCollectionKey, fmt.Sprintf("index %d out of range", i))
		}
		elems[i] = val.Clone()
	case value.Map:
		key, ok := stringKey(index)
		if !ok {
			t.raise(InvalidCollectionKey, "map key must be a String")
		}
		target.Entries()[key] = val.Clone()
	case value.Object:
		key, ok := stringKey(index)
		if !ok {
			t.raise(InvalidCollectionKey, "object field must be a String")
		}
		target.AsObject().Fields[key] = val.Clone()
	default:
		t.raise(ExpectedValueOnStack, fmt.Sprintf("cannot index %s", target.Kind()))
	}
	t.ip++
}

func stringKey(v value.Value) (string, bool) {
	if v.Kind() != value.String {
		return "", false
	}
	return v.AsString(), true
}

func (t *Thread) execCreateCollectionAsArray(n int) {
	if n < 0 || n > len(t.stack) {
		t.raise(InvalidStackIndex, "CreateCollectionAsArray")
	}
	elems := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		elems[i] = t.pop().Clone()
	}
	t.push(value.NewArray(elems))
	t.ip++
}

func (t *Thread) execCreateCollectionAsDictionary(n int) {
	if n < 0 || 2*n > len(t.stack) {
		t.raise(InvalidStackIndex, "CreateCollectionAsDictionary")
	}
	entries := make(map[string]value.Value, n)
	for i := 0; i < n; i++ {
		val := t.pop()
		key := t.pop()
		k, ok := stringKey(key)
		if !ok {
			t.raise(InvalidCollectionKey, "dictionary literal key must be a String")
		}
		entries[k] = val.Clone()
	}
	t.push(value.NewMap(entries))
	t.ip++
}

func (t *Thread) execIteratorInit(isRange bool) {
	if isRange {
		step := t.pop()
		end := t.pop()
		start := t.pop()
		if step.Kind() != value.Integer || end.Kind() != value.Integer || start.Kind() != value.Integer {
			t.raise(ExpectedIntegerOnStack, "range bounds")
		}
		s, e, st := start.AsInteger(), end.AsInteger(), step.AsInteger()
		if st == 0 {
			t.raise(DivisionByZero, "range step is 0")
		}
		t.push(value.NewIterator(&value.IteratorState{
			IsRange: true,
			Start:   s,
			Step:    st,
			Count:   rangeCount(s, e, st),
		}))
		t.ip++
		return
	}

	target := t.pop()
	switch target.Kind() {
	case value.Array:
		elems := append([]value.Value(nil), target.Elements()...)
		t.push(value.NewIterator(&value.IteratorState{Elements: elems}))
	case value.Map:
		entries := target.Entries()
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		elems := make([]value.Value, len(keys))
		for i, k := range keys {
			elems[i] = value.NewString(k)
		}
		t.push(value.NewIterator(&value.IteratorState{Elements: elems}))
	default:
		t.raise(ExpectedValueOnStack, fmt.Sprintf("cannot iterate %s", target.Kind()))
	}
	t.ip++
}

// rangeCount computes how many values "start to end step step" yields,
// exclusive of end, matching a half-open range: 0 if step would never
// reach toward end.
func rangeCount(start, end, step int64) int64 {
	diff := end - start
	if step > 0 {
		if diff <= 0 {
			return 0
		}
		return (diff + step - 1) / step
	}
	if diff >= 0 {
		return 0
	}
	negDiff, negStep := -diff, -step
	return (negDiff + negStep - 1) / negStep
}

// execIteratorNext does not re-push the iterator alongside the next value:
// unlike the prose in §9, the compiler keeps the iterator pinned in its own
// persistent local slot across loop iterations (see compiler/statements.go
// compileFor) rather than threading it back through the value stack, so
// only the yielded value (or nothing, on exhaustion) needs pushing here.
func (t *Thread) execIteratorNext(skip int) {
	it := t.pop()
	if it.Kind() != value.Iterator {
		t.raise(ExpectedIteratorOnStack, "IteratorNext")
	}
	v, ok := it.AsIterator().Next()
	if !ok {
		t.ip = t.ip + 1 + skip
		return
	}
	t.push(v)
	t.ip++
}
