// Package value defines Leo's tagged value model: the representation shared
// between codegen constants, VM stack entries and local-variable slots.
//
// Primitives, Array and Map are value-semantics types: copying a Value of
// one of those kinds through Clone produces an independent value so that
// mutation through one binding is not observable through another. Object is
// intentionally reference-semantics: it is passed around as a pointer, so
// ordinary Go assignment already gives scripts the "pass by handle" behavior
// spec'd for method receivers and call arguments.
package value

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ConstructorMember is the reserved member-table key a class template's
// constructor FunctionPointer is stored under, alongside its regular
// attribute/method members. Shared between compiler (which writes it) and
// vm (which reads it off a Class/Object's Members/Fields on CreateObject
// and on bare ClassName(args) construction sugar).
const ConstructorMember = "#constructor"

// Kind tags the variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Integer
	Float
	String
	Array
	Map
	Enum
	Module
	Class
	Object
	FunctionRef
	FunctionPointer
	NativeFunction
	Iterator
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case String:
		return "String"
	case Array:
		return "Array"
	case Map:
		return "Map"
	case Enum:
		return "Enum"
	case Module:
		return "Module"
	case Class:
		return "Class"
	case Object:
		return "Object"
	case FunctionRef:
		return "FunctionRef"
	case FunctionPointer:
		return "FunctionPointer"
	case NativeFunction:
		return "NativeFunction"
	case Iterator:
		return "Iterator"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Native is the signature of a native (Go-implemented) function or method
// bound into a Value of kind NativeFunction. argv[0] is the receiver when
// called as a method, following the instruction contract for Call.
type Native func(argv []Value) (Value, error)

// ClassTemplate is the compile-time blueprint copied into every Object
// instantiated from a Class: default field values and FunctionPointer/Native
// method entries, keyed by member name.
type ClassTemplate struct {
	Name    string
	Members map[string]Value
}

// ObjectData is the shared, mutable state behind a Value of kind Object.
// Two Values of kind Object that came from the same CreateObject (or the
// same argument binding) alias this struct.
type ObjectData struct {
	Class  *ClassTemplate
	Fields map[string]Value
}

// ModuleData backs a Value of kind Module: a named collection of
// FunctionPointer/Native/Class/nested-Module members.
type ModuleData struct {
	Name    string
	Members map[string]Value
}

// EnumData backs a Value of kind Enum: item name to ordinal.
type EnumData struct {
	Name  string
	Items map[string]int64
}

// IteratorState backs a Value of kind Iterator. Exactly one of Elements or
// (Step != 0) is meaningful at a time, selected by IsRange.
type IteratorState struct {
	IsRange bool

	// array form
	Elements []Value
	Index    int

	// range form: yields Start, Start+Step, ... while count < Count
	Start   int64
	Step    int64
	Count   int64
	Emitted int64
}

// Next advances the iterator, returning the next value and true, or a zero
// Value and false on exhaustion.
func (it *IteratorState) Next() (Value, bool) {
	if it.IsRange {
		if it.Emitted >= it.Count {
			return Value{}, false
		}
		v := NewInteger(it.Start + it.Emitted*it.Step)
		it.Emitted++
		return v, true
	}
	if it.Index >= len(it.Elements) {
		return Value{}, false
	}
	v := it.Elements[it.Index]
	it.Index++
	return v, true
}

// Value is Leo's tagged union. The zero Value is Null.
type Value struct {
	kind Kind

	b bool
	i int64
	f float64
	s string

	array *[]Value
	m     *map[string]Value
	enum  *EnumData
	mod   *ModuleData
	class *ClassTemplate
	obj   *ObjectData
	fn    Native
	iter  *IteratorState
}

// Kind reports the variant tag of v.
func (v Value) Kind() Kind { return v.kind }

// NewNull returns the Null value (also the zero Value).
func NewNull() Value { return Value{kind: Null} }

// NewBool wraps a bool.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewInteger wraps an int64.
func NewInteger(i int64) Value { return Value{kind: Integer, i: i} }

// NewFloat wraps a float64.
func NewFloat(f float64) Value { return Value{kind: Float, f: f} }

// NewString wraps a string.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewArray wraps an ordered sequence of Values.
func NewArray(elems []Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: Array, array: &elems}
}

// NewMap wraps a string-keyed mapping, used for dictionaries, object fields
// staged before CreateObject, and ad-hoc map literals.
func NewMap(entries map[string]Value) Value {
	if entries == nil {
		entries = map[string]Value{}
	}
	return Value{kind: Map, m: &entries}
}

// NewEnum wraps an enum's item-to-ordinal table.
func NewEnum(data *EnumData) Value { return Value{kind: Enum, enum: data} }

// NewModule wraps a module's member table.
func NewModule(data *ModuleData) Value { return Value{kind: Module, mod: data} }

// NewClass wraps a class template.
func NewClass(tmpl *ClassTemplate) Value { return Value{kind: Class, class: tmpl} }

// NewObject wraps a shared, mutable object instance.
func NewObject(obj *ObjectData) Value { return Value{kind: Object, obj: obj} }

// NewFunctionRef wraps a symbolic (not yet resolved) function name.
func NewFunctionRef(name string) Value { return Value{kind: FunctionRef, s: name} }

// NewFunctionPointer wraps a resolved instruction index.
func NewFunctionPointer(ip int) Value { return Value{kind: FunctionPointer, i: int64(ip)} }

// NewNativeFunction wraps a Go-implemented callable.
func NewNativeFunction(fn Native) Value { return Value{kind: NativeFunction, fn: fn} }

// NewIterator wraps iterator state.
func NewIterator(it *IteratorState) Value { return Value{kind: Iterator, iter: it} }

// AsBool, AsInteger, AsFloat, AsString are unchecked accessors: callers must
// check Kind first the way the VM's opcode handlers do.
func (v Value) AsBool() bool       { return v.b }
func (v Value) AsInteger() int64   { return v.i }
func (v Value) AsFloat() float64   { return v.f }
func (v Value) AsString() string  { return v.s }
func (v Value) AsFunctionRef() string { return v.s }
func (v Value) AsFunctionPointer() int { return int(v.i) }
func (v Value) AsNative() Native   { return v.fn }
func (v Value) AsIterator() *IteratorState { return v.iter }
func (v Value) AsEnum() *EnumData   { return v.enum }
func (v Value) AsModule() *ModuleData { return v.mod }
func (v Value) AsClass() *ClassTemplate { return v.class }
func (v Value) AsObject() *ObjectData { return v.obj }

// Elements returns the backing slice for an Array value. Mutating it
// mutates v's storage, which is shared by every copy of this Value header
// (but not by clones produced via Clone).
func (v Value) Elements() []Value {
	if v.array == nil {
		return nil
	}
	return *v.array
}

// SetElements replaces an Array value's backing slice in place.
func (v Value) SetElements(elems []Value) {
	*v.array = elems
}

// Entries returns the backing map for a Map value.
func (v Value) Entries() map[string]Value {
	if v.m == nil {
		return nil
	}
	return *v.m
}

// Clone returns a Value with independent storage for value-semantics kinds
// (Array, Map) and a pass-through for everything else, including Object
// (reference semantics are the point) and all immutable/atomic kinds.
func (v Value) Clone() Value {
	switch v.kind {
	case Array:
		src := v.Elements()
		dst := make([]Value, len(src))
		for i, e := range src {
			dst[i] = e.Clone()
		}
		return NewArray(dst)
	case Map:
		src := v.Entries()
		dst := make(map[string]Value, len(src))
		for k, e := range src {
			dst[k] = e.Clone()
		}
		return NewMap(dst)
	default:
		return v
	}
}

// Equal implements structural equality, per §4.5: Null==Null, Integer and
// Float compare numerically across kinds, NativeFunction is never equal,
// Object/Class are equal only when field-wise equal.
func (v Value) Equal(other Value) bool {
	switch v.kind {
	case Null:
		return other.kind == Null
	case Bool:
		return other.kind == Bool && v.b == other.b
	case Integer:
		switch other.kind {
		case Integer:
			return v.i == other.i
		case Float:
			return float64(v.i) == other.f
		}
		return false
	case Float:
		switch other.kind {
		case Float:
			return v.f == other.f
		case Integer:
			return v.f == float64(other.i)
		}
		return false
	case String:
		return other.kind == String && v.s == other.s
	case Array:
		if other.kind != Array {
			return false
		}
		a, b := v.Elements(), other.Elements()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case Map:
		if other.kind != Map {
			return false
		}
		a, b := v.Entries(), other.Entries()
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	case Enum:
		return other.kind == Enum && v.enum == other.enum
	case FunctionRef:
		return other.kind == FunctionRef && v.s == other.s
	case FunctionPointer:
		return other.kind == FunctionPointer && v.i == other.i
	case NativeFunction:
		return false
	case Object:
		if other.kind != Object {
			return false
		}
		if v.obj == other.obj {
			return true
		}
		a, b := v.obj.Fields, other.obj.Fields
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	case Class:
		if other.kind != Class {
			return false
		}
		if v.class == other.class {
			return true
		}
		a, b := v.class.Members, other.class.Members
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	case Module:
		return other.kind == Module && v.mod == other.mod
	case Iterator:
		return other.kind == Iterator && v.iter == other.iter
	default:
		return false
	}
}

// Truthy reports whether v is usable as a boolean condition: true only for
// Bool true. Only Bool is accepted by the VM's comparison/branch opcodes.
func (v Value) Truthy() bool { return v.kind == Bool && v.b }

// Display renders v the way println and string concatenation do.
func (v Value) Display() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Integer:
		return fmt.Sprintf("%d", v.i)
	case Float:
		return formatFloat(v.f)
	case String:
		return v.s
	case Array:
		parts := make([]string, 0, len(v.Elements()))
		for _, e := range v.Elements() {
			parts = append(parts, e.Display())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Map:
		keys := make([]string, 0, len(v.Entries()))
		for k := range v.Entries() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v.Entries()[k].Display()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Enum:
		return fmt.Sprintf("enum %s", v.enum.Name)
	case Module:
		return fmt.Sprintf("module %s", v.mod.Name)
	case Class:
		return fmt.Sprintf("class %s", v.class.Name)
	case Object:
		name := "Object"
		if v.obj.Class != nil {
			name = v.obj.Class.Name
		}
		return fmt.Sprintf("%s instance", name)
	case FunctionRef:
		return fmt.Sprintf("function %s", v.s)
	case FunctionPointer:
		return fmt.Sprintf("function@%d", v.i)
	case NativeFunction:
		return "native function"
	case Iterator:
		return "iterator"
	default:
		return "?"
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
