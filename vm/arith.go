package vm

import (
	"fmt"
	"math"

	"github.com/leoscript/leoscript/ir"
	"github.com/leoscript/leoscript/value"
)

func numeric(v value.Value) (f float64, ok bool) {
	switch v.Kind() {
	case value.Integer:
		return float64(v.AsInteger()), true
	case value.Float:
		return v.AsFloat(), true
	default:
		return 0, false
	}
}

// execAdd handles Add's wider contract (§4.5): numeric promotion, String
// concatenation, and Array concatenation, on top of the numeric-only rules
// Sub/Multiply/Divide/Pow share (see execArith).
func (t *Thread) execAdd() {
	b, a := t.pop(), t.pop()

	if a.Kind() == value.Integer && b.Kind() == value.Integer {
		t.push(value.NewInteger(a.AsInteger() + b.AsInteger()))
		t.ip++
		return
	}
	if af, aok := numeric(a); aok {
		if bf, bok := numeric(b); bok {
			t.push(value.NewFloat(af + bf))
			t.ip++
			return
		}
	}
	if a.Kind() == value.String && b.Kind() == value.String {
		t.push(value.NewString(a.AsString() + b.AsString()))
		t.ip++
		return
	}
	if a.Kind() == value.Array && b.Kind() == value.Array {
		ae, be := a.Elements(), b.Elements()
		out := make([]value.Value, 0, len(ae)+len(be))
		for _, e := range ae {
			out = append(out, e.Clone())
		}
		for _, e := range be {
			out = append(out, e.Clone())
		}
		t.push(value.NewArray(out))
		t.ip++
		return
	}
	t.raise(ExpectedValueOnStack, fmt.Sprintf("cannot add %s and %s", a.Kind(), b.Kind()))
}

// execArith handles Sub/Multiply/Divide/Pow: numeric only, Integer preserved
// when both operands are Integer (Divide truncates like Go's integer
// division in that case), Float otherwise — except Pow, which always
// produces Float, since a fractional exponent's result is otherwise
// unrepresentable.
func (t *Thread) execArith(op ir.Op) {
	b, a := t.pop(), t.pop()
	af, aok := numeric(a)
	bf, bok := numeric(b)
	if !aok || !bok {
		t.raise(ExpectedValueOnStack, fmt.Sprintf("cannot apply %s to %s and %s", op, a.Kind(), b.Kind()))
	}

	bothInt := a.Kind() == value.Integer && b.Kind() == value.Integer

	switch op {
	case ir.Sub:
		if bothInt {
			t.push(value.NewInteger(a.AsInteger() - b.AsInteger()))
		} else {
			t.push(value.NewFloat(af - bf))
		}
	case ir.Multiply:
		if bothInt {
			t.push(value.NewInteger(a.AsInteger() * b.AsInteger()))
		} else {
			t.push(value.NewFloat(af * bf))
		}
	case ir.Divide:
		if bf == 0 {
			t.raise(DivisionByZero, "division by zero")
		}
		if bothInt {
			t.push(value.NewInteger(a.AsInteger() / b.AsInteger()))
		} else {
			t.push(value.NewFloat(af / bf))
		}
	case ir.Pow:
		t.push(value.NewFloat(math.Pow(af, bf)))
	}
	t.ip++
}

func (t *Thread) execCompare(op ir.Op) {
	b, a := t.pop(), t.pop()
	af, aok := numeric(a)
	bf, bok := numeric(b)
	if !aok || !bok {
		t.raise(ExpectedValueOnStack, fmt.Sprintf("cannot compare %s and %s", a.Kind(), b.Kind()))
	}
	var result bool
	switch op {
	case ir.LessThan:
		result = af < bf
	case ir.LessThanOrEqual:
		result = af <= bf
	case ir.GreaterThan:
		result = af > bf
	case ir.GreaterThanOrEqual:
		result = af >= bf
	}
	t.push(value.NewBool(result))
	t.ip++
}
