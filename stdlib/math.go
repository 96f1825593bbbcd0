// Package stdlib installs Leo's built-in standard library — the Math
// module and the Dictionary/String native classes, plus the free
// println function — into a freshly compiled ir.Program's Globals,
// grounded on original_source/leoscript-lib's built-in class shape: a
// native constructor plus a table of native methods dispatched by name.
package stdlib

import (
	"fmt"
	"math"

	"github.com/leoscript/leoscript/value"
)

// Install adds Math, Dictionary, String and println to globals, following
// §4.7's "Driver installs the standard library into Program.Globals before
// running" contract. out receives println's output.
func Install(globals map[string]value.Value, out Printer) {
	globals["Math"] = value.NewModule(mathModule())
	globals["Dictionary"] = value.NewClass(dictionaryClass())
	globals["String"] = value.NewClass(stringClass())
	globals["println"] = value.NewNativeFunction(printlnFunc(out))
}

func mathModule() *value.ModuleData {
	return &value.ModuleData{
		Name: "Math",
		Members: map[string]value.Value{
			"min":  value.NewNativeFunction(mathMin),
			"max":  value.NewNativeFunction(mathMax),
			"abs":  value.NewNativeFunction(mathAbs),
			"sqrt": value.NewNativeFunction(mathSqrt),
		},
	}
}

func asNumber(v value.Value) (float64, bool) {
	switch v.Kind() {
	case value.Integer:
		return float64(v.AsInteger()), true
	case value.Float:
		return v.AsFloat(), true
	default:
		return 0, false
	}
}

func requireArgs(argv []value.Value, n int, name string) error {
	if len(argv) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(argv))
	}
	return nil
}

func mathMin(argv []value.Value) (value.Value, error) {
	if err := requireArgs(argv, 2, "Math::min"); err != nil {
		return value.Value{}, err
	}
	a, b := argv[0], argv[1]
	af, aok := asNumber(a)
	bf, bok := asNumber(b)
	if !aok || !bok {
		return value.Value{}, fmt.Errorf("Math::min expects numeric arguments")
	}
	if a.Kind() == value.Integer && b.Kind() == value.Integer {
		if a.AsInteger() < b.AsInteger() {
			return a, nil
		}
		return b, nil
	}
	return value.NewFloat(math.Min(af, bf)), nil
}

func mathMax(argv []value.Value) (value.Value, error) {
	if err := requireArgs(argv, 2, "Math::max"); err != nil {
		return value.Value{}, err
	}
	a, b := argv[0], argv[1]
	af, aok := asNumber(a)
	bf, bok := asNumber(b)
	if !aok || !bok {
		return value.Value{}, fmt.Errorf("Math::max expects numeric arguments")
	}
	if a.Kind() == value.Integer && b.Kind() == value.Integer {
		if a.AsInteger() > b.AsInteger() {
			return a, nil
		}
		return b, nil
	}
	return value.NewFloat(math.Max(af, bf)), nil
}

func mathAbs(argv []value.Value) (value.Value, error) {
	if err := requireArgs(argv, 1, "Math::abs"); err != nil {
		return value.Value{}, err
	}
	a := argv[0]
	switch a.Kind() {
	case value.Integer:
		n := a.AsInteger()
		if n < 0 {
			n = -n
		}
		return value.NewInteger(n), nil
	case value.Float:
		return value.NewFloat(math.Abs(a.AsFloat())), nil
	default:
		return value.Value{}, fmt.Errorf("Math::abs expects a numeric argument")
	}
}

func mathSqrt(argv []value.Value) (value.Value, error) {
	if err := requireArgs(argv, 1, "Math::sqrt"); err != nil {
		return value.Value{}, err
	}
	f, ok := asNumber(argv[0])
	if !ok {
		return value.Value{}, fmt.Errorf("Math::sqrt expects a numeric argument")
	}
	return value.NewFloat(math.Sqrt(f)), nil
}
