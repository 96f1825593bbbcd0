package stdlib

import (
	"fmt"
	"strings"

	"github.com/leoscript/leoscript/value"
)

func stringClass() *value.ClassTemplate {
	return &value.ClassTemplate{
		Name: "String",
		Members: map[string]value.Value{
			value.ConstructorMember: value.NewNativeFunction(stringConstruct),
			"length":                value.NewNativeFunction(stringLength),
			"upper":                 value.NewNativeFunction(stringUpper),
			"lower":                 value.NewNativeFunction(stringLower),
			"to_string":             value.NewNativeFunction(stringToString),
		},
	}
}

func receiverString(argv []value.Value, method string) (string, error) {
	if len(argv) == 0 || argv[0].Kind() != value.Object {
		return "", fmt.Errorf("String::%s called without a receiver", method)
	}
	v, ok := argv[0].AsObject().Fields[backingField]
	if !ok || v.Kind() != value.String {
		return "", fmt.Errorf("String::%s: receiver is not a String", method)
	}
	return v.AsString(), nil
}

// stringConstruct backs `String(text)`, wrapping a primitive value's Display
// form as a native object with upper/lower/length/to_string methods — see
// SPEC_FULL.md's supplemented String class.
func stringConstruct(argv []value.Value) (value.Value, error) {
	if len(argv) != 2 || argv[0].Kind() != value.Object {
		return value.Value{}, fmt.Errorf("String() expects exactly one argument")
	}
	obj := argv[0].AsObject()
	obj.Fields[backingField] = value.NewString(argv[1].Display())
	return value.NewNull(), nil
}

func stringLength(argv []value.Value) (value.Value, error) {
	s, err := receiverString(argv, "length")
	if err != nil {
		return value.Value{}, err
	}
	return value.NewInteger(int64(len([]rune(s)))), nil
}

func stringUpper(argv []value.Value) (value.Value, error) {
	s, err := receiverString(argv, "upper")
	if err != nil {
		return value.Value{}, err
	}
	return value.NewString(strings.ToUpper(s)), nil
}

func stringLower(argv []value.Value) (value.Value, error) {
	s, err := receiverString(argv, "lower")
	if err != nil {
		return value.Value{}, err
	}
	return value.NewString(strings.ToLower(s)), nil
}

func stringToString(argv []value.Value) (value.Value, error) {
	s, err := receiverString(argv, "to_string")
	if err != nil {
		return value.Value{}, err
	}
	return value.NewString(s), nil
}
