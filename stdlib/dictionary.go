package stdlib

import (
	"fmt"

	"github.com/leoscript/leoscript/value"
)

// backingField is the reserved field name a native class's Go-side storage
// lives under, alongside its declared fields — analogous to
// value.ConstructorMember, but for data rather than the constructor itself.
const backingField = "#value"

func dictionaryClass() *value.ClassTemplate {
	return &value.ClassTemplate{
		Name: "Dictionary",
		Members: map[string]value.Value{
			value.ConstructorMember: value.NewNativeFunction(dictionaryConstruct),
			"set":                   value.NewNativeFunction(dictionarySet),
			"get":                   value.NewNativeFunction(dictionaryGet),
			"remove":                value.NewNativeFunction(dictionaryRemove),
			"length":                value.NewNativeFunction(dictionaryLength),
			"clear":                 value.NewNativeFunction(dictionaryClear),
		},
	}
}

func receiverMap(argv []value.Value, method string) (map[string]value.Value, error) {
	if len(argv) == 0 || argv[0].Kind() != value.Object {
		return nil, fmt.Errorf("Dictionary::%s called without a receiver", method)
	}
	m, ok := argv[0].AsObject().Fields[backingField]
	if !ok || m.Kind() != value.Map {
		return nil, fmt.Errorf("Dictionary::%s: receiver is not a Dictionary", method)
	}
	return m.Entries(), nil
}

// dictionaryConstruct backs both `Dictionary()` (empty) and
// `Dictionary({...})` (seeded from a Map literal), per SPEC_FULL.md's
// supplemented Dictionary class.
func dictionaryConstruct(argv []value.Value) (value.Value, error) {
	if len(argv) == 0 || argv[0].Kind() != value.Object {
		return value.Value{}, fmt.Errorf("Dictionary constructor called without a receiver")
	}
	obj := argv[0].AsObject()
	switch len(argv) {
	case 1:
		obj.Fields[backingField] = value.NewMap(nil)
	case 2:
		seed := argv[1]
		if seed.Kind() != value.Map {
			return value.Value{}, fmt.Errorf("Dictionary() takes no arguments, or a single Dictionary literal")
		}
		obj.Fields[backingField] = seed.Clone()
	default:
		return value.Value{}, fmt.Errorf("Dictionary() takes no arguments, or a single Dictionary literal")
	}
	return value.NewNull(), nil
}

func dictionarySet(argv []value.Value) (value.Value, error) {
	m, err := receiverMap(argv, "set")
	if err != nil {
		return value.Value{}, err
	}
	if len(argv) != 3 || argv[1].Kind() != value.String {
		return value.Value{}, fmt.Errorf("Dictionary::set expects (key: String, value)")
	}
	m[argv[1].AsString()] = argv[2].Clone()
	return value.NewNull(), nil
}

func dictionaryGet(argv []value.Value) (value.Value, error) {
	m, err := receiverMap(argv, "get")
	if err != nil {
		return value.Value{}, err
	}
	if len(argv) != 2 || argv[1].Kind() != value.String {
		return value.Value{}, fmt.Errorf("Dictionary::get expects (key: String)")
	}
	v, ok := m[argv[1].AsString()]
	if !ok {
		return value.NewNull(), nil
	}
	return v, nil
}

func dictionaryRemove(argv []value.Value) (value.Value, error) {
	m, err := receiverMap(argv, "remove")
	if err != nil {
		return value.Value{}, err
	}
	if len(argv) != 2 || argv[1].Kind() != value.String {
		return value.Value{}, fmt.Errorf("Dictionary::remove expects (key: String)")
	}
	key := argv[1].AsString()
	v, existed := m[key]
	delete(m, key)
	if !existed {
		return value.NewNull(), nil
	}
	return v, nil
}

func dictionaryLength(argv []value.Value) (value.Value, error) {
	m, err := receiverMap(argv, "length")
	if err != nil {
		return value.Value{}, err
	}
	return value.NewInteger(int64(len(m))), nil
}

func dictionaryClear(argv []value.Value) (value.Value, error) {
	m, err := receiverMap(argv, "clear")
	if err != nil {
		return value.Value{}, err
	}
	for k := range m {
		delete(m, k)
	}
	return value.NewNull(), nil
}
