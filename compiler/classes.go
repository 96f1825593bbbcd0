package compiler

import (
	"github.com/leoscript/leoscript/ast"
	"github.com/leoscript/leoscript/value"
)

// compileClass builds a ClassTemplate: attribute defaults (constant-folded)
// and method FunctionPointers share one Members map, since CreateObject
// clones Members verbatim into a new Object's Fields and LoadMember reads
// both data and callable members from the same table.
func (c *Compiler) compileClass(decl *ast.ClassDecl) (*value.ClassTemplate, error) {
	tmpl := &value.ClassTemplate{Name: decl.Name, Members: make(map[string]value.Value)}

	for _, attr := range decl.Attributes {
		def := value.NewNull()
		if attr.Default != nil {
			v, err := constantValue(attr.Default)
			if err != nil {
				return nil, err
			}
			def = v
		}
		tmpl.Members[attr.Name] = def
	}

	for _, m := range decl.Methods {
		ipAddr, err := c.compileFunction(m, true)
		if err != nil {
			return nil, err
		}
		tmpl.Members[m.Name] = value.NewFunctionPointer(ipAddr)
	}

	if decl.Constructor != nil {
		ipAddr, err := c.compileConstructor(decl.Name, decl.Constructor)
		if err != nil {
			return nil, err
		}
		tmpl.Members[value.ConstructorMember] = value.NewFunctionPointer(ipAddr)
	}

	return tmpl, nil
}

// constantValue folds a literal expression into a Value for use as an
// attribute default. Non-literal defaults are a compile error: attribute
// defaults are evaluated once, at class-declaration time, not per
// instantiation (see DESIGN.md).
func constantValue(e ast.Expression) (value.Value, error) {
	switch lit := e.(type) {
	case *ast.NullLit:
		return value.NewNull(), nil
	case *ast.BoolLit:
		return value.NewBool(lit.Value), nil
	case *ast.IntegerLit:
		return value.NewInteger(lit.Value), nil
	case *ast.FloatLit:
		return value.NewFloat(lit.Value), nil
	case *ast.StringLit:
		return value.NewString(lit.Value), nil
	default:
		return value.Value{}, &Error{Kind: AttributeDefaultNotConstant, Pos: e.Position()}
	}
}
