package compiler

import (
	"github.com/leoscript/leoscript/ast"
	"github.com/leoscript/leoscript/ir"
)

// compileFunction compiles a free function or method body starting at the
// current instruction pointer and returns that entry address. isMethod
// reserves local slot 0 for an implicit "self" receiver ahead of the
// declared parameters.
func (c *Compiler) compileFunction(decl *ast.FunctionDecl, isMethod bool) (int, error) {
	return c.compileBody(decl.Pos, decl.Name, decl.Params, decl.Body, isMethod)
}

func (c *Compiler) compileConstructor(className string, decl *ast.ConstructorDecl) (int, error) {
	return c.compileBody(decl.Pos, className+"::constructor", decl.Params, decl.Body, true)
}

func (c *Compiler) compileBody(pos ast.Node, name string, params []ast.Param, body []ast.Statement, isMethod bool) (int, error) {
	entry := c.ip()

	outer := c.fn
	outerName, outerIP := c.currentFuncName, c.currentFuncIP
	fs := newFuncScope()
	if isMethod {
		fs.declare("self")
	}
	for _, p := range params {
		if _, ok := fs.declare(p.Name); !ok {
			return 0, &Error{Kind: VariableAlreadyDeclared, Pos: p.Pos, Detail: p.Name}
		}
	}
	c.fn = fs
	c.currentFuncName, c.currentFuncIP = name, entry

	// Reserve the SetVariableBuffer slot; its operand (total slot count,
	// including temporaries allocated later in the body) is patched once
	// the whole body has been compiled.
	bufferAt := c.emit(ir.Instruction{Op: ir.SetVariableBuffer})

	// Pop arguments (left on the stack by the caller) into their slots,
	// last parameter first: the stack is LIFO and the last argument pushed
	// sits on top.
	paramCount := len(params)
	if isMethod {
		paramCount++
	}
	for slot := paramCount - 1; slot >= 0; slot-- {
		c.emit(ir.Instruction{Op: ir.MoveToLocalVariable, Int: slot})
	}

	c.emit(ir.Instruction{Op: ir.PushStackTrace, Trace: ir.StackTrace{Line: pos.Position().Line, Function: name}})

	if err := c.compileStatements(body); err != nil {
		c.fn = outer
		c.currentFuncName, c.currentFuncIP = outerName, outerIP
		return 0, err
	}

	// Implicit `return` at the end of a function body that falls through
	// without one.
	c.emit(ir.Instruction{Op: ir.PopStackTrace})
	c.emit(ir.Instruction{Op: ir.Return})

	c.prog.Instructions[bufferAt].Int = c.fn.nextSlot
	c.fn = outer
	c.currentFuncName, c.currentFuncIP = outerName, outerIP
	return entry, nil
}
