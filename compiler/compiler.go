// Package compiler lowers a Leo syntax tree (package ast) into a flat
// bytecode program (package ir) executable by package vm.
//
// Calling convention (not specified by the source material this was
// distilled from, since the VM internals it would have been grounded on
// were not part of the retrieval pack — engineered fresh from the
// Frame{return_address, stack_pointer, variables} shape and the opcode
// table, and recorded as such in DESIGN.md):
//
//   - A call site pushes its callee value first, then its arguments left
//     to right, then emits Call(argc). Call removes the callee from
//     beneath the arguments and leaves the arguments on the shared value
//     stack for the callee's prologue (a native callee receives them as
//     its argument list instead).
//   - A compiled function's first instruction is SetVariableBuffer(n),
//     sizing its variable slots to n (every local the function declares,
//     plus temporaries). It is immediately followed by one
//     MoveToLocalVariable(slot) per declared parameter, in reverse
//     parameter order (last parameter first), which pops the arguments
//     left on the shared value stack into their slots.
//   - Methods and constructors receive an implicit "self" receiver as
//     argument 0, bound to local slot 0; declared parameters occupy slots
//     1..N. `self` inside a method body compiles to LoadLocalVariable(0).
//   - obj.method(args) evaluates obj once into a hidden temporary slot (to
//     avoid double-evaluating a receiver expression with side effects),
//     resolves the method off it via LoadMember for the callee, then reads
//     the temp slot again to supply self as argument 0.
//   - A bare identifier used as a call target (free function, or the
//     ClassName(args) construction-sugar syntax) compiles to
//     PushFunctionRef(name): deferred, by-name resolution against
//     Program.Globals at call time, so declaration order never matters. A
//     self-recursive call to the function currently being compiled instead
//     uses PushFunctionPointer(ip), since its own entry address is already
//     known before Globals is populated. Every other plain identifier
//     reference (module/enum/class used as a value, not called) compiles
//     to LoadGlobal(name).
//   - `new Type(args)` resolves Type (LoadClass for a bare name, or
//     LoadGlobal+LoadMember for a module-qualified chain), emits
//     CreateObject, then — if the class declared a constructor — invokes
//     it exactly like a method call. Calling a Null value (e.g. a
//     constructor-less class's looked-up constructor) is defined to be a
//     no-op that discards its arguments and yields Null, so classes
//     without a constructor don't need special-cased codegen.
//   - Bare ClassName(args) (construction without `new`) is
//     indistinguishable from an ordinary call at compile time, since
//     "ClassName" may be forward-declared; Call's runtime handler detects
//     a Class-kind callee and performs the same construct-then-call-
//     constructor sequence internally.
package compiler

import (
	"github.com/leoscript/leoscript/ast"
	"github.com/leoscript/leoscript/ir"
	"github.com/leoscript/leoscript/value"
)

// Compiler holds codegen state for one compilation unit.
type Compiler struct {
	prog *ir.Program
	fn   *funcScope

	// currentFuncName/currentFuncIP name and address the function body
	// presently being compiled, so a self-recursive call can be lowered to
	// a direct PushFunctionPointer instead of a by-name PushFunctionRef.
	currentFuncName string
	currentFuncIP   int
}

// Compile lowers decls (the flattened output of parser.Parse, imports
// already inlined) into a ready-to-run Program.
func Compile(decls []ast.Declaration) (*ir.Program, error) {
	if len(decls) == 0 {
		return nil, &Error{Kind: NoTokens, Detail: "nothing to compile"}
	}

	c := &Compiler{prog: ir.NewProgram()}
	if err := c.compileDeclsInto(decls, c.prog.Globals); err != nil {
		return nil, err
	}
	if len(c.prog.Instructions) == 0 {
		return nil, &Error{Kind: NoInstructionsGenerated, Detail: "no function bodies to run"}
	}
	return c.prog, nil
}

func (c *Compiler) emit(instr ir.Instruction) int {
	c.prog.Instructions = append(c.prog.Instructions, instr)
	return len(c.prog.Instructions) - 1
}

func (c *Compiler) ip() int { return len(c.prog.Instructions) }

func (c *Compiler) patchForward(at int) {
	c.prog.Instructions[at].Int = c.ip() - (at + 1)
}

func (c *Compiler) patchForwardIfFalse(at int) {
	c.prog.Instructions[at].Int = c.ip() - (at + 1)
}

func (c *Compiler) emitJumpBackwardTo(target int) {
	at := c.ip()
	c.emit(ir.Instruction{Op: ir.JumpBackward, Int: at - target})
}

// compileDeclsInto compiles a declaration list (top-level, or the body of a
// module) into scope, a name -> Value table. Nested modules recurse into
// their own member table and are installed as a single Value of kind
// Module.
func (c *Compiler) compileDeclsInto(decls []ast.Declaration, scope map[string]value.Value) error {
	for _, d := range decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			ipAddr, err := c.compileFunction(decl, false)
			if err != nil {
				return err
			}
			if _, dup := scope[decl.Name]; dup {
				return &Error{Kind: DuplicateDeclaration, Pos: decl.Pos, Detail: decl.Name}
			}
			scope[decl.Name] = value.NewFunctionPointer(ipAddr)

		case *ast.ClassDecl:
			tmpl, err := c.compileClass(decl)
			if err != nil {
				return err
			}
			if _, dup := scope[decl.Name]; dup {
				return &Error{Kind: DuplicateDeclaration, Pos: decl.Pos, Detail: decl.Name}
			}
			scope[decl.Name] = value.NewClass(tmpl)

		case *ast.EnumDecl:
			items := make(map[string]int64, len(decl.Items))
			for i, name := range decl.Items {
				items[name] = int64(i)
			}
			if _, dup := scope[decl.Name]; dup {
				return &Error{Kind: DuplicateDeclaration, Pos: decl.Pos, Detail: decl.Name}
			}
			scope[decl.Name] = value.NewEnum(&value.EnumData{Name: decl.Name, Items: items})

		case *ast.ModuleDecl:
			members := make(map[string]value.Value)
			if err := c.compileDeclsInto(decl.Decls, members); err != nil {
				return err
			}
			if existing, dup := scope[decl.Name]; dup {
				// Re-opening a module (e.g. split across an import and the
				// main file) merges members instead of erroring.
				if existing.Kind() != value.Module {
					return &Error{Kind: DuplicateDeclaration, Pos: decl.Pos, Detail: decl.Name}
				}
				for k, v := range members {
					existing.AsModule().Members[k] = v
				}
				continue
			}
			scope[decl.Name] = value.NewModule(&value.ModuleData{Name: decl.Name, Members: members})

		case *ast.ImportDecl:
			// Imports are resolved and flattened by the parser; a bare
			// ImportDecl should never reach codegen.
			return &Error{Kind: GlobalNotFound, Pos: decl.Pos, Detail: "unresolved import"}
		}
	}
	return nil
}
