package compiler

import (
	"github.com/leoscript/leoscript/ast"
	"github.com/leoscript/leoscript/ir"
	"github.com/leoscript/leoscript/value"
)

var binaryOps = map[ast.BinaryOp]ir.Op{
	ast.OpAdd:          ir.Add,
	ast.OpSub:          ir.Sub,
	ast.OpMul:          ir.Multiply,
	ast.OpDiv:          ir.Divide,
	ast.OpPow:          ir.Pow,
	ast.OpEqual:        ir.Equal,
	ast.OpNotEqual:     ir.NotEqual,
	ast.OpLess:         ir.LessThan,
	ast.OpLessEqual:    ir.LessThanOrEqual,
	ast.OpGreater:      ir.GreaterThan,
	ast.OpGreaterEqual: ir.GreaterThanOrEqual,
}

// compileExpr lowers e, leaving exactly one value on top of the stack.
func (c *Compiler) compileExpr(e ast.Expression) error {
	switch expr := e.(type) {
	case *ast.NullLit:
		c.emit(ir.Instruction{Op: ir.PushNull})
		return nil

	case *ast.BoolLit:
		c.emit(ir.Instruction{Op: ir.PushBool, Bool: expr.Value})
		return nil

	case *ast.IntegerLit:
		c.emit(ir.Instruction{Op: ir.PushInteger, Int: int(expr.Value)})
		return nil

	case *ast.FloatLit:
		c.emit(ir.Instruction{Op: ir.PushFloat, Float: expr.Value})
		return nil

	case *ast.StringLit:
		c.emit(ir.Instruction{Op: ir.PushString, Str: expr.Value})
		return nil

	case *ast.SelfExpr:
		slot, ok := c.fn.lookup("self")
		if !ok {
			return &Error{Kind: GlobalNotFound, Pos: expr.Pos, Detail: "self"}
		}
		c.emit(ir.Instruction{Op: ir.LoadLocalVariable, Int: slot})
		return nil

	case *ast.Identifier:
		return c.compileIdentifierLoad(expr)

	case *ast.MemberExpr:
		if err := c.compileExpr(expr.Target); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.LoadMember, Str: expr.Name})
		return nil

	case *ast.IndexExpr:
		if err := c.compileExpr(expr.Target); err != nil {
			return err
		}
		if err := c.compileExpr(expr.Index); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.GetCollectionItem})
		return nil

	case *ast.CallExpr:
		return c.compileCall(expr)

	case *ast.NewExpr:
		return c.compileNew(expr)

	case *ast.ArrayLit:
		for _, el := range expr.Elements {
			if err := c.compileExpr(el); err != nil {
				return err
			}
		}
		c.emit(ir.Instruction{Op: ir.CreateCollectionAsArray, Int: len(expr.Elements)})
		return nil

	case *ast.MapLit:
		for _, entry := range expr.Entries {
			c.emit(ir.Instruction{Op: ir.PushString, Str: entry.Key})
			if err := c.compileExpr(entry.Value); err != nil {
				return err
			}
		}
		c.emit(ir.Instruction{Op: ir.CreateCollectionAsDictionary, Int: len(expr.Entries)})
		return nil

	case *ast.BinaryExpr:
		return c.compileBinary(expr)

	case *ast.UnaryExpr:
		return c.compileUnary(expr)

	default:
		return &Error{Kind: FeatureNotImplemented, Pos: e.Position()}
	}
}

// compileIdentifierLoad resolves a bare name used outside of call position:
// a local variable, a self-recursive reference to the function currently
// being compiled, or (the general case) a deferred global lookup.
func (c *Compiler) compileIdentifierLoad(id *ast.Identifier) error {
	if slot, ok := c.fn.lookup(id.Name); ok {
		c.emit(ir.Instruction{Op: ir.LoadLocalVariable, Int: slot})
		return nil
	}
	if c.currentFuncName != "" && id.Name == c.currentFuncName {
		c.emit(ir.Instruction{Op: ir.PushFunctionPointer, Int: c.currentFuncIP})
		return nil
	}
	c.emit(ir.Instruction{Op: ir.LoadGlobal, Str: id.Name})
	return nil
}

func (c *Compiler) compileBinary(e *ast.BinaryExpr) error {
	switch e.Op {
	case ast.OpAnd:
		return c.compileAnd(e)
	case ast.OpOr:
		return c.compileOr(e)
	}
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	op, ok := binaryOps[e.Op]
	if !ok {
		return &Error{Kind: FeatureNotImplemented, Pos: e.Pos}
	}
	c.emit(ir.Instruction{Op: op})
	return nil
}

// compileAnd short-circuits: if Left is false, Right is never evaluated and
// the expression is false.
func (c *Compiler) compileAnd(e *ast.BinaryExpr) error {
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	falseJump := c.emit(ir.Instruction{Op: ir.JumpForwardIfFalse})
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	end := c.emit(ir.Instruction{Op: ir.JumpForward})
	c.patchForwardIfFalse(falseJump)
	c.emit(ir.Instruction{Op: ir.PushBool, Bool: false})
	c.patchForward(end)
	return nil
}

// compileOr short-circuits: if Left is true, Right is never evaluated and
// the expression is true.
func (c *Compiler) compileOr(e *ast.BinaryExpr) error {
	if err := c.compileExpr(e.Left); err != nil {
		return err
	}
	falseJump := c.emit(ir.Instruction{Op: ir.JumpForwardIfFalse})
	c.emit(ir.Instruction{Op: ir.PushBool, Bool: true})
	end := c.emit(ir.Instruction{Op: ir.JumpForward})
	c.patchForwardIfFalse(falseJump)
	if err := c.compileExpr(e.Right); err != nil {
		return err
	}
	c.patchForward(end)
	return nil
}

// compileUnary lowers `not x` directly to Not, and `-x` to a multiply by
// -1: the fixed opcode table has no dedicated numeric negate, and the VM's
// arithmetic already has to handle mixed Integer/Float operands for Multiply.
func (c *Compiler) compileUnary(e *ast.UnaryExpr) error {
	if err := c.compileExpr(e.Operand); err != nil {
		return err
	}
	switch e.Op {
	case ast.OpNot:
		c.emit(ir.Instruction{Op: ir.Not})
	case ast.OpNegate:
		c.emit(ir.Instruction{Op: ir.PushInteger, Int: -1})
		c.emit(ir.Instruction{Op: ir.Multiply})
	default:
		return &Error{Kind: FeatureNotImplemented, Pos: e.Pos}
	}
	return nil
}

// compileCall lowers a call expression. A scoped member callee (Module::fn,
// Module::Class) and a bare identifier callee push no implicit self; a
// plain member callee (obj.method) does, via compileMethodCall.
func (c *Compiler) compileCall(call *ast.CallExpr) error {
	switch callee := call.Callee.(type) {
	case *ast.MemberExpr:
		if !callee.Scoped {
			return c.compileMethodCall(callee, call.Args)
		}
		if err := c.compileExpr(callee.Target); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.LoadMember, Str: callee.Name})
		return c.compileArgsAndCall(call.Args, 0)

	case *ast.Identifier:
		if slot, ok := c.fn.lookup(callee.Name); ok {
			c.emit(ir.Instruction{Op: ir.LoadLocalVariable, Int: slot})
		} else if c.currentFuncName != "" && callee.Name == c.currentFuncName {
			c.emit(ir.Instruction{Op: ir.PushFunctionPointer, Int: c.currentFuncIP})
		} else {
			// Deferred, by-name: resolved against Program.Globals at call
			// time, which also covers bare ClassName(args) construction
			// sugar — the VM's Call handler detects a Class-kind callee
			// and constructs an instance instead of erroring.
			c.emit(ir.Instruction{Op: ir.PushFunctionRef, Str: callee.Name})
		}
		return c.compileArgsAndCall(call.Args, 0)

	default:
		if err := c.compileExpr(call.Callee); err != nil {
			return err
		}
		return c.compileArgsAndCall(call.Args, 0)
	}
}

func (c *Compiler) compileArgsAndCall(args []ast.Expression, extra int) error {
	for _, a := range args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	c.emit(ir.Instruction{Op: ir.Call, Int: len(args) + extra})
	return nil
}

// compileMethodCall evaluates the receiver once into a hidden temporary
// slot, resolves the method off it for the callee, then reads the temp
// slot again to supply self as argument 0.
func (c *Compiler) compileMethodCall(callee *ast.MemberExpr, args []ast.Expression) error {
	if err := c.compileExpr(callee.Target); err != nil {
		return err
	}
	tmp := c.fn.allocTemp()
	c.emit(ir.Instruction{Op: ir.MoveToLocalVariable, Int: tmp})

	c.emit(ir.Instruction{Op: ir.LoadLocalVariable, Int: tmp})
	c.emit(ir.Instruction{Op: ir.LoadMember, Str: callee.Name})

	c.emit(ir.Instruction{Op: ir.LoadLocalVariable, Int: tmp})
	return c.compileArgsAndCall(args, 1)
}

// compileTypeRef resolves the Type expression of a `new` expression: a bare
// class name uses the class-specific LoadClass op (which gives the VM a
// clearer error than a generic global lookup if the name isn't a class); a
// module-qualified chain resolves its prefix normally and reads the final
// segment off it with LoadMember.
func (c *Compiler) compileTypeRef(e ast.Expression) error {
	switch t := e.(type) {
	case *ast.Identifier:
		c.emit(ir.Instruction{Op: ir.LoadClass, Str: t.Name})
		return nil
	case *ast.MemberExpr:
		if err := c.compileExpr(t.Target); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.LoadMember, Str: t.Name})
		return nil
	default:
		return &Error{Kind: InvalidChainItem, Pos: e.Position()}
	}
}

// compileNew constructs an object: resolve the class, CreateObject, then —
// if the class declared a constructor — invoke it like a method call.
// Calling a Null callee (a constructor-less class's looked-up constructor)
// is a VM-defined no-op, so no special casing is needed here for that.
func (c *Compiler) compileNew(n *ast.NewExpr) error {
	if err := c.compileTypeRef(n.Type); err != nil {
		return err
	}
	c.emit(ir.Instruction{Op: ir.CreateObject})

	tmp := c.fn.allocTemp()
	c.emit(ir.Instruction{Op: ir.MoveToLocalVariable, Int: tmp})

	c.emit(ir.Instruction{Op: ir.LoadLocalVariable, Int: tmp})
	c.emit(ir.Instruction{Op: ir.LoadMember, Str: value.ConstructorMember})

	c.emit(ir.Instruction{Op: ir.LoadLocalVariable, Int: tmp})
	if err := c.compileArgsAndCall(n.Args, 1); err != nil {
		return err
	}

	// Discard whatever the constructor returned; this
	// expression's result is the object itself, read back from tmp.
	c.emit(ir.Instruction{Op: ir.MoveToLocalVariable, Int: c.fn.allocTemp()})
	c.emit(ir.Instruction{Op: ir.LoadLocalVariable, Int: tmp})
	return nil
}
