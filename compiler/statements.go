package compiler

import (
	"github.com/leoscript/leoscript/ast"
	"github.com/leoscript/leoscript/ir"
)

func (c *Compiler) compileStatements(body []ast.Statement) error {
	for _, s := range body {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileStatement(s ast.Statement) error {
	switch stmt := s.(type) {
	case *ast.VarDecl:
		return c.compileVarDecl(stmt)
	case *ast.AssignStmt:
		return c.compileAssign(stmt)
	case *ast.IfStmt:
		return c.compileIf(stmt)
	case *ast.WhileStmt:
		return c.compileWhile(stmt)
	case *ast.ForStmt:
		return c.compileFor(stmt)
	case *ast.MatchStmt:
		return c.compileMatchStmt(stmt)
	case *ast.BreakStmt:
		loop, ok := c.fn.currentLoop()
		if !ok {
			return &Error{Kind: BreakOutsideOfLoop, Pos: stmt.Pos}
		}
		j := c.emit(ir.Instruction{Op: ir.JumpForward})
		loop.breakPatches = append(loop.breakPatches, j)
		return nil
	case *ast.ContinueStmt:
		loop, ok := c.fn.currentLoop()
		if !ok {
			return &Error{Kind: ContinueOutsideOfLoop, Pos: stmt.Pos}
		}
		c.emitJumpBackwardTo(loop.continueTarget)
		return nil
	case *ast.ReturnStmt:
		if stmt.Value != nil {
			if err := c.compileExpr(stmt.Value); err != nil {
				return err
			}
			c.emit(ir.Instruction{Op: ir.PopStackTrace})
			c.emit(ir.Instruction{Op: ir.ReturnWithValue})
			return nil
		}
		c.emit(ir.Instruction{Op: ir.PopStackTrace})
		c.emit(ir.Instruction{Op: ir.Return})
		return nil
	case *ast.ExprStmt:
		if err := c.compileExpr(stmt.Expr); err != nil {
			return err
		}
		// No Pop opcode exists: an unwanted expression-statement result is
		// discarded into a throwaway local slot.
		c.emit(ir.Instruction{Op: ir.MoveToLocalVariable, Int: c.fn.allocTemp()})
		return nil
	default:
		return &Error{Kind: FeatureNotImplemented, Pos: s.Position()}
	}
}

func (c *Compiler) compileVarDecl(s *ast.VarDecl) error {
	slot, ok := c.fn.declare(s.Name)
	if !ok {
		return &Error{Kind: VariableAlreadyDeclared, Pos: s.Pos, Detail: s.Name}
	}
	if s.Init != nil {
		if err := c.compileExpr(s.Init); err != nil {
			return err
		}
	} else {
		c.emit(ir.Instruction{Op: ir.PushNull})
	}
	c.emit(ir.Instruction{Op: ir.MoveToLocalVariable, Int: slot})
	return nil
}

// compileAssign lowers assignment to a local variable, an array/map element,
// or an object field. There is no dedicated "set named member" opcode: a
// field write pushes its name as a string key and reuses SetCollectionItem,
// since an Object's Fields are a plain string-keyed map at the VM level.
func (c *Compiler) compileAssign(s *ast.AssignStmt) error {
	switch target := s.Target.(type) {
	case *ast.Identifier:
		slot, ok := c.fn.lookup(target.Name)
		if !ok {
			return &Error{Kind: VariableNotDeclared, Pos: target.Pos, Detail: target.Name}
		}
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.MoveToLocalVariable, Int: slot})
		return nil

	case *ast.IndexExpr:
		if err := c.compileExpr(target.Target); err != nil {
			return err
		}
		if err := c.compileExpr(target.Index); err != nil {
			return err
		}
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.SetCollectionItem})
		return nil

	case *ast.MemberExpr:
		if err := c.compileExpr(target.Target); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.PushString, Str: target.Name})
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.SetCollectionItem})
		return nil

	default:
		return &Error{Kind: UnableToAssign, Pos: s.Pos}
	}
}

func (c *Compiler) compileIf(s *ast.IfStmt) error {
	var endJumps []int

	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	elseJump := c.emit(ir.Instruction{Op: ir.JumpForwardIfFalse})
	if err := c.compileStatements(s.Then); err != nil {
		return err
	}
	endJumps = append(endJumps, c.emit(ir.Instruction{Op: ir.JumpForward}))
	c.patchForwardIfFalse(elseJump)

	for _, elif := range s.Elifs {
		if err := c.compileExpr(elif.Cond); err != nil {
			return err
		}
		nextJump := c.emit(ir.Instruction{Op: ir.JumpForwardIfFalse})
		if err := c.compileStatements(elif.Body); err != nil {
			return err
		}
		endJumps = append(endJumps, c.emit(ir.Instruction{Op: ir.JumpForward}))
		c.patchForwardIfFalse(nextJump)
	}

	if s.Else != nil {
		if err := c.compileStatements(s.Else); err != nil {
			return err
		}
	}

	for _, j := range endJumps {
		c.patchForward(j)
	}
	return nil
}

func (c *Compiler) compileWhile(s *ast.WhileStmt) error {
	condStart := c.ip()
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	exitJump := c.emit(ir.Instruction{Op: ir.JumpForwardIfFalse})

	c.fn.pushLoop(condStart)
	if err := c.compileStatements(s.Body); err != nil {
		return err
	}
	loop := c.fn.popLoop()

	c.emitJumpBackwardTo(condStart)
	c.patchForwardIfFalse(exitJump)
	for _, b := range loop.breakPatches {
		c.patchForward(b)
	}
	return nil
}

// compileFor lowers both loop-source forms: "a to b [step c]" constructs a
// range iterator from three evaluated bounds, anything else is iterated as
// a container (Array or Map). Either way the iterator lives in a hidden
// local slot across iterations, since its underlying IteratorState is
// advanced in place (see value.IteratorState.Next).
func (c *Compiler) compileFor(s *ast.ForStmt) error {
	if rng, ok := s.Source.(*ast.RangeExpr); ok {
		if err := c.compileExpr(rng.Start); err != nil {
			return err
		}
		if err := c.compileExpr(rng.End); err != nil {
			return err
		}
		if rng.Step != nil {
			if err := c.compileExpr(rng.Step); err != nil {
				return err
			}
		} else {
			c.emit(ir.Instruction{Op: ir.PushInteger, Int: 1})
		}
		c.emit(ir.Instruction{Op: ir.IteratorInit, Bool: true})
	} else {
		if err := c.compileExpr(s.Source); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.IteratorInit, Bool: false})
	}

	iterSlot := c.fn.allocTemp()
	c.emit(ir.Instruction{Op: ir.MoveToLocalVariable, Int: iterSlot})

	varSlot, ok := c.fn.declare(s.Var)
	if !ok {
		return &Error{Kind: VariableAlreadyDeclared, Pos: s.Pos, Detail: s.Var}
	}

	loopStart := c.ip()
	c.emit(ir.Instruction{Op: ir.LoadLocalVariable, Int: iterSlot})
	exitJump := c.emit(ir.Instruction{Op: ir.IteratorNext})
	c.emit(ir.Instruction{Op: ir.MoveToLocalVariable, Int: varSlot})

	c.fn.pushLoop(loopStart)
	if err := c.compileStatements(s.Body); err != nil {
		return err
	}
	loop := c.fn.popLoop()

	c.emitJumpBackwardTo(loopStart)
	c.patchForward(exitJump)
	for _, b := range loop.breakPatches {
		c.patchForward(b)
	}
	return nil
}

func (c *Compiler) compileMatchStmt(s *ast.MatchStmt) error {
	tmp := c.fn.allocTemp()
	if err := c.compileExpr(s.Scrutinee); err != nil {
		return err
	}
	c.emit(ir.Instruction{Op: ir.MoveToLocalVariable, Int: tmp})

	var endJumps []int
	for _, arm := range s.Arms {
		c.emit(ir.Instruction{Op: ir.LoadLocalVariable, Int: tmp})
		if err := c.compileExpr(arm.Test); err != nil {
			return err
		}
		c.emit(ir.Instruction{Op: ir.Equal})
		skip := c.emit(ir.Instruction{Op: ir.JumpForwardIfFalse})
		if err := c.compileStatements(arm.Body); err != nil {
			return err
		}
		endJumps = append(endJumps, c.emit(ir.Instruction{Op: ir.JumpForward}))
		c.patchForwardIfFalse(skip)
	}

	if s.Default != nil {
		if err := c.compileStatements(s.Default); err != nil {
			return err
		}
	}

	for _, j := range endJumps {
		c.patchForward(j)
	}
	return nil
}
