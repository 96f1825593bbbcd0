package parser

import (
	"github.com/leoscript/leoscript/ast"
	"github.com/leoscript/leoscript/token"
)

// parseStmtBlock parses statements until one of terminators is seen.
func (p *Parser) parseStmtBlock(terminators ...token.Kind) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.atTerminator(terminators...) {
		if p.atEnd() {
			return nil, &Error{Kind: ExpectedBlockEnd, Pos: p.cur().Pos}
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Kind {
	case token.Var:
		return p.parseVarDecl()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.Match:
		return p.parseMatch()
	case token.Break:
		pos := p.advance().Pos
		return &ast.BreakStmt{Pos: pos}, nil
	case token.Continue:
		pos := p.advance().Pos
		return &ast.ContinueStmt{Pos: pos}, nil
	case token.Return:
		return p.parseReturn()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.Var); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	typ := ""
	if _, ok := p.match(token.As); ok {
		t, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		typ = t.Text
	}
	var init ast.Expression
	if _, ok := p.match(token.Equal); ok {
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	return &ast.VarDecl{Pos: pos, Name: name.Text, Type: typ, Init: init}, nil
}

func (p *Parser) parseIf() (*ast.IfStmt, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.If); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStmtBlock(token.Else, token.End)
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Pos: pos, Cond: cond, Then: then}

	for {
		if !p.check(token.Else) {
			break
		}
		elsePos := p.advance().Pos
		if p.check(token.If) {
			p.advance()
			elifCond, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			body, err := p.parseStmtBlock(token.Else, token.End)
			if err != nil {
				return nil, err
			}
			stmt.Elifs = append(stmt.Elifs, ast.ElifClause{Pos: elsePos, Cond: elifCond, Body: body})
			continue
		}
		elseBody, err := p.parseStmtBlock(token.End)
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBody
		break
	}

	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (*ast.WhileStmt, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.While); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmtBlock(token.End)
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Pos: pos, Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (*ast.ForStmt, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.For); err != nil {
		return nil, err
	}
	varName, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.In); err != nil {
		return nil, err
	}
	source, err := p.parseForSource()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmtBlock(token.End)
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return &ast.ForStmt{Pos: pos, Var: varName.Text, Source: source, Body: body}, nil
}

// parseForSource parses either a container expression or a `start to end
// [step n]` range, per §4.2's for-loop grammar.
func (p *Parser) parseForSource() (ast.Expression, error) {
	pos := p.cur().Pos
	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, ok := p.match(token.To); !ok {
		return start, nil
	}
	end, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var step ast.Expression
	if _, ok := p.match(token.Step); ok {
		step, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	return &ast.RangeExpr{Pos: pos, Start: start, End: end, Step: step}, nil
}

func (p *Parser) parseMatch() (*ast.MatchStmt, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.Match); err != nil {
		return nil, err
	}
	scrutinee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	stmt := &ast.MatchStmt{Pos: pos, Scrutinee: scrutinee}
	for p.check(token.Case) {
		casePos := p.advance().Pos
		test, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseStmtBlock(token.Case, token.Default, token.End)
		if err != nil {
			return nil, err
		}
		stmt.Arms = append(stmt.Arms, ast.MatchArm{Pos: casePos, Test: test, Body: body})
	}
	if p.check(token.Default) {
		p.advance()
		body, err := p.parseStmtBlock(token.End)
		if err != nil {
			return nil, err
		}
		stmt.Default = body
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseReturn() (*ast.ReturnStmt, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.Return); err != nil {
		return nil, err
	}
	if p.atTerminator(token.End, token.Else, token.Case, token.Default) {
		return &ast.ReturnStmt{Pos: pos}, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Pos: pos, Value: value}, nil
}

// parseExprOrAssignStmt parses an expression statement, or, if the
// expression is followed by `=`, an assignment with that expression as the
// target (identifier, member, or index expression).
func (p *Parser) parseExprOrAssignStmt() (ast.Statement, error) {
	pos := p.cur().Pos
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, ok := p.match(token.Equal); ok {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Pos: pos, Target: expr, Value: value}, nil
	}
	return &ast.ExprStmt{Pos: pos, Expr: expr}, nil
}
