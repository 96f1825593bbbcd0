package parser

import (
	"strconv"

	"github.com/leoscript/leoscript/ast"
	"github.com/leoscript/leoscript/token"
)

// parseExpr is the precedence-climbing entry point. Precedence from loosest
// to tightest binding: or < and < comparison < additive < multiplicative <
// unary (not/negate) < power (^, right-associative).
func (p *Parser) parseExpr() (ast.Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.Or) {
		pos := p.advance().Pos
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: pos, Op: ast.OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.check(token.And) {
		pos := p.advance().Pos
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: pos, Op: ast.OpAnd, Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[token.Kind]ast.BinaryOp{
	token.EqualEqual:   ast.OpEqual,
	token.NotEqual:     ast.OpNotEqual,
	token.Less:         ast.OpLess,
	token.LessEqual:    ast.OpLessEqual,
	token.Greater:      ast.OpGreater,
	token.GreaterEqual: ast.OpGreaterEqual,
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.cur().Kind]
		if !ok {
			break
		}
		pos := p.advance().Pos
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(token.Plus) || p.check(token.Minus) {
		opTok := p.advance()
		op := ast.OpAdd
		if opTok.Kind == token.Minus {
			op = ast.OpSub
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: opTok.Pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(token.Star) || p.check(token.Slash) {
		opTok := p.advance()
		op := ast.OpMul
		if opTok.Kind == token.Slash {
			op = ast.OpDiv
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: opTok.Pos, Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.check(token.Not) {
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Pos: pos, Op: ast.OpNot, Operand: operand}, nil
	}
	if p.check(token.Minus) {
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Pos: pos, Op: ast.OpNegate, Operand: operand}, nil
	}
	return p.parsePower()
}

func (p *Parser) parsePower() (ast.Expression, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.check(token.Caret) {
		pos := p.advance().Pos
		// Right-associative: the exponent may itself contain unary/power.
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Pos: pos, Op: ast.OpPow, Left: left, Right: right}, nil
	}
	return left, nil
}

// parsePostfix parses a primary expression followed by any chain of member
// access (`.name`), scoped access (`::name`), indexing (`[expr]`), or calls
// (`(args)`), e.g. `a.b[c]::d(e)`.
func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case token.Dot:
			pos := p.advance().Pos
			name, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Pos: pos, Target: expr, Name: name.Text, Scoped: false}
		case token.ColonColon:
			pos := p.advance().Pos
			name, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Pos: pos, Target: expr, Name: name.Text, Scoped: true}
		case token.LBracket:
			pos := p.advance().Pos
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Pos: pos, Target: expr, Index: index}
		case token.LParen:
			pos := p.cur().Pos
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Pos: pos, Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.Null:
		p.advance()
		return &ast.NullLit{Pos: tok.Pos}, nil
	case token.True:
		p.advance()
		return &ast.BoolLit{Pos: tok.Pos, Value: true}, nil
	case token.False:
		p.advance()
		return &ast.BoolLit{Pos: tok.Pos, Value: false}, nil
	case token.Integer:
		p.advance()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, &Error{Kind: InvalidToken, Pos: tok.Pos, Detail: tok.Text, Err: err}
		}
		return &ast.IntegerLit{Pos: tok.Pos, Value: n}, nil
	case token.Float:
		p.advance()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &Error{Kind: InvalidToken, Pos: tok.Pos, Detail: tok.Text, Err: err}
		}
		return &ast.FloatLit{Pos: tok.Pos, Value: f}, nil
	case token.String:
		p.advance()
		return &ast.StringLit{Pos: tok.Pos, Value: tok.Text}, nil
	case token.Self:
		p.advance()
		return &ast.SelfExpr{Pos: tok.Pos}, nil
	case token.Identifier:
		p.advance()
		return &ast.Identifier{Pos: tok.Pos, Name: tok.Text}, nil
	case token.New:
		return p.parseNew()
	case token.LParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBracket:
		return p.parseArrayLit()
	case token.LBrace:
		return p.parseMapLit()
	default:
		return nil, p.unexpected()
	}
}

// parseNew parses `new Type(args)`, where Type may be a module-qualified
// chain, e.g. `new Graphics::Dimension(10, 20)`.
func (p *Parser) parseNew() (ast.Expression, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.New); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	var typ ast.Expression = &ast.Identifier{Pos: name.Pos, Name: name.Text}
	for p.check(token.ColonColon) {
		scopePos := p.advance().Pos
		seg, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		typ = &ast.MemberExpr{Pos: scopePos, Target: typ, Name: seg.Text, Scoped: true}
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &ast.NewExpr{Pos: pos, Type: typ, Args: args}, nil
}

func (p *Parser) parseArrayLit() (*ast.ArrayLit, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}
	var elems []ast.Expression
	for !p.check(token.RBracket) {
		if len(elems) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Pos: pos, Elements: elems}, nil
}

func (p *Parser) parseMapLit() (*ast.MapLit, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var entries []ast.MapEntry
	for !p.check(token.RBrace) {
		if len(entries) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		var key string
		switch p.cur().Kind {
		case token.Identifier:
			key = p.advance().Text
		case token.String:
			key = p.advance().Text
		default:
			return nil, p.unexpected()
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.MapEntry{Key: key, Value: value})
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.MapLit{Pos: pos, Entries: entries}, nil
}
