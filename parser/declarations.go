package parser

import (
	"github.com/leoscript/leoscript/ast"
	"github.com/leoscript/leoscript/token"
)

func (p *Parser) parseFunction() (*ast.FunctionDecl, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.Function); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	returnType := ""
	if _, ok := p.match(token.As); ok {
		rt, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		returnType = rt.Text
	}
	body, err := p.parseStmtBlock(token.End)
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{Pos: pos, Name: name.Text, Params: params, ReturnType: returnType, Body: body}, nil
}

func (p *Parser) parseParams() ([]ast.Param, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.check(token.RParen) {
		if len(params) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: name.Text, Pos: name.Pos})
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseArgs() ([]ast.Expression, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.check(token.RParen) {
		if len(args) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseClass() (*ast.ClassDecl, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.Class); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	decl := &ast.ClassDecl{Pos: pos, Name: name.Text}
	for !p.check(token.End) {
		if p.atEnd() {
			return nil, &Error{Kind: ExpectedBlockEnd, Pos: p.cur().Pos}
		}
		switch p.cur().Kind {
		case token.Var:
			attr, err := p.parseVarAttribute()
			if err != nil {
				return nil, err
			}
			decl.Attributes = append(decl.Attributes, attr)
		case token.Attribute:
			attr, err := p.parseAttribute()
			if err != nil {
				return nil, err
			}
			decl.Attributes = append(decl.Attributes, attr)
		case token.Constructor:
			ctor, err := p.parseConstructor()
			if err != nil {
				return nil, err
			}
			decl.Constructor = ctor
		case token.Function:
			fn, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			decl.Methods = append(decl.Methods, fn)
		default:
			return nil, p.unexpected()
		}
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseVarAttribute parses `var name [as Type]`, a field declaration with
// an implicit null default.
func (p *Parser) parseVarAttribute() (*ast.AttributeDecl, error) {
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
	return &ast.AttributeDecl{Pos: pos, Name: name.Text, Type: typ}, nil
}

// parseAttribute parses `attribute name = expr`, a field with an explicit
// constant default (enforced during codegen).
func (p *Parser) parseAttribute() (*ast.AttributeDecl, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.Attribute); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Equal); err != nil {
		return nil, err
	}
	def, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.AttributeDecl{Pos: pos, Name: name.Text, Default: def}, nil
}

func (p *Parser) parseConstructor() (*ast.ConstructorDecl, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.Constructor); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
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
	return &ast.ConstructorDecl{Pos: pos, Params: params, Body: body}, nil
}

func (p *Parser) parseEnum() (*ast.EnumDecl, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.Enum); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	var items []string
	for p.check(token.Identifier) {
		items = append(items, p.advance().Text)
		p.match(token.Comma)
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return &ast.EnumDecl{Pos: pos, Name: name.Text, Items: items}, nil
}

func (p *Parser) parseModule() (*ast.ModuleDecl, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.Module); err != nil {
		return nil, err
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	decls, err := p.parseDeclBlock(token.End)
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return &ast.ModuleDecl{Pos: pos, Name: name.Text, Decls: decls}, nil
}
