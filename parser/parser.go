// Package parser implements Leo's recursive-descent parser: a lookahead-1
// token stream in, a syntax tree (see package ast) out, with import
// resolution folded in per §4.3.
package parser

import (
	"github.com/leoscript/leoscript/ast"
	"github.com/leoscript/leoscript/lexer"
	"github.com/leoscript/leoscript/token"
)

// Importer resolves a dotted import path to source text. The default used
// by Parse reads "<path-with-/-separators>.leo" relative to the working
// directory, per §4.3.
type Importer interface {
	// Read returns the source text at path, or an error if it cannot be
	// read. Exists is checked first by the parser so a missing file is
	// reported as InvalidImportPath rather than UnableToReadFile.
	Read(path string) (string, error)
	Exists(path string) bool
}

// Result is everything Parse produces: the top-level declarations (with
// imports already flattened in) and any warnings collected along the way.
type Result struct {
	Declarations []ast.Declaration
	Warnings     []Warning
}

// Parser holds lookahead-1 token-stream parsing state for one source text,
// plus the shared import-cycle visited set and importer used to resolve
// `import` declarations recursively.
type Parser struct {
	file string
	toks []token.Token
	pos  int

	importer Importer
	visited  map[string]bool
	warnings []Warning
}

// Parse parses src (named file for position/import reporting) using the
// default filesystem Importer.
func Parse(file, src string) (*Result, error) {
	return ParseWithImporter(file, src, FileImporter{})
}

// ParseWithImporter parses src, resolving any `import` declarations through
// importer instead of the filesystem. Useful for embedding Leo with
// virtual/in-memory sources.
func ParseWithImporter(file, src string, importer Importer) (*Result, error) {
	p := &Parser{importer: importer, visited: make(map[string]bool)}
	decls, err := p.parseFile(file, src)
	if err != nil {
		return nil, err
	}
	return &Result{Declarations: decls, Warnings: p.warnings}, nil
}

func (p *Parser) parseFile(file, src string) ([]ast.Declaration, error) {
	toks, err := lexer.Tokenize(file, src)
	if err != nil {
		le := err.(*lexer.Error)
		return nil, &Error{Kind: InvalidToken, Pos: le.Pos, Detail: le.Message, Err: err}
	}

	savedFile, savedToks, savedPos := p.file, p.toks, p.pos
	p.file, p.toks, p.pos = file, toks, 0
	defer func() { p.file, p.toks, p.pos = savedFile, savedToks, savedPos }()

	if len(toks) == 1 { // just EOF
		return nil, &Error{Kind: NothingToParse, Pos: toks[0].Pos}
	}

	var decls []ast.Declaration
	for !p.atEnd() {
		d, err := p.parseTopLevelDecl()
		if err != nil {
			return nil, err
		}
		if d != nil {
			decls = append(decls, d...)
		}
	}
	return decls, nil
}

// parseTopLevelDecl parses one declaration and returns it wrapped in a
// slice, except for import, which may expand to zero or more flattened
// declarations from the imported file.
func (p *Parser) parseTopLevelDecl() ([]ast.Declaration, error) {
	switch p.cur().Kind {
	case token.Function:
		d, err := p.parseFunction()
		return []ast.Declaration{d}, err
	case token.Class:
		d, err := p.parseClass()
		return []ast.Declaration{d}, err
	case token.Enum:
		d, err := p.parseEnum()
		return []ast.Declaration{d}, err
	case token.Module:
		d, err := p.parseModule()
		return []ast.Declaration{d}, err
	case token.Import:
		return p.parseImport()
	default:
		return nil, p.unexpected()
	}
}

func (p *Parser) parseDeclBlock(terminators ...token.Kind) ([]ast.Declaration, error) {
	var decls []ast.Declaration
	for !p.atTerminator(terminators...) {
		if p.atEnd() {
			return nil, &Error{Kind: ExpectedBlockEnd, Pos: p.cur().Pos}
		}
		ds, err := p.parseTopLevelDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, ds...)
	}
	return decls, nil
}

// ---- token helpers ----

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) atEnd() bool { return p.cur().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atTerminator(ks ...token.Kind) bool {
	for _, k := range ks {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) match(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if !p.check(k) {
		return token.Token{}, &Error{Kind: ExpectedToken, Pos: p.cur().Pos, Detail: k.String() + ", got " + p.cur().Kind.String()}
	}
	return p.advance(), nil
}

func (p *Parser) expectIdentifier() (token.Token, error) {
	if !p.check(token.Identifier) {
		return token.Token{}, &Error{Kind: InvalidIdentifier, Pos: p.cur().Pos, Detail: p.cur().Text}
	}
	return p.advance(), nil
}

func (p *Parser) unexpected() error {
	return &Error{Kind: InvalidToken, Pos: p.cur().Pos, Detail: p.cur().Text}
}

func (p *Parser) expectEnd() error {
	_, err := p.expect(token.End)
	return err
}
