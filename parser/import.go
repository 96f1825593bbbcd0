package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/leoscript/leoscript/ast"
	"github.com/leoscript/leoscript/token"
)

// FileImporter reads ".leo" sources from disk relative to the working
// directory, joining dotted import paths with "/" per §4.3.
type FileImporter struct{}

func (FileImporter) pathFor(dotted string) string {
	return filepath.Join(filepath.FromSlash(strings.ReplaceAll(dotted, ".", "/"))) + ".leo"
}

func (f FileImporter) Exists(dotted string) bool {
	_, err := os.Stat(f.pathFor(dotted))
	return err == nil
}

func (f FileImporter) Read(dotted string) (string, error) {
	b, err := os.ReadFile(f.pathFor(dotted))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// parseImport resolves one `import a.b.c` declaration. The imported file's
// top-level declarations are parsed recursively and flattened directly into
// the importing file's declaration list: a file that itself declares
// `module Graphics ... end` or `class Person ... end` makes those names
// available exactly as if they had been written inline, which is the
// behavior the workspace/lib integration tests exercise (see DESIGN.md).
//
// Imports are resolved depth-first against a visited set keyed by the
// resolved file path shared across the whole parse; a path already visited
// is silently skipped (no error, no re-parse, no duplicate declarations).
func (p *Parser) parseImport() ([]ast.Declaration, error) {
	pos := p.cur().Pos
	if _, err := p.expect(token.Import); err != nil {
		return nil, err
	}

	first, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	segments := []string{first.Text}
	for {
		if _, ok := p.match(token.Dot); !ok {
			break
		}
		seg, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg.Text)
	}
	dotted := strings.Join(segments, ".")

	if !p.importer.Exists(dotted) {
		return nil, &Error{Kind: InvalidImportPath, Pos: pos, Detail: dotted}
	}

	canonical := dotted
	if abs, err := filepath.Abs(filepath.FromSlash(strings.ReplaceAll(dotted, ".", "/")) + ".leo"); err == nil {
		canonical = abs
	}
	if p.visited[canonical] {
		return nil, nil
	}
	p.visited[canonical] = true

	src, err := p.importer.Read(dotted)
	if err != nil {
		return nil, &Error{Kind: UnableToReadFile, Pos: pos, Detail: dotted, Err: err}
	}

	decls, err := p.parseFile(dotted+".leo", src)
	if perr, ok := err.(*Error); ok && perr.Kind == NothingToParse {
		p.warnings = append(p.warnings, Warning{Kind: ImportFileEmpty, Pos: pos, Detail: dotted})
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(decls) == 0 {
		p.warnings = append(p.warnings, Warning{Kind: ImportFileEmpty, Pos: pos, Detail: dotted})
	}
	return decls, nil
}
