package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoscript/leoscript/ast"
)

type memImporter map[string]string

func (m memImporter) Exists(dotted string) bool      { _, ok := m[dotted]; return ok }
func (m memImporter) Read(dotted string) (string, error) {
	return m[dotted], nil
}

func parseDecls(t *testing.T, src string) []ast.Declaration {
	t.Helper()
	res, err := ParseWithImporter("t.leo", src, memImporter{})
	require.NoError(t, err)
	return res.Declarations
}

func TestParseFunctionWithReturn(t *testing.T) {
	decls := parseDecls(t, `
function add(a, b) as Integer
	return a + b
end
`)
	require.Len(t, decls, 1)
	fn, ok := decls[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, "Integer", fn.ReturnType)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
}

func TestOperatorPrecedence(t *testing.T) {
	decls := parseDecls(t, `
function f()
	return 1 + 2 * 3 ^ 2
end
`)
	fn := decls[0].(*ast.FunctionDecl)
	ret := fn.Body[0].(*ast.ReturnStmt)
	add := ret.Value.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpAdd, add.Op)
	assert.Equal(t, int64(1), add.Left.(*ast.IntegerLit).Value)
	mul := add.Right.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpMul, mul.Op)
	pow := mul.Right.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpPow, pow.Op)
}

func TestUnaryBindsLooserThanPower(t *testing.T) {
	decls := parseDecls(t, `
function f()
	return -2 ^ 2
end
`)
	fn := decls[0].(*ast.FunctionDecl)
	ret := fn.Body[0].(*ast.ReturnStmt)
	neg := ret.Value.(*ast.UnaryExpr)
	assert.Equal(t, ast.OpNegate, neg.Op)
	pow, ok := neg.Operand.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpPow, pow.Op)
}

func TestIfElifElse(t *testing.T) {
	decls := parseDecls(t, `
function f(a)
	if a == 1
		return 1
	else if a == 2
		return 2
	else
		return 0
	end
end
`)
	fn := decls[0].(*ast.FunctionDecl)
	ifs := fn.Body[0].(*ast.IfStmt)
	require.Len(t, ifs.Elifs, 1)
	require.Len(t, ifs.Else, 1)
}

func TestForRangeWithStep(t *testing.T) {
	decls := parseDecls(t, `
function f()
	for i in 1 to 10 step 2
		print(i)
	end
end
`)
	fn := decls[0].(*ast.FunctionDecl)
	forStmt := fn.Body[0].(*ast.ForStmt)
	rng, ok := forStmt.Source.(*ast.RangeExpr)
	require.True(t, ok)
	assert.NotNil(t, rng.Step)
}

func TestChainedMemberIndexCall(t *testing.T) {
	decls := parseDecls(t, `
function f()
	return a.b[c]::d(e)
end
`)
	fn := decls[0].(*ast.FunctionDecl)
	ret := fn.Body[0].(*ast.ReturnStmt)
	call, ok := ret.Value.(*ast.CallExpr)
	require.True(t, ok)
	member, ok := call.Callee.(*ast.MemberExpr)
	require.True(t, ok)
	assert.True(t, member.Scoped)
	assert.Equal(t, "d", member.Name)
	idx, ok := member.Target.(*ast.IndexExpr)
	require.True(t, ok)
	_ = idx
}

func TestClassWithAttributesAndConstructor(t *testing.T) {
	decls := parseDecls(t, `
class Dimension
	var width as Integer
	attribute height = 0

	constructor(w, h)
		self.width = w
		self.height = h
	end

	function area()
		return self.width * self.height
	end
end
`)
	cls := decls[0].(*ast.ClassDecl)
	require.Len(t, cls.Attributes, 2)
	assert.Equal(t, "width", cls.Attributes[0].Name)
	assert.Nil(t, cls.Attributes[0].Default)
	assert.Equal(t, "height", cls.Attributes[1].Name)
	require.NotNil(t, cls.Attributes[1].Default)
	require.NotNil(t, cls.Constructor)
	require.Len(t, cls.Methods, 1)
}

func TestNewWithModuleQualifiedType(t *testing.T) {
	decls := parseDecls(t, `
function f()
	return new Graphics::Dimension(10, 20)
end
`)
	fn := decls[0].(*ast.FunctionDecl)
	ret := fn.Body[0].(*ast.ReturnStmt)
	nw, ok := ret.Value.(*ast.NewExpr)
	require.True(t, ok)
	member, ok := nw.Type.(*ast.MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "Dimension", member.Name)
	require.Len(t, nw.Args, 2)
}

func TestMapAndArrayLiterals(t *testing.T) {
	decls := parseDecls(t, `
function f()
	var a = [1, 2, 3]
	var m = {x: 1, y: 2}
	return m
end
`)
	fn := decls[0].(*ast.FunctionDecl)
	arrDecl := fn.Body[0].(*ast.VarDecl)
	arr, ok := arrDecl.Init.(*ast.ArrayLit)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 3)

	mapDecl := fn.Body[1].(*ast.VarDecl)
	m, ok := mapDecl.Init.(*ast.MapLit)
	require.True(t, ok)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "x", m.Entries[0].Key)
}

func TestMatchStatement(t *testing.T) {
	decls := parseDecls(t, `
function f(x)
	match x
	case 1
		return "one"
	case 2
		return "two"
	default
		return "other"
	end
end
`)
	fn := decls[0].(*ast.FunctionDecl)
	m := fn.Body[0].(*ast.MatchStmt)
	require.Len(t, m.Arms, 2)
	require.Len(t, m.Default, 1)
}

func TestImportFlattensDeclarations(t *testing.T) {
	imp := memImporter{
		"tests.scripts.graphics": `
module Graphics
	class Dimension
		var width as Integer
		constructor(w)
			self.width = w
		end
	end
end
`,
	}
	res, err := ParseWithImporter("main.leo", `
import tests.scripts.graphics

function f()
	return new Graphics::Dimension(5)
end
`, imp)
	require.NoError(t, err)
	require.Len(t, res.Declarations, 2)
	mod, ok := res.Declarations[0].(*ast.ModuleDecl)
	require.True(t, ok)
	assert.Equal(t, "Graphics", mod.Name)
}

func TestImportCycleIsSkippedSilently(t *testing.T) {
	imp := memImporter{
		"a": `import b
function fa()
	return 1
end`,
		"b": `import a
function fb()
	return 2
end`,
	}
	res, err := ParseWithImporter("main.leo", `import a`, imp)
	require.NoError(t, err)
	// a -> b -> a(skipped) -> fb -> fa : two functions total, no infinite loop.
	assert.Len(t, res.Declarations, 2)
}

func TestMissingImportIsInvalidImportPath(t *testing.T) {
	_, err := ParseWithImporter("main.leo", `import nothing.here`, memImporter{})
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, InvalidImportPath, perr.Kind)
}

func TestExpectedBlockEndOnUnterminatedFunction(t *testing.T) {
	_, err := ParseWithImporter("main.leo", `
function f()
	return 1
`, memImporter{})
	require.Error(t, err)
	perr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ExpectedBlockEnd, perr.Kind)
}

func TestBareClassCallSugarParsesAsOrdinaryCall(t *testing.T) {
	decls := parseDecls(t, `
function f()
	return Book()
end
`)
	fn := decls[0].(*ast.FunctionDecl)
	ret := fn.Body[0].(*ast.ReturnStmt)
	call, ok := ret.Value.(*ast.CallExpr)
	require.True(t, ok)
	ident, ok := call.Callee.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "Book", ident.Name)
}
