package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoscript/leoscript/ir"
	"github.com/leoscript/leoscript/parser"
	"github.com/leoscript/leoscript/value"
)

func mustCompile(t *testing.T, src string) *ir.Program {
	t.Helper()
	res, err := parser.Parse("t.leo", src)
	require.NoError(t, err)
	prog, err := Compile(res.Declarations)
	require.NoError(t, err)
	return prog
}

func opsOf(prog *ir.Program) []ir.Op {
	ops := make([]ir.Op, len(prog.Instructions))
	for i, instr := range prog.Instructions {
		ops[i] = instr.Op
	}
	return ops
}

func TestCompileVarReassignReturn(t *testing.T) {
	prog := mustCompile(t, `
function main() as Integer
	var a = 1
	a = 2
	return a == 2
end
`)
	_, ok := prog.Globals["main"]
	require.True(t, ok)
	assert.Contains(t, opsOf(prog), ir.Equal)
	assert.Contains(t, opsOf(prog), ir.ReturnWithValue)
}

func TestCompileDuplicateVarDeclIsError(t *testing.T) {
	res, err := parser.Parse("t.leo", `
function main()
	var a = 1
	var a = 2
end
`)
	require.NoError(t, err)
	_, err = Compile(res.Declarations)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, VariableAlreadyDeclared, cerr.Kind)
}

func TestCompileUndeclaredAssignIsError(t *testing.T) {
	res, err := parser.Parse("t.leo", `
function main()
	a = 2
end
`)
	require.NoError(t, err)
	_, err = Compile(res.Declarations)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, VariableNotDeclared, cerr.Kind)
}

func TestCompileBreakOutsideLoopIsError(t *testing.T) {
	res, err := parser.Parse("t.leo", `
function main()
	break
end
`)
	require.NoError(t, err)
	_, err = Compile(res.Declarations)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, BreakOutsideOfLoop, cerr.Kind)
}

func TestCompileWhileWithBreakAndContinue(t *testing.T) {
	prog := mustCompile(t, `
function main()
	var i = 0
	while i < 10
		i = i + 1
		if i == 5
			continue
		end
		if i == 9
			break
		end
	end
end
`)
	ops := opsOf(prog)
	assert.Contains(t, ops, ir.JumpBackward)
	assert.Contains(t, ops, ir.JumpForward)
	assert.Contains(t, ops, ir.JumpForwardIfFalse)
}

func TestCompileForRangeUsesIterator(t *testing.T) {
	prog := mustCompile(t, `
function main()
	for i in 0 to 10 step 2
		print(i)
	end
end
`)
	ops := opsOf(prog)
	assert.Contains(t, ops, ir.IteratorInit)
	assert.Contains(t, ops, ir.IteratorNext)
}

func TestCompileClassWithAttributeConstructorAndMethod(t *testing.T) {
	prog := mustCompile(t, `
class Book
	attribute title = "untitled"
	var pages

	constructor(title)
		self.title = title
	end

	function describe()
		return self.title
	end
end

function main()
	var b = new Book("Dune")
	return b.describe()
end
`)
	classVal, ok := prog.Globals["Book"]
	require.True(t, ok)
	tmpl := classVal.AsClass()
	require.NotNil(t, tmpl)
	_, hasCtor := tmpl.Members[value.ConstructorMember]
	assert.True(t, hasCtor)
	_, hasMethod := tmpl.Members["describe"]
	assert.True(t, hasMethod)
	_, hasAttr := tmpl.Members["title"]
	assert.True(t, hasAttr)
	_, hasVar := tmpl.Members["pages"]
	assert.True(t, hasVar)

	ops := opsOf(prog)
	assert.Contains(t, ops, ir.CreateObject)
	assert.Contains(t, ops, ir.LoadClass)
}

func TestCompileAttributeNonConstantDefaultIsError(t *testing.T) {
	res, err := parser.Parse("t.leo", `
function sideEffect()
	return 1
end

class Thing
	attribute value = sideEffect()
end
`)
	require.NoError(t, err)
	_, err = Compile(res.Declarations)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, AttributeDefaultNotConstant, cerr.Kind)
}

func TestCompileMathModuleCall(t *testing.T) {
	prog := mustCompile(t, `
function main()
	return Math::sqrt(4)
end
`)
	ops := opsOf(prog)
	assert.Contains(t, ops, ir.LoadGlobal)
	assert.Contains(t, ops, ir.LoadMember)
	assert.Contains(t, ops, ir.Call)
}

func TestCompileSelfRecursiveCallUsesFunctionPointer(t *testing.T) {
	prog := mustCompile(t, `
function countdown(n)
	if n == 0
		return 0
	end
	return countdown(n - 1)
end
`)
	assert.Contains(t, opsOf(prog), ir.PushFunctionPointer)
}

func TestCompileShortCircuitAndOr(t *testing.T) {
	prog := mustCompile(t, `
function main()
	var a = true and false
	var b = false or true
	return a == b
end
`)
	ops := opsOf(prog)
	assert.Contains(t, ops, ir.JumpForwardIfFalse)
	assert.Contains(t, ops, ir.JumpForward)
}

func TestCompileEmptyDeclsIsNoTokens(t *testing.T) {
	_, err := Compile(nil)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, NoTokens, cerr.Kind)
}

func TestCompileDeclsWithNoFunctionBodiesIsNoInstructionsGenerated(t *testing.T) {
	res, err := parser.Parse("t.leo", `
enum Color
	Red
	Green
end
`)
	require.NoError(t, err)
	_, err = Compile(res.Declarations)
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, NoInstructionsGenerated, cerr.Kind)
}
