package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoscript/leoscript/compiler"
	"github.com/leoscript/leoscript/ir"
	"github.com/leoscript/leoscript/parser"
	"github.com/leoscript/leoscript/value"
	"github.com/leoscript/leoscript/vm"
)

func mustRun(t *testing.T, src string, params ...value.Value) value.Value {
	t.Helper()
	res, err := parser.Parse("t.leo", src)
	require.NoError(t, err)
	prog, err := compiler.Compile(res.Declarations)
	require.NoError(t, err)
	thread := vm.NewThread(prog)
	result, err := thread.Run("main", params)
	require.NoError(t, err)
	return result
}

func TestRunSimpleArithmeticReturn(t *testing.T) {
	result := mustRun(t, `
function main()
	return 2 + 3 * 4
end
`)
	require.Equal(t, value.Integer, result.Kind())
	assert.EqualValues(t, 14, result.AsInteger())
}

func TestRunDimensionAreaPlusPerimeter(t *testing.T) {
	result := mustRun(t, `
function main(x, y)
	var d = new Dimension(x, y)
	return d.area() + d.perimeter()
end

class Dimension
	var height as Integer
	var length as Integer
	constructor(h, l)
		self.height = h
		self.length = l
	end
	function area() as Integer
		return self.height * self.length
	end
	function perimeter() as Integer
		return 2 * (self.height + self.length)
	end
end
`, value.NewInteger(10), value.NewInteger(20))
	require.Equal(t, value.Integer, result.Kind())
	assert.EqualValues(t, 260, result.AsInteger())
}

func TestRunEnumIdentity(t *testing.T) {
	result := mustRun(t, `
function main()
	var x = Color.Red
	var y = Color.Green
	return x != y
end

enum Color
	Red
	Green
	Blue
end
`)
	require.Equal(t, value.Bool, result.Kind())
	assert.True(t, result.AsBool())

	result = mustRun(t, `
function main()
	return Color.Red == Color.Red
end

enum Color
	Red
	Green
	Blue
end
`)
	require.Equal(t, value.Bool, result.Kind())
	assert.True(t, result.AsBool())
}

func TestRunObjectIsPassedByHandle(t *testing.T) {
	result := mustRun(t, `
function bump(d)
	d.height = d.height + 1
end

function main()
	var d = new Dimension(1, 2)
	bump(d)
	return d.height
end

class Dimension
	var height as Integer
	var length as Integer
	constructor(h, l)
		self.height = h
		self.length = l
	end
end
`)
	require.Equal(t, value.Integer, result.Kind())
	assert.EqualValues(t, 2, result.AsInteger())
}

func TestRunArrayIsClonedOnLocalAssignment(t *testing.T) {
	result := mustRun(t, `
function mutate(a)
	a[0] = 99
end

function main()
	var a = [1, 2, 3]
	mutate(a)
	return a[0]
end
`)
	require.Equal(t, value.Integer, result.Kind())
	assert.EqualValues(t, 1, result.AsInteger())
}

func TestRunForRangeAccumulates(t *testing.T) {
	result := mustRun(t, `
function main()
	var total = 0
	for i in 0 to 5
		total = total + i
	end
	return total
end
`)
	require.Equal(t, value.Integer, result.Kind())
	assert.EqualValues(t, 10, result.AsInteger())
}

func TestRunDivisionByZeroRaises(t *testing.T) {
	res, err := parser.Parse("t.leo", `
function main()
	return 1 / 0
end
`)
	require.NoError(t, err)
	prog, err := compiler.Compile(res.Declarations)
	require.NoError(t, err)

	thread := vm.NewThread(prog)
	_, err = thread.Run("main", nil)
	require.Error(t, err)
	verr, ok := err.(*vm.Error)
	require.True(t, ok)
	assert.Equal(t, vm.DivisionByZero, verr.Kind)
}

func TestRunInstructionLimitRaisesInfiniteLoop(t *testing.T) {
	res, err := parser.Parse("t.leo", `
function main()
	var i = 0
	while true
		i = i + 1
	end
	return i
end
`)
	require.NoError(t, err)
	prog, err := compiler.Compile(res.Declarations)
	require.NoError(t, err)

	thread := vm.NewThread(prog, vm.WithInstructionLimit(1000))
	_, err = thread.Run("main", nil)
	require.Error(t, err)
	verr, ok := err.(*vm.Error)
	require.True(t, ok)
	assert.Equal(t, vm.InfiniteLoop, verr.Kind)
}

// mustRunProgram bypasses parser/compiler entirely and runs a hand-assembled
// Program, for exercising opcodes the compiler never emits on its own (e.g.
// And/Or, which compileAnd/compileOr lower to jumps instead of using).
func mustRunProgram(t *testing.T, instructions []ir.Instruction) value.Value {
	t.Helper()
	prog := ir.NewProgram()
	prog.Instructions = instructions
	prog.Globals["main"] = value.NewFunctionPointer(0)

	thread := vm.NewThread(prog)
	result, err := thread.Run("main", nil)
	require.NoError(t, err)
	return result
}

func TestRunAndOpcodeIsBooleanOnlyNoShortCircuit(t *testing.T) {
	cases := []struct {
		left, right bool
		want        bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	for _, c := range cases {
		result := mustRunProgram(t, []ir.Instruction{
			{Op: ir.SetVariableBuffer, Int: 0},
			{Op: ir.PushBool, Bool: c.left},
			{Op: ir.PushBool, Bool: c.right},
			{Op: ir.And},
			{Op: ir.ReturnWithValue},
		})
		require.Equal(t, value.Bool, result.Kind())
		assert.Equal(t, c.want, result.AsBool())
	}
}

func TestRunOrOpcodeIsBooleanOnlyNoShortCircuit(t *testing.T) {
	cases := []struct {
		left, right bool
		want        bool
	}{
		{true, true, true},
		{true, false, true},
		{false, true, true},
		{false, false, false},
	}
	for _, c := range cases {
		result := mustRunProgram(t, []ir.Instruction{
			{Op: ir.SetVariableBuffer, Int: 0},
			{Op: ir.PushBool, Bool: c.left},
			{Op: ir.PushBool, Bool: c.right},
			{Op: ir.Or},
			{Op: ir.ReturnWithValue},
		})
		require.Equal(t, value.Bool, result.Kind())
		assert.Equal(t, c.want, result.AsBool())
	}
}

func TestRunAndOpcodeRejectsNonBoolOperands(t *testing.T) {
	prog := ir.NewProgram()
	prog.Instructions = []ir.Instruction{
		{Op: ir.SetVariableBuffer, Int: 0},
		{Op: ir.PushInteger, Int: 1},
		{Op: ir.PushBool, Bool: true},
		{Op: ir.And},
		{Op: ir.ReturnWithValue},
	}
	prog.Globals["main"] = value.NewFunctionPointer(0)

	thread := vm.NewThread(prog)
	_, err := thread.Run("main", nil)
	require.Error(t, err)
	verr, ok := err.(*vm.Error)
	require.True(t, ok)
	assert.Equal(t, vm.ExpectedValueOnStack, verr.Kind)
}
