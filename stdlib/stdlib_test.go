package stdlib_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoscript/leoscript/compiler"
	"github.com/leoscript/leoscript/internal/flushio"
	"github.com/leoscript/leoscript/parser"
	"github.com/leoscript/leoscript/stdlib"
	"github.com/leoscript/leoscript/value"
	"github.com/leoscript/leoscript/vm"
)

func mustRunWithStdlib(t *testing.T, src string, out *bytes.Buffer) value.Value {
	t.Helper()
	res, err := parser.Parse("t.leo", src)
	require.NoError(t, err)
	prog, err := compiler.Compile(res.Declarations)
	require.NoError(t, err)
	stdlib.Install(prog.Globals, flushio.NewWriteFlusher(out))
	thread := vm.NewThread(prog)
	result, err := thread.Run("main", nil)
	require.NoError(t, err)
	return result
}

func TestMathSqrtMatchesSpecScenario(t *testing.T) {
	result := mustRunWithStdlib(t, `
function main()
	return Math::sqrt(4) == 2.0
end
`, &bytes.Buffer{})
	require.Equal(t, value.Bool, result.Kind())
	assert.True(t, result.AsBool())
}

func TestMathMinMaxAbsPreserveInteger(t *testing.T) {
	result := mustRunWithStdlib(t, `
function main()
	return Math::min(3, 7) + Math::max(3, 7) + Math::abs(0 - 5)
end
`, &bytes.Buffer{})
	require.Equal(t, value.Integer, result.Kind())
	assert.EqualValues(t, 3+7+5, result.AsInteger())
}

func TestDictionarySetGetLength(t *testing.T) {
	result := mustRunWithStdlib(t, `
function main()
	var d = Dictionary()
	d.set("a", 1)
	d.set("b", 2)
	return d.get("a") + d.get("b") + d.length()
end
`, &bytes.Buffer{})
	require.Equal(t, value.Integer, result.Kind())
	assert.EqualValues(t, 1+2+2, result.AsInteger())
}

func TestDictionaryConstructedFromLiteral(t *testing.T) {
	result := mustRunWithStdlib(t, `
function main()
	var d = Dictionary({"x": 10})
	return d.get("x")
end
`, &bytes.Buffer{})
	require.Equal(t, value.Integer, result.Kind())
	assert.EqualValues(t, 10, result.AsInteger())
}

func TestDictionaryRemoveAndClear(t *testing.T) {
	result := mustRunWithStdlib(t, `
function main()
	var d = Dictionary({"x": 1})
	d.remove("x")
	d.set("y", 5)
	d.clear()
	return d.length()
end
`, &bytes.Buffer{})
	require.Equal(t, value.Integer, result.Kind())
	assert.EqualValues(t, 0, result.AsInteger())
}

func TestStringUpper(t *testing.T) {
	result := mustRunWithStdlib(t, `
function main()
	var s = String("Leo")
	return s.upper()
end
`, &bytes.Buffer{})
	require.Equal(t, value.String, result.Kind())
	assert.Equal(t, "LEO", result.AsString())
}

func TestPrintlnWritesDisplayFormFollowedByNewline(t *testing.T) {
	var out bytes.Buffer
	mustRunWithStdlib(t, `
function main()
	println(42)
end
`, &out)
	assert.Equal(t, "42\n", out.String())
}
