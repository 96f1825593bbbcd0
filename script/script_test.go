package script_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoscript/leoscript/script"
	"github.com/leoscript/leoscript/value"
	"github.com/leoscript/leoscript/vm"
)

func TestRunReturnsValueAndTimings(t *testing.T) {
	result, err := script.Run(context.Background(), `
function main()
	return 1 + 2
end
`)
	require.NoError(t, err)
	require.Equal(t, value.Integer, result.Value.Kind())
	assert.EqualValues(t, 3, result.Value.AsInteger())
	assert.GreaterOrEqual(t, result.TotalTime, result.CompileTime)
	assert.GreaterOrEqual(t, result.TotalTime, result.ExecutionTime)
}

func TestRunWithParamsAndEntrypoint(t *testing.T) {
	result, err := script.Run(context.Background(), `
function add(a, b)
	return a + b
end
`,
		script.WithEntrypoint("add"),
		script.WithParams(value.NewInteger(4), value.NewInteger(5)),
	)
	require.NoError(t, err)
	assert.EqualValues(t, 9, result.Value.AsInteger())
}

func TestRunWithOutputReachesPrintln(t *testing.T) {
	var out bytes.Buffer
	_, err := script.Run(context.Background(), `
function main()
	println("hello")
end
`, script.WithOutput(&out))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.String())
}

func TestRunParseErrorIsScriptErrorPhaseParse(t *testing.T) {
	_, err := script.Run(context.Background(), `function main( return 1 end`)
	require.Error(t, err)
	serr, ok := err.(*script.ScriptError)
	require.True(t, ok)
	assert.Equal(t, script.PhaseParse, serr.Phase)
}

func TestRunCompileErrorIsScriptErrorPhaseCompile(t *testing.T) {
	_, err := script.Run(context.Background(), `
function main()
	var a = 1
	var a = 2
end
`)
	require.Error(t, err)
	serr, ok := err.(*script.ScriptError)
	require.True(t, ok)
	assert.Equal(t, script.PhaseCompile, serr.Phase)
}

func TestRunRuntimeErrorIsScriptErrorPhaseRun(t *testing.T) {
	_, err := script.Run(context.Background(), `
function main()
	return 1 / 0
end
`)
	require.Error(t, err)
	serr, ok := err.(*script.ScriptError)
	require.True(t, ok)
	assert.Equal(t, script.PhaseRun, serr.Phase)
}

func TestRunContextCancelledReturnsPromptly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := script.Run(ctx, `
function main()
	var i = 0
	while true
		i = i + 1
	end
	return i
end
`, script.WithThreadOptions(vm.WithInstructionLimit(10000)))
	require.Error(t, err)
}

func TestCompileThenExecuteRunsSameProgramWithDifferentParams(t *testing.T) {
	prog, warnings, err := script.Compile(`
function add(a, b)
	return a + b
end
`)
	require.NoError(t, err)
	require.Empty(t, warnings)

	first, err := script.Execute(context.Background(), prog,
		script.WithEntrypoint("add"),
		script.WithParams(value.NewInteger(1), value.NewInteger(2)),
	)
	require.NoError(t, err)
	assert.EqualValues(t, 3, first.Value.AsInteger())
	assert.Zero(t, first.CompileTime)

	second, err := script.Execute(context.Background(), prog,
		script.WithEntrypoint("add"),
		script.WithParams(value.NewInteger(10), value.NewInteger(20)),
	)
	require.NoError(t, err)
	assert.EqualValues(t, 30, second.Value.AsInteger())
}

func TestRunConcurrentRunsIndependentScripts(t *testing.T) {
	tasks := []script.Task{
		{Source: "function main() return 1 end"},
		{Source: "function main() return 2 end"},
		{Source: "function main() return 3 end"},
	}
	results, err := script.RunConcurrent(context.Background(), tasks)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, want := range []int64{1, 2, 3} {
		assert.EqualValues(t, want, results[i].Value.AsInteger())
	}
}

func TestRunConcurrentPropagatesOneFailure(t *testing.T) {
	tasks := []script.Task{
		{Source: "function main() return 1 end"},
		{Source: "function main() return 1 / 0 end"},
	}
	_, err := script.RunConcurrent(context.Background(), tasks)
	require.Error(t, err)
}

// TestRunImportWarningSurfaces exercises the ImportFileEmpty warning via a
// module that imports itself: the self-import is skipped by the
// already-visited cycle guard, so the module's own declaration list comes
// back empty, which is exactly what the warning reports.
func TestRunImportWarningSurfaces(t *testing.T) {
	result, err := script.Run(context.Background(), `
import loopback

function main()
	return 1
end
`, script.WithImporter(selfImportingImporter{}))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
}

type selfImportingImporter struct{}

func (selfImportingImporter) Exists(string) bool { return true }

func (selfImportingImporter) Read(dotted string) (string, error) {
	if dotted == "loopback" {
		return "import loopback", nil
	}
	return "", nil
}
