// Package script is the embedder-facing driver, split into three entry
// points the way original_source's lib.rs separates compile_program,
// execute_program and run_script: Compile parses and compiles only; Execute
// installs the standard library and runs an already-compiled Program, so a
// caller can compile once and execute it repeatedly with different params;
// Run is Compile followed by Execute. Each phase is timed and its errors are
// tagged with the Phase they occurred in — generalized from gothird's api.go
// Compile/Run split (itself a thin, panic-recovering wrapper over its VM) to
// Leo's parse -> compile -> vm.Run pipeline.
package script

import (
	"context"
	"io"
	"time"

	"github.com/leoscript/leoscript/compiler"
	"github.com/leoscript/leoscript/internal/flushio"
	"github.com/leoscript/leoscript/internal/panicerr"
	"github.com/leoscript/leoscript/ir"
	"github.com/leoscript/leoscript/parser"
	"github.com/leoscript/leoscript/stdlib"
	"github.com/leoscript/leoscript/value"
	"github.com/leoscript/leoscript/vm"
)

// Phase names a stage of the pipeline an error occurred in, so an embedder
// can tell a syntax mistake from a runtime fault without type-switching on
// the wrapped error.
type Phase int

const (
	PhaseParse Phase = iota
	PhaseCompile
	PhaseRun
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseCompile:
		return "compile"
	case PhaseRun:
		return "run"
	default:
		return "unknown"
	}
}

// ScriptError wraps a parser/compiler/vm error with the phase it came from.
type ScriptError struct {
	Phase Phase
	Err   error
}

func (e *ScriptError) Error() string { return e.Phase.String() + ": " + e.Err.Error() }
func (e *ScriptError) Unwrap() error { return e.Err }

// ScriptResult is everything a Run produces: the entrypoint's return value,
// any non-fatal parser warnings (import diagnostics), and per-phase timing.
type ScriptResult struct {
	Value value.Value

	Warnings []parser.Warning

	CompileTime   time.Duration
	ExecutionTime time.Duration
	TotalTime     time.Duration
}

// Option configures a Run/Compile call, following the same functional-options
// shape as vm.ThreadOption and gothird's VMOption.
type Option interface{ apply(*settings) }

type settings struct {
	importer      parser.Importer
	entrypoint    string
	params        []value.Value
	out           io.Writer
	threadOpts    []vm.ThreadOption
	installStdlib bool
}

func newSettings() *settings {
	return &settings{entrypoint: "main", out: io.Discard, installStdlib: true}
}

type optionFunc func(*settings)

func (f optionFunc) apply(s *settings) { f(s) }

// WithEntrypoint overrides the default "main" global to invoke.
func WithEntrypoint(name string) Option {
	return optionFunc(func(s *settings) { s.entrypoint = name })
}

// WithParams supplies the entrypoint's argument values.
func WithParams(params ...value.Value) Option {
	return optionFunc(func(s *settings) { s.params = params })
}

// WithImporter overrides the default filesystem import resolution, e.g. for
// running a script body held entirely in memory.
func WithImporter(importer parser.Importer) Option {
	return optionFunc(func(s *settings) { s.importer = importer })
}

// WithOutput directs both println and the VM's own Print opcode to w.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(s *settings) { s.out = w })
}

// WithThreadOptions forwards additional options to the underlying vm.Thread
// (instruction limit, trace logging). Use WithOutput, not vm.WithOutput
// directly, to set output — it needs to reach stdlib's println too.
func WithThreadOptions(opts ...vm.ThreadOption) Option {
	return optionFunc(func(s *settings) { s.threadOpts = append(s.threadOpts, opts...) })
}

// WithoutStdlib skips installing Math/Dictionary/String/println, for a
// script run that supplies its own globals.
func WithoutStdlib() Option {
	return optionFunc(func(s *settings) { s.installStdlib = false })
}

// Compile parses and compiles src into a ready-to-run ir.Program. It does
// not install the standard library or run anything — that's Execute's job
// — mirroring original_source's compile_program, which returns a bare
// Program plus warnings and leaves Thread::load_program/add_standard_library
// to the caller. Most callers want Run instead; Compile plus Execute are
// exposed separately for an embedder that wants to compile once and execute
// the same Program many times, possibly with different params each time
// (e.g. a CLI's -dump flag inspects the Program without ever executing it).
func Compile(src string, opts ...Option) (*ir.Program, []parser.Warning, error) {
	s := newSettings()
	for _, opt := range opts {
		opt.apply(s)
	}

	var prog *ir.Program
	var warnings []parser.Warning
	err := panicerr.Recover("script.Compile", func() error {
		res, err := parseWith(s, src)
		if err != nil {
			return &ScriptError{Phase: PhaseParse, Err: err}
		}
		warnings = res.Warnings

		prog, err = compiler.Compile(res.Declarations)
		if err != nil {
			return &ScriptError{Phase: PhaseCompile, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, warnings, err
	}
	return prog, warnings, nil
}

func parseWith(s *settings, src string) (*parser.Result, error) {
	if s.importer != nil {
		return parser.ParseWithImporter("script", src, s.importer)
	}
	return parser.Parse("script", src)
}

// Execute installs the standard library into prog (unless WithoutStdlib was
// given) and runs its entrypoint, timing the run. It takes an already
// compiled *ir.Program rather than source, so the same Program can be
// executed repeatedly with different WithParams/WithEntrypoint options
// without recompiling — mirroring original_source's execute_program, which
// loads a Program onto a fresh Thread and runs it directly. CompileTime is
// always zero and TotalTime equals ExecutionTime, since no compilation
// happened here; Run fills both in from its own Compile phase.
func Execute(ctx context.Context, prog *ir.Program, opts ...Option) (*ScriptResult, error) {
	s := newSettings()
	for _, opt := range opts {
		opt.apply(s)
	}

	var result ScriptResult
	err := panicerr.Recover("script.Execute", func() error {
		if s.installStdlib {
			stdlib.Install(prog.Globals, flushio.NewWriteFlusher(s.out))
		}

		threadOpts := append([]vm.ThreadOption{vm.WithOutput(s.out)}, s.threadOpts...)
		thread := vm.NewThread(prog, threadOpts...)

		runStart := time.Now()
		v, err := runWithContext(ctx, thread, s.entrypoint, s.params)
		result.ExecutionTime = time.Since(runStart)
		if err != nil {
			return &ScriptError{Phase: PhaseRun, Err: err}
		}
		result.Value = v
		return nil
	})

	result.TotalTime = result.ExecutionTime
	if err != nil {
		return &result, err
	}
	return &result, nil
}

// Run compiles src and executes its entrypoint in one call — the common
// case — mirroring original_source's run_script, which is compile_program
// followed by Thread::load_program/add_standard_library/Thread::run with
// compile_time and execution_time summed into total_time.
func Run(ctx context.Context, src string, opts ...Option) (*ScriptResult, error) {
	compileStart := time.Now()
	prog, warnings, err := Compile(src, opts...)
	compileTime := time.Since(compileStart)
	if err != nil {
		return &ScriptResult{Warnings: warnings, CompileTime: compileTime, TotalTime: compileTime}, err
	}

	result, err := Execute(ctx, prog, opts...)
	result.Warnings = warnings
	result.CompileTime = compileTime
	result.TotalTime = compileTime + result.ExecutionTime
	return result, err
}

// runWithContext drives thread.Run on a goroutine so a cancelled or
// deadline-exceeded ctx can return control to the caller promptly. The
// orphaned goroutine runs to completion (or hits its own instruction limit)
// in the background — Leo has no blocking I/O to interrupt mid-instruction,
// so there is nothing finer-grained to cancel than "stop waiting".
func runWithContext(ctx context.Context, thread *vm.Thread, entrypoint string, params []value.Value) (value.Value, error) {
	type outcome struct {
		v   value.Value
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := thread.Run(entrypoint, params)
		done <- outcome{v, err}
	}()

	select {
	case o := <-done:
		return o.v, o.err
	case <-ctx.Done():
		return value.NewNull(), ctx.Err()
	}
}
