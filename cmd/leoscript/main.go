// Command leoscript runs or compiles a Leo script, grounded on gothird's own
// main.go flag/logio.Logger idiom (a leveled Logger writing to stderr, whose
// ExitCode() drives os.Exit, plus the same -trace/-dump/-timeout shape),
// adapted from a single Forth-tape VM invocation to a run/compile subcommand
// pair over Leo's parse -> compile -> vm pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/leoscript/leoscript/internal/logio"
	"github.com/leoscript/leoscript/ir"
	"github.com/leoscript/leoscript/parser"
	"github.com/leoscript/leoscript/script"
	"github.com/leoscript/leoscript/value"
	"github.com/leoscript/leoscript/vm"
)

func main() {
	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	if len(os.Args) < 2 {
		log.Errorf("usage: leoscript <run|compile> [flags] <script.leo>")
		return
	}

	sub := os.Args[1]
	args := os.Args[2:]

	var err error
	switch sub {
	case "run":
		err = runCmd(&log, args)
	case "compile":
		err = compileCmd(&log, args)
	default:
		log.Errorf("unknown subcommand %q (want run or compile)", sub)
		return
	}
	log.ErrorIf(err)
}

type paramFlags []value.Value

func (p *paramFlags) String() string { return "" }

func (p *paramFlags) Set(raw string) error {
	*p = append(*p, parseParam(raw))
	return nil
}

// parseParam converts a -param flag's raw text into the Value it most
// specifically looks like: Integer, then Float, then Bool, falling back to
// String, the same way a literal written directly in script source would be
// read.
func parseParam(raw string) value.Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return value.NewInteger(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return value.NewFloat(f)
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return value.NewBool(b)
	}
	return value.NewString(raw)
}

func runCmd(log *logio.Logger, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	entrypoint := fs.String("entrypoint", "main", "global function to invoke")
	instructionLimit := fs.Int("instruction-limit", 0, "abort with InfiniteLoop after this many instructions (0 = unlimited)")
	timeout := fs.Duration("timeout", 0, "abort the run after this long (0 = unlimited)")
	trace := fs.Bool("trace", false, "log every executed instruction")
	var params paramFlags
	fs.Var(&params, "param", "an entrypoint argument (repeatable, in order)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("run: expected exactly one script path")
	}

	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	ctx := context.Background()
	if *timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	opts := []script.Option{
		script.WithEntrypoint(*entrypoint),
		script.WithParams(params...),
		script.WithOutput(os.Stdout),
	}
	if *instructionLimit > 0 {
		opts = append(opts, script.WithThreadOptions(vm.WithInstructionLimit(*instructionLimit)))
	}
	if *trace {
		opts = append(opts, script.WithThreadOptions(vm.WithLogf(log.Leveledf("TRACE"))))
	}

	result, err := script.Run(ctx, string(src), opts...)
	logWarnings(log, result)
	if err != nil {
		return err
	}
	log.Printf("RESULT", "%s", result.Value.Display())
	log.Printf("TIMING", "compile=%s execution=%s total=%s",
		result.CompileTime, result.ExecutionTime, result.TotalTime)
	return nil
}

func compileCmd(log *logio.Logger, args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	dump := fs.Bool("dump", false, "print the compiled instruction stream")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("compile: expected exactly one script path")
	}

	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	prog, warnings, err := script.Compile(string(src))
	for _, w := range warnings {
		log.Printf("WARN", "%s: %s at %v", w.Kind, w.Detail, w.Pos)
	}
	if err != nil {
		return err
	}

	if *dump {
		dumpProgram(log, prog)
	} else {
		log.Printf("COMPILE", "%d instructions, %d globals", len(prog.Instructions), len(prog.Globals))
	}
	return nil
}

func dumpProgram(log *logio.Logger, prog *ir.Program) {
	for i, instr := range prog.Instructions {
		log.Printf("DUMP", "%4d  %s", i, instr.Op)
	}
}

func logWarnings(log *logio.Logger, result *script.ScriptResult) {
	if result == nil {
		return
	}
	logWarningList(log, result.Warnings)
}

func logWarningList(log *logio.Logger, warnings []parser.Warning) {
	for _, w := range warnings {
		log.Printf("WARN", "%s: %s at %v", w.Kind, w.Detail, w.Pos)
	}
}
