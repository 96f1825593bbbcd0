package stdlib

import (
	"fmt"

	"github.com/leoscript/leoscript/internal/flushio"
	"github.com/leoscript/leoscript/value"
)

// Printer is where the free println function writes, mirroring the same
// flushio.WriteFlusher the VM's own Print opcode writes through (vm.Thread's
// out field) — println is an ordinary stdlib native, not that opcode, since
// the compiler never emits ir.Print for a script-level call (see
// compiler/expressions.go: a bare identifier callee always compiles to a
// deferred PushFunctionRef looked up in Globals).
type Printer = flushio.WriteFlusher

func printlnFunc(out Printer) value.Native {
	return func(argv []value.Value) (value.Value, error) {
		if len(argv) != 1 {
			return value.Value{}, fmt.Errorf("println expects exactly one argument, got %d", len(argv))
		}
		fmt.Fprintln(out, argv[0].Display())
		out.Flush()
		return value.NewNull(), nil
	}
}
