package vm

import (
	"io"

	"github.com/leoscript/leoscript/internal/flushio"
)

// ThreadOption configures a Thread at construction, mirroring gothird's
// VMOption/options.go functional-options shape (New(opts...), an internal
// options slice, a no-op zero value) generalized from one VM's Forth tape
// to one Thread's Leo value stack.
type ThreadOption interface{ apply(t *Thread) }

func WithOutput(w io.Writer) ThreadOption         { return outputOption{w} }
func WithInstructionLimit(n int) ThreadOption     { return instructionLimitOption(n) }
func WithLogf(logf func(string, ...interface{})) ThreadOption {
	return logfOption(logf)
}

var defaultOptions = ThreadOptions(outputOption{io.Discard})

// ThreadOptions flattens any number of options (including nested composites)
// into a single applicable option, exactly as gothird's VMOptions does.
func ThreadOptions(opts ...ThreadOption) ThreadOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(*Thread) {}

type options []ThreadOption

func (opts options) apply(t *Thread) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(t)
		}
	}
}

type outputOption struct{ io.Writer }

func (o outputOption) apply(t *Thread) {
	t.out = flushio.NewWriteFlusher(o.Writer)
}

type instructionLimitOption int

func (n instructionLimitOption) apply(t *Thread) { t.instructionLimit = int(n) }

type logfOption func(string, ...interface{})

func (fn logfOption) apply(t *Thread) { t.logf = fn }
