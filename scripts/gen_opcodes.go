// Command gen_opcodes scans ir/instruction.go's Op const block and emits
// ir/opcode_string.go, a String() method mapping each Op back to its name
// for trace and dump output. Piped through goimports the same way the
// teacher's gen_vm_expects.go pipes its output, using an errgroup to run
// the goimports subprocess and the generator concurrently over an io.Pipe.
//
//go:build ignore

package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

var (
	in  namedReader    = os.Stdin
	out io.WriteCloser = os.Stdout
)

func parseFlags() {
	flag.Parse()

	args := flag.Args()

	if len(args) > 0 {
		name := args[0]
		f, err := os.Open(name)
		if err != nil {
			log.Fatalf("failed to open %v: %v", name, err)
		}
		args = args[1:]
		in = f
	}

	if len(args) > 0 {
		name := args[0]
		f, err := os.Create(name)
		if err != nil {
			log.Fatalf("failed to create %v: %v", name, err)
		}
		args = args[1:]
		out = f
	}
}

func main() {
	ctx := context.Background()
	parseFlags()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	ready := make(chan struct{})

	eg.Go(func() error {
		gofmt := exec.CommandContext(ctx, "goimports")
		fmtPipe, err := gofmt.StdinPipe()
		if err != nil {
			return err
		}

		defer out.Close()
		gofmt.Stdout = out
		gofmt.Stderr = os.Stderr

		out = fmtPipe

		close(ready)
		if err := gofmt.Run(); err != nil {
			return fmt.Errorf("gofmt run failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		select {
		case <-ctx.Done():
		case <-ready:
		}

		defer func() {
			if cerr := in.Close(); rerr == nil {
				rerr = cerr
			}
			if cerr := out.Close(); rerr == nil {
				rerr = cerr
			}
		}()

		return run(ctx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

// opConst matches one line of the Op const block, e.g. "\tPushInteger" or
// the leading "\tNoOperation Op = iota".
// Blank lines, comments and the opCount sentinel are skipped by run.
var opConst = regexp.MustCompile(`^\t([A-Z][A-Za-z]*)(\s+Op\s*=\s*iota)?\s*$`)

func run(ctx context.Context) error {
	var buf bytes.Buffer
	buf.Grow(1024)
	buf.WriteString("// Code generated by scripts/gen_opcodes.go from instruction.go. DO NOT EDIT.\n\n")
	buf.WriteString("package ir\n\n")
	buf.WriteString("func (op Op) String() string {\n\tswitch op {\n")

	sc := bufio.NewScanner(in)
	inConstBlock := false
	for sc.Scan() {
		line := sc.Text()
		if bytes.Contains([]byte(line), []byte("Op uint8")) {
			inConstBlock = true
			continue
		}
		if !inConstBlock {
			continue
		}
		if match := opConst.FindStringSubmatch(line); match != nil {
			name := match[1]
			if name == "opCount" {
				continue
			}
			fmt.Fprintf(&buf, "\tcase %s:\n\t\treturn %q\n", name, name)
		}
		if line == ")" {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	buf.WriteString("\tdefault:\n\t\treturn \"Op(?)\"\n\t}\n}\n")

	_, err := buf.WriteTo(out)
	if err != nil {
		return err
	}
	return sc.Err()
}
