package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/Cheese-S/Dojo/lang/compiler"
	"github.com/Cheese-S/Dojo/lang/heap"
	"github.com/Cheese-S/Dojo/lang/parser"
	"github.com/Cheese-S/Dojo/lang/scanner"
	"github.com/Cheese-S/Dojo/lang/vm"
)

// Run compiles and interprets the script at path to completion (spec.md
// §6.2). There is no resolver phase in Dojo's single-pass pipeline (spec.md
// §1, §4.F), so unlike the teacher's Resolve command this runs the program
// rather than merely annotating its AST.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, path string) mainer.ExitCode {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "can't read file %q: %s\n", path, err)
		return ExitNoInput
	}

	h := heap.New()
	machine := vm.New(h)
	machine.Stdout, machine.Stderr = stdio.Stdout, stdio.Stderr

	return interpretSource(stdio, h, machine, path, string(src))
}

// interpretSource compiles src and, on success, runs it against machine,
// mapping compile and runtime failures to the exit codes spec.md §6.2
// requires. Shared by Run (one VM per process) and Repl (one VM, and one
// heap, reused across every line).
func interpretSource(stdio mainer.Stdio, h *heap.Heap, machine *vm.VM, filename, src string) mainer.ExitCode {
	prog, err := parser.Parse(filename, src)
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return ExitCompile
	}

	fn, err := compiler.Compile(h, filename, prog)
	if err != nil {
		compiler.PrintError(stdio.Stderr, err)
		return ExitCompile
	}

	if err := machine.Interpret(fn); err != nil {
		var rerr *vm.RuntimeError
		if errors.As(err, &rerr) {
			fmt.Fprintf(stdio.Stderr, "%s\n%s", rerr.Error(), rerr.Trace)
		} else {
			fmt.Fprintln(stdio.Stderr, err)
		}
		return ExitRuntime
	}
	return mainer.Success
}
