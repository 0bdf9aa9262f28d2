package maincmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/Cheese-S/Dojo/lang/heap"
	"github.com/Cheese-S/Dojo/lang/vm"
)

// Repl runs a read-eval-print loop: one persistent heap and VM across every
// line, so a variable, function or class declared on one line stays in
// scope on the next, grounded on original_source/src/main.c's repl()
// (SPEC_FULL.md §C.3). A line that fails to compile or run reports its
// error and moves on to the next prompt rather than aborting the session.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio) mainer.ExitCode {
	h := heap.New()
	machine := vm.New(h)
	machine.Stdout, machine.Stderr = stdio.Stdout, stdio.Stderr

	sc := bufio.NewScanner(stdio.Stdin)
	fmt.Fprint(stdio.Stdout, "> ")
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return mainer.Success
		default:
		}

		if line := sc.Text(); line != "" {
			interpretSource(stdio, h, machine, "<stdin>", line)
		}
		fmt.Fprint(stdio.Stdout, "> ")
	}
	fmt.Fprintln(stdio.Stdout)
	return mainer.Success
}
