package vm

import (
	"fmt"
	"strings"
)

// runtimeErrorf builds a *RuntimeError carrying format/args as its message
// and a frame-by-frame trace, top frame first, in the
// "[Line N] in <fn name|script>" shape spec.md §4.G.6/§7 requires.
func (vm *VM) runtimeErrorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)

	var b strings.Builder
	for i := vm.frameCount - 1; i >= 0; i-- {
		f := &vm.frames[i]
		name := "script"
		if f.closure.Fn.Name != nil {
			name = f.closure.Fn.Name.Chars + "()"
		}
		fmt.Fprintf(&b, "[Line %d] in %s\n", vm.currentLine(f), name)
	}
	return &RuntimeError{msg: msg, Trace: b.String()}
}
